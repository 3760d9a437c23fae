package patient

import (
	"time"

	"github.com/google/uuid"

	"github.com/harborview/clinic/internal/domain/risk"
)

// Patient maps to the patients table. AssignedProviderID is the subject of
// the provider's auth token; role scoping compares against it.
type Patient struct {
	ID                 uuid.UUID  `db:"id" json:"id"`
	MRN                string     `db:"mrn" json:"mrn"`
	FirstName          string     `db:"first_name" json:"first_name"`
	LastName           string     `db:"last_name" json:"last_name"`
	DateOfBirth        time.Time  `db:"date_of_birth" json:"date_of_birth"`
	Gender             *string    `db:"gender" json:"gender,omitempty"`
	Phone              *string    `db:"phone" json:"phone,omitempty"`
	Email              *string    `db:"email" json:"email,omitempty"`
	PreferredLanguage  string     `db:"preferred_language" json:"preferred_language"`
	AssignedProviderID string     `db:"assigned_provider_id" json:"assigned_provider_id"`
	RiskLevel          risk.Level `db:"risk_level" json:"risk_level"`
	IsActive           bool       `db:"is_active" json:"is_active"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// ListFilter narrows a patient list query.
type ListFilter struct {
	// Search matches first name, last name, or MRN (case-insensitive).
	Search string
	// RiskLevel restricts to a single risk level when set.
	RiskLevel string
}
