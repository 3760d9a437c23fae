package episode

import (
	"time"

	"github.com/google/uuid"
)

// Episode types.
const (
	TypeInitial    = "initial"
	TypeContinuing = "continuing"
	TypeCrisis     = "crisis"
	TypeFollowup   = "followup"
)

// Episode statuses.
const (
	StatusActive = "active"
	StatusClosed = "closed"
)

// Episode is a bounded course of care for a patient. EndDate is open while
// the episode is active and never precedes StartDate.
type Episode struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	PatientID      uuid.UUID  `db:"patient_id" json:"patient_id"`
	ProviderID     string     `db:"provider_id" json:"provider_id"`
	EpisodeType    string     `db:"episode_type" json:"episode_type"`
	Status         string     `db:"status" json:"status"`
	StartDate      time.Time  `db:"start_date" json:"start_date"`
	EndDate        *time.Time `db:"end_date" json:"end_date,omitempty"`
	DiagnosisCodes []string   `db:"diagnosis_codes" json:"diagnosis_codes"`
	TreatmentGoals []string   `db:"treatment_goals" json:"treatment_goals"`
	Notes          *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// ValidType reports whether t is a known episode type.
func ValidType(t string) bool {
	switch t {
	case TypeInitial, TypeContinuing, TypeCrisis, TypeFollowup:
		return true
	}
	return false
}

// ListFilter narrows an episode list query.
type ListFilter struct {
	PatientID uuid.UUID
	Status    string
}
