package crisis

import (
	"time"

	"github.com/google/uuid"

	"github.com/harborview/clinic/internal/domain/risk"
)

// Event statuses.
const (
	StatusActive   = "active"
	StatusResolved = "resolved"
)

// Event is a documented crisis for a patient. High and critical events
// escalate the patient's stored risk level when recorded.
type Event struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	PatientID       uuid.UUID  `db:"patient_id" json:"patient_id"`
	ReportedByID    string     `db:"reported_by_id" json:"reported_by_id"`
	EventType       string     `db:"event_type" json:"event_type"`
	Severity        risk.Level `db:"severity" json:"severity"`
	Description     string     `db:"description" json:"description"`
	Interventions   *string    `db:"interventions" json:"interventions,omitempty"`
	OccurredAt      time.Time  `db:"occurred_at" json:"occurred_at"`
	Status          string     `db:"status" json:"status"`
	ResolvedAt      *time.Time `db:"resolved_at" json:"resolved_at,omitempty"`
	ResolutionNotes *string    `db:"resolution_notes" json:"resolution_notes,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}
