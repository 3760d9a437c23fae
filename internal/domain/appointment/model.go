package appointment

import (
	"time"

	"github.com/google/uuid"
)

// Appointment statuses.
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"
)

// Appointment is a scheduled visit. Only scheduled appointments count toward
// the dashboard's daily total.
type Appointment struct {
	ID              uuid.UUID `db:"id" json:"id"`
	PatientID       uuid.UUID `db:"patient_id" json:"patient_id"`
	ProviderID      string    `db:"provider_id" json:"provider_id"`
	ScheduledAt     time.Time `db:"scheduled_at" json:"scheduled_at"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	VisitType       string    `db:"visit_type" json:"visit_type"`
	Status          string    `db:"status" json:"status"`
	Notes           *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// ValidStatus reports whether s is a known appointment status.
func ValidStatus(s string) bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}
