package assessment

import (
	"time"

	"github.com/google/uuid"
)

// Assessment is one administered instrument for one patient. Responses are
// stored verbatim alongside the derived score so records can be re-audited.
// Repeated submissions of the same responses create independent records.
type Assessment struct {
	ID               uuid.UUID      `db:"id" json:"id"`
	PatientID        uuid.UUID      `db:"patient_id" json:"patient_id"`
	InstrumentID     string         `db:"instrument_id" json:"instrument_id"`
	AdministeredByID string         `db:"administered_by_id" json:"administered_by_id"`
	Responses        map[string]int `db:"responses" json:"responses"`
	Score            int            `db:"score" json:"score"`
	MaxScore         int            `db:"max_score" json:"max_score"`
	Severity         string         `db:"severity" json:"severity"`
	Notes            *string        `db:"notes" json:"notes,omitempty"`
	AdministeredAt   time.Time      `db:"administered_at" json:"administered_at"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
}
