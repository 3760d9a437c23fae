package risk

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/harborview/clinic/internal/domain/instrument"
)

// Escalation thresholds for scored assessments.
const (
	phq9CriticalScore = 20
	phq9HighScore     = 15
	gad7HighScore     = 15
)

// TargetFromAssessment returns the risk level a scored assessment escalates
// its patient to, or false when the score triggers no escalation.
func TargetFromAssessment(instrumentID string, score int) (Level, bool) {
	switch instrumentID {
	case instrument.PHQ9:
		if score >= phq9CriticalScore {
			return Critical, true
		}
		if score >= phq9HighScore {
			return High, true
		}
	case instrument.GAD7:
		if score >= gad7HighScore {
			return High, true
		}
	}
	return "", false
}

// TargetFromCrisis returns the risk level a crisis event escalates its
// patient to, or false when the severity triggers no escalation.
func TargetFromCrisis(severity Level) (Level, bool) {
	if severity == High || severity == Critical {
		return severity, true
	}
	return "", false
}

// LevelSetter is the slice of the patient store the escalator needs.
type LevelSetter interface {
	SetRiskLevel(ctx context.Context, patientID uuid.UUID, level Level) error
}

// Escalator applies escalation targets to the patient record. It runs only
// after the triggering signal has been durably written, and its own failure
// is logged as a warning without failing or rolling back that write.
type Escalator struct {
	patients LevelSetter
	logger   zerolog.Logger
}

func NewEscalator(patients LevelSetter, logger zerolog.Logger) *Escalator {
	return &Escalator{patients: patients, logger: logger}
}

// Apply sets the patient's risk level to target, unconditionally overwriting
// the stored value. No comparison is made against the existing level, so a
// later lower-threshold signal replaces a higher stored level.
func (e *Escalator) Apply(ctx context.Context, patientID uuid.UUID, target Level) {
	if err := e.patients.SetRiskLevel(ctx, patientID, target); err != nil {
		e.logger.Warn().
			Err(err).
			Str("patient_id", patientID.String()).
			Str("target_level", string(target)).
			Msg("risk escalation failed; triggering record already persisted")
		return
	}
	e.logger.Info().
		Str("patient_id", patientID.String()).
		Str("risk_level", string(target)).
		Msg("patient risk level escalated")
}
