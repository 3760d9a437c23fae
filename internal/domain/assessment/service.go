package assessment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/harborview/clinic/internal/domain/instrument"
	"github.com/harborview/clinic/internal/domain/patient"
	"github.com/harborview/clinic/internal/domain/risk"
	"github.com/harborview/clinic/internal/platform/apperr"
	"github.com/harborview/clinic/internal/platform/auth"
)

// PatientReader is the slice of the patient store this service needs for
// access checks.
type PatientReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error)
}

// SubmitInput carries a completed instrument administration.
type SubmitInput struct {
	PatientID      uuid.UUID      `json:"patient_id"`
	InstrumentID   string         `json:"instrument_id"`
	Responses      map[string]int `json:"responses"`
	Notes          *string        `json:"notes"`
	AdministeredAt *time.Time     `json:"administered_at"`
}

type Service struct {
	repo      Repository
	patients  PatientReader
	escalator *risk.Escalator
	logger    zerolog.Logger
}

func NewService(repo Repository, patients PatientReader, escalator *risk.Escalator, logger zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		patients:  patients,
		escalator: escalator,
		logger:    logger.With().Str("service", "assessment").Logger(),
	}
}

// Submit validates and scores a completed instrument, persists the record,
// then applies any risk escalation the score triggers. Validation failures
// write nothing; an escalation failure never rolls back the saved record.
func (s *Service) Submit(ctx context.Context, scope auth.Scope, in SubmitInput) (*Assessment, error) {
	if !scope.Authenticated() {
		return nil, apperr.Unauthorized()
	}
	if in.PatientID == uuid.Nil {
		return nil, apperr.Validation("patient_id", "is required")
	}

	ins, ok := instrument.Get(in.InstrumentID)
	if !ok {
		return nil, apperr.Validation("instrument_id", "unknown instrument")
	}
	result, err := ins.Score(in.Responses)
	if err != nil {
		return nil, err
	}

	p, err := s.patients.GetByID(ctx, in.PatientID)
	if err != nil {
		return nil, err
	}
	if !scope.CanAccessPatient(p.AssignedProviderID) {
		return nil, apperr.Forbidden()
	}

	now := time.Now().UTC()
	administeredAt := now
	if in.AdministeredAt != nil {
		administeredAt = in.AdministeredAt.UTC()
	}

	a := &Assessment{
		ID:               uuid.New(),
		PatientID:        in.PatientID,
		InstrumentID:     ins.ID,
		AdministeredByID: scope.UserID,
		Responses:        in.Responses,
		Score:            result.Score,
		MaxScore:         result.MaxScore,
		Severity:         result.Severity,
		Notes:            in.Notes,
		AdministeredAt:   administeredAt,
		CreatedAt:        now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("assessment_id", a.ID.String()).
		Str("patient_id", a.PatientID.String()).
		Str("instrument_id", a.InstrumentID).
		Int("score", a.Score).
		Str("severity", a.Severity).
		Msg("assessment recorded")

	if target, ok := risk.TargetFromAssessment(a.InstrumentID, a.Score); ok {
		s.escalator.Apply(ctx, a.PatientID, target)
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, scope auth.Scope, id uuid.UUID) (*Assessment, error) {
	if !scope.Authenticated() {
		return nil, apperr.Unauthorized()
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkPatientAccess(ctx, scope, a.PatientID); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) ListByPatient(ctx context.Context, scope auth.Scope, patientID uuid.UUID, instrumentID string, limit, offset int) ([]*Assessment, int, error) {
	if !scope.Authenticated() {
		return nil, 0, apperr.Unauthorized()
	}
	if instrumentID != "" {
		if _, ok := instrument.Get(instrumentID); !ok {
			return nil, 0, apperr.Validation("instrument_id", "unknown instrument")
		}
	}
	if err := s.checkPatientAccess(ctx, scope, patientID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListByPatient(ctx, patientID, instrumentID, limit, offset)
}

func (s *Service) checkPatientAccess(ctx context.Context, scope auth.Scope, patientID uuid.UUID) error {
	if !scope.RestrictToProvider() {
		return nil
	}
	p, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return err
	}
	if !scope.CanAccessPatient(p.AssignedProviderID) {
		return apperr.Forbidden()
	}
	return nil
}
