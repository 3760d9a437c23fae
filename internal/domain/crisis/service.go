package crisis

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

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

// CreateInput carries a newly reported crisis event.
type CreateInput struct {
	PatientID     uuid.UUID  `json:"patient_id"`
	EventType     string     `json:"event_type"`
	Severity      risk.Level `json:"severity"`
	Description   string     `json:"description"`
	Interventions *string    `json:"interventions"`
	OccurredAt    *time.Time `json:"occurred_at"`
}

// ResolveInput closes an active crisis event.
type ResolveInput struct {
	ResolutionNotes *string `json:"resolution_notes"`
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
		logger:    logger.With().Str("service", "crisis").Logger(),
	}
}

// Report records a crisis event, then escalates the patient's risk level
// when the severity is high or critical. An escalation failure never rolls
// back the saved event.
func (s *Service) Report(ctx context.Context, scope auth.Scope, in CreateInput) (*Event, error) {
	if !scope.Authenticated() {
		return nil, apperr.Unauthorized()
	}
	if in.PatientID == uuid.Nil {
		return nil, apperr.Validation("patient_id", "is required")
	}
	if strings.TrimSpace(in.EventType) == "" {
		return nil, apperr.Validation("event_type", "is required")
	}
	if !in.Severity.Valid() {
		return nil, apperr.Validation("severity", "must be one of low, moderate, high, critical")
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, apperr.Validation("description", "is required")
	}

	p, err := s.patients.GetByID(ctx, in.PatientID)
	if err != nil {
		return nil, err
	}
	if !scope.CanAccessPatient(p.AssignedProviderID) {
		return nil, apperr.Forbidden()
	}

	now := time.Now().UTC()
	occurredAt := now
	if in.OccurredAt != nil {
		occurredAt = in.OccurredAt.UTC()
	}

	ev := &Event{
		ID:            uuid.New(),
		PatientID:     in.PatientID,
		ReportedByID:  scope.UserID,
		EventType:     strings.TrimSpace(in.EventType),
		Severity:      in.Severity,
		Description:   strings.TrimSpace(in.Description),
		Interventions: in.Interventions,
		OccurredAt:    occurredAt,
		Status:        StatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, ev); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("event_id", ev.ID.String()).
		Str("patient_id", ev.PatientID.String()).
		Str("severity", string(ev.Severity)).
		Msg("crisis event reported")

	if target, ok := risk.TargetFromCrisis(ev.Severity); ok {
		s.escalator.Apply(ctx, ev.PatientID, target)
	}
	return ev, nil
}

// Resolve closes an active event. Resolving an already resolved event is an
// error so a second clinician's notes cannot silently replace the first's.
func (s *Service) Resolve(ctx context.Context, scope auth.Scope, id uuid.UUID, in ResolveInput) (*Event, error) {
	if !scope.Authenticated() {
		return nil, apperr.Unauthorized()
	}
	ev, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkPatientAccess(ctx, scope, ev.PatientID); err != nil {
		return nil, err
	}
	if ev.Status == StatusResolved {
		return nil, apperr.Validation("status", "event is already resolved")
	}

	now := time.Now().UTC()
	ev.Status = StatusResolved
	ev.ResolvedAt = &now
	ev.ResolutionNotes = in.ResolutionNotes
	ev.UpdatedAt = now
	if err := s.repo.Update(ctx, ev); err != nil {
		return nil, err
	}

	s.logger.Info().Str("event_id", ev.ID.String()).Msg("crisis event resolved")
	return ev, nil
}

func (s *Service) ListActive(ctx context.Context, scope auth.Scope, limit, offset int) ([]*Event, int, error) {
	if !scope.Authenticated() {
		return nil, 0, apperr.Unauthorized()
	}
	return s.repo.ListActive(ctx, scope, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, scope auth.Scope, patientID uuid.UUID, limit, offset int) ([]*Event, int, error) {
	if !scope.Authenticated() {
		return nil, 0, apperr.Unauthorized()
	}
	if err := s.checkPatientAccess(ctx, scope, patientID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
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
