package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/harborview/clinic/internal/domain/patient"
	"github.com/harborview/clinic/internal/platform/apperr"
	"github.com/harborview/clinic/internal/platform/auth"
)

const defaultDurationMinutes = 50

// PatientReader is the slice of the patient store this service needs for
// access checks.
type PatientReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error)
}

// CreateInput schedules a visit.
type CreateInput struct {
	PatientID       uuid.UUID  `json:"patient_id"`
	ScheduledAt     *time.Time `json:"scheduled_at"`
	DurationMinutes int        `json:"duration_minutes"`
	VisitType       string     `json:"visit_type"`
	Notes           *string    `json:"notes"`
}

type Service struct {
	repo     Repository
	patients PatientReader
	logger   zerolog.Logger
}

func NewService(repo Repository, patients PatientReader, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		patients: patients,
		logger:   logger.With().Str("service", "appointment").Logger(),
	}
}

func (s *Service) Create(ctx context.Context, scope auth.Scope, in CreateInput) (*Appointment, error) {
	if !scope.Authenticated() {
		return nil, apperr.Unauthorized()
	}
	if in.PatientID == uuid.Nil {
		return nil, apperr.Validation("patient_id", "is required")
	}
	if in.ScheduledAt == nil {
		return nil, apperr.Validation("scheduled_at", "is required")
	}
	if in.DurationMinutes < 0 {
		return nil, apperr.Validation("duration_minutes", "must not be negative")
	}

	p, err := s.patients.GetByID(ctx, in.PatientID)
	if err != nil {
		return nil, err
	}
	if !scope.CanAccessPatient(p.AssignedProviderID) {
		return nil, apperr.Forbidden()
	}

	duration := in.DurationMinutes
	if duration == 0 {
		duration = defaultDurationMinutes
	}
	visitType := in.VisitType
	if visitType == "" {
		visitType = "therapy"
	}

	now := time.Now().UTC()
	appt := &Appointment{
		ID:              uuid.New(),
		PatientID:       in.PatientID,
		ProviderID:      scope.UserID,
		ScheduledAt:     in.ScheduledAt.UTC(),
		DurationMinutes: duration,
		VisitType:       visitType,
		Status:          StatusScheduled,
		Notes:           in.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(ctx, appt); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("appointment_id", appt.ID.String()).
		Str("patient_id", appt.PatientID.String()).
		Time("scheduled_at", appt.ScheduledAt).
		Msg("appointment scheduled")
	return appt, nil
}

func (s *Service) SetStatus(ctx context.Context, scope auth.Scope, id uuid.UUID, status string) (*Appointment, error) {
	if !scope.Authenticated() {
		return nil, apperr.Unauthorized()
	}
	if !ValidStatus(status) {
		return nil, apperr.Validation("status", "must be one of scheduled, completed, cancelled, no_show")
	}

	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if scope.RestrictToProvider() && appt.ProviderID != scope.UserID {
		return nil, apperr.Forbidden()
	}
	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		return nil, err
	}
	appt.Status = status
	return appt, nil
}

func (s *Service) ListByDay(ctx context.Context, scope auth.Scope, day time.Time, limit, offset int) ([]*Appointment, int, error) {
	if !scope.Authenticated() {
		return nil, 0, apperr.Unauthorized()
	}
	return s.repo.ListByDay(ctx, scope, day, limit, offset)
}
