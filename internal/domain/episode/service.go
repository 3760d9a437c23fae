package episode

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/harborview/clinic/internal/domain/patient"
	"github.com/harborview/clinic/internal/platform/apperr"
	"github.com/harborview/clinic/internal/platform/auth"
)

// PatientReader is the slice of the patient store this service needs for
// access checks.
type PatientReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error)
}

// CreateInput opens a new care episode.
type CreateInput struct {
	PatientID      uuid.UUID `json:"patient_id"`
	EpisodeType    string    `json:"episode_type"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	DiagnosisCodes []string  `json:"diagnosis_codes"`
	TreatmentGoals []string  `json:"treatment_goals"`
	Notes          *string   `json:"notes"`
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
		logger:   logger.With().Str("service", "episode").Logger(),
	}
}

func (s *Service) Create(ctx context.Context, scope auth.Scope, in CreateInput) (*Episode, error) {
	if !scope.Authenticated() {
		return nil, apperr.Unauthorized()
	}
	if in.PatientID == uuid.Nil {
		return nil, apperr.Validation("patient_id", "is required")
	}
	if !ValidType(in.EpisodeType) {
		return nil, apperr.Validation("episode_type", "must be one of initial, continuing, crisis, followup")
	}

	start := time.Now().UTC().Truncate(24 * time.Hour)
	if in.StartDate != "" {
		parsed, err := time.Parse("2006-01-02", in.StartDate)
		if err != nil {
			return nil, apperr.Validation("start_date", "must be a date in YYYY-MM-DD form")
		}
		start = parsed
	}
	var end *time.Time
	if in.EndDate != "" {
		parsed, err := time.Parse("2006-01-02", in.EndDate)
		if err != nil {
			return nil, apperr.Validation("end_date", "must be a date in YYYY-MM-DD form")
		}
		if parsed.Before(start) {
			return nil, apperr.Validation("end_date", "must not precede start_date")
		}
		end = &parsed
	}

	p, err := s.patients.GetByID(ctx, in.PatientID)
	if err != nil {
		return nil, err
	}
	if !scope.CanAccessPatient(p.AssignedProviderID) {
		return nil, apperr.Forbidden()
	}

	codes := in.DiagnosisCodes
	if codes == nil {
		codes = []string{}
	}
	goals := in.TreatmentGoals
	if goals == nil {
		goals = []string{}
	}

	now := time.Now().UTC()
	ep := &Episode{
		ID:             uuid.New(),
		PatientID:      in.PatientID,
		ProviderID:     scope.UserID,
		EpisodeType:    in.EpisodeType,
		Status:         StatusActive,
		StartDate:      start,
		EndDate:        end,
		DiagnosisCodes: codes,
		TreatmentGoals: goals,
		Notes:          in.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(ctx, ep); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("episode_id", ep.ID.String()).
		Str("patient_id", ep.PatientID.String()).
		Str("episode_type", ep.EpisodeType).
		Msg("episode opened")
	return ep, nil
}

func (s *Service) Get(ctx context.Context, scope auth.Scope, id uuid.UUID) (*Episode, error) {
	if !scope.Authenticated() {
		return nil, apperr.Unauthorized()
	}
	ep, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkPatientAccess(ctx, scope, ep.PatientID); err != nil {
		return nil, err
	}
	return ep, nil
}

func (s *Service) List(ctx context.Context, scope auth.Scope, filter ListFilter, limit, offset int) ([]*Episode, int, error) {
	if !scope.Authenticated() {
		return nil, 0, apperr.Unauthorized()
	}
	if filter.Status != "" && filter.Status != StatusActive && filter.Status != StatusClosed {
		return nil, 0, apperr.Validation("status", "must be active or closed")
	}
	return s.repo.List(ctx, scope, filter, limit, offset)
}

// Close ends an active episode. The end date defaults to today and must not
// precede the episode's start date.
func (s *Service) Close(ctx context.Context, scope auth.Scope, id uuid.UUID, endDate string) (*Episode, error) {
	ep, err := s.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if ep.Status == StatusClosed {
		return nil, apperr.Validation("status", "episode is already closed")
	}

	end := time.Now().UTC().Truncate(24 * time.Hour)
	if endDate != "" {
		parsed, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			return nil, apperr.Validation("end_date", "must be a date in YYYY-MM-DD form")
		}
		end = parsed
	}
	if end.Before(ep.StartDate) {
		return nil, apperr.Validation("end_date", "must not precede start_date")
	}

	ep.Status = StatusClosed
	ep.EndDate = &end
	ep.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, ep); err != nil {
		return nil, err
	}

	s.logger.Info().Str("episode_id", ep.ID.String()).Msg("episode closed")
	return ep, nil
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
