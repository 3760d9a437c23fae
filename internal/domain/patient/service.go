package patient

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/harborview/clinic/internal/domain/risk"
	"github.com/harborview/clinic/internal/platform/apperr"
	"github.com/harborview/clinic/internal/platform/auth"
)

// CreateInput carries the fields a caller may set when registering a patient.
type CreateInput struct {
	MRN                string  `json:"mrn"`
	FirstName          string  `json:"first_name"`
	LastName           string  `json:"last_name"`
	DateOfBirth        string  `json:"date_of_birth"`
	Gender             *string `json:"gender"`
	Phone              *string `json:"phone"`
	Email              *string `json:"email"`
	PreferredLanguage  string  `json:"preferred_language"`
	AssignedProviderID string  `json:"assigned_provider_id"`
}

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger.With().Str("service", "patient").Logger()}
}

func (s *Service) Create(ctx context.Context, scope auth.Scope, in CreateInput) (*Patient, error) {
	if !scope.Authenticated() {
		return nil, apperr.Unauthorized()
	}
	if strings.TrimSpace(in.MRN) == "" {
		return nil, apperr.Validation("mrn", "is required")
	}
	if strings.TrimSpace(in.FirstName) == "" {
		return nil, apperr.Validation("first_name", "is required")
	}
	if strings.TrimSpace(in.LastName) == "" {
		return nil, apperr.Validation("last_name", "is required")
	}
	dob, err := time.Parse("2006-01-02", in.DateOfBirth)
	if err != nil {
		return nil, apperr.Validation("date_of_birth", "must be a date in YYYY-MM-DD form")
	}

	providerID := in.AssignedProviderID
	if providerID == "" {
		providerID = scope.UserID
	}
	lang := in.PreferredLanguage
	if lang == "" {
		lang = "en"
	}

	now := time.Now().UTC()
	p := &Patient{
		ID:                 uuid.New(),
		MRN:                strings.TrimSpace(in.MRN),
		FirstName:          strings.TrimSpace(in.FirstName),
		LastName:           strings.TrimSpace(in.LastName),
		DateOfBirth:        dob,
		Gender:             in.Gender,
		Phone:              in.Phone,
		Email:              in.Email,
		PreferredLanguage:  lang,
		AssignedProviderID: providerID,
		RiskLevel:          risk.Low,
		IsActive:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info().Str("patient_id", p.ID.String()).Str("mrn", p.MRN).Msg("patient registered")
	return p, nil
}

func (s *Service) Get(ctx context.Context, scope auth.Scope, id uuid.UUID) (*Patient, error) {
	if !scope.Authenticated() {
		return nil, apperr.Unauthorized()
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !scope.CanAccessPatient(p.AssignedProviderID) {
		return nil, apperr.Forbidden()
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, scope auth.Scope, filter ListFilter, limit, offset int) ([]*Patient, int, error) {
	if !scope.Authenticated() {
		return nil, 0, apperr.Unauthorized()
	}
	return s.repo.List(ctx, scope, filter, limit, offset)
}

// Deactivate marks a patient inactive without deleting the chart.
func (s *Service) Deactivate(ctx context.Context, scope auth.Scope, id uuid.UUID) error {
	p, err := s.Get(ctx, scope, id)
	if err != nil {
		return err
	}
	if !p.IsActive {
		return nil
	}
	p.IsActive = false
	if err := s.repo.Update(ctx, p); err != nil {
		return err
	}
	s.logger.Info().Str("patient_id", id.String()).Msg("patient deactivated")
	return nil
}

// SetRiskLevel satisfies risk.LevelSetter so escalation can write through
// the same repository the rest of the service uses.
func (s *Service) SetRiskLevel(ctx context.Context, patientID uuid.UUID, level risk.Level) error {
	return s.repo.SetRiskLevel(ctx, patientID, level)
}
