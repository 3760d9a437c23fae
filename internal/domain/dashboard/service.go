package dashboard

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/harborview/clinic/internal/domain/instrument"
	"github.com/harborview/clinic/internal/platform/apperr"
	"github.com/harborview/clinic/internal/platform/auth"
)

const averageWindow = 30 * 24 * time.Hour

type Service struct {
	repo   Repository
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("service", "dashboard").Logger(),
		now:    time.Now,
	}
}

// Stats assembles the dashboard snapshot for the caller's scope.
func (s *Service) Stats(ctx context.Context, scope auth.Scope) (*Stats, error) {
	if !scope.Authenticated() {
		return nil, apperr.Unauthorized()
	}

	now := s.now().UTC()
	since := now.Add(-averageWindow)

	activePatients, err := s.repo.CountActivePatients(ctx, scope)
	if err != nil {
		return nil, err
	}
	crisisPatients, err := s.repo.CountCrisisPatients(ctx, scope)
	if err != nil {
		return nil, err
	}
	todaysAppointments, err := s.repo.CountScheduledAppointments(ctx, scope, now)
	if err != nil {
		return nil, err
	}
	avgPHQ9, err := s.repo.AverageScore(ctx, scope, instrument.PHQ9, since)
	if err != nil {
		return nil, err
	}
	avgGAD7, err := s.repo.AverageScore(ctx, scope, instrument.GAD7, since)
	if err != nil {
		return nil, err
	}
	trend, err := s.repo.ScoreTrend(ctx, scope, since)
	if err != nil {
		return nil, err
	}
	if trend == nil {
		trend = []TrendPoint{}
	}

	return &Stats{
		ActivePatients:     activePatients,
		CrisisPatients:     crisisPatients,
		TodaysAppointments: todaysAppointments,
		AvgPHQ9Score:       avgPHQ9,
		AvgGAD7Score:       avgGAD7,
		ScoreTrend:         trend,
		GeneratedAt:        now,
	}, nil
}
