package dashboard

import (
	"context"
	"time"

	"github.com/harborview/clinic/internal/platform/auth"
)

// Repository runs the aggregate queries behind the dashboard. Every query
// applies the caller's scope so providers aggregate over their own panel.
type Repository interface {
	CountActivePatients(ctx context.Context, scope auth.Scope) (int, error)
	// CountCrisisPatients counts active patients at high or critical risk.
	CountCrisisPatients(ctx context.Context, scope auth.Scope) (int, error)
	// CountScheduledAppointments counts still-scheduled appointments on the
	// given UTC day.
	CountScheduledAppointments(ctx context.Context, scope auth.Scope, day time.Time) (int, error)
	// AverageScore averages assessment scores for one instrument since the
	// given time, returning 0 when no rows match.
	AverageScore(ctx context.Context, scope auth.Scope, instrumentID string, since time.Time) (float64, error)
	// ScoreTrend returns weekly average-score buckets per instrument since
	// the given time, oldest week first.
	ScoreTrend(ctx context.Context, scope auth.Scope, since time.Time) ([]TrendPoint, error)
}
