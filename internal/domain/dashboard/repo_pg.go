package dashboard

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harborview/clinic/internal/platform/apperr"
	"github.com/harborview/clinic/internal/platform/auth"
)

type PGRepository struct {
	pool *pgxpool.Pool
}

func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) CountActivePatients(ctx context.Context, scope auth.Scope) (int, error) {
	query := `SELECT COUNT(*) FROM patients WHERE is_active = TRUE`
	args := []any{}
	if scope.RestrictToProvider() {
		query += ` AND assigned_provider_id = $1`
		args = append(args, scope.UserID)
	}

	var n int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, apperr.Storage("dashboard.count_active", err)
	}
	return n, nil
}

func (r *PGRepository) CountCrisisPatients(ctx context.Context, scope auth.Scope) (int, error) {
	query := `SELECT COUNT(*) FROM patients WHERE is_active = TRUE AND risk_level IN ('high', 'critical')`
	args := []any{}
	if scope.RestrictToProvider() {
		query += ` AND assigned_provider_id = $1`
		args = append(args, scope.UserID)
	}

	var n int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, apperr.Storage("dashboard.count_crisis", err)
	}
	return n, nil
}

func (r *PGRepository) CountScheduledAppointments(ctx context.Context, scope auth.Scope, day time.Time) (int, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	query := `SELECT COUNT(*) FROM appointments
		WHERE status = 'scheduled' AND scheduled_at >= $1 AND scheduled_at < $2`
	args := []any{dayStart, dayEnd}
	if scope.RestrictToProvider() {
		query += ` AND provider_id = $3`
		args = append(args, scope.UserID)
	}

	var n int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, apperr.Storage("dashboard.count_appointments", err)
	}
	return n, nil
}

func (r *PGRepository) AverageScore(ctx context.Context, scope auth.Scope, instrumentID string, since time.Time) (float64, error) {
	query := `SELECT COALESCE(AVG(a.score), 0) FROM assessments a`
	args := []any{instrumentID, since}
	if scope.RestrictToProvider() {
		query += ` JOIN patients p ON p.id = a.patient_id`
	}
	query += ` WHERE a.instrument_id = $1 AND a.administered_at >= $2`
	if scope.RestrictToProvider() {
		query += ` AND p.assigned_provider_id = $3`
		args = append(args, scope.UserID)
	}

	var avg float64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&avg); err != nil {
		return 0, apperr.Storage("dashboard.average_score", err)
	}
	return avg, nil
}

func (r *PGRepository) ScoreTrend(ctx context.Context, scope auth.Scope, since time.Time) ([]TrendPoint, error) {
	query := `SELECT date_trunc('week', a.administered_at) AS week_start, a.instrument_id,
			AVG(a.score), COUNT(*)
		FROM assessments a`
	args := []any{since}
	if scope.RestrictToProvider() {
		query += ` JOIN patients p ON p.id = a.patient_id`
	}
	query += ` WHERE a.administered_at >= $1`
	if scope.RestrictToProvider() {
		query += ` AND p.assigned_provider_id = $2`
		args = append(args, scope.UserID)
	}
	query += ` GROUP BY week_start, a.instrument_id ORDER BY week_start, a.instrument_id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Storage("dashboard.score_trend", err)
	}
	defer rows.Close()

	var points []TrendPoint
	for rows.Next() {
		var tp TrendPoint
		if err := rows.Scan(&tp.WeekStart, &tp.InstrumentID, &tp.AvgScore, &tp.Count); err != nil {
			return nil, apperr.Storage("dashboard.score_trend.scan", err)
		}
		points = append(points, tp)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage("dashboard.score_trend", err)
	}
	return points, nil
}
