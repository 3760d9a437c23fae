package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
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

const appointmentColumns = `id, patient_id, provider_id, scheduled_at, duration_minutes,
	visit_type, status, notes, created_at, updated_at`

func (r *PGRepository) Create(ctx context.Context, appt *Appointment) error {
	query := `
		INSERT INTO appointments (id, patient_id, provider_id, scheduled_at, duration_minutes,
			visit_type, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, query,
		appt.ID, appt.PatientID, appt.ProviderID, appt.ScheduledAt, appt.DurationMinutes,
		appt.VisitType, appt.Status, appt.Notes, appt.CreatedAt, appt.UpdatedAt)
	if err != nil {
		return apperr.Storage("appointment.create", err)
	}
	return nil
}

func (r *PGRepository) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	appt, err := scanAppointment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, apperr.Storage("appointment.get", err)
	}
	return appt, nil
}

func (r *PGRepository) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE appointments SET status = $2, updated_at = $3 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		return apperr.Storage("appointment.set_status", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Storage("appointment.set_status", pgx.ErrNoRows)
	}
	return nil
}

func (r *PGRepository) ListByDay(ctx context.Context, scope auth.Scope, day time.Time, limit, offset int) ([]*Appointment, int, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	where := "WHERE scheduled_at >= $1 AND scheduled_at < $2"
	args := []any{dayStart, dayEnd}
	arg := 3

	if scope.RestrictToProvider() {
		where += fmt.Sprintf(" AND provider_id = $%d", arg)
		args = append(args, scope.UserID)
		arg++
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM appointments "+where, args...).Scan(&total); err != nil {
		return nil, 0, apperr.Storage("appointment.list_by_day.count", err)
	}

	query := fmt.Sprintf("SELECT %s FROM appointments %s ORDER BY scheduled_at LIMIT $%d OFFSET $%d",
		appointmentColumns, where, arg, arg+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperr.Storage("appointment.list_by_day", err)
	}
	defer rows.Close()

	var appts []*Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, 0, apperr.Storage("appointment.list_by_day.scan", err)
		}
		appts = append(appts, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.Storage("appointment.list_by_day", err)
	}
	return appts, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row rowScanner) (*Appointment, error) {
	var appt Appointment
	err := row.Scan(
		&appt.ID, &appt.PatientID, &appt.ProviderID, &appt.ScheduledAt, &appt.DurationMinutes,
		&appt.VisitType, &appt.Status, &appt.Notes, &appt.CreatedAt, &appt.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &appt, nil
}
