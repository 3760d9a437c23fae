package crisis

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

const eventColumns = `id, patient_id, reported_by_id, event_type, severity, description,
	interventions, occurred_at, status, resolved_at, resolution_notes, created_at, updated_at`

func (r *PGRepository) Create(ctx context.Context, ev *Event) error {
	query := `
		INSERT INTO crisis_events (id, patient_id, reported_by_id, event_type, severity, description,
			interventions, occurred_at, status, resolved_at, resolution_notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.pool.Exec(ctx, query,
		ev.ID, ev.PatientID, ev.ReportedByID, ev.EventType, ev.Severity, ev.Description,
		ev.Interventions, ev.OccurredAt, ev.Status, ev.ResolvedAt, ev.ResolutionNotes,
		ev.CreatedAt, ev.UpdatedAt)
	if err != nil {
		return apperr.Storage("crisis.create", err)
	}
	return nil
}

func (r *PGRepository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	query := `SELECT ` + eventColumns + ` FROM crisis_events WHERE id = $1`

	ev, err := scanEvent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, apperr.Storage("crisis.get", err)
	}
	return ev, nil
}

func (r *PGRepository) Update(ctx context.Context, ev *Event) error {
	query := `
		UPDATE crisis_events SET
			event_type = $2, severity = $3, description = $4, interventions = $5,
			occurred_at = $6, status = $7, resolved_at = $8, resolution_notes = $9, updated_at = $10
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		ev.ID, ev.EventType, ev.Severity, ev.Description, ev.Interventions,
		ev.OccurredAt, ev.Status, ev.ResolvedAt, ev.ResolutionNotes, time.Now().UTC())
	if err != nil {
		return apperr.Storage("crisis.update", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Storage("crisis.update", pgx.ErrNoRows)
	}
	return nil
}

func (r *PGRepository) ListActive(ctx context.Context, scope auth.Scope, limit, offset int) ([]*Event, int, error) {
	where := "WHERE ce.status = $1"
	args := []any{StatusActive}
	arg := 2

	join := ""
	if scope.RestrictToProvider() {
		join = " JOIN patients p ON p.id = ce.patient_id"
		where += fmt.Sprintf(" AND p.assigned_provider_id = $%d", arg)
		args = append(args, scope.UserID)
		arg++
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM crisis_events ce" + join + " " + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperr.Storage("crisis.list_active.count", err)
	}

	query := fmt.Sprintf("SELECT %s FROM crisis_events ce%s %s ORDER BY ce.occurred_at DESC LIMIT $%d OFFSET $%d",
		prefixColumns("ce"), join, where, arg, arg+1)
	args = append(args, limit, offset)

	return r.queryEvents(ctx, "crisis.list_active", query, args, total)
}

func (r *PGRepository) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Event, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM crisis_events WHERE patient_id = $1", patientID).Scan(&total); err != nil {
		return nil, 0, apperr.Storage("crisis.list_by_patient.count", err)
	}

	query := `SELECT ` + eventColumns + ` FROM crisis_events
		WHERE patient_id = $1 ORDER BY occurred_at DESC LIMIT $2 OFFSET $3`
	return r.queryEvents(ctx, "crisis.list_by_patient", query, []any{patientID, limit, offset}, total)
}

func (r *PGRepository) queryEvents(ctx context.Context, op, query string, args []any, total int) ([]*Event, int, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperr.Storage(op, err)
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, 0, apperr.Storage(op+".scan", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.Storage(op, err)
	}
	return events, total, nil
}

func prefixColumns(alias string) string {
	return alias + `.id, ` + alias + `.patient_id, ` + alias + `.reported_by_id, ` +
		alias + `.event_type, ` + alias + `.severity, ` + alias + `.description, ` +
		alias + `.interventions, ` + alias + `.occurred_at, ` + alias + `.status, ` +
		alias + `.resolved_at, ` + alias + `.resolution_notes, ` +
		alias + `.created_at, ` + alias + `.updated_at`
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*Event, error) {
	var ev Event
	err := row.Scan(
		&ev.ID, &ev.PatientID, &ev.ReportedByID, &ev.EventType, &ev.Severity, &ev.Description,
		&ev.Interventions, &ev.OccurredAt, &ev.Status, &ev.ResolvedAt, &ev.ResolutionNotes,
		&ev.CreatedAt, &ev.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &ev, nil
}
