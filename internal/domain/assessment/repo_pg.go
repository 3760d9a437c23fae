package assessment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harborview/clinic/internal/platform/apperr"
)

type PGRepository struct {
	pool *pgxpool.Pool
}

func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const assessmentColumns = `id, patient_id, instrument_id, administered_by_id, responses,
	score, max_score, severity, notes, administered_at, created_at`

func (r *PGRepository) Create(ctx context.Context, a *Assessment) error {
	responses, err := json.Marshal(a.Responses)
	if err != nil {
		return apperr.Storage("assessment.create", err)
	}

	query := `
		INSERT INTO assessments (id, patient_id, instrument_id, administered_by_id, responses,
			score, max_score, severity, notes, administered_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = r.pool.Exec(ctx, query,
		a.ID, a.PatientID, a.InstrumentID, a.AdministeredByID, responses,
		a.Score, a.MaxScore, a.Severity, a.Notes, a.AdministeredAt, a.CreatedAt)
	if err != nil {
		return apperr.Storage("assessment.create", err)
	}
	return nil
}

func (r *PGRepository) GetByID(ctx context.Context, id uuid.UUID) (*Assessment, error) {
	query := `SELECT ` + assessmentColumns + ` FROM assessments WHERE id = $1`

	a, err := scanAssessment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperr.Storage("assessment.get", pgx.ErrNoRows)
		}
		return nil, apperr.Storage("assessment.get", err)
	}
	return a, nil
}

func (r *PGRepository) ListByPatient(ctx context.Context, patientID uuid.UUID, instrumentID string, limit, offset int) ([]*Assessment, int, error) {
	where := "WHERE patient_id = $1"
	args := []any{patientID}
	arg := 2

	if instrumentID != "" {
		where += fmt.Sprintf(" AND instrument_id = $%d", arg)
		args = append(args, instrumentID)
		arg++
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM assessments "+where, args...).Scan(&total); err != nil {
		return nil, 0, apperr.Storage("assessment.list.count", err)
	}

	query := fmt.Sprintf("SELECT %s FROM assessments %s ORDER BY administered_at DESC LIMIT $%d OFFSET $%d",
		assessmentColumns, where, arg, arg+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperr.Storage("assessment.list", err)
	}
	defer rows.Close()

	var assessments []*Assessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, 0, apperr.Storage("assessment.list.scan", err)
		}
		assessments = append(assessments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.Storage("assessment.list", err)
	}
	return assessments, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAssessment(row rowScanner) (*Assessment, error) {
	var (
		a         Assessment
		responses []byte
	)
	err := row.Scan(
		&a.ID, &a.PatientID, &a.InstrumentID, &a.AdministeredByID, &responses,
		&a.Score, &a.MaxScore, &a.Severity, &a.Notes, &a.AdministeredAt, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(responses, &a.Responses); err != nil {
		return nil, err
	}
	return &a, nil
}
