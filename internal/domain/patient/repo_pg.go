package patient

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harborview/clinic/internal/domain/risk"
	"github.com/harborview/clinic/internal/platform/apperr"
	"github.com/harborview/clinic/internal/platform/auth"
)

type PGRepository struct {
	pool *pgxpool.Pool
}

func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const patientColumns = `id, mrn, first_name, last_name, date_of_birth, gender, phone, email,
	preferred_language, assigned_provider_id, risk_level, is_active, created_at, updated_at`

func (r *PGRepository) Create(ctx context.Context, p *Patient) error {
	query := `
		INSERT INTO patients (id, mrn, first_name, last_name, date_of_birth, gender, phone, email,
			preferred_language, assigned_provider_id, risk_level, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.MRN, p.FirstName, p.LastName, p.DateOfBirth, p.Gender, p.Phone, p.Email,
		p.PreferredLanguage, p.AssignedProviderID, p.RiskLevel, p.IsActive, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return apperr.Storage("patient.create", err)
	}
	return nil
}

func (r *PGRepository) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`

	p, err := scanPatient(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperr.Storage("patient.get", pgx.ErrNoRows)
		}
		return nil, apperr.Storage("patient.get", err)
	}
	return p, nil
}

func (r *PGRepository) Update(ctx context.Context, p *Patient) error {
	query := `
		UPDATE patients SET
			mrn = $2, first_name = $3, last_name = $4, date_of_birth = $5, gender = $6,
			phone = $7, email = $8, preferred_language = $9, assigned_provider_id = $10,
			risk_level = $11, is_active = $12, updated_at = $13
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		p.ID, p.MRN, p.FirstName, p.LastName, p.DateOfBirth, p.Gender,
		p.Phone, p.Email, p.PreferredLanguage, p.AssignedProviderID,
		p.RiskLevel, p.IsActive, time.Now().UTC())
	if err != nil {
		return apperr.Storage("patient.update", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Storage("patient.update", pgx.ErrNoRows)
	}
	return nil
}

func (r *PGRepository) List(ctx context.Context, scope auth.Scope, filter ListFilter, limit, offset int) ([]*Patient, int, error) {
	where := "WHERE is_active = TRUE"
	args := []any{}
	arg := 1

	if scope.RestrictToProvider() {
		where += fmt.Sprintf(" AND assigned_provider_id = $%d", arg)
		args = append(args, scope.UserID)
		arg++
	}
	if filter.Search != "" {
		where += fmt.Sprintf(" AND (first_name ILIKE $%d OR last_name ILIKE $%d OR mrn ILIKE $%d)", arg, arg, arg)
		args = append(args, "%"+filter.Search+"%")
		arg++
	}
	if filter.RiskLevel != "" {
		where += fmt.Sprintf(" AND risk_level = $%d", arg)
		args = append(args, filter.RiskLevel)
		arg++
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM patients "+where, args...).Scan(&total); err != nil {
		return nil, 0, apperr.Storage("patient.list.count", err)
	}

	query := fmt.Sprintf("SELECT %s FROM patients %s ORDER BY last_name, first_name LIMIT $%d OFFSET $%d",
		patientColumns, where, arg, arg+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperr.Storage("patient.list", err)
	}
	defer rows.Close()

	var patients []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, apperr.Storage("patient.list.scan", err)
		}
		patients = append(patients, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.Storage("patient.list", err)
	}
	return patients, total, nil
}

func (r *PGRepository) SetRiskLevel(ctx context.Context, id uuid.UUID, level risk.Level) error {
	query := `UPDATE patients SET risk_level = $2, updated_at = $3 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, level, time.Now().UTC())
	if err != nil {
		return apperr.Storage("patient.set_risk_level", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Storage("patient.set_risk_level", pgx.ErrNoRows)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPatient(row rowScanner) (*Patient, error) {
	var p Patient
	err := row.Scan(
		&p.ID, &p.MRN, &p.FirstName, &p.LastName, &p.DateOfBirth, &p.Gender, &p.Phone, &p.Email,
		&p.PreferredLanguage, &p.AssignedProviderID, &p.RiskLevel, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
