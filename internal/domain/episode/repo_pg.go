package episode

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

const episodeColumns = `id, patient_id, provider_id, episode_type, status, start_date, end_date,
	diagnosis_codes, treatment_goals, notes, created_at, updated_at`

func (r *PGRepository) Create(ctx context.Context, ep *Episode) error {
	query := `
		INSERT INTO episodes (id, patient_id, provider_id, episode_type, status, start_date, end_date,
			diagnosis_codes, treatment_goals, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.pool.Exec(ctx, query,
		ep.ID, ep.PatientID, ep.ProviderID, ep.EpisodeType, ep.Status, ep.StartDate, ep.EndDate,
		ep.DiagnosisCodes, ep.TreatmentGoals, ep.Notes, ep.CreatedAt, ep.UpdatedAt)
	if err != nil {
		return apperr.Storage("episode.create", err)
	}
	return nil
}

func (r *PGRepository) GetByID(ctx context.Context, id uuid.UUID) (*Episode, error) {
	query := `SELECT ` + episodeColumns + ` FROM episodes WHERE id = $1`

	ep, err := scanEpisode(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, apperr.Storage("episode.get", err)
	}
	return ep, nil
}

func (r *PGRepository) Update(ctx context.Context, ep *Episode) error {
	query := `
		UPDATE episodes SET
			episode_type = $2, status = $3, start_date = $4, end_date = $5,
			diagnosis_codes = $6, treatment_goals = $7, notes = $8, updated_at = $9
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		ep.ID, ep.EpisodeType, ep.Status, ep.StartDate, ep.EndDate,
		ep.DiagnosisCodes, ep.TreatmentGoals, ep.Notes, time.Now().UTC())
	if err != nil {
		return apperr.Storage("episode.update", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Storage("episode.update", pgx.ErrNoRows)
	}
	return nil
}

func (r *PGRepository) List(ctx context.Context, scope auth.Scope, filter ListFilter, limit, offset int) ([]*Episode, int, error) {
	where := "WHERE 1=1"
	args := []any{}
	arg := 1

	if scope.RestrictToProvider() {
		where += fmt.Sprintf(" AND provider_id = $%d", arg)
		args = append(args, scope.UserID)
		arg++
	}
	if filter.PatientID != uuid.Nil {
		where += fmt.Sprintf(" AND patient_id = $%d", arg)
		args = append(args, filter.PatientID)
		arg++
	}
	if filter.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", arg)
		args = append(args, filter.Status)
		arg++
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM episodes "+where, args...).Scan(&total); err != nil {
		return nil, 0, apperr.Storage("episode.list.count", err)
	}

	query := fmt.Sprintf("SELECT %s FROM episodes %s ORDER BY start_date DESC LIMIT $%d OFFSET $%d",
		episodeColumns, where, arg, arg+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperr.Storage("episode.list", err)
	}
	defer rows.Close()

	var episodes []*Episode
	for rows.Next() {
		ep, err := scanEpisode(rows)
		if err != nil {
			return nil, 0, apperr.Storage("episode.list.scan", err)
		}
		episodes = append(episodes, ep)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.Storage("episode.list", err)
	}
	return episodes, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEpisode(row rowScanner) (*Episode, error) {
	var ep Episode
	err := row.Scan(
		&ep.ID, &ep.PatientID, &ep.ProviderID, &ep.EpisodeType, &ep.Status, &ep.StartDate, &ep.EndDate,
		&ep.DiagnosisCodes, &ep.TreatmentGoals, &ep.Notes, &ep.CreatedAt, &ep.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &ep, nil
}
