package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-video-bot/internal/domain"
	"telegram-video-bot/internal/domain/model"
	"telegram-video-bot/internal/domain/ports/repository"
)

var _ repository.VideoJobRepository = (*videoJobRepo)(nil)

type videoJobRepo struct {
	pool *pgxpool.Pool
}

func NewVideoJobRepo(pool *pgxpool.Pool) *videoJobRepo {
	return &videoJobRepo{pool: pool}
}

func (r *videoJobRepo) Create(ctx context.Context, job *model.VideoJob) error {
	photos, err := json.Marshal(job.Photos)
	if err != nil {
		return err
	}

	const q = `
INSERT INTO video_jobs (job_id, user_id, prompt, photos_json, status, video_path, error_message, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`

	_, err = r.pool.Exec(ctx, q,
		job.ID, job.UserID, job.Prompt, string(photos), string(job.Status),
		job.VideoPath, job.ErrorMessage, job.CreatedAt, job.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *videoJobRepo) UpdateStatus(ctx context.Context, jobID string, status model.VideoJobStatus, videoPath, errMsg string) error {
	// Terminal rows are never rewritten; the status lattice only moves forward.
	const q = `
UPDATE video_jobs SET
  status = $2,
  video_path = CASE WHEN $3 <> '' THEN $3 ELSE video_path END,
  error_message = CASE WHEN $4 <> '' THEN $4 ELSE error_message END,
  updated_at = $5
WHERE job_id = $1 AND status NOT IN ('completed', 'failed');`

	tag, err := r.pool.Exec(ctx, q, jobID, string(status), videoPath, errMsg, time.Now())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *videoJobRepo) FindByID(ctx context.Context, jobID string) (*model.VideoJob, error) {
	const q = `
SELECT job_id, user_id, prompt, photos_json, status, video_path, error_message, created_at, updated_at
FROM video_jobs WHERE job_id = $1;`

	return r.scanJob(r.pool.QueryRow(ctx, q, jobID))
}

func (r *videoJobRepo) ListByUser(ctx context.Context, userID int64, limit int) ([]*model.VideoJob, error) {
	if limit <= 0 {
		limit = 10
	}
	const q = `
SELECT job_id, user_id, prompt, photos_json, status, video_path, error_message, created_at, updated_at
FROM video_jobs WHERE user_id = $1
ORDER BY created_at DESC LIMIT $2;`

	rows, err := r.pool.Query(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*model.VideoJob
	for rows.Next() {
		job, err := r.scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func (r *videoJobRepo) scanJob(row pgx.Row) (*model.VideoJob, error) {
	var job model.VideoJob
	var statusStr, photosJSON string
	err := row.Scan(&job.ID, &job.UserID, &job.Prompt, &photosJSON, &statusStr,
		&job.VideoPath, &job.ErrorMessage, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	job.Status = model.VideoJobStatus(statusStr)
	if photosJSON != "" {
		if err := json.Unmarshal([]byte(photosJSON), &job.Photos); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
	}
	return &job, nil
}
