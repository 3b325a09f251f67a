package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/oklog/ulid/v2"

	"telegram-video-bot/internal/domain"
	"telegram-video-bot/internal/domain/model"
	"telegram-video-bot/internal/domain/ports/repository"
)

var _ repository.LeadRepository = (*leadRepo)(nil)

type leadRepo struct {
	pool *pgxpool.Pool
}

func NewLeadRepo(pool *pgxpool.Pool) *leadRepo {
	return &leadRepo{pool: pool}
}

func (r *leadRepo) Add(ctx context.Context, lead *model.Lead) error {
	if lead.ID == "" {
		lead.ID = ulid.Make().String()
	}
	if lead.Status == "" {
		lead.Status = model.LeadStatusNew
	}
	const q = `
INSERT INTO leads (id, name, email, company, title, linkedin_url, status, source, notes, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`

	_, err := r.pool.Exec(ctx, q,
		lead.ID, lead.Name, lead.Email, lead.Company, lead.Title,
		lead.LinkedInURL, string(lead.Status), lead.Source, lead.Notes, lead.CreatedAt)
	return err
}

func (r *leadRepo) ListByStatus(ctx context.Context, status model.LeadStatus, limit int) ([]*model.Lead, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `
SELECT id, name, email, company, title, linkedin_url, status, source, notes, created_at
FROM leads WHERE ($1 = '' OR status = $1)
ORDER BY created_at DESC LIMIT $2;`

	rows, err := r.pool.Query(ctx, q, string(status), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*model.Lead
	for rows.Next() {
		var l model.Lead
		var statusStr string
		if err := rows.Scan(&l.ID, &l.Name, &l.Email, &l.Company, &l.Title,
			&l.LinkedInURL, &statusStr, &l.Source, &l.Notes, &l.CreatedAt); err != nil {
			return nil, err
		}
		l.Status = model.LeadStatus(statusStr)
		leads = append(leads, &l)
	}
	return leads, rows.Err()
}

func (r *leadRepo) UpdateStatus(ctx context.Context, id string, status model.LeadStatus) error {
	const q = `UPDATE leads SET status = $2 WHERE id = $1;`
	tag, err := r.pool.Exec(ctx, q, id, string(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
