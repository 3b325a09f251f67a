package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/oklog/ulid/v2"

	"telegram-video-bot/internal/domain/model"
	"telegram-video-bot/internal/domain/ports/repository"
)

var _ repository.IncomeRepository = (*incomeRepo)(nil)

type incomeRepo struct {
	pool *pgxpool.Pool
}

func NewIncomeRepo(pool *pgxpool.Pool) *incomeRepo {
	return &incomeRepo{pool: pool}
}

func (r *incomeRepo) Add(ctx context.Context, entry *model.IncomeEntry) error {
	if entry.ID == "" {
		entry.ID = ulid.Make().String()
	}
	const q = `
INSERT INTO income_entries (id, category_name, source_name, gross_amount, net_amount, bills_amount, entry_date, description, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`

	_, err := r.pool.Exec(ctx, q,
		entry.ID, entry.Category, entry.Source, entry.GrossAmount, entry.NetAmount,
		entry.BillsAmount, entry.EntryDate, entry.Description, entry.CreatedAt)
	return err
}

func (r *incomeRepo) MonthlySummary(ctx context.Context, ref time.Time) (*model.MonthlySummary, error) {
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	end := start.AddDate(0, 1, 0)

	summary := &model.MonthlySummary{
		Month:      ref.Month(),
		Year:       ref.Year(),
		ByCategory: map[string]float64{},
	}

	const q = `
SELECT category_name, COALESCE(SUM(gross_amount), 0), COALESCE(SUM(net_amount), 0), COALESCE(SUM(bills_amount), 0)
FROM income_entries
WHERE entry_date >= $1 AND entry_date < $2
GROUP BY category_name;`

	rows, err := r.pool.Query(ctx, q, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var category string
		var gross, net, bills float64
		if err := rows.Scan(&category, &gross, &net, &bills); err != nil {
			return nil, err
		}
		summary.TotalGross += gross
		summary.TotalNet += net
		summary.TotalBills += bills
		summary.ByCategory[category] = net
	}
	return summary, rows.Err()
}

func (r *incomeRepo) ListRecent(ctx context.Context, limit int) ([]*model.IncomeEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, category_name, source_name, gross_amount, net_amount, bills_amount, entry_date, description, created_at
FROM income_entries ORDER BY entry_date DESC LIMIT $1;`

	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*model.IncomeEntry
	for rows.Next() {
		var e model.IncomeEntry
		if err := rows.Scan(&e.ID, &e.Category, &e.Source, &e.GrossAmount, &e.NetAmount,
			&e.BillsAmount, &e.EntryDate, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
