package repository

import (
	"context"
	"time"

	"telegram-video-bot/internal/domain/model"
)

type IncomeRepository interface {
	Add(ctx context.Context, entry *model.IncomeEntry) error
	// MonthlySummary aggregates entries whose entry date falls in the month
	// containing ref.
	MonthlySummary(ctx context.Context, ref time.Time) (*model.MonthlySummary, error)
	ListRecent(ctx context.Context, limit int) ([]*model.IncomeEntry, error)
}
