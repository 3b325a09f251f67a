package repository

import (
	"context"

	"telegram-video-bot/internal/domain/model"
)

type LeadRepository interface {
	Add(ctx context.Context, lead *model.Lead) error
	ListByStatus(ctx context.Context, status model.LeadStatus, limit int) ([]*model.Lead, error)
	UpdateStatus(ctx context.Context, id string, status model.LeadStatus) error
}
