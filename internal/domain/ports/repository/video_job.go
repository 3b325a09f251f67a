package repository

import (
	"context"

	"telegram-video-bot/internal/domain/model"
)

// VideoJobRepository persists generation jobs. Writes are keyed by job id
// and must be safe for concurrent use.
type VideoJobRepository interface {
	Create(ctx context.Context, job *model.VideoJob) error
	// UpdateStatus records a status transition. videoPath and errMsg are
	// only stored for the completed and failed states respectively.
	UpdateStatus(ctx context.Context, jobID string, status model.VideoJobStatus, videoPath, errMsg string) error
	FindByID(ctx context.Context, jobID string) (*model.VideoJob, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]*model.VideoJob, error)
}
