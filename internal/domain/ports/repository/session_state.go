package repository

import (
	"context"

	"telegram-video-bot/internal/domain/model"
)

// SessionStateRepository mirrors per-user video session snapshots into a
// shared store with a TTL. The in-memory session held by the use case is
// authoritative; the mirror exists for inspection and crash recovery.
type SessionStateRepository interface {
	SetSession(ctx context.Context, userID int64, session *model.VideoSession) error
	GetSession(ctx context.Context, userID int64) (*model.VideoSession, error)
	ClearSession(ctx context.Context, userID int64) error
}
