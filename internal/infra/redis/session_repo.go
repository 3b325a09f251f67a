package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"telegram-video-bot/internal/domain"
	"telegram-video-bot/internal/domain/model"
	"telegram-video-bot/internal/domain/ports/repository"
)

var _ repository.SessionStateRepository = (*SessionRepo)(nil)

// SessionRepo mirrors per-user video session snapshots in Redis with a TTL.
// The in-memory session held by the use case stays authoritative.
type SessionRepo struct {
	client RedisClient
	ttl    time.Duration
}

func NewSessionRepo(client RedisClient, ttl time.Duration) *SessionRepo {
	if ttl <= 0 {
		ttl = 15 * time.Minute // give users 15 minutes to finish a flow
	}
	return &SessionRepo{client: client, ttl: ttl}
}

func (s *SessionRepo) sessionKey(userID int64) string {
	return fmt.Sprintf("video_session:%d", userID)
}

func (s *SessionRepo) SetSession(ctx context.Context, userID int64, session *model.VideoSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.sessionKey(userID), data, s.ttl)
}

func (s *SessionRepo) GetSession(ctx context.Context, userID int64) (*model.VideoSession, error) {
	data, err := s.client.Get(ctx, s.sessionKey(userID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	var session model.VideoSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SessionRepo) ClearSession(ctx context.Context, userID int64) error {
	return s.client.Del(ctx, s.sessionKey(userID))
}
