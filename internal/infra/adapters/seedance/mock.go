package seedance

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"telegram-video-bot/internal/domain/ports/adapter"
	"telegram-video-bot/internal/infra/storage"
)

var _ adapter.GenerationBackend = (*MockBackend)(nil)

// MockBackend simulates generation locally: a fixed delay, then an empty
// placeholder artifact at the canonical path. It performs no network calls
// and always succeeds, which makes it the default when no API key is set.
type MockBackend struct {
	delay time.Duration
	store *storage.ArtifactStore
	log   *zerolog.Logger
}

func NewMockBackend(delay time.Duration, store *storage.ArtifactStore, logger *zerolog.Logger) *MockBackend {
	mockLog := logger.With().Str("component", "MockBackend").Logger()
	return &MockBackend{delay: delay, store: store, log: &mockLog}
}

func (m *MockBackend) Generate(ctx context.Context, req adapter.GenerationRequest, onProcessing func()) (string, error) {
	m.log.Info().Str("job_id", req.JobID).Msg("mock mode: simulating video generation")
	if onProcessing != nil {
		onProcessing()
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(m.delay):
	}

	return m.store.Touch(req.JobID)
}
