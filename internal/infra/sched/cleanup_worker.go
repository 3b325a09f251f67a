package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"telegram-video-bot/internal/infra/metrics"
	"telegram-video-bot/internal/infra/storage"
)

// CleanupWorker periodically removes delivered video artifacts once they
// outlive the retention window. Job records in Postgres are kept.
type CleanupWorker struct {
	interval  time.Duration
	retention time.Duration
	store     *storage.ArtifactStore
	log       *zerolog.Logger
}

func NewCleanupWorker(interval, retention time.Duration, store *storage.ArtifactStore, logger *zerolog.Logger) *CleanupWorker {
	cleanLog := logger.With().Str("component", "CleanupWorker").Logger()
	return &CleanupWorker{
		interval:  interval,
		retention: retention,
		store:     store,
		log:       &cleanLog,
	}
}

func (w *CleanupWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Dur("retention", w.retention).Msg("Starting cleanup worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping cleanup worker")
			return ctx.Err()
		case <-ticker.C:
			n, err := w.store.PruneOlderThan(w.retention)
			if err != nil {
				w.log.Error().Err(err).Msg("cleanup worker error")
			}
			if n > 0 {
				metrics.AddArtifactsPruned(n)
				w.log.Info().Int("count", n).Msg("expired artifacts removed")
			}
		}
	}
}
