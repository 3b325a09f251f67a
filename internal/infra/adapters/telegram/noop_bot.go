package telegram

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"telegram-video-bot/internal/domain/ports/adapter"
)

var _ adapter.TelegramBotAdapter = (*NoopBotAdapter)(nil)

// NoopBotAdapter implements adapter.TelegramBotAdapter for local/dev testing.
// It logs messages instead of sending real Telegram messages.
type NoopBotAdapter struct {
	log *zerolog.Logger
}

func NewNoopBotAdapter(logger *zerolog.Logger) *NoopBotAdapter {
	noopLog := logger.With().Str("component", "NoopBot").Logger()
	return &NoopBotAdapter{log: &noopLog}
}

// SendMessage logs the message and simulates a small delay.
func (b *NoopBotAdapter) SendMessage(ctx context.Context, tgID int64, text string) error {
	select {
	case <-time.After(100 * time.Millisecond):
	case <-ctx.Done():
		return ctx.Err()
	}
	b.log.Info().Int64("tg_id", tgID).Str("text", text).Msg("noop send message")
	return nil
}

func (b *NoopBotAdapter) SendButtons(ctx context.Context, tgID int64, text string, rows [][]adapter.InlineButton) error {
	select {
	case <-time.After(100 * time.Millisecond):
	case <-ctx.Done():
		return ctx.Err()
	}
	b.log.Info().Int64("tg_id", tgID).Str("text", text).Interface("buttons", rows).Msg("noop send buttons")
	return nil
}

func (b *NoopBotAdapter) SendVideoFile(ctx context.Context, tgID int64, path, caption string) error {
	select {
	case <-time.After(100 * time.Millisecond):
	case <-ctx.Done():
		return ctx.Err()
	}
	b.log.Info().Int64("tg_id", tgID).Str("path", path).Str("caption", caption).Msg("noop send video")
	return nil
}
