package adapter

import "context"

type InlineButton struct {
	Text string
	Data string
	URL  string
}

type TelegramBotAdapter interface {
	SendMessage(ctx context.Context, telegramID int64, text string) error
	SendButtons(ctx context.Context, telegramID int64, text string, rows [][]InlineButton) error
	// SendVideoFile uploads a local video file to the chat.
	SendVideoFile(ctx context.Context, telegramID int64, path, caption string) error
}
