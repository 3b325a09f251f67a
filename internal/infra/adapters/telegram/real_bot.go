package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"telegram-video-bot/internal/application"
	"telegram-video-bot/internal/config"
	"telegram-video-bot/internal/domain/ports/adapter"
	"telegram-video-bot/internal/infra/logging"
	red "telegram-video-bot/internal/infra/redis"
)

var _ adapter.TelegramBotAdapter = (*RealTelegramBotAdapter)(nil)

// RealTelegramBotAdapter uses tgbotapi to poll updates and delegates to BotFacade.
type RealTelegramBotAdapter struct {
	bot         *tgbotapi.BotAPI
	cfg         *config.BotConfig
	photosDir   string
	facade      *application.BotFacade
	rateLimiter *red.RateLimiter
	log         *zerolog.Logger

	adminIDsMap   map[int64]struct{}
	updateWorkers int
	cancelPolling context.CancelFunc
}

func NewRealTelegramBotAdapter(
	cfg *config.BotConfig,
	photosDir string,
	facade *application.BotFacade,
	rateLimiter *red.RateLimiter,
	logger *zerolog.Logger,
) (*RealTelegramBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if facade == nil {
		return nil, errors.New("bot facade is nil")
	}
	updateWorkers := cfg.Workers
	if updateWorkers <= 0 {
		updateWorkers = 5
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}

	adminMap := map[int64]struct{}{}
	for _, id := range cfg.AdminIDs {
		adminMap[id] = struct{}{}
	}

	botLog := logger.With().Str("component", "TelegramBot").Logger()
	return &RealTelegramBotAdapter{
		bot:           bot,
		cfg:           cfg,
		photosDir:     photosDir,
		facade:        facade,
		rateLimiter:   rateLimiter,
		log:           &botLog,
		adminIDsMap:   adminMap,
		updateWorkers: updateWorkers,
	}, nil
}

func (r *RealTelegramBotAdapter) StartPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < r.updateWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case up := <-updateChan:
					if err := r.handleUpdate(ctx, up); err != nil {
						r.log.Error().Err(err).Int("worker", id).Msg("update handling failed")
					}
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			close(updateChan)
			wg.Wait()
			return ctx.Err()
		case up := <-updates:
			updateChan <- up
		}
	}
}

func (r *RealTelegramBotAdapter) StopPolling() {
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

func (r *RealTelegramBotAdapter) SendMessage(ctx context.Context, tgID int64, text string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	msg := tgbotapi.NewMessage(tgID, text)
	_, err := r.bot.Send(msg)
	return err
}

// SendButtons sends a message with inline buttons.
// - If btn.URL is set, the button opens a link
// - Else if btn.Data is set, the button sends callback data
// - Else a safe fallback uses btn.Text as callback data
func (r *RealTelegramBotAdapter) SendButtons(
	ctx context.Context,
	tgID int64,
	text string,
	rows [][]adapter.InlineButton,
) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	kbRows := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		kbRow := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			label := strings.TrimSpace(btn.Text)
			if label == "" {
				label = "•"
			}
			var kb tgbotapi.InlineKeyboardButton
			switch {
			case btn.URL != "":
				kb = tgbotapi.NewInlineKeyboardButtonURL(label, btn.URL)
			case btn.Data != "":
				kb = tgbotapi.NewInlineKeyboardButtonData(label, btn.Data)
			default:
				kb = tgbotapi.NewInlineKeyboardButtonData(label, label)
			}
			kbRow = append(kbRow, kb)
		}
		kbRows = append(kbRows, kbRow)
	}

	msg := tgbotapi.NewMessage(tgID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(kbRows...)
	_, err := r.bot.Send(msg)
	return err
}

// SendVideoFile uploads a local video file to the chat.
func (r *RealTelegramBotAdapter) SendVideoFile(ctx context.Context, tgID int64, path, caption string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	video := tgbotapi.NewVideo(tgID, tgbotapi.FilePath(path))
	video.Caption = caption
	_, err := r.bot.Send(video)
	return err
}

func (r *RealTelegramBotAdapter) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	ctx = logging.WithTraceID(ctx, uuid.NewString())
	if update.CallbackQuery != nil {
		return r.handleQuery(ctx, update.CallbackQuery)
	}

	message := update.Message
	if message == nil || message.From == nil {
		return nil
	}
	tgID := message.From.ID

	command := "message"
	if message.IsCommand() {
		command = "/" + message.Command()
	} else if len(message.Photo) > 0 {
		command = "photo"
	}
	if r.rateLimiter != nil {
		allowed, err := r.rateLimiter.Allow(ctx, red.UserCommandKey(tgID, command), 20, time.Minute)
		if err != nil {
			r.log.Warn().Err(err).Msg("rate limit check failed")
		} else if !allowed {
			return r.SendMessage(ctx, tgID, "Rate limit exceeded. Please try again later.")
		}
	}

	if message.IsCommand() {
		if fn, ok := r.commandRoutes()[message.Command()]; ok {
			return fn(ctx, message)
		}
		return r.SendMessage(ctx, tgID, "Unknown command. Type /help for the command list.")
	}

	if len(message.Photo) > 0 {
		return r.handlePhotoMessage(ctx, message)
	}
	if message.Text != "" {
		return r.handleTextMessage(ctx, message)
	}
	return nil
}

func (r *RealTelegramBotAdapter) handleQuery(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	if query == nil || query.From == nil {
		return errors.New("invalid callback query")
	}

	// Stop telegram spinner when we return
	defer func() { _, _ = r.bot.Request(tgbotapi.NewCallback(query.ID, "")) }()

	chatID := query.From.ID
	if query.Message != nil && query.Message.Chat != nil {
		chatID = query.Message.Chat.ID
	}
	if chatID == 0 {
		return nil
	}

	data := strings.TrimSpace(query.Data)

	if r.rateLimiter != nil {
		if allowed, err := r.rateLimiter.Allow(ctx, red.UserCommandKey(chatID, "cb:"+data), 30, time.Minute); err == nil && !allowed {
			return r.SendMessage(ctx, chatID, "Rate limit exceeded. Please try again later.")
		}
	}

	if fn, ok := r.cbRoutes()[data]; ok {
		return fn(ctx, chatID, data)
	}
	for _, pr := range r.cbPrefixRoutes() {
		if strings.HasPrefix(data, pr.Prefix) {
			return pr.Fn(ctx, chatID, data)
		}
	}
	return fmt.Errorf("unknown callback data %q", data)
}

// savePhoto downloads the largest resolution of a Telegram photo into the
// local photos directory and returns the file path.
func (r *RealTelegramBotAdapter) savePhoto(ctx context.Context, message *tgbotapi.Message) (string, error) {
	photo := message.Photo[len(message.Photo)-1]

	file, err := r.bot.GetFile(tgbotapi.FileConfig{FileID: photo.FileID})
	if err != nil {
		return "", fmt.Errorf("get file: %w", err)
	}
	url := file.Link(r.bot.Token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download photo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download photo: status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(r.photosDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(r.photosDir, photo.FileUniqueID+".jpg")
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer out.Close()
	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", fmt.Errorf("write photo: %w", err)
	}
	return path, nil
}
