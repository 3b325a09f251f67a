package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-video-bot/internal/domain/model"
	"telegram-video-bot/internal/domain/ports/adapter"
	"telegram-video-bot/internal/infra/metrics"
	"telegram-video-bot/internal/usecase"
)

type commandHandler func(ctx context.Context, message *tgbotapi.Message) error

// commandRoutes defines all available bot commands and their handlers.
func (r *RealTelegramBotAdapter) commandRoutes() map[string]commandHandler {
	return map[string]commandHandler{
		"start":  r.handleStartCommand,
		"help":   r.handleHelpCommand,
		"video":  r.handleVideoCommand,
		"cancel": r.handleCancelCommand,
		"dinner": r.handleDinnerCommand,
		"meal":   r.handleDinnerCommand,
		"money":  r.handleMoneyCommand,
		"income": r.handleIncomeCommand,
		"leads":  r.handleLeadsCommand,
		"lead":   r.handleLeadCommand,
	}
}

func (r *RealTelegramBotAdapter) handleStartCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, err := r.facade.HandleStart(ctx, message.From.ID, message.From.UserName)
	if err != nil {
		metrics.IncBotCommand("/start", "error")
		return r.SendMessage(ctx, message.Chat.ID, "⚠️ Something went wrong. Try again or type /help")
	}
	metrics.IncBotCommand("/start", "ok")
	return r.SendMessage(ctx, message.Chat.ID, text)
}

func (r *RealTelegramBotAdapter) handleHelpCommand(ctx context.Context, message *tgbotapi.Message) error {
	metrics.IncBotCommand("/help", "ok")
	return r.SendMessage(ctx, message.Chat.ID, r.facade.HandleHelp())
}

func (r *RealTelegramBotAdapter) handleVideoCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, err := r.facade.HandleVideoStart(ctx, message.From.ID)
	if err != nil {
		metrics.IncBotCommand("/video", "error")
		return r.SendMessage(ctx, message.Chat.ID, "⚠️ Something went wrong. Try again or type /help")
	}
	metrics.IncBotCommand("/video", "ok")
	return r.SendButtons(ctx, message.Chat.ID, text, templateButtonRows())
}

func (r *RealTelegramBotAdapter) handleCancelCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, err := r.facade.HandleCancel(ctx, message.From.ID)
	if err != nil {
		metrics.IncBotCommand("/cancel", "error")
		return r.SendMessage(ctx, message.Chat.ID, "⚠️ Something went wrong. Try again or type /help")
	}
	metrics.IncBotCommand("/cancel", "ok")
	return r.SendMessage(ctx, message.Chat.ID, text)
}

func (r *RealTelegramBotAdapter) handleDinnerCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, recipe, err := r.facade.HandleDinner(ctx)
	if err != nil {
		metrics.IncBotCommand("/dinner", "error")
		return r.SendMessage(ctx, message.Chat.ID, "Failed to fetch a suggestion. Try again later.")
	}
	metrics.IncBotCommand("/dinner", "ok")
	if recipe == nil {
		return r.SendMessage(ctx, message.Chat.ID, text)
	}
	return r.SendButtons(ctx, message.Chat.ID, text, recipeButtonRow(recipe))
}

func (r *RealTelegramBotAdapter) handleMoneyCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, err := r.facade.HandleMoneyDashboard(ctx)
	if err != nil {
		metrics.IncBotCommand("/money", "error")
		return r.SendMessage(ctx, message.Chat.ID, "Failed to load the dashboard. Try again later.")
	}
	metrics.IncBotCommand("/money", "ok")
	return r.SendMessage(ctx, message.Chat.ID, text)
}

func (r *RealTelegramBotAdapter) handleIncomeCommand(ctx context.Context, message *tgbotapi.Message) error {
	metrics.IncBotCommand("/income", "ok")
	return r.SendMessage(ctx, message.Chat.ID, r.facade.HandleIncomePrompt())
}

func (r *RealTelegramBotAdapter) handleLeadsCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, leads, err := r.facade.HandleLeads(ctx)
	if err != nil {
		metrics.IncBotCommand("/leads", "error")
		return r.SendMessage(ctx, message.Chat.ID, "Failed to load leads. Try again later.")
	}
	metrics.IncBotCommand("/leads", "ok")

	// One action button per lead still waiting for first contact.
	var rows [][]adapter.InlineButton
	for _, lead := range leads {
		if lead.Status != model.LeadStatusNew {
			continue
		}
		rows = append(rows, []adapter.InlineButton{{Text: "✔ Contacted: " + lead.Name, Data: "lead:" + lead.ID}})
	}
	if len(rows) == 0 {
		return r.SendMessage(ctx, message.Chat.ID, text)
	}
	return r.SendButtons(ctx, message.Chat.ID, text, rows)
}

func (r *RealTelegramBotAdapter) handleLeadCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, err := r.facade.HandleAddLead(ctx, message.CommandArguments())
	if err != nil {
		metrics.IncBotCommand("/lead", "error")
		return r.SendMessage(ctx, message.Chat.ID, "Failed to add that lead. Try again later.")
	}
	metrics.IncBotCommand("/lead", "ok")
	return r.SendMessage(ctx, message.Chat.ID, text)
}

// handlePhotoMessage stores a reference photo for the sender's video session.
func (r *RealTelegramBotAdapter) handlePhotoMessage(ctx context.Context, message *tgbotapi.Message) error {
	path, err := r.savePhoto(ctx, message)
	if err != nil {
		r.log.Error().Err(err).Int64("tg_id", message.From.ID).Msg("photo download failed")
		metrics.IncBotCommand("photo", "error")
		return r.SendMessage(ctx, message.Chat.ID, "Could not download that photo. Please try again.")
	}

	text, err := r.facade.HandlePhoto(ctx, message.From.ID, path)
	if err != nil {
		metrics.IncBotCommand("photo", "error")
		return r.SendMessage(ctx, message.Chat.ID, "⚠️ Something went wrong. Try again or type /help")
	}
	metrics.IncBotCommand("photo", "ok")
	return r.SendMessage(ctx, message.Chat.ID, text)
}

// handleTextMessage routes free text: income entries carry the pipe-separated
// format, everything else is treated as a video prompt.
func (r *RealTelegramBotAdapter) handleTextMessage(ctx context.Context, message *tgbotapi.Message) error {
	tgID := message.From.ID

	if strings.Contains(message.Text, "|") {
		text, err := r.facade.HandleIncome(ctx, message.Text)
		if err != nil {
			metrics.IncBotCommand("income_entry", "error")
			return r.SendMessage(ctx, message.Chat.ID, "Failed to log that entry. Try again later.")
		}
		metrics.IncBotCommand("income_entry", "ok")
		return r.SendMessage(ctx, message.Chat.ID, text)
	}

	text, err := r.facade.HandlePrompt(ctx, tgID, message.Text)
	if err != nil {
		metrics.IncBotCommand("prompt", "error")
		return r.SendMessage(ctx, message.Chat.ID, "⚠️ Something went wrong. Try again or type /help")
	}
	metrics.IncBotCommand("prompt", "ok")

	if r.facade.VideoUC != nil && r.facade.VideoUC.IsReady(tgID) {
		rows := [][]adapter.InlineButton{{
			{Text: "🎬 Generate", Data: "video:generate"},
			{Text: "❌ Cancel", Data: "video:cancel"},
		}}
		return r.SendButtons(ctx, message.Chat.ID, text, rows)
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

// recipeButtonRow renders the per-suggestion actions.
func recipeButtonRow(recipe *model.Recipe) [][]adapter.InlineButton {
	favLabel := "⭐ Favorite"
	if recipe.IsFavorite {
		favLabel = "Unfavorite"
	}
	return [][]adapter.InlineButton{{
		{Text: "🔄 Another", Data: "meal:next"},
		{Text: favLabel, Data: fmt.Sprintf("meal:fav:%d", recipe.ID)},
	}}
}

// templateButtonRows renders the style presets two per row.
func templateButtonRows() [][]adapter.InlineButton {
	var rows [][]adapter.InlineButton
	var row []adapter.InlineButton
	for _, key := range usecase.VideoTemplateOrder {
		label := strings.ToUpper(key[:1]) + key[1:]
		row = append(row, adapter.InlineButton{Text: label, Data: "video:tpl:" + key})
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}
