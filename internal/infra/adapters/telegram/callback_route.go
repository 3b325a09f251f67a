package telegram

import (
	"context"
	"strconv"
	"strings"

	"telegram-video-bot/internal/domain/model"
	"telegram-video-bot/internal/domain/ports/adapter"
	"telegram-video-bot/internal/infra/metrics"
	"telegram-video-bot/internal/usecase"
)

type cbHandler func(ctx context.Context, chatID int64, data string) error
type prefixCB struct {
	Prefix string
	Fn     cbHandler
}

func (r *RealTelegramBotAdapter) cbRoutes() map[string]cbHandler {
	return map[string]cbHandler{
		"video:generate": r.generateCBRoute,
		"video:cancel":   r.cancelCBRoute,
		"meal:next":      r.mealNextCBRoute,
	}
}

// Prefix-match callbacks
func (r *RealTelegramBotAdapter) cbPrefixRoutes() []prefixCB {
	return []prefixCB{
		{
			Prefix: "video:tpl:",
			Fn:     r.templatePrefixCBRoute,
		},
		{
			Prefix: "meal:fav:",
			Fn:     r.mealFavPrefixCBRoute,
		},
		{
			Prefix: "lead:",
			Fn:     r.leadPrefixCBRoute,
		},
	}
}

// generateCBRoute kicks off the asynchronous generation run. The worker pool
// calls back with the terminal result; completed jobs are delivered as the
// video file itself.
func (r *RealTelegramBotAdapter) generateCBRoute(ctx context.Context, id int64, _ string) error {
	if r.facade.VideoUC == nil {
		return r.SendMessage(ctx, id, "⚠️ Something went wrong. Try again or type /help")
	}
	if !r.facade.VideoUC.IsReady(id) {
		metrics.IncBotCommand("generate", "not_ready")
		return r.SendMessage(ctx, id, "Session is not ready. Send at least one photo and a prompt first.")
	}

	err := r.facade.VideoUC.SubmitAsync(id, func(cbCtx context.Context, result *usecase.JobResult) {
		text := r.facade.FormatJobResult(result)
		if result != nil && result.Status == model.VideoJobStatusCompleted {
			if err := r.SendVideoFile(cbCtx, id, result.VideoPath, text); err == nil {
				return
			}
			r.log.Error().Str("job_id", result.JobID).Msg("video delivery failed, falling back to text")
			text = "🎬 Your video is ready, but sending it failed. Job id: " + result.JobID
		}
		if err := r.SendMessage(cbCtx, id, text); err != nil {
			r.log.Error().Err(err).Int64("tg_id", id).Msg("result notification failed")
		}
	})
	if err != nil {
		metrics.IncBotCommand("generate", "queue_full")
		return r.SendMessage(ctx, id, "The bot is busy right now. Please try again in a minute.")
	}

	metrics.IncBotCommand("generate", "ok")
	return r.SendMessage(ctx, id, "⏳ Generating your video... This can take a few minutes.")
}

func (r *RealTelegramBotAdapter) cancelCBRoute(ctx context.Context, id int64, _ string) error {
	text, err := r.facade.HandleCancel(ctx, id)
	if err != nil {
		return r.SendMessage(ctx, id, "⚠️ Something went wrong. Try again or type /help")
	}
	metrics.IncBotCommand("cancel", "ok")
	return r.SendMessage(ctx, id, text)
}

func (r *RealTelegramBotAdapter) mealNextCBRoute(ctx context.Context, id int64, _ string) error {
	text, recipe, err := r.facade.HandleDinner(ctx)
	if err != nil {
		return r.SendMessage(ctx, id, "Failed to fetch a suggestion. Try again later.")
	}
	if recipe == nil {
		return r.SendMessage(ctx, id, text)
	}
	return r.SendButtons(ctx, id, text, recipeButtonRow(recipe))
}

func (r *RealTelegramBotAdapter) mealFavPrefixCBRoute(ctx context.Context, id int64, data string) error {
	recipeID, err := strconv.ParseInt(strings.TrimPrefix(data, "meal:fav:"), 10, 64)
	if err != nil {
		return r.SendMessage(ctx, id, "Unknown recipe. Use /dinner for a new suggestion.")
	}
	text, err := r.facade.HandleToggleFavorite(ctx, recipeID)
	if err != nil {
		return r.SendMessage(ctx, id, "⚠️ Something went wrong. Try again or type /help")
	}
	metrics.IncBotCommand("favorite", "ok")
	return r.SendMessage(ctx, id, text)
}

// leadPrefixCBRoute marks the lead behind the tapped button as contacted.
func (r *RealTelegramBotAdapter) leadPrefixCBRoute(ctx context.Context, id int64, data string) error {
	text, err := r.facade.HandleMarkLead(ctx, strings.TrimPrefix(data, "lead:"))
	if err != nil {
		return r.SendMessage(ctx, id, "⚠️ Something went wrong. Try again or type /help")
	}
	metrics.IncBotCommand("lead_mark", "ok")
	return r.SendMessage(ctx, id, text)
}

// templatePrefixCBRoute applies one of the preset prompts to the session.
func (r *RealTelegramBotAdapter) templatePrefixCBRoute(ctx context.Context, id int64, data string) error {
	key := strings.TrimPrefix(data, "video:tpl:")
	prompt, ok := usecase.VideoTemplates[key]
	if !ok {
		return r.SendMessage(ctx, id, "Unknown template. Pick one from the /video menu.")
	}

	text, err := r.facade.HandlePrompt(ctx, id, prompt)
	if err != nil {
		return r.SendMessage(ctx, id, "⚠️ Something went wrong. Try again or type /help")
	}
	metrics.IncBotCommand("template", "ok")

	if r.facade.VideoUC != nil && r.facade.VideoUC.IsReady(id) {
		rows := [][]adapter.InlineButton{{
			{Text: "🎬 Generate", Data: "video:generate"},
			{Text: "❌ Cancel", Data: "video:cancel"},
		}}
		return r.SendButtons(ctx, id, text, rows)
	}
	return r.SendMessage(ctx, id, text)
}
