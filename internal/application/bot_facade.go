package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"telegram-video-bot/internal/domain"
	"telegram-video-bot/internal/domain/model"
	"telegram-video-bot/internal/usecase"
)

// BotFacade composes usecases into high-level bot commands.
// Keep the facade methods returning strings so the Telegram adapter just forwards them to the chat.
type BotFacade struct {
	VideoUC usecase.VideoUseCase
	MealUC  usecase.MealUseCase
	MoneyUC usecase.MoneyUseCase
	LeadUC  usecase.LeadUseCase
}

// NewBotFacade constructs a facade from provided usecases. Any of the usecases can be nil
// if not needed for some flows (but methods that use them will return errors).
func NewBotFacade(
	videoUC usecase.VideoUseCase,
	mealUC usecase.MealUseCase,
	moneyUC usecase.MoneyUseCase,
	leadUC usecase.LeadUseCase,
) *BotFacade {
	return &BotFacade{
		VideoUC: videoUC,
		MealUC:  mealUC,
		MoneyUC: moneyUC,
		LeadUC:  leadUC,
	}
}

// HandleStart returns the welcome text with the feature overview.
func (b *BotFacade) HandleStart(ctx context.Context, tgID int64, username string) (string, error) {
	greeting := "Welcome"
	if strings.TrimSpace(username) != "" {
		greeting = "Welcome, " + username
	}
	return greeting + "!\n\n" +
		"Your personal assistant. Choose a feature:\n\n" +
		"🎥 /video - AI video generation\n" +
		"🍳 /dinner - Dinner suggestions\n" +
		"💰 /money - Track income\n" +
		"📊 /leads - Lead list\n\n" +
		"Type /help for all commands.", nil
}

// HandleHelp returns the full command reference.
func (b *BotFacade) HandleHelp() string {
	return "Commands:\n\n" +
		"🎥 Video Generation\n" +
		"/video - start a new video (send up to 4 photos, then a prompt)\n" +
		"/cancel - discard the current video session\n\n" +
		"🍳 Meal Bot\n" +
		"/dinner - random dinner suggestion\n" +
		"/meal - same as /dinner\n\n" +
		"💰 Money Tracker\n" +
		"/money - monthly summary\n" +
		"/income - log an income entry\n\n" +
		"📊 Leads\n" +
		"/leads - list open leads\n" +
		"/lead Name | Company | LinkedIn - add a lead"
}

// HandleVideoStart resets any previous session and returns the collection
// instructions. The adapter renders the template buttons alongside.
func (b *BotFacade) HandleVideoStart(ctx context.Context, tgID int64) (string, error) {
	if b.VideoUC == nil {
		return "", fmt.Errorf("video usecase not available")
	}
	b.VideoUC.Reset(ctx, tgID)
	return "🎥 Video Generation\n\n" +
		fmt.Sprintf("Send me 1-%d photos to animate, then describe the video you want.\n", model.MaxSessionPhotos) +
		"Or pick a style template below.", nil
}

// HandlePhoto records one reference photo for the user's session.
func (b *BotFacade) HandlePhoto(ctx context.Context, tgID int64, fileRef string) (string, error) {
	if b.VideoUC == nil {
		return "", fmt.Errorf("video usecase not available")
	}
	added, count, err := b.VideoUC.StartCollectingPhoto(ctx, tgID, fileRef)
	if err != nil {
		return "", fmt.Errorf("collect photo: %w", err)
	}
	if !added {
		if count >= model.MaxSessionPhotos {
			return fmt.Sprintf("You already sent %d photos. Now describe the video you want, or /cancel.", model.MaxSessionPhotos), nil
		}
		if b.VideoUC.Session(tgID).State == model.SessionWaitingForPrompt {
			return "Prompt already set. Tap Generate to start, or /cancel to start over.", nil
		}
		return "A video is already being generated. Please wait for it to finish.", nil
	}
	return fmt.Sprintf("📸 Photo %d/%d received! Send more photos or describe the video you want.", count, model.MaxSessionPhotos), nil
}

// HandlePrompt stores the prompt and reports whether the session is ready.
func (b *BotFacade) HandlePrompt(ctx context.Context, tgID int64, prompt string) (string, error) {
	if b.VideoUC == nil {
		return "", fmt.Errorf("video usecase not available")
	}
	if strings.TrimSpace(prompt) == "" {
		return "Please describe the video you want.", nil
	}
	if err := b.VideoUC.SetPrompt(ctx, tgID, prompt); err != nil {
		return "A video is already being generated. Please wait for it to finish.", nil
	}
	if !b.VideoUC.IsReady(tgID) {
		return "Got it! Now send at least one photo to animate.", nil
	}
	session := b.VideoUC.Session(tgID)
	return fmt.Sprintf("✅ Ready to generate!\n\nPhotos: %d\nPrompt: %s\n\nTap Generate to start.", len(session.Photos), prompt), nil
}

// HandleCancel discards the user's current session.
func (b *BotFacade) HandleCancel(ctx context.Context, tgID int64) (string, error) {
	if b.VideoUC == nil {
		return "", fmt.Errorf("video usecase not available")
	}
	b.VideoUC.Reset(ctx, tgID)
	return "Video session cancelled. Use /video to start over.", nil
}

// FormatJobResult turns a terminal job result into the user-facing message.
// Completed jobs are announced by sending the video file itself; this text is
// the caption or the failure notice.
func (b *BotFacade) FormatJobResult(result *usecase.JobResult) string {
	if result == nil {
		return "⚠️ Something went wrong. Try again or type /help"
	}
	if result.Status == model.VideoJobStatusCompleted {
		return "🎬 Your video is ready!"
	}
	msg := result.Error
	if msg == "" {
		msg = "Unknown error"
	}
	return "❌ Video generation failed: " + msg + "\n\nUse /video to try again."
}

// HandleDinner formats one recipe suggestion. The suggested recipe is
// returned alongside so the adapter can offer per-recipe actions.
func (b *BotFacade) HandleDinner(ctx context.Context) (string, *model.Recipe, error) {
	if b.MealUC == nil {
		return "", nil, fmt.Errorf("meal usecase not available")
	}
	recipe, err := b.MealUC.SuggestDinner(ctx, "")
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "No recipes available yet.", nil, nil
		}
		return "", nil, fmt.Errorf("suggest dinner: %w", err)
	}

	var sb strings.Builder
	name := recipe.Name
	if recipe.IsFavorite {
		name = "⭐ " + name
	}
	fmt.Fprintf(&sb, "🍽️ %s (%s)\n", name, recipe.Cuisine)
	fmt.Fprintf(&sb, "⏱️ %d min | serves %d\n\n", recipe.PrepTime+recipe.CookTime, recipe.Servings)
	ingredients := recipe.Ingredients
	if len(ingredients) > 5 {
		ingredients = ingredients[:5]
	}
	sb.WriteString("Ingredients:\n")
	for _, ing := range ingredients {
		sb.WriteString("• " + ing + "\n")
	}
	if len(recipe.Ingredients) > 5 {
		sb.WriteString("...\n")
	}
	if recipe.Instructions != "" {
		sb.WriteString("\n" + recipe.Instructions)
	}
	return sb.String(), recipe, nil
}

// HandleToggleFavorite flips the favorite flag on one recipe.
func (b *BotFacade) HandleToggleFavorite(ctx context.Context, recipeID int64) (string, error) {
	if b.MealUC == nil {
		return "", fmt.Errorf("meal usecase not available")
	}
	recipe, err := b.MealUC.ToggleFavorite(ctx, recipeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "That recipe is gone. Use /dinner for a new suggestion.", nil
		}
		return "", fmt.Errorf("toggle favorite: %w", err)
	}
	if recipe.IsFavorite {
		return "⭐ " + recipe.Name + " added to your favorites.", nil
	}
	return recipe.Name + " removed from your favorites.", nil
}

// HandleMoneyDashboard formats the current month's income summary.
func (b *BotFacade) HandleMoneyDashboard(ctx context.Context) (string, error) {
	if b.MoneyUC == nil {
		return "", fmt.Errorf("money usecase not available")
	}
	summary, err := b.MoneyUC.MonthlySummary(ctx)
	if err != nil {
		return "", fmt.Errorf("monthly summary: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "💰 Financial Dashboard\n\n📊 %s %d:\n", summary.Month, summary.Year)
	fmt.Fprintf(&sb, "• Gross: €%.2f\n• Bills: €%.2f\n• Net: €%.2f\n", summary.TotalGross, summary.TotalBills, summary.TotalNet)
	if len(summary.ByCategory) > 0 {
		sb.WriteString("\nBy category:\n")
		for category, net := range summary.ByCategory {
			fmt.Fprintf(&sb, "• %s: €%.2f\n", category, net)
		}
	}
	if recent, err := b.MoneyUC.RecentEntries(ctx, 3); err == nil && len(recent) > 0 {
		sb.WriteString("\nRecent entries:\n")
		for _, entry := range recent {
			fmt.Fprintf(&sb, "• %s %s: €%.2f net\n", entry.EntryDate.Format("Jan 2"), entry.Category, entry.NetAmount)
		}
	}
	sb.WriteString("\nUse /income to log an entry.")
	return sb.String(), nil
}

// HandleIncomePrompt returns the entry-format hint for /income.
func (b *BotFacade) HandleIncomePrompt() string {
	return "💰 Log Income\n\n" +
		"Format: Category | Gross | Bills | Description\n" +
		"Example: personal | 2000 | 800 | VA disability"
}

// HandleIncome parses and stores one income line.
func (b *BotFacade) HandleIncome(ctx context.Context, line string) (string, error) {
	if b.MoneyUC == nil {
		return "", fmt.Errorf("money usecase not available")
	}
	entry, err := b.MoneyUC.LogIncome(ctx, line)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			return "Could not parse that. " + b.HandleIncomePrompt(), nil
		}
		return "", fmt.Errorf("log income: %w", err)
	}
	return fmt.Sprintf("✅ Logged %s: €%.2f gross, €%.2f net.", entry.Category, entry.GrossAmount, entry.NetAmount), nil
}

// HandleLeads formats the most recent leads. The listed leads are returned
// alongside so the adapter can offer per-lead actions.
func (b *BotFacade) HandleLeads(ctx context.Context) (string, []*model.Lead, error) {
	if b.LeadUC == nil {
		return "", nil, fmt.Errorf("lead usecase not available")
	}
	leads, err := b.LeadUC.ListLeads(ctx, "", 10)
	if err != nil {
		return "", nil, fmt.Errorf("list leads: %w", err)
	}
	if len(leads) == 0 {
		return "📊 Lead Generation\n\nNo leads recorded yet. Add one with /lead Name | Company | LinkedIn", nil, nil
	}

	var sb strings.Builder
	sb.WriteString("📊 Leads\n\n")
	for i, lead := range leads {
		fmt.Fprintf(&sb, "%d) %s", i+1, lead.Name)
		if lead.Company != "" {
			fmt.Fprintf(&sb, " - %s", lead.Company)
		}
		fmt.Fprintf(&sb, " [%s]\n", lead.Status)
	}
	return sb.String(), leads, nil
}

// HandleAddLead parses "name | company | linkedin" and stores a new lead.
// Only the name is required.
func (b *BotFacade) HandleAddLead(ctx context.Context, line string) (string, error) {
	if b.LeadUC == nil {
		return "", fmt.Errorf("lead usecase not available")
	}
	parts := strings.Split(line, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if parts[0] == "" {
		return "Format: /lead Name | Company | LinkedIn URL", nil
	}

	lead := &model.Lead{Name: parts[0], Status: model.LeadStatusNew, Source: "telegram"}
	if len(parts) > 1 {
		lead.Company = parts[1]
	}
	if len(parts) > 2 {
		lead.LinkedInURL = parts[2]
	}
	if err := b.LeadUC.AddLead(ctx, lead); err != nil {
		return "", fmt.Errorf("add lead: %w", err)
	}
	return "✅ Lead added: " + lead.Name, nil
}

// HandleMarkLead advances a lead to contacted.
func (b *BotFacade) HandleMarkLead(ctx context.Context, leadID string) (string, error) {
	if b.LeadUC == nil {
		return "", fmt.Errorf("lead usecase not available")
	}
	if err := b.LeadUC.MarkLead(ctx, leadID, model.LeadStatusContacted); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "That lead is gone. Use /leads to refresh the list.", nil
		}
		return "", fmt.Errorf("mark lead: %w", err)
	}
	return "✔ Lead marked contacted.", nil
}
