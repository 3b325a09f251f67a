package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"telegram-video-bot/internal/domain"
	"telegram-video-bot/internal/domain/model"
	"telegram-video-bot/internal/domain/ports/repository"
)

var _ MoneyUseCase = (*moneyUC)(nil)

// MoneyUseCase is the financial ledger. Plain request/response lookups.
type MoneyUseCase interface {
	// LogIncome parses "category | gross | bills | description" and stores
	// the entry.
	LogIncome(ctx context.Context, line string) (*model.IncomeEntry, error)
	MonthlySummary(ctx context.Context) (*model.MonthlySummary, error)
	RecentEntries(ctx context.Context, limit int) ([]*model.IncomeEntry, error)
}

type moneyUC struct {
	incomes repository.IncomeRepository
}

func NewMoneyUseCase(incomes repository.IncomeRepository) *moneyUC {
	return &moneyUC{incomes: incomes}
}

func (m *moneyUC) LogIncome(ctx context.Context, line string) (*model.IncomeEntry, error) {
	parts := strings.Split(line, "|")
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: expected 'category | gross | bills | description'", domain.ErrInvalidArgument)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	gross, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return nil, fmt.Errorf("%w: gross amount %q", domain.ErrInvalidArgument, parts[1])
	}
	var bills float64
	if len(parts) > 2 && parts[2] != "" {
		bills, err = strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bills amount %q", domain.ErrInvalidArgument, parts[2])
		}
	}
	description := ""
	if len(parts) > 3 {
		description = parts[3]
	}

	entry, err := model.NewIncomeEntry("", parts[0], gross, bills, description)
	if err != nil {
		return nil, err
	}
	if err := m.incomes.Add(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (m *moneyUC) MonthlySummary(ctx context.Context) (*model.MonthlySummary, error) {
	return m.incomes.MonthlySummary(ctx, time.Now())
}

func (m *moneyUC) RecentEntries(ctx context.Context, limit int) ([]*model.IncomeEntry, error) {
	return m.incomes.ListRecent(ctx, limit)
}
