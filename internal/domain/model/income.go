package model

import (
	"fmt"
	"strings"
	"time"

	"telegram-video-bot/internal/domain"
)

// IncomeEntry is one logged income item in the financial ledger.
type IncomeEntry struct {
	ID          string
	Category    string
	Source      string
	GrossAmount float64
	NetAmount   float64
	BillsAmount float64
	EntryDate   time.Time
	Description string
	CreatedAt   time.Time
}

func NewIncomeEntry(id, category string, gross, bills float64, description string) (*IncomeEntry, error) {
	if strings.TrimSpace(category) == "" {
		return nil, fmt.Errorf("%w: category is required", domain.ErrInvalidArgument)
	}
	if gross < 0 || bills < 0 {
		return nil, fmt.Errorf("%w: amounts must be non-negative", domain.ErrInvalidArgument)
	}
	now := time.Now()
	return &IncomeEntry{
		ID:          id,
		Category:    category,
		GrossAmount: gross,
		NetAmount:   gross - bills,
		BillsAmount: bills,
		EntryDate:   now,
		Description: description,
		CreatedAt:   now,
	}, nil
}

// MonthlySummary aggregates the ledger for one calendar month.
type MonthlySummary struct {
	Month      time.Month
	Year       int
	TotalGross float64
	TotalNet   float64
	TotalBills float64
	ByCategory map[string]float64
}
