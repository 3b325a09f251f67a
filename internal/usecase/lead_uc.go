package usecase

import (
	"context"
	"time"

	"telegram-video-bot/internal/domain/model"
	"telegram-video-bot/internal/domain/ports/repository"
)

var _ LeadUseCase = (*leadUC)(nil)

// LeadUseCase is the lead list. Plain request/response lookups.
type LeadUseCase interface {
	AddLead(ctx context.Context, lead *model.Lead) error
	ListLeads(ctx context.Context, status model.LeadStatus, limit int) ([]*model.Lead, error)
	MarkLead(ctx context.Context, id string, status model.LeadStatus) error
}

type leadUC struct {
	leads repository.LeadRepository
}

func NewLeadUseCase(leads repository.LeadRepository) *leadUC {
	return &leadUC{leads: leads}
}

func (l *leadUC) AddLead(ctx context.Context, lead *model.Lead) error {
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now()
	}
	return l.leads.Add(ctx, lead)
}

func (l *leadUC) ListLeads(ctx context.Context, status model.LeadStatus, limit int) ([]*model.Lead, error) {
	return l.leads.ListByStatus(ctx, status, limit)
}

func (l *leadUC) MarkLead(ctx context.Context, id string, status model.LeadStatus) error {
	return l.leads.UpdateStatus(ctx, id, status)
}
