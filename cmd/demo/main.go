// Offline demo of the bot flow: mock backend, in-memory job store, noop
// Telegram adapter instead of a real chat. No Postgres, no network.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"telegram-video-bot/internal/application"
	"telegram-video-bot/internal/domain"
	"telegram-video-bot/internal/domain/model"
	"telegram-video-bot/internal/infra/adapters/ai"
	"telegram-video-bot/internal/infra/adapters/seedance"
	"telegram-video-bot/internal/infra/adapters/telegram"
	"telegram-video-bot/internal/infra/logging"
	"telegram-video-bot/internal/infra/storage"
	"telegram-video-bot/internal/usecase"

	"telegram-video-bot/internal/config"
)

type inMemJobRepo struct {
	mu   sync.Mutex
	jobs map[string]*model.VideoJob
}

func (m *inMemJobRepo) Create(ctx context.Context, job *model.VideoJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *job
	m.jobs[job.ID] = &cp
	return nil
}

func (m *inMemJobRepo) UpdateStatus(ctx context.Context, jobID string, status model.VideoJobStatus, videoPath, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return domain.ErrNotFound
	}
	job.Status = status
	job.VideoPath = videoPath
	job.ErrorMessage = errMsg
	return nil
}

func (m *inMemJobRepo) FindByID(ctx context.Context, jobID string) (*model.VideoJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *job
	return &cp, nil
}

func (m *inMemJobRepo) ListByUser(ctx context.Context, userID int64, limit int) ([]*model.VideoJob, error) {
	return nil, nil
}

func main() {
	dir, err := os.MkdirTemp("", "video-demo-")
	if err != nil {
		log.Fatalf("temp dir: %v", err)
	}
	defer os.RemoveAll(dir)

	logger := logging.New(config.LogConfig{Level: "debug", Format: "console"}, true)

	store := storage.NewArtifactStore(dir)
	backend := seedance.NewMockBackend(500*time.Millisecond, store, logger)
	repo := &inMemJobRepo{jobs: make(map[string]*model.VideoJob)}

	uc := usecase.NewVideoUseCase(repo, nil, backend, ai.NewNoopEnhancer(), nil, "mock", logger)
	facade := application.NewBotFacade(uc, nil, nil, nil)
	bot := telegram.NewNoopBotAdapter(logger)

	ctx := context.Background()
	userID := int64(42424242)

	text, err := facade.HandleVideoStart(ctx, userID)
	if err != nil {
		log.Fatalf("video start: %v", err)
	}
	_ = bot.SendMessage(ctx, userID, text)

	for i := 1; i <= 2; i++ {
		text, err = facade.HandlePhoto(ctx, userID, fmt.Sprintf("demo-photo-%d.jpg", i))
		if err != nil {
			log.Fatalf("add photo: %v", err)
		}
		_ = bot.SendMessage(ctx, userID, text)
	}

	text, err = facade.HandlePrompt(ctx, userID, usecase.VideoTemplates["dance"])
	if err != nil {
		log.Fatalf("set prompt: %v", err)
	}
	_ = bot.SendMessage(ctx, userID, text)

	result, err := uc.Submit(ctx, userID)
	if err != nil {
		log.Fatalf("submit: %v", err)
	}
	caption := facade.FormatJobResult(result)
	if result.Status == model.VideoJobStatusCompleted {
		_ = bot.SendVideoFile(ctx, userID, result.VideoPath, caption)
	} else {
		_ = bot.SendMessage(ctx, userID, caption)
	}

	job, err := repo.FindByID(ctx, result.JobID)
	if err != nil {
		log.Fatalf("find job: %v", err)
	}
	fmt.Printf("persisted record: job=%s status=%s\n", job.ID, job.Status)
}
