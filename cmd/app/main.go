// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"telegram-video-bot/internal/application"
	"telegram-video-bot/internal/config"
	"telegram-video-bot/internal/domain/ports/adapter"
	aiAdapters "telegram-video-bot/internal/infra/adapters/ai"
	"telegram-video-bot/internal/infra/adapters/seedance"
	tele "telegram-video-bot/internal/infra/adapters/telegram"
	pg "telegram-video-bot/internal/infra/db/postgres"
	"telegram-video-bot/internal/infra/logging"
	"telegram-video-bot/internal/infra/metrics"
	red "telegram-video-bot/internal/infra/redis"
	"telegram-video-bot/internal/infra/sched"
	"telegram-video-bot/internal/infra/storage"
	"telegram-video-bot/internal/infra/web"
	"telegram-video-bot/internal/infra/worker"
	"telegram-video-bot/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logging)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connect failed")
	}
	rateLimiter := red.NewRateLimiter(redisClient)
	sessionRepo := red.NewSessionRepo(redisClient, cfg.Redis.TTL)

	// ---- Repositories ----
	jobRepo := pg.NewVideoJobRepo(pool)
	recipeRepo := pg.NewRecipeRepo(pool)
	incomeRepo := pg.NewIncomeRepo(pool)
	leadRepo := pg.NewLeadRepo(pool)

	// ---- Artifact storage ----
	artifactStore := storage.NewArtifactStore(cfg.Storage.VideosDir)

	// ---- Generation backend (real Seedance, or deterministic mock) ----
	var backend adapter.GenerationBackend
	mode := "real"
	if cfg.Seedance.Mock || cfg.Seedance.APIKey == "" {
		mode = "mock"
		backend = seedance.NewMockBackend(cfg.Seedance.SimulatedDelay, artifactStore, logger)
		logger.Info().Dur("delay", cfg.Seedance.SimulatedDelay).Msg("generation backend: mock")
	} else {
		backend, err = seedance.NewClient(cfg.Seedance, artifactStore, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("seedance client init failed")
		}
		logger.Info().Str("base_url", cfg.Seedance.BaseURL).Msg("generation backend: seedance")
	}

	// ---- Prompt enhancer (best effort, optional) ----
	var enhancer adapter.PromptEnhancer
	if cfg.AI.OpenAIKey != "" {
		enhancer, err = aiAdapters.NewOpenAIEnhancer(cfg.AI.OpenAIKey, cfg.AI.Model)
		if err != nil {
			logger.Fatal().Err(err).Msg("openai enhancer init failed")
		}
		logger.Info().Str("model", cfg.AI.Model).Msg("prompt enhancer: openai")
	} else {
		enhancer = aiAdapters.NewNoopEnhancer()
	}

	// ---- Worker pool ----
	jobPool := worker.NewPool(cfg.Bot.Workers, logger)
	jobPool.Start(ctx)
	defer jobPool.Stop()

	// ---- Use cases ----
	videoUC := usecase.NewVideoUseCase(jobRepo, sessionRepo, backend, enhancer, jobPool, mode, logger)
	mealUC := usecase.NewMealUseCase(recipeRepo)
	moneyUC := usecase.NewMoneyUseCase(incomeRepo)
	leadUC := usecase.NewLeadUseCase(leadRepo)

	// ---- Facade ----
	facade := application.NewBotFacade(videoUC, mealUC, moneyUC, leadUC)

	// ---- Telegram ----
	botAdapter, err := tele.NewRealTelegramBotAdapter(&cfg.Bot, cfg.Storage.PhotosDir, facade, rateLimiter, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram init failed")
	}
	if strings.ToLower(cfg.Bot.Mode) != "polling" {
		logger.Warn().Str("mode", cfg.Bot.Mode).Msg("bot mode not implemented; falling back to polling")
	}
	go func() {
		if err := botAdapter.StartPolling(ctx); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("telegram polling stopped")
		}
	}()

	// ---- Admin API ----
	adminSrv := web.NewServer(jobRepo, cfg.Admin.APIKey, logger)
	server := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Admin.Port), Handler: adminSrv.Router()}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("admin API listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("admin API server error")
		}
	}()

	// ---- Artifact cleanup (hourly) ----
	cleanup := sched.NewCleanupWorker(time.Hour, cfg.Storage.Retention, artifactStore, logger)
	go func() { _ = cleanup.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	botAdapter.StopPolling()
	_ = server.Shutdown(context.Background())
	cancel()
}
