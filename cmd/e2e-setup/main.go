package main

import (
	"context"
	"flag"
	"log"

	"telegram-video-bot/internal/config"
	pg "telegram-video-bot/internal/infra/db/postgres"
	red "telegram-video-bot/internal/infra/redis"
)

// This script sets up a clean, predictable state for manual end-to-end
// testing: empty job history, no cached sessions.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 5)
	if err != nil {
		log.Fatalf("postgres connection failed: %v", err)
	}
	defer pool.Close()

	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis connection failed: %v", err)
	}
	defer redisClient.Close()

	log.Println("--- Starting E2E Environment Setup ---")

	log.Println("[1/2] Wiping Redis cache...")
	if err := redisClient.FlushDB(ctx); err != nil {
		log.Fatalf("failed to flush redis: %v", err)
	}

	log.Println("[2/2] Wiping job history and leads...")
	_, err = pool.Exec(ctx, `
		TRUNCATE
			video_jobs, income_entries, leads
		RESTART IDENTITY CASCADE;
	`)
	if err != nil {
		log.Fatalf("failed to truncate tables: %v", err)
	}

	log.Println("--- E2E Environment Setup Complete ---")
}
