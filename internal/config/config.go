// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token    string  `yaml:"token"`
	Mode     string  `yaml:"mode"` // polling | webhook (future)
	Workers  int     `yaml:"workers"`
	AdminIDs []int64 `yaml:"admin_ids"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// SeedanceConfig drives the video generation pipeline. With an empty APIKey
// or Mock set, the deterministic local backend is used and no network calls
// are made.
type SeedanceConfig struct {
	APIKey         string        `yaml:"api_key"`
	BaseURL        string        `yaml:"base_url"`
	Mock           bool          `yaml:"mock"`
	Duration       int           `yaml:"duration"`   // seconds of generated video
	Resolution     string        `yaml:"resolution"` // e.g. "1080p"
	PollInterval   time.Duration `yaml:"poll_interval"`
	MaxWait        time.Duration `yaml:"max_wait"`        // polling deadline
	RequestTimeout time.Duration `yaml:"request_timeout"` // per-request transport bound
	SimulatedDelay time.Duration `yaml:"simulated_delay"` // mock backend only
}

type StorageConfig struct {
	VideosDir string        `yaml:"videos_dir"`
	PhotosDir string        `yaml:"photos_dir"`
	Retention time.Duration `yaml:"retention"` // how long delivered artifacts stay on disk
}

type AIConfig struct {
	OpenAIKey string `yaml:"openai_key"`
	Model     string `yaml:"model"`
}

type AdminConfig struct {
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"`
}

type Config struct {
	Bot      BotConfig      `yaml:"bot"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Seedance SeedanceConfig `yaml:"seedance"`
	Storage  StorageConfig  `yaml:"storage"`
	AI       AIConfig       `yaml:"ai"`
	Admin    AdminConfig    `yaml:"admin"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file at path, applies environment overrides for
// secrets (a .env file next to the binary is honored) and fills defaults.
func LoadConfig(path string, dev bool) (*Config, error) {
	_ = godotenv.Load() // missing .env is fine

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Secrets may come from the environment instead of the file.
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Bot.Token = v
	}
	if v := os.Getenv("SEEDANCE_API_KEY"); v != "" {
		cfg.Seedance.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.AI.OpenAIKey = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}

	applyDefaults(&cfg)

	// Minimal validation
	if cfg.Bot.Token == "" {
		return nil, errors.New("bot.token is required")
	}
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = time.Hour
	}
	if cfg.Seedance.BaseURL == "" {
		cfg.Seedance.BaseURL = "https://api.seedance.example.com/v1"
	}
	if cfg.Seedance.Duration <= 0 {
		cfg.Seedance.Duration = 5
	}
	if cfg.Seedance.Resolution == "" {
		cfg.Seedance.Resolution = "1080p"
	}
	if cfg.Seedance.PollInterval <= 0 {
		cfg.Seedance.PollInterval = 5 * time.Second
	}
	if cfg.Seedance.MaxWait <= 0 {
		cfg.Seedance.MaxWait = 5 * time.Minute
	}
	if cfg.Seedance.RequestTimeout <= 0 {
		cfg.Seedance.RequestTimeout = 2 * time.Minute
	}
	if cfg.Seedance.SimulatedDelay <= 0 {
		cfg.Seedance.SimulatedDelay = 2 * time.Second
	}
	if cfg.Storage.VideosDir == "" {
		cfg.Storage.VideosDir = "./videos"
	}
	if cfg.Storage.PhotosDir == "" {
		cfg.Storage.PhotosDir = "./photos"
	}
	if cfg.Storage.Retention <= 0 {
		cfg.Storage.Retention = 7 * 24 * time.Hour
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gpt-4o-mini"
	}
	if cfg.Admin.Port == 0 {
		cfg.Admin.Port = 8090
	}
}
