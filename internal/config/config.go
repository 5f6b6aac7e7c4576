package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment string     `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    slog.Level `env:"-"`
	LogLevelRaw string     `env:"LOG_LEVEL" envDefault:"info"`
	LogFile     string     `env:"LOG_FILE"`

	DataDir     string `env:"DATA_DIR" envDefault:"./data"`
	ContentFile string `env:"CONTENT_FILE"` // Skips the content picker when set
	RedisURL    string `env:"REDIS_URL"`    // Cue bus is disabled when empty

	InteractionDistance float64 `env:"INTERACTION_DISTANCE" envDefault:"3"`

	Audio AudioConfig `envPrefix:"AUDIO_"`
}

type AudioConfig struct {
	MasterVolume float64 `env:"MASTER_VOLUME" envDefault:"1"`
	MusicVolume  float64 `env:"MUSIC_VOLUME" envDefault:"0.7"`
	SFXVolume    float64 `env:"SFX_VOLUME" envDefault:"0.8"`
	VoiceVolume  float64 `env:"VOICE_VOLUME" envDefault:"1"`
}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return Parse()
}

// Parse reads configuration from the process environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.LogLevel = parseLogLevel(cfg.LogLevelRaw)

	if cfg.InteractionDistance <= 0 {
		return nil, fmt.Errorf("INTERACTION_DISTANCE must be positive, got %v", cfg.InteractionDistance)
	}
	return &cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
