package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/sadopc/studymate/internal/store"
)

// Config holds process-level settings read from the environment. User
// preferences such as pomodoro lengths live in the store instead.
type Config struct {
	DBPath   string `env:"STUDYMATE_DB_PATH"`
	LogPath  string `env:"STUDYMATE_LOG_PATH"`
	LogLevel string `env:"STUDYMATE_LOG_LEVEL" envDefault:"info"`

	APIKey        string `env:"STUDYMATE_API_KEY"`
	GeminiAPIKey  string `env:"GEMINI_API_KEY"`
	ChatModel     string `env:"STUDYMATE_CHAT_MODEL" envDefault:"gemini-3-flash-preview"`
	ResearchModel string `env:"STUDYMATE_RESEARCH_MODEL" envDefault:"gemini-3-pro-preview"`
	APIEndpoint   string `env:"STUDYMATE_API_ENDPOINT"`
}

// Load parses the environment and fills in path defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DBPath == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return cfg, fmt.Errorf("default db path: %w", err)
		}
		cfg.DBPath = p
	}
	if cfg.LogPath == "" {
		cfg.LogPath = filepath.Join(filepath.Dir(cfg.DBPath), "studymate.log")
	}
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Key returns the API key to use, preferring STUDYMATE_API_KEY.
func (c Config) Key() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	return c.GeminiAPIKey
}

// ParseLevel accepts slog level names such as "debug" or "WARN+2". An
// empty string means info.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	s = strings.TrimSpace(s)
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}
