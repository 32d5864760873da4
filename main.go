package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/studymate/internal/config"
	"github.com/sadopc/studymate/internal/mentor"
	"github.com/sadopc/studymate/internal/store"
	"github.com/sadopc/studymate/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := openLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	s, err := store.New(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	// Left as a nil interface when no key is set so the views can tell.
	var gen mentor.Generator
	if key := cfg.Key(); key != "" {
		c, err := mentor.New(context.Background(), mentor.Options{
			APIKey:        key,
			ChatModel:     cfg.ChatModel,
			ResearchModel: cfg.ResearchModel,
			Endpoint:      cfg.APIEndpoint,
		})
		if err != nil {
			logger.Warn("mentor disabled", "err", err)
		} else {
			gen = c
		}
	}

	logger.Info("starting", "db", cfg.DBPath, "mentor", gen != nil)

	app := tui.NewApp(s, gen, logger)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		logger.Error("program exited", "err", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// openLogger writes structured logs to a file, since stderr belongs to the
// terminal UI while it runs.
func openLogger(cfg config.Config) (*slog.Logger, func(), error) {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.LogPath), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { f.Close() }, nil
}
