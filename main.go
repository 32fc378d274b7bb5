package main

import (
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/fragmede/tagterm/internal/api"
	"github.com/fragmede/tagterm/internal/auth"
	"github.com/fragmede/tagterm/internal/config"
	"github.com/fragmede/tagterm/internal/logging"
	"github.com/fragmede/tagterm/internal/store"
	"github.com/fragmede/tagterm/internal/ui"
)

func main() {
	// A .env next to the binary is optional.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	if err := os.MkdirAll(cfg.ConfigDir, 0o755); err != nil {
		log.Fatalf("creating config dir: %v", err)
	}

	logger, err := logging.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		log.Fatalf("opening log: %v", err)
	}
	defer logger.Sync()

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("opening store: %v", err)
	}
	defer db.Close()

	logger.Info("starting", zap.String("server", cfg.BaseURL), zap.String("locale", cfg.Locale))

	client := api.NewClient(cfg.BaseURL, cfg.RequestTimeout)
	session := auth.NewSession(db)

	app := ui.NewApp(cfg, client, session, logger)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("program exited", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
