package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/otienod/zonedash/internal/api"
	"github.com/otienod/zonedash/internal/config"
	"github.com/otienod/zonedash/internal/logger"
	"github.com/otienod/zonedash/internal/store"
	"github.com/otienod/zonedash/internal/tui"
)

func main() {
	cfg := config.Load()

	logPath, err := cfg.ResolveLogPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, logPath)

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}

	s, err := store.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	client := api.New(cfg.BaseURL, log)

	app := tui.NewApp(s, client, cfg, log)
	p := tea.NewProgram(app, tea.WithAltScreen())

	log.WithField("base_url", cfg.BaseURL).Info("starting")
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
