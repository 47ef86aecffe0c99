package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"ProductTable/internal/config"
	"ProductTable/internal/table"
	"ProductTable/internal/tui"
	"ProductTable/pkg/kit"
)

func main() {
	cfg, err := config.Load("tui")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := zap.NewNop()
	if cfg.LogFile != "" {
		if log, err = kit.NewFileLogger(cfg.Service, cfg.LogLevel, cfg.LogFile); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	defer func() { _ = log.Sync() }()

	var p *tea.Program
	tbl := table.New(table.NewCatalogClient(cfg.CatalogURL, cfg.FetchTimeout), table.Options{
		PageSize:     cfg.PageSize,
		SearchDelay:  cfg.SearchDebounce,
		FetchTimeout: cfg.FetchTimeout,
		Log:          log,
		OnChange: func() {
			if p != nil {
				p.Send(tui.Refresh{})
			}
		},
	})
	defer tbl.Close()

	p = tea.NewProgram(tui.New(tbl), tea.WithAltScreen())
	tbl.Start(context.Background())

	if _, err := p.Run(); err != nil {
		log.Error("tui stopped", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
