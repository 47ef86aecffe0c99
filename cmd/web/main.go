package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"ProductTable/internal/config"
	"ProductTable/internal/table"
	"ProductTable/internal/web"
	"ProductTable/pkg/kit"
)

func main() {
	cfg, err := config.Load("web")
	if err != nil {
		panic(err)
	}

	log, err := kit.NewLogger(cfg.Service, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	tableMetrics := table.NewMetrics(reg)

	client := table.NewCatalogClient(cfg.CatalogURL, cfg.FetchTimeout)
	sessions := web.NewSessions(cfg.SessionTTL, func() *table.Table {
		return table.New(client, table.Options{
			PageSize:     cfg.PageSize,
			SearchDelay:  cfg.SearchDebounce,
			FetchTimeout: cfg.FetchTimeout,
			Log:          log,
			Metrics:      tableMetrics,
		})
	}, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sessions.Run(ctx)

	h := web.NewHandler(&web.Server{
		Sessions:   sessions,
		CatalogURL: cfg.CatalogURL,
		Log:        log,
	}, web.HTTPDeps{
		Log:                log,
		Service:            cfg.Service,
		Registry:           reg,
		MetricsEnabled:     cfg.MetricsEnabled,
		MetricsToken:       cfg.MetricsToken,
		ActionLimitPerMin:  cfg.ActionLimitPerMin,
		SessionLimitPerMin: cfg.SessionLimitPerMin,
		TrustProxyHeaders:  cfg.TrustProxyHeaders,
	})

	log.Info("catalog upstream", zap.String("url", cfg.CatalogURL))

	if err := kit.RunHTTPServer(":"+cfg.Port, h, log, sessions.CloseAll); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
