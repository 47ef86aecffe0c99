package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"ProductTable/internal/catalog"
	"ProductTable/internal/config"
	"ProductTable/pkg/kit"
)

func main() {
	cfg, err := config.Load("catalog")
	if err != nil {
		panic(err)
	}

	log, err := kit.NewLogger(cfg.Service, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	store := catalog.NewStore()
	if cfg.SeedFile != "" {
		ps, err := catalog.LoadSeedFile(cfg.SeedFile)
		if err != nil {
			log.Fatal("seed file", zap.String("path", cfg.SeedFile), zap.Error(err))
		}
		store = catalog.NewMemStore(ps)
		log.Info("seeded from file", zap.String("path", cfg.SeedFile), zap.Int("count", len(ps)))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	h := catalog.NewHandler(&catalog.Server{Store: store, Log: log}, catalog.HTTPDeps{
		Log:            log,
		Service:        cfg.Service,
		Registry:       reg,
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
	})

	if err := kit.RunHTTPServer(":"+cfg.Port, h, log, nil); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
