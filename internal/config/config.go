// Package config reads the runtime settings of the ProductTable binaries
// from the environment, optionally layered over a config file named by
// CONFIG_FILE.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Service  string
	Port     string
	LogLevel string
	LogFile  string

	CatalogURL string
	SeedFile   string

	PageSize       int
	SearchDebounce time.Duration
	FetchTimeout   time.Duration
	SessionTTL     time.Duration

	ActionLimitPerMin  int
	SessionLimitPerMin int
	TrustProxyHeaders  bool

	MetricsEnabled bool
	MetricsToken   string
}

var defaultPorts = map[string]string{
	"web":     "8080",
	"catalog": "5000",
}

func Load(service string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v, service)

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	cfg := &Config{
		Service:  service,
		Port:     v.GetString("PORT"),
		LogLevel: v.GetString("LOG_LEVEL"),
		LogFile:  v.GetString("LOG_FILE"),

		CatalogURL: v.GetString("CATALOG_URL"),
		SeedFile:   v.GetString("SEED_FILE"),

		PageSize:       v.GetInt("PAGE_SIZE"),
		SearchDebounce: v.GetDuration("SEARCH_DEBOUNCE"),
		FetchTimeout:   v.GetDuration("FETCH_TIMEOUT"),
		SessionTTL:     v.GetDuration("SESSION_TTL"),

		ActionLimitPerMin:  v.GetInt("ACTION_LIMIT_PER_MIN"),
		SessionLimitPerMin: v.GetInt("SESSION_LIMIT_PER_MIN"),
		TrustProxyHeaders:  v.GetBool("TRUST_PROXY_HEADERS"),

		MetricsEnabled: v.GetBool("METRICS_ENABLED"),
		MetricsToken:   v.GetString("METRICS_TOKEN"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, service string) {
	port, ok := defaultPorts[service]
	if !ok {
		port = "8080"
	}

	v.SetDefault("PORT", port)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CATALOG_URL", "http://localhost:5000")
	v.SetDefault("PAGE_SIZE", 10)
	v.SetDefault("SEARCH_DEBOUNCE", "1500ms")
	v.SetDefault("FETCH_TIMEOUT", "5s")
	v.SetDefault("SESSION_TTL", "30m")
	v.SetDefault("ACTION_LIMIT_PER_MIN", 600)
	v.SetDefault("SESSION_LIMIT_PER_MIN", 30)
	v.SetDefault("TRUST_PROXY_HEADERS", false)
	v.SetDefault("METRICS_ENABLED", true)
}

func (c *Config) validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	if c.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("PAGE_SIZE must be positive, got %d", c.PageSize))
	}
	if c.SearchDebounce <= 0 {
		errs = append(errs, fmt.Errorf("SEARCH_DEBOUNCE must be positive, got %s", c.SearchDebounce))
	}
	if c.FetchTimeout <= 0 {
		errs = append(errs, fmt.Errorf("FETCH_TIMEOUT must be positive, got %s", c.FetchTimeout))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL))
	}
	return errors.Join(errs...)
}
