package config

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"lupa/internal/bootstrap/logging"
	"lupa/internal/errs"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	Camara   CamaraConfig   `mapstructure:"camara"`
	Ingest   IngestConfig   `mapstructure:"ingest"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// CamaraConfig controls the upstream HTTP client for the Câmara dos
// Deputados open-data API.
type CamaraConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	MinIntervalMS  int    `mapstructure:"min_interval_ms"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	MaxRetries     int    `mapstructure:"max_retries"`
}

func (c CamaraConfig) MinInterval() time.Duration {
	return time.Duration(c.MinIntervalMS) * time.Millisecond
}

func (c CamaraConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// IngestConfig bounds one ingestion run. Page ceilings are a safety valve
// against pathological upstream pagination, not a correctness mechanism.
type IngestConfig struct {
	PageSize              int `mapstructure:"page_size"`
	WindowDays            int `mapstructure:"window_days"`
	MaxPagesPerWindow     int `mapstructure:"max_pages_per_window"`
	MaxPagesPerLegislator int `mapstructure:"max_pages_per_legislator"`
	Concurrency           int `mapstructure:"concurrency"`
}

func Load(ctx context.Context, configFile string) (Config, error) {
	if ctx == nil {
		return Config{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Config{}, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.config"))

	v := viper.New()
	setDefaults(logCtx, v)

	v.SetEnvPrefix("LUPA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			// Keep default and env-backed config when no file is provided.
			logging.Warn(logCtx, "config file not found, fallback to defaults and env")
		} else {
			return Config{}, errs.Wrap(err, "read config")
		}
	} else {
		logging.Info(logCtx, "using config file", slog.String("path", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errs.Wrap(err, "unmarshal config")
	}

	if cfg.Database.DSN == "" {
		return Config{}, errors.New("database.dsn is required")
	}
	if cfg.Camara.BaseURL == "" {
		return Config{}, errors.New("camara.base_url is required")
	}
	if cfg.Ingest.PageSize <= 0 {
		return Config{}, errors.New("ingest.page_size must be positive")
	}
	if cfg.Ingest.Concurrency <= 0 {
		return Config{}, errors.New("ingest.concurrency must be positive")
	}

	logging.Info(
		logCtx,
		"config loaded",
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
		slog.String("database_driver", cfg.Database.Driver),
		slog.String("camara_base_url", cfg.Camara.BaseURL),
	)

	return cfg, nil
}

func setDefaults(ctx context.Context, v *viper.Viper) {
	if ctx == nil {
		return
	}

	v.SetDefault("app.name", "lupa")
	v.SetDefault("app.env", "local")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "data/lupa.sqlite")
	v.SetDefault("camara.base_url", "https://dadosabertos.camara.leg.br/api/v2")
	v.SetDefault("camara.min_interval_ms", 500)
	v.SetDefault("camara.timeout_seconds", 30)
	v.SetDefault("camara.max_retries", 3)
	v.SetDefault("ingest.page_size", 100)
	v.SetDefault("ingest.window_days", 90)
	v.SetDefault("ingest.max_pages_per_window", 50)
	v.SetDefault("ingest.max_pages_per_legislator", 50)
	v.SetDefault("ingest.concurrency", 10)
}
