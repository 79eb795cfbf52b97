// Package config loads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
	MenuDataFile    string        `env:"MENU_DATA_FILE" envDefault:"data.json"`

	Storage Storage
	Log     Log
}

type Storage struct {
	Backend string `env:"STORAGE_BACKEND" envDefault:"sqlite"`

	SQLitePath string `env:"SQLITE_PATH" envDefault:"analytics.db"`

	PostgresDSN             string        `env:"POSTGRES_DSN"`
	PostgresMaxOpenConns    int           `env:"POSTGRES_MAX_OPEN_CONNS" envDefault:"20"`
	PostgresMaxIdleConns    int           `env:"POSTGRES_MAX_IDLE_CONNS" envDefault:"10"`
	PostgresConnMaxLifetime time.Duration `env:"POSTGRES_CONN_MAX_LIFETIME" envDefault:"30m"`

	MongoURI string `env:"MONGO_URI"`
	MongoDB  string `env:"MONGO_DB" envDefault:"menu_analytics"`
}

type Log struct {
	Level      string `env:"LOG_LEVEL" envDefault:"info"`
	Encoding   string `env:"LOG_ENCODING" envDefault:"json"`
	File       string `env:"LOG_FILE"`
	MaxSize    int    `env:"LOG_MAX_SIZE" envDefault:"20"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"5"`
	MaxAge     int    `env:"LOG_MAX_AGE" envDefault:"15"`
	Compress   bool   `env:"LOG_COMPRESS" envDefault:"true"`
}

// Load reads .env files (see LoadEnvFiles) and then the process environment.
func Load() (Config, error) {
	LoadEnvFiles()
	return Parse()
}

// Parse reads the process environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.HTTPAddr) == "" {
		errs = append(errs, errors.New("HTTP_ADDR must not be empty"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT must be positive"))
	}

	switch c.Storage.Backend {
	case BackendSQLite:
		if strings.TrimSpace(c.Storage.SQLitePath) == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for the sqlite backend"))
		}
	case BackendPostgres:
		if strings.TrimSpace(c.Storage.PostgresDSN) == "" {
			errs = append(errs, errors.New("POSTGRES_DSN is required for the postgres backend"))
		}
		if c.Storage.PostgresMaxOpenConns <= 0 {
			errs = append(errs, errors.New("POSTGRES_MAX_OPEN_CONNS must be positive"))
		}
	case BackendMongo:
		if strings.TrimSpace(c.Storage.MongoURI) == "" {
			errs = append(errs, errors.New("MONGO_URI is required for the mongo backend"))
		}
		if strings.TrimSpace(c.Storage.MongoDB) == "" {
			errs = append(errs, errors.New("MONGO_DB must not be empty"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend))
	}

	if c.Log.MaxSize <= 0 || c.Log.MaxBackups < 0 || c.Log.MaxAge < 0 {
		errs = append(errs, errors.New("LOG_MAX_SIZE must be positive and LOG_MAX_BACKUPS/LOG_MAX_AGE non-negative"))
	}

	return errors.Join(errs...)
}
