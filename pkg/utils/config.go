package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// Config is read from MASTERPLAN_* environment variables.
type Config struct {
	HTTPAddr       string        `env:"HTTP_ADDR" envDefault:":8080"`
	SyncAddr       string        `env:"SYNC_ADDR" envDefault:":7070"`
	Store          string        `env:"STORE" envDefault:"file"`
	DataPath       string        `env:"DATA_PATH" envDefault:"data/plots.json"`
	DBPath         string        `env:"DB_PATH"`
	ImagePath      string        `env:"IMAGE_PATH" envDefault:"villaview.jpg"`
	ImageMaxAge    time.Duration `env:"IMAGE_MAX_AGE" envDefault:"1h"`
	TrustedProxies []string      `env:"TRUSTED_PROXIES" envSeparator:"," envDefault:"127.0.0.1"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "MASTERPLAN_"}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	switch cfg.Store {
	case StoreFile, StoreSQLite:
	default:
		return Config{}, fmt.Errorf("MASTERPLAN_STORE must be %q or %q, got %q", StoreFile, StoreSQLite, cfg.Store)
	}

	if cfg.DBPath == "" {
		// local default: ~/.masterplan/data.db
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			home = "."
		}
		cfg.DBPath = filepath.Join(home, ".masterplan", "data.db")
	}
	return cfg, nil
}
