// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port            int    `env:"PORT" envDefault:"3318"`
	DatabaseURL     string `env:"DATABASE_URL"`
	DatabaseType    string `env:"DATABASE_TYPE" envDefault:"sqlite"`
	AdminKeySalt    string `env:"ADMIN_KEY_SALT"`
	SessionCodeSalt string `env:"SESSION_CODE_SALT"`
}

// ParseFlags reads the environment, then applies CLI overrides
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("quickly-rank", flag.ContinueOnError)

	// Environment values become the flag defaults, so flags win when given
	fs.IntVar(&cfg.Port, "p", cfg.Port, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", cfg.DatabaseURL, "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", cfg.DatabaseType, "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKeySalt, "admin-salt", cfg.AdminKeySalt, "Admin key salt (prefer env)")
	fs.StringVar(&cfg.SessionCodeSalt, "code-salt", cfg.SessionCodeSalt, "Session code salt (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	switch cfg.DatabaseType {
	case "sqlite", "postgres":
	default:
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	// Secrets - MUST be provided
	if cfg.AdminKeySalt == "" {
		return Config{}, errors.New("ADMIN_KEY_SALT required")
	}
	if cfg.SessionCodeSalt == "" {
		return Config{}, errors.New("SESSION_CODE_SALT required")
	}
	// Codes are public and derived like admin keys; a shared salt leaks key bytes
	if cfg.SessionCodeSalt == cfg.AdminKeySalt {
		return Config{}, errors.New("SESSION_CODE_SALT must differ from ADMIN_KEY_SALT")
	}

	return cfg, nil
}
