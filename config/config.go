// Package config loads the server configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
	StoreSQLite = "sqlite"

	minSecretLen = 32
)

// Config holds runtime settings. Every field maps to a MONEYMANAGER_*
// environment variable.
type Config struct {
	Addr              string        `env:"ADDR" envDefault:":8080"`
	JWTSecret         string        `env:"JWT_SECRET,required"`
	JWTExpiration     time.Duration `env:"JWT_EXPIRATION" envDefault:"1h"`
	JWTIssuer         string        `env:"JWT_ISSUER" envDefault:"moneymanager"`
	ActivationBaseURL string        `env:"ACTIVATION_BASE_URL" envDefault:"http://localhost:8080"`
	BcryptCost        int           `env:"BCRYPT_COST" envDefault:"12"`

	Store         string `env:"STORE" envDefault:"memory"`
	MongoURI      string `env:"MONGO_URI" envDefault:"mongodb://127.0.0.1:27017"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"moneymanager"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"moneymanager.db"`

	ResendAPIKey string `env:"RESEND_API_KEY"`
	MailFrom     string `env:"MAIL_FROM" envDefault:"Money Manager <noreply@moneymanager.app>"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads the process environment.
func Load() (Config, error) {
	return parse(env.Options{Prefix: "MONEYMANAGER_"})
}

// LoadFrom reads vars instead of the process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Prefix: "MONEYMANAGER_", Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if len(c.JWTSecret) < minSecretLen {
		return fmt.Errorf("MONEYMANAGER_JWT_SECRET must be at least %d bytes", minSecretLen)
	}
	if c.JWTExpiration <= 0 {
		return fmt.Errorf("MONEYMANAGER_JWT_EXPIRATION must be positive, got %s", c.JWTExpiration)
	}
	switch c.Store {
	case StoreMemory, StoreMongo, StoreSQLite:
	default:
		return fmt.Errorf("unknown MONEYMANAGER_STORE %q", c.Store)
	}
	return nil
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
