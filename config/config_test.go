package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = strings.Repeat("s", 32)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{"MONEYMANAGER_JWT_SECRET": secret})

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, time.Hour, cfg.JWTExpiration)
	assert.Equal(t, "moneymanager", cfg.JWTIssuer)
	assert.Equal(t, "http://localhost:8080", cfg.ActivationBaseURL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"MONEYMANAGER_JWT_SECRET":          secret,
		"MONEYMANAGER_JWT_EXPIRATION":      "3600000ms",
		"MONEYMANAGER_STORE":               "sqlite",
		"MONEYMANAGER_SQLITE_PATH":         "/tmp/mm.db",
		"MONEYMANAGER_ACTIVATION_BASE_URL": "https://api.example.com/api/v1.0",
		"MONEYMANAGER_LOG_LEVEL":           "DEBUG",
	})

	require.NoError(t, err)
	assert.Equal(t, time.Hour, cfg.JWTExpiration)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, "/tmp/mm.db", cfg.SQLitePath)
	assert.Equal(t, "https://api.example.com/api/v1.0", cfg.ActivationBaseURL)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"missing secret", map[string]string{"MONEYMANAGER_ADDR": ":1"}},
		{"weak secret", map[string]string{"MONEYMANAGER_JWT_SECRET": "short"}},
		{"zero ttl", map[string]string{"MONEYMANAGER_JWT_SECRET": secret, "MONEYMANAGER_JWT_EXPIRATION": "0s"}},
		{"bad ttl", map[string]string{"MONEYMANAGER_JWT_SECRET": secret, "MONEYMANAGER_JWT_EXPIRATION": "soon"}},
		{"unknown store", map[string]string{"MONEYMANAGER_JWT_SECRET": secret, "MONEYMANAGER_STORE": "redis"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(tt.vars)
			assert.Error(t, err)
		})
	}
}
