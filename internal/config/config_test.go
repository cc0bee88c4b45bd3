package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, 4, cfg.Worker.Workers)
	assert.Equal(t, 256, cfg.Worker.QueueSize)
	assert.Equal(t, 30*time.Second, cfg.Worker.SettlementDelay)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("SETTLEMENT_DELAY", "250ms")
	t.Setenv("FINALIZE_WORKERS", "8")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, 250*time.Millisecond, cfg.Worker.SettlementDelay)
	assert.Equal(t, 8, cfg.Worker.Workers)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad driver", "STORE_DRIVER", "dynamo"},
		{"bad port", "SERVER_PORT", "not-a-port"},
		{"port out of range", "SERVER_PORT", "70000"},
		{"bad delay", "SETTLEMENT_DELAY", "thirty seconds"},
		{"zero workers", "FINALIZE_WORKERS", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestPostgresConnString(t *testing.T) {
	s := StoreConfig{
		Host: "db", Port: "5433", User: "u", Password: "p", Name: "walnut", SSLMode: "disable",
	}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=walnut sslmode=disable", s.PostgresConnString())

	s.DSN = "host=override"
	assert.Equal(t, "host=override", s.PostgresConnString())
}
