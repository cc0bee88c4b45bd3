package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP    HTTPConfig
	Store   StoreConfig
	Worker  WorkerConfig
	Logging LoggingConfig
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MetricsEnabled  bool
}

// StoreConfig selects and describes the transaction store backend.
type StoreConfig struct {
	// Driver is one of "postgres", "sqlite" or "memory".
	Driver     string
	DSN        string // full Postgres conn string; built from parts when empty
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string
	SQLitePath string
}

// WorkerConfig controls the finalization worker pool.
type WorkerConfig struct {
	Workers         int
	QueueSize       int
	SettlementDelay time.Duration
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level  string
	Format string // text|json
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

const (
	defaultHost            = "0.0.0.0"
	defaultPort            = 8080
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultLoggingLevel    = "info"
	defaultLoggingFormat   = "text"
	defaultWorkers         = 4
	defaultQueueSize       = 256
	defaultSettlementDelay = 30 * time.Second
	defaultSQLitePath      = "walnut.db"
)

// PostgresConnString renders the lib/pq connection string, preferring an
// explicit DSN over the individual parts.
func (s StoreConfig) PostgresConnString() string {
	if s.DSN != "" {
		return s.DSN
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		s.Host, s.Port, s.User, s.Password, s.Name, s.SSLMode)
}

// Load reads configuration from environment variables, applying defaults.
func Load() (Config, error) {
	cfg := Config{
		HTTP: HTTPConfig{
			Host:            valueOrDefault("SERVER_HOST", defaultHost),
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			IdleTimeout:     defaultIdleTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
			MetricsEnabled:  parseBoolWithDefault("SERVER_METRICS_ENABLED", false),
		},
		Store: StoreConfig{
			Driver:     valueOrDefault("STORE_DRIVER", DriverPostgres),
			DSN:        os.Getenv("DB_CONN_STR"),
			Host:       valueOrDefault("DB_HOST", "localhost"),
			Port:       valueOrDefault("DB_PORT", "5432"),
			User:       valueOrDefault("DB_USER", "postgres"),
			Password:   valueOrDefault("DB_PASSWORD", "postgres"),
			Name:       valueOrDefault("DB_NAME", "walnut"),
			SSLMode:    valueOrDefault("DB_SSL_MODE", "disable"),
			SQLitePath: valueOrDefault("SQLITE_PATH", defaultSQLitePath),
		},
		Worker: WorkerConfig{
			Workers:         parseIntWithDefault("FINALIZE_WORKERS", defaultWorkers),
			QueueSize:       parseIntWithDefault("FINALIZE_QUEUE_SIZE", defaultQueueSize),
			SettlementDelay: defaultSettlementDelay,
		},
		Logging: LoggingConfig{
			Level:  valueOrDefault("LOG_LEVEL", defaultLoggingLevel),
			Format: valueOrDefault("LOG_FORMAT", defaultLoggingFormat),
		},
	}

	switch cfg.Store.Driver {
	case DriverPostgres, DriverSQLite, DriverMemory:
	default:
		return Config{}, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}

	port, err := parsePort("SERVER_PORT", defaultPort)
	if err != nil {
		return Config{}, err
	}
	cfg.HTTP.Port = port

	for _, tc := range []struct {
		key string
		dst *time.Duration
	}{
		{"SERVER_READ_TIMEOUT", &cfg.HTTP.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout},
		{"SERVER_IDLE_TIMEOUT", &cfg.HTTP.IdleTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", &cfg.HTTP.ShutdownTimeout},
		{"SETTLEMENT_DELAY", &cfg.Worker.SettlementDelay},
	} {
		if v := os.Getenv(tc.key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return Config{}, fmt.Errorf("invalid %s: %w", tc.key, err)
			}
			*tc.dst = d
		}
	}

	if cfg.Worker.Workers <= 0 {
		return Config{}, fmt.Errorf("FINALIZE_WORKERS must be positive, got %d", cfg.Worker.Workers)
	}
	if cfg.Worker.QueueSize <= 0 {
		return Config{}, fmt.Errorf("FINALIZE_QUEUE_SIZE must be positive, got %d", cfg.Worker.QueueSize)
	}
	if cfg.Worker.SettlementDelay < 0 {
		return Config{}, fmt.Errorf("SETTLEMENT_DELAY must not be negative")
	}

	return cfg, nil
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolWithDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
	}
	return fallback
}

func parseIntWithDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			return val
		}
	}
	return fallback
}

func parsePort(key string, fallback int) (int, error) {
	if v := os.Getenv(key); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
		}
		if port <= 0 || port > 65535 {
			return 0, fmt.Errorf("port %d is out of range", port)
		}
		return port, nil
	}
	return fallback, nil
}
