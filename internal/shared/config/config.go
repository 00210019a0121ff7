package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	SpareBank1 SpareBank1Config
	Sync       SyncConfig
	Session    SessionConfig
	Scheduler  SchedulerConfig
	AMQP       AMQPConfig
	TLS        TLSConfig
	Telemetry  TelemetryConfig
	Log        LogConfig
	App        AppConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	AllowedHosts []string
}

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	AutoMigrate bool
}

type SpareBank1Config struct {
	ClientID           string
	ClientSecret       string
	FinInst            string
	RedirectURI        string
	APIURL             string
	AuthURL            string
	MinRequestInterval time.Duration
	Timeout            time.Duration
}

type SyncConfig struct {
	LookbackDays int
	RowLimit     int
}

type SessionConfig struct {
	// Key seals session cookies; empty disables cookie sessions.
	Key        string
	CookieName string
}

type SchedulerConfig struct {
	Enabled       bool
	ScheduleTimes []string
	WorkerCount   int
	QueueSize     int
	RunOnStartup  bool
}

type AMQPConfig struct {
	URL      string
	Exchange string
	Queue    string
}

type TLSConfig struct {
	Enabled      bool
	CertPath     string
	KeyPath      string
	RedirectHTTP bool
}

type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	Environment  string
	OTLPEndpoint string
	MetricsPort  string
}

type LogConfig struct {
	Level string
}

type AppConfig struct {
	Timezone string
	Location *time.Location
}

// Load reads configuration from the environment. A .env file in the working
// directory, when present, is applied first without overriding real variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	minInterval, err := time.ParseDuration(getEnv("SPAREBANK1_MIN_REQUEST_INTERVAL", "3s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SPAREBANK1_MIN_REQUEST_INTERVAL: %w", err)
	}
	upstreamTimeout, err := time.ParseDuration(getEnv("SPAREBANK1_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SPAREBANK1_TIMEOUT: %w", err)
	}

	lookbackDays, err := strconv.Atoi(getEnv("SYNC_LOOKBACK_DAYS", "90"))
	if err != nil {
		return nil, fmt.Errorf("invalid SYNC_LOOKBACK_DAYS: %w", err)
	}
	rowLimit, err := strconv.Atoi(getEnv("SYNC_ROW_LIMIT", "1000"))
	if err != nil {
		return nil, fmt.Errorf("invalid SYNC_ROW_LIMIT: %w", err)
	}

	workers, err := strconv.Atoi(getEnv("COLLAPSE_WORKERS", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid COLLAPSE_WORKERS: %w", err)
	}
	queueSize, err := strconv.Atoi(getEnv("COLLAPSE_QUEUE_SIZE", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid COLLAPSE_QUEUE_SIZE: %w", err)
	}

	timezone := getEnv("APP_TIMEZONE", "UTC")
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Host:         getEnv("HOST", "0.0.0.0"),
			AllowedHosts: splitList(getEnv("ALLOWED_HOSTS", "")),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        dbPort,
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", ""),
			DBName:      getEnv("DB_NAME", "sparebudget"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			AutoMigrate: getBoolEnv("DB_AUTO_MIGRATE", true),
		},
		SpareBank1: SpareBank1Config{
			ClientID:           getEnv("SPAREBANK1_CLIENT_ID", ""),
			ClientSecret:       getEnv("SPAREBANK1_CLIENT_SECRET", ""),
			FinInst:            getEnv("SPAREBANK1_FIN_INST", ""),
			RedirectURI:        getEnv("SPAREBANK1_REDIRECT_URI", ""),
			APIURL:             getEnv("SPAREBANK1_API_URL", "https://api.sparebank1.no/personal/banking"),
			AuthURL:            getEnv("SPAREBANK1_AUTH_URL", "https://api.sparebank1.no"),
			MinRequestInterval: minInterval,
			Timeout:            upstreamTimeout,
		},
		Sync: SyncConfig{
			LookbackDays: lookbackDays,
			RowLimit:     rowLimit,
		},
		Session: SessionConfig{
			Key:        getEnv("SESSION_KEY", ""),
			CookieName: getEnv("SESSION_COOKIE_NAME", "sb1_session"),
		},
		Scheduler: SchedulerConfig{
			Enabled:       getBoolEnv("COLLAPSE_SCHEDULE_ENABLED", false),
			ScheduleTimes: splitList(getEnv("COLLAPSE_SCHEDULE_TIMES", "03:00")),
			WorkerCount:   workers,
			QueueSize:     queueSize,
			RunOnStartup:  getBoolEnv("COLLAPSE_RUN_ON_STARTUP", false),
		},
		AMQP: AMQPConfig{
			URL:      getEnv("AMQP_URL", ""),
			Exchange: getEnv("AMQP_EXCHANGE", "sparebudget"),
			Queue:    getEnv("AMQP_QUEUE", "transactions.collapse"),
		},
		TLS: TLSConfig{
			Enabled:      getBoolEnv("TLS_ENABLED", false),
			CertPath:     getEnv("TLS_CERT_PATH", ""),
			KeyPath:      getEnv("TLS_KEY_PATH", ""),
			RedirectHTTP: getBoolEnv("TLS_REDIRECT_HTTP", false),
		},
		Telemetry: TelemetryConfig{
			Enabled:      getBoolEnv("OTEL_ENABLED", false),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "sparebudget-api"),
			Environment:  getEnv("APP_ENV", "development"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_ENDPOINT", "localhost:4317"),
			MetricsPort:  getEnv("METRICS_PORT", "9464"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		App: AppConfig{
			Timezone: timezone,
			Location: location,
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Sync.LookbackDays <= 0 {
		return fmt.Errorf("SYNC_LOOKBACK_DAYS must be positive")
	}
	if c.Sync.RowLimit <= 0 {
		return fmt.Errorf("SYNC_ROW_LIMIT must be positive")
	}
	if c.Session.Key != "" && len(c.Session.Key) != 32 {
		return fmt.Errorf("SESSION_KEY must be exactly 32 bytes")
	}
	if c.Scheduler.Enabled && c.Scheduler.WorkerCount <= 0 {
		return fmt.Errorf("COLLAPSE_WORKERS must be positive when COLLAPSE_SCHEDULE_ENABLED=true")
	}
	if c.TLS.Enabled {
		if c.TLS.CertPath == "" {
			return fmt.Errorf("TLS_CERT_PATH is required when TLS_ENABLED=true")
		}
		if c.TLS.KeyPath == "" {
			return fmt.Errorf("TLS_KEY_PATH is required when TLS_ENABLED=true")
		}
	}
	return nil
}

// LookbackWindow is the rolling transaction sync window.
func (c *SyncConfig) LookbackWindow() time.Duration {
	return time.Duration(c.LookbackDays) * 24 * time.Hour
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
