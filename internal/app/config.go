package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"lang-portal/internal/shared/database"
	"lang-portal/internal/shared/logging"
)

// Environment variable names.
const (
	EnvFile            = "LANGPORTAL_ENV_FILE"
	EnvDBPath          = "LANGPORTAL_DB_PATH"
	EnvDBDriver        = "LANGPORTAL_DB_DRIVER"
	EnvPort            = "LANGPORTAL_PORT"
	EnvRateLimit       = "LANGPORTAL_RATE_LIMIT"
	EnvCORSOrigins     = "LANGPORTAL_CORS_ORIGINS"
	EnvLogLevel        = "LANGPORTAL_LOG_LEVEL"
	EnvLogFormat       = "LANGPORTAL_LOG_FORMAT"
	EnvShutdownTimeout = "LANGPORTAL_SHUTDOWN_TIMEOUT"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath          string
	DBDriver        string
	Port            string
	RateLimit       int
	CORSOrigins     []string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// LoadConfig loads configuration from environment variables, after merging
// in envFile (or LANGPORTAL_ENV_FILE, or ./.env when present). Variables
// already set in the process environment win over file values.
// Returns an error if a value is invalid.
func LoadConfig(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = os.Getenv(EnvFile)
	}
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		DBPath:      getenvDefault(EnvDBPath, "./words.db"),
		DBDriver:    getenvDefault(EnvDBDriver, database.DriverMattn),
		Port:        getenvDefault(EnvPort, "5000"),
		CORSOrigins: splitList(getenvDefault(EnvCORSOrigins, "*")),
		LogLevel:    getenvDefault(EnvLogLevel, "info"),
		LogFormat:   strings.ToLower(getenvDefault(EnvLogFormat, "text")),
	}

	switch cfg.DBDriver {
	case database.DriverMattn, database.DriverModernc:
	default:
		return nil, fmt.Errorf("%s must be %q or %q", EnvDBDriver, database.DriverMattn, database.DriverModernc)
	}

	port, err := strconv.Atoi(cfg.Port)
	if err != nil || port < 1 || port > 65535 {
		return nil, fmt.Errorf("%s must be a port number between 1 and 65535", EnvPort)
	}

	rateLimitStr := os.Getenv(EnvRateLimit)
	if rateLimitStr == "" {
		cfg.RateLimit = 100
	} else {
		rateLimit, err := strconv.Atoi(rateLimitStr)
		if err != nil || rateLimit <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer", EnvRateLimit)
		}
		cfg.RateLimit = rateLimit
	}

	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("%s: %w", EnvLogLevel, err)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("%s must be \"text\" or \"json\"", EnvLogFormat)
	}

	timeoutStr := getenvDefault(EnvShutdownTimeout, "10s")
	cfg.ShutdownTimeout, err = time.ParseDuration(timeoutStr)
	if err != nil || cfg.ShutdownTimeout <= 0 {
		return nil, fmt.Errorf("%s=%q is not a positive duration", EnvShutdownTimeout, timeoutStr)
	}

	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}

	return cfg, nil
}

// Addr returns the listen address for the configured port.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getenvDefault(k, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
