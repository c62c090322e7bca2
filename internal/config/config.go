// Package config contains everything related to configuration
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingProvider is returned when no model provider credentials are set.
var ErrMissingProvider = errors.New(
	"Missing Vertex configuration. Set GOOGLE_VERTEX_PROJECT (and auth) or GOOGLE_VERTEX_API_KEY.")

// Config holds the application configuration.
type Config struct {
	Port             int
	TelemetryLogPath string
	SavedAudioPath   string
	DatabasePath     string
	StaticDir        string
	DashboardLogPath string
	LogLevel         string

	VertexProject  string
	VertexLocation string
	VertexAPIKey   string
	VisionAPIKey   string

	RedisURL     string
	RedisChannel string

	MetricsEnabled  bool
	RefreshInterval time.Duration

	// EnvFile is the .env file that was loaded, if any.
	EnvFile string
}

// Load reads configuration from a .env file and environment variables.
// When envFile is empty the first existing file from the search path is used.
func Load(envFile string) (*Config, error) {
	loaded, err := loadEnvFile(envFile)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:             getEnvInt("PORT", defaultPort),
		TelemetryLogPath: getEnvString("TELEMETRY_LOG_PATH", defaultTelemetryLogPath),
		SavedAudioPath:   getEnvString("SAVED_AUDIO_PATH", defaultSavedAudioPath),
		DatabasePath:     getEnvRaw("DATABASE_PATH", defaultDatabasePath),
		StaticDir:        getEnvString("STATIC_DIR", defaultStaticDir),
		DashboardLogPath: getEnvString("DASHBOARD_LOG_PATH", defaultDashboardLogPath),
		LogLevel:         getEnvString("LOG_LEVEL", "info"),
		VertexProject:    getEnvString("GOOGLE_VERTEX_PROJECT", ""),
		VertexLocation:   getEnvString("GOOGLE_VERTEX_LOCATION", defaultVertexLocation),
		VertexAPIKey:     getEnvString("GOOGLE_VERTEX_API_KEY", ""),
		RedisURL:         getEnvString("REDIS_URL", ""),
		RedisChannel:     getEnvString("REDIS_CHANNEL", defaultRedisChannel),
		MetricsEnabled:   getEnvBool("METRICS_ENABLED", true),
		RefreshInterval:  getEnvDuration("REFRESH_INTERVAL", defaultRefreshInterval),
		EnvFile:          loaded,
	}
	cfg.VisionAPIKey = getEnvString("GOOGLE_VISION_API_KEY", cfg.VertexAPIKey)

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("PORT must be between 1 and 65535, got %d", cfg.Port)
	}

	for _, path := range []string{cfg.TelemetryLogPath, cfg.DatabasePath, cfg.DashboardLogPath} {
		if path == "" {
			continue
		}
		if err := ensureDir(filepath.Dir(path)); err != nil {
			return nil, fmt.Errorf("failed to create directory for %s: %w", path, err)
		}
	}
	if err := ensureDir(cfg.SavedAudioPath); err != nil {
		return nil, fmt.Errorf("failed to create saved audio directory: %w", err)
	}

	return cfg, nil
}

// ValidateProvider reports ErrMissingProvider when neither a Vertex project
// nor an API key is configured.
func (c *Config) ValidateProvider() error {
	if c.VertexProject == "" && c.VertexAPIKey == "" {
		return ErrMissingProvider
	}
	return nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// MirrorEnabled reports whether the SQLite mirror is configured.
func (c *Config) MirrorEnabled() bool {
	return c.DatabasePath != ""
}

func loadEnvFile(envFile string) (string, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return "", fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
		return envFile, nil
	}

	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return path, nil
		}
	}
	return "", nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "uranus", ".env"))
	}

	// Parent directory (useful for development)
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(cwd), ".env"))
	}

	return paths
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvRaw is like getEnvString but lets an explicitly empty value through,
// so a feature can be disabled with KEY="".
func getEnvRaw(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
