// Package config contains everything related to configuration
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	DataPath       string
	DatabasePath   string
	LogPath        string
	LogLevel       string
	HistogramBins  int
	WatchData      bool
	ReloadDebounce time.Duration
	DesktopNotify  bool
}

// Default values
const (
	defaultDataPath       = "hour.csv"
	defaultHistogramBins  = 10
	maxHistogramBins      = 100
	defaultReloadDebounce = 250 * time.Millisecond
	appDirName            = "bikeshare-tui"
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	envPaths := getEnvPaths()
	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		DataPath:       getEnvString("BIKESHARE_DATA", defaultDataPath),
		DatabasePath:   getEnvString("DATABASE_PATH", getDefaultPath("bikeshare.db")),
		LogPath:        getEnvString("LOG_PATH", getDefaultPath("bikeshare.log")),
		LogLevel:       getEnvString("LOG_LEVEL", "info"),
		HistogramBins:  clamp(getEnvInt("HISTOGRAM_BINS", defaultHistogramBins), 1, maxHistogramBins),
		WatchData:      getEnvBool("WATCH_DATA", true),
		ReloadDebounce: getEnvDuration("RELOAD_DEBOUNCE", defaultReloadDebounce),
		DesktopNotify:  getEnvBool("DESKTOP_NOTIFY", false),
	}

	if strings.TrimSpace(cfg.DataPath) == "" {
		return nil, fmt.Errorf("BIKESHARE_DATA must not be empty")
	}

	// Ensure database directory exists
	if err := ensureDir(filepath.Dir(cfg.DatabasePath)); err != nil {
		return nil, err
	}

	// Ensure log directory exists
	if err := ensureDir(filepath.Dir(cfg.LogPath)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", appDirName, ".env"),
			filepath.Join(home, ".bikeshare", ".env"),
		)
	}

	// Parent directories (useful for development)
	if cwd, err := os.Getwd(); err == nil {
		parent := filepath.Dir(cwd)
		paths = append(paths, filepath.Join(parent, ".env"))
		grandparent := filepath.Dir(parent)
		paths = append(paths, filepath.Join(grandparent, ".env"))
	}

	return paths
}

// getDefaultPath returns name inside the application config directory.
func getDefaultPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".config", appDirName, name)
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns the default.
// Accepts the forms strconv.ParseBool does plus yes/no and on/off.
func getEnvBool(key string, defaultValue bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch value {
	case "":
		return defaultValue
	case "yes", "on":
		return true
	case "no", "off":
		return false
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
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
		// Try parsing as milliseconds if no unit specified
		if ms, err := strconv.Atoi(value); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return defaultValue
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
