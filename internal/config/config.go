package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config is everything zonedash needs from its environment. Values come
// from a .env file (if present) and the process environment, in that
// order of discovery with the environment winning.
type Config struct {
	// BaseURL of the platform, e.g. https://learn.zone01kisumu.ke.
	BaseURL string
	// Campus is the leading path segment of project paths
	// (/<campus>/module/...), used to build XP category matchers and
	// the GraphQL path filters.
	Campus string
	// DBPath overrides the default SQLite location.
	DBPath string
	// LogLevel is a logrus level name; empty means info.
	LogLevel string
	// LogPath overrides where the file logger writes.
	LogPath string
}

const (
	defaultBaseURL = "https://learn.zone01kisumu.ke"
	defaultCampus  = "kisumu"
)

// Load reads .env (missing file is fine) and the environment.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		BaseURL:  getenv("ZONEDASH_BASE_URL", defaultBaseURL),
		Campus:   getenv("ZONEDASH_CAMPUS", defaultCampus),
		DBPath:   os.Getenv("ZONEDASH_DB"),
		LogLevel: os.Getenv("ZONEDASH_LOG_LEVEL"),
		LogPath:  os.Getenv("ZONEDASH_LOG"),
	}
	return cfg
}

// ResolveLogPath returns the configured log file, defaulting to
// ~/.config/zonedash/zonedash.log next to the database.
func (c Config) ResolveLogPath() (string, error) {
	if c.LogPath != "" {
		return c.LogPath, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "zonedash", "zonedash.log"), nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
