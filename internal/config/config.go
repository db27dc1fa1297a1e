package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const DefaultAPIURL = "http://localhost:8080"

// Config is read once at startup and handed to constructors; it never changes afterwards.
type Config struct {
	APIURL  string // TADA_API_URL
	LogFile string // TADA_LOG_FILE, empty discards logs
	Theme   string // TADA_THEME
}

// Load reads .env (if any) and the environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		APIURL:  getenv("TADA_API_URL", DefaultAPIURL),
		LogFile: getenv("TADA_LOG_FILE", ""),
		Theme:   getenv("TADA_THEME", "classic"),
	}
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
