package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Env           string // "development" or "production"
	Addr          string
	DBPath        string
	SessionSecret string
	PublicDir     string
}

// Load reads .env if present, then the environment, falling back to
// development defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, using environment")
	}

	cfg := Config{
		Env:           getEnv("APP_ENV", "development"),
		Addr:          ":" + getEnv("PORT", "8080"),
		DBPath:        getEnv("DB_PATH", "./data/findmyanime.db"),
		SessionSecret: getEnv("SESSION_SECRET", "dev-secret-change-me"),
		PublicDir:     getEnv("PUBLIC_DIR", "./public"),
	}
	if cfg.Env == "production" && cfg.SessionSecret == "dev-secret-change-me" {
		logrus.Warn("SESSION_SECRET not set in production")
	}
	return cfg
}

func (c Config) Production() bool {
	return c.Env == "production"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
