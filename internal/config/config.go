package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dat2/workout-tracking-app/internal/logger"
)

type Config struct {
	AppPort string `yaml:"app_port"`

	DatabaseDSN string `yaml:"database_dsn"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`

	// SessionSecret signs the session cookie. Must be set in production;
	// at least 32 bytes of entropy.
	SessionSecret string `yaml:"session_secret"`
}

// Load reads config.yaml if present, then overlays environment
// variables. Environment always wins so deployments can override a
// checked-in file.
func Load() Config {
	var cfg Config

	if data, err := os.ReadFile("config.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			// A typo'd file must not look like no file at all.
			logger.Warn("config.yaml ignored", map[string]any{
				"error": err.Error(),
			})
			cfg = Config{}
		}
	}

	overlay(&cfg.AppPort, "APP_PORT")
	overlay(&cfg.DatabaseDSN, "DATABASE_DSN")
	overlay(&cfg.RedisAddr, "REDIS_ADDR")
	overlay(&cfg.RedisPassword, "REDIS_PASSWORD")
	overlay(&cfg.SessionSecret, "SESSION_SECRET")

	if cfg.AppPort == "" {
		cfg.AppPort = "8000"
	}

	return cfg
}

func overlay(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
