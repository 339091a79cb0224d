package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port          string
	DBPath        string
	OllamaURL     string
	OllamaModel   string
	APIToken      string
	Timezone      string
	SweepInterval time.Duration
	SweepCron     string // optional cron expression, overrides SweepInterval
	BackendPerMin int    // generation calls per minute, 0 disables limiting
}

func Load() (*Config, error) {
	sweep, err := time.ParseDuration(getEnv("INSIGHT_SWEEP_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("INSIGHT_SWEEP_INTERVAL: %w", err)
	}

	perMin, err := strconv.Atoi(getEnv("INSIGHT_BACKEND_PER_MIN", "6"))
	if err != nil {
		return nil, fmt.Errorf("INSIGHT_BACKEND_PER_MIN: %w", err)
	}

	cfg := &Config{
		Port:          getEnv("INSIGHT_PORT", "8080"),
		DBPath:        getEnv("INSIGHT_DB_PATH", ""),
		OllamaURL:     getEnv("INSIGHT_OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:   getEnv("INSIGHT_OLLAMA_MODEL", "qwen2.5:7b"),
		APIToken:      getEnv("INSIGHT_API_TOKEN", ""),
		Timezone:      getEnv("INSIGHT_TIMEZONE", "UTC"),
		SweepInterval: sweep,
		SweepCron:     getEnv("INSIGHT_SWEEP_CRON", ""),
		BackendPerMin: perMin,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("INSIGHT_DB_PATH is required")
	}
	if c.APIToken == "" {
		return fmt.Errorf("INSIGHT_API_TOKEN is required")
	}
	if c.SweepInterval < time.Minute {
		return fmt.Errorf("INSIGHT_SWEEP_INTERVAL must be at least 1m")
	}
	if c.BackendPerMin < 0 {
		return fmt.Errorf("INSIGHT_BACKEND_PER_MIN must not be negative")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
