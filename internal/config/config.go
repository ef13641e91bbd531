package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	FREDAPIKey       string
	TwelveDataAPIKey string

	RedisURL      string
	CacheTTL      time.Duration
	HTTPPort      int
	DashboardKey  string
	SSHPort       int
	SSHHostKeyPath string

	OpenAIAPIKey string
	OpenAIModel  string
}

func Load() *Config {
	cfg := &Config{
		FREDAPIKey:       os.Getenv("FRED_API_KEY"),
		TwelveDataAPIKey: os.Getenv("TWELVEDATA_API_KEY"),
		RedisURL:         os.Getenv("REDIS_URL"),
		DashboardKey:     os.Getenv("DASHBOARD_API_KEY"),
	}

	if cfg.FREDAPIKey == "" {
		log.Println("Warning: FRED_API_KEY not set, VIX fetches will fail")
	}
	if cfg.TwelveDataAPIKey == "" {
		log.Println("Warning: TWELVEDATA_API_KEY not set, equity proxy fetches will fail")
	}
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, using in-process cache")
	}

	cfg.CacheTTL = 12 * time.Hour
	if v := strings.TrimSpace(os.Getenv("CACHE_TTL_HOURS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CacheTTL = time.Duration(n) * time.Hour
		}
	}

	cfg.HTTPPort = 8080
	if v := strings.TrimSpace(os.Getenv("HTTP_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HTTPPort = n
		}
	}

	cfg.SSHPort = 23234
	if v := strings.TrimSpace(os.Getenv("SSH_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SSHPort = n
		}
	}

	cfg.SSHHostKeyPath = strings.TrimSpace(os.Getenv("SSH_HOST_KEY_PATH"))
	if cfg.SSHHostKeyPath == "" {
		cfg.SSHHostKeyPath = ".ssh/market_mood_ed25519"
	}

	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.OpenAIModel = strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = "gpt-4o-mini"
	}

	return cfg
}
