// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything resolved at process start. Provider key pools are
// scanned here once and injected; nothing reads ambient env vars after boot.
type Config struct {
	Env      string
	HTTPAddr string

	DatabaseURL string
	JWTSecret   string

	TelegramBotToken string
	WhatsAppDataDir  string

	GroqKeys        []string
	GeminiAPIKey    string
	ProviderTimeout time.Duration
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	// Missing .env is fine in deployed environments.
	_ = godotenv.Load()

	cfg := &Config{
		Env:              getEnv("APP_ENV", "development"),
		HTTPAddr:         getEnv("HTTP_ADDR", "0.0.0.0:8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		WhatsAppDataDir:  getEnv("WHATSAPP_DATA_DIR", "devices"),
		GroqKeys:         scanKeyPool("GROQ_KEY_"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		ProviderTimeout:  getDuration("PROVIDER_TIMEOUT", 30*time.Second),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if single := os.Getenv("GROQ_API_KEY"); single != "" {
		cfg.GroqKeys = append(cfg.GroqKeys, single)
	}

	return cfg, nil
}

// scanKeyPool collects all env values whose name starts with prefix,
// in name order so the pool is stable across restarts.
func scanKeyPool(prefix string) []string {
	var names []string
	for _, kv := range os.Environ() {
		name, _, ok := strings.Cut(kv, "=")
		if ok && strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	keys := make([]string, 0, len(names))
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			keys = append(keys, v)
		}
	}
	return keys
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
