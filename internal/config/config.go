package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Default system instructions used when RELAY_SYSTEM_PROMPT is not set.
const defaultSystemPrompt = "You are a strict, no-nonsense assistant. " +
	"Keep answers short and factual. Do not use emojis or friendly filler."

// Config holds all process-wide settings. It is loaded once at startup
// and never mutated afterwards.
type Config struct {
	TelegramToken string `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`

	Provider    string `envconfig:"RELAY_PROVIDER" default:"openai"`
	OpenAIKey   string `envconfig:"OPENAI_API_KEY"`
	OpenAIModel string `envconfig:"OPENAI_MODEL" default:"gpt-4"`
	GeminiKey   string `envconfig:"GEMINI_API_KEY"`
	GeminiModel string `envconfig:"GEMINI_MODEL" default:"gemini-1.5-flash"`

	SystemPrompt   string        `envconfig:"RELAY_SYSTEM_PROMPT"`
	HistoryWindow  int           `envconfig:"RELAY_HISTORY_WINDOW" default:"5"`
	BackendTimeout time.Duration `envconfig:"RELAY_BACKEND_TIMEOUT" default:"60s"`

	DBPath      string        `envconfig:"RELAY_DB_PATH" default:"relay.db"`
	LockPath    string        `envconfig:"RELAY_LOCK_PATH" default:"relay.lock"`
	LockTimeout time.Duration `envconfig:"RELAY_LOCK_TIMEOUT" default:"5s"`

	HTTPListen string `envconfig:"HTTP_LISTEN" default:":8080"`
	Debug      bool   `envconfig:"DEBUG"`
}

// Load reads configuration from the environment and validates the
// provider selection.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env config: %w", err)
	}
	if cfg.TelegramToken == "" {
		return Config{}, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if cfg.Provider == "" {
		cfg.Provider = "openai"
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = defaultSystemPrompt
	}
	if cfg.HistoryWindow < 0 {
		cfg.HistoryWindow = 0
	}
	switch cfg.Provider {
	case "openai":
		if cfg.OpenAIKey == "" {
			return Config{}, fmt.Errorf("OPENAI_API_KEY is required when RELAY_PROVIDER=openai")
		}
	case "gemini":
		if cfg.GeminiKey == "" {
			return Config{}, fmt.Errorf("GEMINI_API_KEY is required when RELAY_PROVIDER=gemini")
		}
	default:
		return Config{}, fmt.Errorf("unknown RELAY_PROVIDER %q (want openai or gemini)", cfg.Provider)
	}
	return cfg, nil
}
