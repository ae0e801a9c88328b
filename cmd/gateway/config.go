// In file: cmd/gateway/config.go
package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AppConfig holds all configuration for the gateway, loaded from the
// environment and config.yaml. Secrets (API keys) come only from the
// environment; tunables come from the YAML file.
type AppConfig struct {
	Port          string
	RedisAddr     string
	LedgerBackend string // "redis" or "memory"

	SuggestModel    string
	SuggestAPIKey   string
	SuggestEndpoint string
	SuggestTimeout  time.Duration
	CacheTTL        time.Duration
	CacheEnabled    bool
}

// yamlConfig mirrors config.yaml.
type yamlConfig struct {
	Suggestion struct {
		Model           string `yaml:"model"`
		Endpoint        string `yaml:"endpoint"`
		TimeoutSeconds  int    `yaml:"timeout_seconds"`
		CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
		CacheEnabled    *bool  `yaml:"cache_enabled"`
	} `yaml:"suggestion"`
	History struct {
		Backend string `yaml:"backend"`
	} `yaml:"history"`
}

// LoadConfig loads all configuration from a .env file, environment variables,
// and config.yaml.
func LoadConfig() (*AppConfig, error) {
	// Only attempt to load a .env file in local development. In containers
	// (GIN_MODE="release"), configuration is provided directly as
	// environment variables.
	if os.Getenv("GIN_MODE") != "release" {
		if err := godotenv.Load(); err != nil {
			log.Println("WARNING: No .env file found for local development.")
		}
	}

	cfg := &AppConfig{
		Port:           os.Getenv("PORT"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		LedgerBackend:  "redis",
		SuggestModel:   "gpt-4o-mini",
		SuggestTimeout: 15 * time.Second,
		CacheTTL:       1 * time.Hour,
		CacheEnabled:   true,
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	if err := applyYAML(cfg, "config.yaml"); err != nil {
		return nil, err
	}

	// Without Redis the gateway still runs: the ledger falls back to process
	// memory and the suggestion cache/stats are disabled.
	if cfg.RedisAddr == "" {
		cfg.LedgerBackend = "memory"
		cfg.CacheEnabled = false
	}

	cfg.SuggestAPIKey = apiKeyForModel(cfg.SuggestModel)
	return cfg, nil
}

// applyYAML overlays config.yaml onto cfg. A missing file keeps the defaults;
// a malformed file is a startup error, not something to limp past.
func applyYAML(cfg *AppConfig, path string) error {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		log.Printf("WARNING: No %s found, using built-in defaults.", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(raw, &yamlCfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if yamlCfg.Suggestion.Model != "" {
		cfg.SuggestModel = yamlCfg.Suggestion.Model
	}
	if yamlCfg.Suggestion.Endpoint != "" {
		cfg.SuggestEndpoint = yamlCfg.Suggestion.Endpoint
	}
	if yamlCfg.Suggestion.TimeoutSeconds > 0 {
		cfg.SuggestTimeout = time.Duration(yamlCfg.Suggestion.TimeoutSeconds) * time.Second
	}
	if yamlCfg.Suggestion.CacheTTLSeconds > 0 {
		cfg.CacheTTL = time.Duration(yamlCfg.Suggestion.CacheTTLSeconds) * time.Second
	}
	if yamlCfg.Suggestion.CacheEnabled != nil {
		cfg.CacheEnabled = *yamlCfg.Suggestion.CacheEnabled
	}
	if yamlCfg.History.Backend != "" {
		cfg.LedgerBackend = yamlCfg.History.Backend
	}
	return nil
}

// apiKeyForModel maps a model-ID prefix to the provider's API key variable.
func apiKeyForModel(modelID string) string {
	switch {
	case strings.HasPrefix(modelID, "gpt"):
		return os.Getenv("OPENAI_API_KEY")
	case strings.HasPrefix(modelID, "gemini"):
		return os.Getenv("GEMINI_API_KEY")
	case strings.HasPrefix(modelID, "llama"), strings.HasPrefix(modelID, "mixtral"):
		return os.Getenv("GROQ_API_KEY")
	default:
		return os.Getenv("SUGGEST_API_KEY")
	}
}
