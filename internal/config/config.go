// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/decoynet/decoy/internal/intel"
)

// Config holds all application configuration. Every option is read at
// process start and immutable afterwards.
type Config struct {
	Port        string
	FrontendURL string
	APIKey      string
	CallbackURL string
	DBPath      string

	SessionBackend string // "memory" (default) or "redis"
	RedisAddr      string

	IdleTimeout   time.Duration
	Retention     time.Duration
	SweepInterval time.Duration

	TurnCap         int
	StagnationTurns int
	RiskBands       [3]float64
	Checklist       []intel.EntityType

	LLM LLMConfig
}

// LLMConfig points at the OpenAI-compatible generation backend.
type LLMConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	checklist, err := parseChecklist(getEnv("CHECKLIST", "phone,upi_id,bank_account,url"))
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	bands, err := parseBands(getEnv("RISK_BANDS", "0.25,0.5,0.75"))
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", ""),
		APIKey:      getEnv("API_KEY", ""),
		CallbackURL: getEnv("CALLBACK_URL", ""),
		DBPath:      getEnv("DB_PATH", "./data/decoy.db"),

		SessionBackend: getEnv("SESSION_BACKEND", "memory"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),

		IdleTimeout:   getEnvDuration("IDLE_TIMEOUT", 10*time.Minute),
		Retention:     getEnvDuration("RETENTION", 24*time.Hour),
		SweepInterval: getEnvDuration("SWEEP_INTERVAL", time.Minute),

		TurnCap:         getEnvInt("TURN_CAP", 25),
		StagnationTurns: getEnvInt("STAGNATION_TURNS", 2),
		RiskBands:       bands,
		Checklist:       checklist,

		LLM: LLMConfig{
			BaseURL: getEnv("LLM_BASE_URL", "https://api.groq.com/openai/v1"),
			APIKey:  getEnv("LLM_API_KEY", ""),
			Model:   getEnv("LLM_MODEL", "llama-3.3-70b-versatile"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are consistent.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.APIKey == "" {
		return fmt.Errorf("API_KEY cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.SessionBackend != "memory" && c.SessionBackend != "redis" {
		return fmt.Errorf("SESSION_BACKEND must be memory or redis, got %q", c.SessionBackend)
	}
	if c.TurnCap <= 0 {
		return fmt.Errorf("TURN_CAP must be > 0")
	}
	if c.StagnationTurns <= 0 {
		return fmt.Errorf("STAGNATION_TURNS must be > 0")
	}
	if c.IdleTimeout <= 0 {
		return fmt.Errorf("IDLE_TIMEOUT must be > 0")
	}
	if !(c.RiskBands[0] < c.RiskBands[1] && c.RiskBands[1] < c.RiskBands[2]) {
		return fmt.Errorf("RISK_BANDS must be strictly increasing")
	}
	if len(c.Checklist) == 0 {
		return fmt.Errorf("CHECKLIST cannot be empty")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func parseChecklist(raw string) ([]intel.EntityType, error) {
	var types []intel.EntityType
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		t, ok := intel.ParseEntityType(part)
		if !ok {
			return nil, fmt.Errorf("CHECKLIST contains unknown entity type %q", part)
		}
		types = append(types, t)
	}
	return types, nil
}

func parseBands(raw string) ([3]float64, error) {
	var bands [3]float64
	parts := strings.Split(raw, ",")
	if len(parts) != 3 {
		return bands, fmt.Errorf("RISK_BANDS must have exactly 3 values")
	}
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return bands, fmt.Errorf("RISK_BANDS value %q: %w", part, err)
		}
		bands[i] = v
	}
	return bands, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
