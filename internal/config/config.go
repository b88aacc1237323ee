// ABOUTME: Centralized configuration for letterkit commands and servers
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/harper/letterkit/internal/models"
)

// Config holds all configuration for letterkit
type Config struct {
	// Storage settings
	DBPath string

	// OpenAI settings
	OpenAIKey     string
	OpenAIBaseURL string
	ChatModel     string
	Timeout       time.Duration
	MaxRetries    int
	RetryDelay    time.Duration

	// HTTP API settings
	HTTPAddr string

	// Template settings
	ExtraVariables []models.VariableType

	// Charm settings
	CharmHost   string
	CharmDBName string
	AutoSync    bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		DBPath:         os.Getenv("LETTERKIT_DB"),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:  os.Getenv("OPENAI_BASE_URL"),
		ChatModel:      getEnv("LETTERKIT_OPENAI_MODEL", "gpt-4o-mini"),
		Timeout:        getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		MaxRetries:     getEnvInt("OPENAI_MAX_RETRIES", 3),
		RetryDelay:     getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second),
		HTTPAddr:       getEnv("LETTERKIT_HTTP_ADDR", ":8080"),
		ExtraVariables: getEnvVariables("LETTERKIT_EXTRA_VARIABLES"),
		CharmHost:      getEnv("CHARM_HOST", "cloud.charm.sh"),
		CharmDBName:    getEnv("CHARM_DB", "letterkit"),
		AutoSync:       getEnvBool("CHARM_AUTO_SYNC", true),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("OPENAI_TIMEOUT must be positive, got %v", c.Timeout)
	}
	for _, v := range c.ExtraVariables {
		if !v.ValidIdentifier() {
			return fmt.Errorf("LETTERKIT_EXTRA_VARIABLES: %q is not a valid placeholder name", v)
		}
	}
	return nil
}

// Variables returns the built-in variable set extended by ExtraVariables
func (c *Config) Variables() models.VariableSet {
	return models.DefaultVariables().With(c.ExtraVariables...)
}

// HasOpenAI reports whether an API key is configured
func (c *Config) HasOpenAI() bool {
	return c.OpenAIKey != ""
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvVariables(key string) []models.VariableType {
	var out []models.VariableType
	for _, part := range strings.Split(os.Getenv(key), ",") {
		part = strings.ToUpper(strings.TrimSpace(part))
		if part != "" {
			out = append(out, models.VariableType(part))
		}
	}
	return out
}
