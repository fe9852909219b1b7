// File: internal/services/ai/config.go
package ai

import (
	"fmt"
	"time"
)

const (
	ProviderFunction = "function"
	ProviderOpenAI   = "openai"
)

type Config struct {
	// Which backend answers prompts: "function" or "openai".
	Provider string

	// Remote function endpoint
	FunctionURL string
	FunctionKey string

	// OpenAI-compatible completion endpoint
	APIKey  string
	BaseURL string
	Model   string

	// Performance Configuration
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration

	// Model Parameters
	Temperature float32
	TopP        float32
}

func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderFunction:
		if c.FunctionURL == "" {
			return fmt.Errorf("ANSWER_FUNCTION_URL is required")
		}
	case ProviderOpenAI:
		if c.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required")
		}
		if c.Model == "" {
			return fmt.Errorf("ANSWER_MODEL is required")
		}
	default:
		return fmt.Errorf("unknown answer provider %q", c.Provider)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries must not be negative")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		Provider:    ProviderFunction,
		Model:       "gpt-4o-mini",
		Timeout:     60 * time.Second,
		MaxRetries:  2,
		RetryDelay:  time.Second,
		Temperature: 0.1,
		TopP:        0.9,
	}
}
