// File: internal/config/config.go
package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/iyunix/go-brainchat/internal/services/ai"
	chatservice "github.com/iyunix/go-brainchat/internal/services/chat"
)

type Config struct {
	Environment  string `env:"ENV" envDefault:"development"`
	ServerPort   string `env:"SERVER_PORT" envDefault:"8080"`
	JWTSecretKey string `env:"JWT_SECRET_KEY"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"INFO"`

	// Answer service
	AnswerProvider    string        `env:"ANSWER_PROVIDER" envDefault:"function"`
	AnswerFunctionURL string        `env:"ANSWER_FUNCTION_URL"`
	AnswerFunctionKey string        `env:"ANSWER_FUNCTION_KEY"`
	OpenAIAPIKey      string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL     string        `env:"OPENAI_BASE_URL"`
	AnswerModel       string        `env:"ANSWER_MODEL" envDefault:"gpt-4o-mini"`
	AnswerTimeout     time.Duration `env:"ANSWER_TIMEOUT" envDefault:"60s"`
	AnswerMaxRetries  int           `env:"ANSWER_MAX_RETRIES" envDefault:"2"`

	// Submission audit ledger; empty disables it.
	DatabasePath string `env:"DATABASE_PATH" envDefault:"brainchat.db"`

	// Submissions allowed per workspace per minute.
	SubmitRateLimit  int           `env:"SUBMIT_RATE_LIMIT" envDefault:"20"`
	WorkspaceIdleTTL time.Duration `env:"WORKSPACE_IDLE_TTL" envDefault:"2h"`
}

// Load reads configuration from environment variables or .env file.
func Load() (*Config, error) {
	if !strings.EqualFold(os.Getenv("ENV"), "production") {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}
	return parse(env.Options{})
}

// LoadFrom parses vars instead of the process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Validate checks the answer service settings always, and in production
// also that every secret is present.
func (c *Config) Validate() error {
	if err := c.AIConfig().Validate(); err != nil {
		return errors.Wrap(err, "answer service")
	}
	if c.SubmitRateLimit < 0 {
		return errors.New("SUBMIT_RATE_LIMIT must not be negative")
	}

	if c.IsProduction() {
		missing := []string{}
		if c.JWTSecretKey == "" {
			missing = append(missing, "JWT_SECRET_KEY")
		}
		if strings.EqualFold(c.AnswerProvider, ai.ProviderFunction) && c.AnswerFunctionKey == "" {
			missing = append(missing, "ANSWER_FUNCTION_KEY")
		}
		if len(missing) > 0 {
			return errors.Errorf("missing required production environment variables: %v", missing)
		}
	}
	return nil
}

// AIConfig maps the answer service settings onto ai.Config.
func (c *Config) AIConfig() *ai.Config {
	cfg := ai.DefaultConfig()
	cfg.Provider = strings.ToLower(strings.TrimSpace(c.AnswerProvider))
	cfg.FunctionURL = c.AnswerFunctionURL
	cfg.FunctionKey = c.AnswerFunctionKey
	cfg.APIKey = c.OpenAIAPIKey
	cfg.BaseURL = c.OpenAIBaseURL
	cfg.Model = c.AnswerModel
	cfg.Timeout = c.AnswerTimeout
	cfg.MaxRetries = c.AnswerMaxRetries
	return cfg
}

// ChatConfig returns the pipeline settings. The overall answer deadline
// leaves room for the retries.
func (c *Config) ChatConfig() *chatservice.Config {
	cfg := chatservice.DefaultConfig()
	cfg.AnswerTimeout = c.AnswerTimeout * time.Duration(c.AnswerMaxRetries+1)
	return cfg
}
