// File: internal/services/ai/provider.go
package ai

import "fmt"

// NewProvider builds the configured answer backend, wrapped in Retrying when
// MaxRetries is positive.
func NewProvider(config *Config, logger Logger) (Provider, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, NewConfigError(fmt.Sprintf("invalid answer service config: %v", err))
	}
	if logger == nil {
		logger = noopLogger{}
	}

	var (
		p   Provider
		err error
	)
	switch config.Provider {
	case ProviderOpenAI:
		p, err = NewOpenAIProvider(config, logger)
	default:
		p, err = NewFunctionClient(config, WithFunctionLogger(logger))
	}
	if err != nil {
		return nil, err
	}

	if config.MaxRetries > 0 {
		p = NewRetrying(p, config.MaxRetries, config.RetryDelay, logger)
	}
	logger.Info("answer service configured", "provider", config.Provider, "max_retries", config.MaxRetries)
	return p, nil
}
