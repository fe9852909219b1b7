// File: internal/services/ai/openai_provider.go
package ai

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider answers prompts with a single-message chat completion
// against any OpenAI-compatible endpoint.
type OpenAIProvider struct {
	config *Config
	client *openai.Client
	logger Logger
}

func NewOpenAIProvider(config *Config, logger Logger) (*OpenAIProvider, error) {
	if config == nil || config.APIKey == "" {
		return nil, NewConfigError("API key is required")
	}
	if logger == nil {
		logger = noopLogger{}
	}
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	return &OpenAIProvider{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
		logger: logger,
	}, nil
}

func (p *OpenAIProvider) Name() string { return ProviderOpenAI }

func (p *OpenAIProvider) Answer(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: p.config.Temperature,
		TopP:        p.config.TopP,
	})
	if err != nil {
		return "", p.mapError("completion", err)
	}

	// An empty choice list is a blank answer, not a failure.
	if len(resp.Choices) == 0 {
		p.logger.Warn("completion returned no choices", "model", p.config.Model)
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) mapError(operation string, err error) *AIError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		aiErr := NewStatusError(operation, apiErr.HTTPStatusCode, apiErr.Message, nil)
		aiErr.Model = p.config.Model
		aiErr.Cause = err
		p.logger.Error("OpenAI API error",
			"status", apiErr.HTTPStatusCode,
			"type", apiErr.Type,
			"message", apiErr.Message,
		)
		return aiErr
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		aiErr := NewStatusError(operation, reqErr.HTTPStatusCode, reqErr.Error(), nil)
		aiErr.Model = p.config.Model
		aiErr.Cause = err
		return aiErr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &AIError{Type: ErrTypeNetwork, Operation: operation, Message: "request cancelled", Model: p.config.Model, Cause: err}
	}
	return &AIError{Type: ErrTypeNetwork, Operation: operation, Message: "request failed", Model: p.config.Model, Cause: err}
}

func (p *OpenAIProvider) HealthCheck(ctx context.Context) error {
	if _, err := p.client.ListModels(ctx); err != nil {
		return p.mapError("health", err)
	}
	return nil
}
