// File: internal/services/ai/function_client.go
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

const (
	maxResponseBytes = 1 << 20

	// Reported when a non-2xx reply carries no message of its own.
	nonSuccessMessage = "Edge Function returned a non-2xx status code"
)

type functionRequest struct {
	Prompt string `json:"prompt"`
}

type functionResponse struct {
	Response string `json:"response"`
}

type functionErrorPayload struct {
	Error   string        `json:"error"`
	Message string        `json:"message"`
	Context *ErrorContext `json:"context"`
}

// FunctionClient calls a remote answer function over HTTP:
// POST {"prompt": ...} and read {"response": ...}.
type FunctionClient struct {
	config     *Config
	httpClient *http.Client
	logger     Logger
}

type FunctionOption func(*FunctionClient)

func WithHTTPClient(c *http.Client) FunctionOption {
	return func(f *FunctionClient) { f.httpClient = c }
}

func WithFunctionLogger(l Logger) FunctionOption {
	return func(f *FunctionClient) { f.logger = l }
}

func NewFunctionClient(config *Config, opts ...FunctionOption) (*FunctionClient, error) {
	if config == nil || config.FunctionURL == "" {
		return nil, NewConfigError("function URL is required")
	}
	f := &FunctionClient{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     noopLogger{},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

func (f *FunctionClient) Name() string { return ProviderFunction }

func (f *FunctionClient) Answer(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(functionRequest{Prompt: prompt})
	if err != nil {
		return "", &AIError{Type: ErrTypeValidation, Operation: "answer", Message: "failed to encode prompt", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.config.FunctionURL, bytes.NewReader(body))
	if err != nil {
		return "", &AIError{Type: ErrTypeConfig, Operation: "answer", Message: "invalid function URL", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if f.config.FunctionKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.config.FunctionKey)
		req.Header.Set("apikey", f.config.FunctionKey)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", NewNetworkError("answer", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", NewNetworkError("answer", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		aiErr := decodeFunctionError(resp.StatusCode, raw)
		f.logger.Warn("answer function returned error",
			"status", resp.StatusCode,
			"message", aiErr.Message,
			"context", aiErr.ContextMessage(),
		)
		return "", aiErr
	}

	// A 2xx body without a usable response field yields "", which the
	// pipeline turns into its no-response reply.
	var out functionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		f.logger.Debug("answer function returned non-JSON body", "error", err)
		return "", nil
	}
	return out.Response, nil
}

func decodeFunctionError(status int, raw []byte) *AIError {
	var payload functionErrorPayload
	msg := nonSuccessMessage
	if err := json.Unmarshal(raw, &payload); err == nil {
		switch {
		case payload.Error != "":
			msg = payload.Error
		case payload.Message != "":
			msg = payload.Message
		}
	} else if text := strings.TrimSpace(string(raw)); text != "" && len(text) < 512 {
		msg = text
	}
	ctx := payload.Context
	if ctx != nil && ctx.Message == "" {
		ctx = nil
	}
	return NewStatusError("answer", status, msg, ctx)
}

// HealthCheck only verifies that the endpoint answers HTTP at all.
func (f *FunctionClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodOptions, f.config.FunctionURL, nil)
	if err != nil {
		return &AIError{Type: ErrTypeConfig, Operation: "health", Message: "invalid function URL", Cause: err}
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return NewNetworkError("health", err)
	}
	resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return NewStatusError("health", resp.StatusCode, nonSuccessMessage, nil)
	}
	return nil
}
