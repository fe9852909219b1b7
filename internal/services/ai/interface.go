// File: internal/services/ai/interface.go
package ai

import "context"

// Logger defines the logging interface used by the answer service clients
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Warn(string, ...interface{})  {}

// Answerer turns one prompt into one response.
type Answerer interface {
	Answer(ctx context.Context, prompt string) (string, error)
}

// Provider is an Answerer that can describe itself and report its health.
type Provider interface {
	Answerer
	Name() string
	HealthCheck(ctx context.Context) error
}

var (
	_ Provider = (*FunctionClient)(nil)
	_ Provider = (*OpenAIProvider)(nil)
	_ Provider = (*Retrying)(nil)
)
