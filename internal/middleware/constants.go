// File: internal/middleware/constants.go
package middleware

import "context"

// Context keys for middleware communication
type contextKey string

const (
	OwnerIDKey   contextKey = "owner_id"
	RequestIDKey contextKey = "request_id"
)

// AuthCookieName is the cookie carrying the workspace token.
const AuthCookieName = "auth_token"

// Logger defines the logging interface used by the middleware
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// OwnerID returns the workspace owner stored by the JWT middleware.
func OwnerID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(OwnerIDKey).(string)
	return id, ok && id != ""
}

// WithOwnerID stores id the way the JWT middleware does.
func WithOwnerID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, OwnerIDKey, id)
}

// RequestID returns the id assigned by LoggingMiddleware.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}
