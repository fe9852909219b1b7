package services

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger defines common logging interface for all services
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// LogLevel represents different logging levels
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) zerolog() zerolog.Level {
	switch l {
	case LogLevelDebug:
		return zerolog.DebugLevel
	case LogLevelWarn:
		return zerolog.WarnLevel
	case LogLevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// ParseLogLevel maps LOG_LEVEL values to a LogLevel, defaulting to INFO.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LogLevelDebug
	case "WARN", "WARNING":
		return LogLevelWarn
	case "ERROR":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// ProductionLogger is a structured logger backed by zerolog
type ProductionLogger struct {
	out        io.Writer
	service    string
	level      LogLevel
	structured bool
	zl         zerolog.Logger
}

// NewProductionLogger creates a production-ready logger writing JSON to stdout
func NewProductionLogger(service string) *ProductionLogger {
	return NewProductionLoggerWithWriter(service, os.Stdout)
}

// NewProductionLoggerWithWriter is NewProductionLogger with a custom sink.
func NewProductionLoggerWithWriter(service string, out io.Writer) *ProductionLogger {
	p := &ProductionLogger{
		out:        out,
		service:    service,
		level:      LogLevelInfo,
		structured: true,
	}
	p.rebuild()
	return p
}

// SetLevel updates the logging level
func (p *ProductionLogger) SetLevel(level LogLevel) {
	p.level = level
	p.rebuild()
}

// SetStructured switches between JSON lines and human-readable console output
func (p *ProductionLogger) SetStructured(structured bool) {
	p.structured = structured
	p.rebuild()
}

func (p *ProductionLogger) rebuild() {
	var w io.Writer = p.out
	if !p.structured {
		w = zerolog.ConsoleWriter{Out: p.out, TimeFormat: time.RFC3339, NoColor: true}
	}
	p.zl = zerolog.New(w).
		Level(p.level.zerolog()).
		With().
		Timestamp().
		Str("service", p.service).
		Logger()
}

func (p *ProductionLogger) Info(msg string, keysAndValues ...interface{}) {
	p.log(p.zl.Info(), msg, keysAndValues)
}

func (p *ProductionLogger) Error(msg string, keysAndValues ...interface{}) {
	p.log(p.zl.Error(), msg, keysAndValues)
}

func (p *ProductionLogger) Debug(msg string, keysAndValues ...interface{}) {
	p.log(p.zl.Debug(), msg, keysAndValues)
}

func (p *ProductionLogger) Warn(msg string, keysAndValues ...interface{}) {
	p.log(p.zl.Warn(), msg, keysAndValues)
}

func (p *ProductionLogger) log(ev *zerolog.Event, msg string, keysAndValues []interface{}) {
	if ev == nil {
		return
	}
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		switch v := keysAndValues[i+1].(type) {
		case error:
			ev = ev.AnErr(key, v)
		default:
			ev = ev.Interface(key, v)
		}
	}
	ev.Msg(msg)
}

// NoOpLogger is a logger that does nothing (for testing)
type NoOpLogger struct{}

func (n *NoOpLogger) Info(msg string, keysAndValues ...interface{})  {}
func (n *NoOpLogger) Error(msg string, keysAndValues ...interface{}) {}
func (n *NoOpLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (n *NoOpLogger) Warn(msg string, keysAndValues ...interface{})  {}

// NewLoggerFor picks the logger for an environment: none under "test", JSON
// in production, console output otherwise.
func NewLoggerFor(service, env, level string) Logger {
	if env == "test" {
		return &NoOpLogger{}
	}
	logger := NewProductionLogger(service)
	logger.SetLevel(ParseLogLevel(level))
	// JSON in production, human-readable everywhere else
	logger.SetStructured(env == "production")
	return logger
}
