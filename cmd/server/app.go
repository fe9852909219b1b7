// File: cmd/server/app.go
package main

import (
	"net/http"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/iyunix/go-brainchat/internal/config"
	"github.com/iyunix/go-brainchat/internal/dtos"
	"github.com/iyunix/go-brainchat/internal/handlers"
	"github.com/iyunix/go-brainchat/internal/ratelimit"
	"github.com/iyunix/go-brainchat/internal/repository"
	"github.com/iyunix/go-brainchat/internal/repository/submission"
	"github.com/iyunix/go-brainchat/internal/services"
	"github.com/iyunix/go-brainchat/internal/services/ai"
	chatservice "github.com/iyunix/go-brainchat/internal/services/chat"
)

// Application aggregates all services and handlers
type Application struct {
	Config         *config.Config
	Logger         services.Logger
	DB             *gorm.DB // nil when the audit ledger is disabled
	Answerer       ai.Provider
	ChatService    *services.ChatService
	SubmitLimiter  *ratelimit.MemoryRateLimiter
	SessionLimiter *ratelimit.MemoryRateLimiter
	Router         http.Handler
}

func NewApplication(cfg *config.Config, logger services.Logger) (*Application, error) {
	app := &Application{Config: cfg, Logger: logger}

	// --- Repositories ---
	var (
		recorder chatservice.SubmissionRecorder
		ledger   submission.SubmissionRepository
	)
	if cfg.DatabasePath != "" {
		db, err := repository.OpenDatabase(cfg.DatabasePath, !cfg.IsProduction())
		if err != nil {
			return nil, err
		}
		app.DB = db
		ledger = submission.NewSubmissionRepository(db)
		recorder = ledger
	}

	// --- Services ---
	answerer, err := ai.NewProvider(cfg.AIConfig(), logger)
	if err != nil {
		app.Close()
		return nil, errors.Wrap(err, "answer service")
	}
	app.Answerer = answerer

	chatCfg := &services.ChatServiceConfig{
		IdleTTL:       cfg.WorkspaceIdleTTL,
		CleanupPeriod: services.DefaultChatServiceConfig().CleanupPeriod,
	}
	chatService, err := services.NewChatService(chatCfg, cfg.ChatConfig(), answerer, recorder, logger)
	if err != nil {
		app.Close()
		return nil, errors.Wrap(err, "chat service")
	}
	app.ChatService = chatService

	if cfg.SubmitRateLimit > 0 {
		app.SubmitLimiter = ratelimit.NewMemoryRateLimiter(ratelimit.DefaultSubmitConfig(cfg.SubmitRateLimit))
	}
	app.SessionLimiter = ratelimit.NewMemoryRateLimiter(ratelimit.DefaultSessionConfig())

	// --- Handlers ---
	presenter := dtos.NewPresenter(nil)
	chatHandler, err := handlers.NewChatHandler(chatService, presenter, logger)
	if err != nil {
		app.Close()
		return nil, errors.Wrap(err, "chat handler")
	}
	secret := []byte(cfg.JWTSecretKey)
	if len(secret) == 0 {
		logger.Warn("JWT_SECRET_KEY not set; using an insecure development secret")
		secret = []byte("brainchat-dev-secret")
	}
	sessionHandler := handlers.NewSessionHandler(chatService, secret, 0, cfg.IsProduction(), logger)
	sessionHandler.SetSubmitLimiter(app.SubmitLimiter)

	var ledgerHandler *handlers.LedgerHandler
	if ledger != nil {
		ledgerHandler = handlers.NewLedgerHandler(ledger, presenter, logger)
	}

	app.Router = handlers.NewRouter(handlers.RouterDeps{
		Chat:           chatHandler,
		Session:        sessionHandler,
		Ledger:         ledgerHandler,
		JWTSecret:      secret,
		SubmitLimiter:  app.SubmitLimiter,
		SessionLimiter: app.SessionLimiter,
		AllowedOrigins: []string{"*"},
		Logger:         logger,
	})
	return app, nil
}

// Close stops background work and releases the database. Safe on a
// partially built Application.
func (a *Application) Close() {
	if a.ChatService != nil {
		a.ChatService.Close()
	}
	if a.SubmitLimiter != nil {
		a.SubmitLimiter.Close()
	}
	if a.SessionLimiter != nil {
		a.SessionLimiter.Close()
	}
	if a.DB != nil {
		if err := repository.CloseDatabase(a.DB); err != nil {
			a.Logger.Warn("failed to close database", "error", err)
		}
	}
}
