// File: cmd/server/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iyunix/go-brainchat/internal/config"
	"github.com/iyunix/go-brainchat/internal/services"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	logger := services.NewLoggerFor("brainchat", cfg.Environment, cfg.LogLevel)

	app, err := NewApplication(cfg, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize application: %v", err)
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		logger.Error("failed to listen", "addr", srv.Addr, "error", err)
		app.Close()
		os.Exit(1)
	}
	logger.Info("server starting",
		"addr", srv.Addr,
		"answer_provider", app.Answerer.Name(),
		"audit_ledger", cfg.DatabasePath != "",
	)

	if err := serve(ctx, srv, ln, logger); err != nil {
		logger.Error("server stopped with error", "error", err)
		app.Close()
		os.Exit(1)
	}
	logger.Info("server stopped gracefully")
}

// serve runs srv on ln until ctx ends, then shuts it down. Request contexts
// derive from ctx, so long-lived event streams end when shutdown begins
// instead of holding Shutdown open.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, logger services.Logger) error {
	eg, ctx := errgroup.WithContext(ctx)
	srv.BaseContext = func(net.Listener) context.Context { return ctx }

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}
