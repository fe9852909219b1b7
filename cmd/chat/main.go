// File: cmd/chat/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iyunix/go-brainchat/internal/config"
	"github.com/iyunix/go-brainchat/internal/console"
	"github.com/iyunix/go-brainchat/internal/repository"
	"github.com/iyunix/go-brainchat/internal/repository/submission"
	"github.com/iyunix/go-brainchat/internal/services"
	"github.com/iyunix/go-brainchat/internal/services/ai"
	chatservice "github.com/iyunix/go-brainchat/internal/services/chat"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		ledger   bool
		logLevel string
	)
	cmd := &cobra.Command{
		Use:           "chat",
		Short:         "Chat with the configured answer service from the terminal",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "config: %v\n", err)
				return err
			}
			logger := services.NewLoggerFor("chat", cfg.Environment, logLevel)

			provider, err := ai.NewProvider(cfg.AIConfig(), logger)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "answer service: %v\n", err)
				return err
			}

			deps := chatservice.WorkspaceDeps{
				Config:   cfg.ChatConfig(),
				Answerer: provider,
				Logger:   logger,
			}
			if ledger && cfg.DatabasePath != "" {
				db, err := repository.OpenDatabase(cfg.DatabasePath, false)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "ledger: %v\n", err)
					return err
				}
				defer func() {
					if err := repository.CloseDatabase(db); err != nil {
						logger.Warn("failed to close database", "error", err)
					}
				}()
				deps.Recorder = submission.NewSubmissionRepository(db)
			}

			ws, err := chatservice.NewWorkspace("console", deps)
			if err != nil {
				return err
			}
			defer ws.Pipeline.WaitIdle()

			c, err := console.New(ws, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return c.Run(cmd.Context(), cmd.InOrStdin())
		},
	}
	cmd.Flags().BoolVar(&ledger, "ledger", false, "record submissions in DATABASE_PATH")
	cmd.Flags().StringVar(&logLevel, "log-level", "ERROR", "log level (DEBUG, INFO, WARN, ERROR)")
	return cmd
}
