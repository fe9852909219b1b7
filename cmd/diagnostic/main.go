// File: cmd/diagnostic/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/iyunix/go-brainchat/internal/config"
	"github.com/iyunix/go-brainchat/internal/services"
	"github.com/iyunix/go-brainchat/internal/services/ai"
)

const defaultPrompt = "What is the answer to life, universe and everything?"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		health  bool
		verbose bool
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:           "diagnostic [prompt]",
		Short:         "Send one prompt to the configured answer service",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "config: %v\n", err)
				return err
			}
			level := "WARN"
			if verbose {
				level = "DEBUG"
			}
			logger := services.NewLoggerFor("diagnostic", cfg.Environment, level)

			provider, err := ai.NewProvider(cfg.AIConfig(), logger)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "answer service: %v\n", err)
				return err
			}

			prompt := defaultPrompt
			if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
				prompt = args[0]
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return run(ctx, provider, prompt, health, cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&health, "health", false, "check the answer service before sending the prompt")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log request details")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall deadline")
	return cmd
}

func run(ctx context.Context, provider ai.Provider, prompt string, health bool, out io.Writer) error {
	fmt.Fprintf(out, "Provider: %s\n", provider.Name())

	if health {
		if err := provider.HealthCheck(ctx); err != nil {
			fmt.Fprintf(out, "Health check failed: %s\n", detail(err))
			return err
		}
		fmt.Fprintln(out, "Health check passed")
	}

	start := time.Now()
	reply, err := provider.Answer(ctx, prompt)
	if err != nil {
		fmt.Fprintf(out, "Request failed: %s\n", detail(err))
		return err
	}
	if strings.TrimSpace(reply) == "" {
		fmt.Fprintln(out, "Response was empty")
	} else {
		fmt.Fprintf(out, "Response (%s):\n%s\n", time.Since(start).Round(time.Millisecond), reply)
	}
	return nil
}

// detail prefers the remote context message, like the chat notifications do.
func detail(err error) string {
	var aiErr *ai.AIError
	if errors.As(err, &aiErr) {
		if msg := aiErr.ContextMessage(); msg != "" {
			return msg
		}
		if aiErr.Message != "" {
			return aiErr.Message
		}
	}
	return err.Error()
}
