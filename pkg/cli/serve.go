package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pipegate/pipegate/pkg/cli/config"
	controller "github.com/pipegate/pipegate/pkg/controller/http"
	"github.com/pipegate/pipegate/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg config.Server
		policyCfg config.Policy
		sentryCfg config.Sentry
	)

	flags := append(serverCfg.Flags(), policyCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP gate service",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			sentryEnabled, err := sentryCfg.Configure()
			if err != nil {
				return err
			}
			if sentryEnabled {
				defer sentry.Flush(2 * time.Second)
			}

			policy, err := policyCfg.Load()
			if err != nil {
				return goerr.Wrap(err, "failed to load gate policy")
			}

			logger.Info("Starting pipegate server",
				slog.String("addr", serverCfg.Addr),
				slog.String("default_branch", policy.DefaultBranch),
				slog.String("publish_target", policy.PublishTarget),
			)

			gateUC := usecase.NewGate(policy)

			server, err := controller.NewServer(
				ctx,
				gateUC,
				controller.WithAddr(serverCfg.Addr),
				controller.WithWebhookSecret(policyCfg.WebhookSecret),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Start server in goroutine
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
					if sentryEnabled {
						sentry.CaptureException(err)
					}
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
