package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rewired-gh/astrocal/internal/config"
	"github.com/rewired-gh/astrocal/internal/digest"
	"github.com/rewired-gh/astrocal/internal/logger"
	"github.com/rewired-gh/astrocal/internal/telegram"
	"github.com/rewired-gh/astrocal/internal/telemetry"
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the periodic digest service",
		Long: `Runs the digest service: once at startup and then every digest.interval it
refreshes the current sky, builds the calendar and horizon projections and,
when Telegram is enabled, sends them to the configured chat. Log level
changes in the config file apply without a restart.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runDigest(cmd.Context())
		},
	}
}

func (a *app) runDigest(ctx context.Context) error {
	defer logger.Sync()

	dc := a.cfg.GetDigestConfig()
	if !dc.Enabled {
		logger.Info("Digest disabled in configuration, nothing to run")
		return nil
	}

	shutdown, err := telemetry.Setup(ctx, a.cfg.GetTelemetryConfig())
	if err != nil {
		return fmt.Errorf("failed to set up telemetry: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			logger.Warn("Failed to flush traces: %v", err)
		}
	}()

	if !configMissing(a.configPath) {
		_, err := config.Watch(a.configPath, func(next *config.Config) {
			level := next.GetLoggingConfig().Level
			logger.SetLevel(level)
			logger.Info("Configuration reloaded, log level %s", level)
		}, func(err error) {
			logger.Warn("Ignoring configuration change: %v", err)
		})
		if err != nil {
			logger.Warn("Configuration changes will not be watched: %v", err)
		}
	}

	// Initialize Telegram client
	var notifier digest.Notifier
	if tc := a.cfg.GetTelegramConfig(); tc.Enabled {
		telegramClient, err := telegram.NewClient(tc.BotToken, tc.ChatID, tc.MaxRetries, tc.RetryDelayBase)
		if err != nil {
			return fmt.Errorf("failed to initialize Telegram client: %w", err)
		}
		logger.Info("Telegram client initialized successfully")
		telegramClient.ListenForCommands(ctx, a.engine)
		notifier = telegramClient
	} else {
		logger.Debug("Telegram notifications disabled")
	}

	pc := a.cfg.GetProjectionConfig()
	runner := digest.New(a.engine, notifier, digest.Options{
		Interval:     dc.Interval,
		CalendarDays: pc.CalendarDays,
		Horizons:     pc.Horizons,
	})
	runner.Run(ctx)
	return nil
}
