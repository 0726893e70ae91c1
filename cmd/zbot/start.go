package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/liemdt/zbot/internal/bot"
	"github.com/liemdt/zbot/internal/config"
	"github.com/liemdt/zbot/internal/core"
	"github.com/liemdt/zbot/internal/cron"
	"github.com/liemdt/zbot/internal/gateway"
	"github.com/liemdt/zbot/internal/gemini"
	"github.com/liemdt/zbot/internal/memory"
	memsqlite "github.com/liemdt/zbot/internal/memory/sqlite"
	"github.com/liemdt/zbot/internal/pdf"
	"github.com/liemdt/zbot/internal/session"
	"github.com/liemdt/zbot/internal/telemetry"
	"github.com/liemdt/zbot/internal/zalo"
)

func startCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the webhook gateway and bot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			if cfgPath == "" {
				resolved, err := resolveConfigPath()
				if err != nil {
					return err
				}
				cfgPath = resolved
			}
			return runStart(cfgPath)
		},
	}
	cmd.Flags().StringP("config", "c", "", "Path to configuration file")
	return cmd
}

func runStart(cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := buildLogger(cfg.Log)
	slog.SetDefault(logger)

	if cfg.Zalo.WebhookSecret == "" {
		secret, err := gateway.GenerateSecret()
		if err != nil {
			return fmt.Errorf("generate webhook secret: %w", err)
		}
		cfg.Zalo.WebhookSecret = secret
		logger.Warn("no webhook secret configured, generated one for this run",
			"secret", secret,
			"hint", "set zalo.webhook_secret to keep it stable across restarts",
		)
	}

	app := core.NewApp(logger)

	provider, err := telemetry.Setup(context.Background(), telemetry.Config{
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
	}, logger.With("component", "telemetry"))
	if err != nil {
		return err
	}
	app.Add("telemetry", provider)

	var conversations memory.ConversationStore
	switch cfg.Memory.Backend {
	case "sqlite":
		store, err := memsqlite.Open(cfg.Memory.Path)
		if err != nil {
			return fmt.Errorf("open conversation store: %w", err)
		}
		app.Add("conversations", closeOnStop{store})
		conversations = store
		logger.Info("conversation store ready", "backend", "sqlite", "path", cfg.Memory.Path)
	default:
		conversations = memory.NewInMemoryStore()
		logger.Info("conversation store ready", "backend", "memory")
	}

	sessions := session.NewInMemoryStore()

	var ai bot.Completer
	gcfg := gemini.Config{
		APIKey:  cfg.Gemini.APIKey,
		Model:   cfg.Gemini.Model,
		BaseURL: cfg.Gemini.BaseURL,
		Timeout: cfg.Gemini.Timeout,
	}
	gcfg.Defaults()
	if gcfg.IsConfigured() {
		client := gemini.NewClient(gcfg, logger.With("component", "gemini"))
		ai = client
		logger.Info("gemini client ready", "model", client.Model())
	} else {
		logger.Warn("gemini.api_key not set, AI replies disabled")
	}

	channel := zalo.NewClient(cfg.Zalo.BotToken, cfg.Zalo.BaseURL)
	renderer := pdf.NewRenderer(cfg.Exam.FontPath)

	b := bot.New(conversations, sessions, ai, channel, renderer, logger.With("component", "bot"))
	if cfg.Exam.TempDir != "" {
		b.SetTempDir(cfg.Exam.TempDir)
	}

	scheduler := cron.NewScheduler(logger.With("component", "cron"))
	if err := scheduler.RegisterJob(&cron.SessionCleanupJob{
		Store:        sessions,
		MaxIdle:      cfg.Session.TTL,
		Logger:       logger,
		ScheduleExpr: cfg.Session.PruneSchedule,
	}); err != nil {
		return err
	}
	if mem, ok := conversations.(*memory.InMemoryStore); ok {
		if err := scheduler.RegisterJob(&cron.ConversationCleanupJob{
			Store:   mem,
			MaxIdle: cfg.Memory.TTL,
			Logger:  logger,
		}); err != nil {
			return err
		}
	}
	app.Add("scheduler", scheduler)

	gw := gateway.New(*cfg, b, channel, renderer, logger.With("component", "gateway"))
	app.Add("gateway", gw)

	return app.Run()
}

func buildLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// closeOnStop adapts an io.Closer to the app lifecycle.
type closeOnStop struct {
	c io.Closer
}

func (c closeOnStop) Stop(context.Context) error { return c.c.Close() }
