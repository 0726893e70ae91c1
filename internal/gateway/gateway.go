// Package gateway exposes the HTTP surface: the platform webhook, webhook
// registration, health and smoke-test endpoints, and Prometheus metrics.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/liemdt/zbot/internal/bot"
	"github.com/liemdt/zbot/internal/config"
	"github.com/liemdt/zbot/internal/pdf"
	"github.com/liemdt/zbot/internal/zalo"
)

// Gateway is the HTTP server tying the webhook to the bot.
type Gateway struct {
	config   config.Config
	bot      *bot.Bot
	client   *zalo.Client
	renderer *pdf.Renderer
	logger   *slog.Logger
	server   *http.Server
	metrics  *httpMetrics
}

// New creates a Gateway. client may be nil in tests that only exercise the
// webhook path.
func New(cfg config.Config, b *bot.Bot, client *zalo.Client, renderer *pdf.Renderer, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		config:   cfg,
		bot:      b,
		client:   client,
		renderer: renderer,
		logger:   logger.With("component", "gateway"),
		metrics:  newHTTPMetrics(),
	}
}

// Start begins serving in a background goroutine.
func (g *Gateway) Start() error {
	g.server = &http.Server{
		Addr:         g.config.Gateway.Bind,
		Handler:      g.buildRouter(),
		ReadTimeout:  g.config.Gateway.ReadTimeout,
		WriteTimeout: g.config.Gateway.WriteTimeout,
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(context.Background(), "tcp", g.config.Gateway.Bind)
	if err != nil {
		return errors.New("gateway: listen failed: " + err.Error())
	}

	go func() {
		g.logger.Info("gateway listening", "addr", g.config.Gateway.Bind)
		if err := g.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			g.logger.Error("gateway serve error", "error", err)
		}
	}()

	return nil
}

// Stop shuts the server down gracefully.
func (g *Gateway) Stop(ctx context.Context) error {
	if g.server == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, g.config.Gateway.ShutdownTimeout)
	defer cancel()

	g.logger.Info("gateway shutting down")
	return g.server.Shutdown(shutdownCtx)
}

// startTime is captured once at process start for the health endpoint.
var startTime = time.Now()
