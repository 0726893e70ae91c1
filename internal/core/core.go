// Package core manages ordered startup and shutdown of the bot's
// long-running components (gateway, scheduler, telemetry, stores).
package core

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const shutdownTimeout = 30 * time.Second

// Starter is implemented by components that start background work
// (listeners, goroutines, timers).
type Starter interface {
	Start() error
}

// Stopper is implemented by components that need to release resources.
// Called during shutdown in reverse order of Start().
type Stopper interface {
	Stop(ctx context.Context) error
}

// App manages the lifecycle of a set of named components.
type App struct {
	components []component
	logger     *slog.Logger
}

type component struct {
	name    string
	value   any
	started bool
}

// NewApp creates an empty App.
func NewApp(logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{logger: logger.With("component", "core")}
}

// Add registers a component. Components start in registration order and
// stop in reverse. Values that implement neither Starter nor Stopper are
// still accepted; they simply have no lifecycle hooks.
func (a *App) Add(name string, v any) {
	a.components = append(a.components, component{name: name, value: v})
}

// Start starts all registered components that implement Starter, in order.
// If any Start() fails, already-started components are stopped in reverse.
func (a *App) Start() error {
	for i := range a.components {
		c := &a.components[i]
		if s, ok := c.value.(Starter); ok {
			a.logger.Info("starting component", "name", c.name)
			if err := s.Start(); err != nil {
				a.logger.Error("component start failed", "name", c.name, "error", err)
				a.stopFrom(i - 1)
				return fmt.Errorf("starting %s: %w", c.name, err)
			}
		}
		// Stop-only components (stores, exporters) become active here too
		// so the unwind path releases them.
		c.started = true
	}
	a.logger.Info("all components started")
	return nil
}

// Stop stops all started components in reverse order with a timeout.
func (a *App) Stop() {
	a.stopFrom(len(a.components) - 1)
}

func (a *App) stopFrom(fromIndex int) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for i := fromIndex; i >= 0; i-- {
		c := &a.components[i]
		if !c.started {
			continue
		}
		if s, ok := c.value.(Stopper); ok {
			a.logger.Info("stopping component", "name", c.name)
			if err := s.Stop(ctx); err != nil {
				a.logger.Error("component stop error", "name", c.name, "error", err)
			}
		}
		c.started = false
	}
}

// Run starts all components and blocks until a shutdown signal arrives.
func (a *App) Run() error {
	if err := a.Start(); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	a.logger.Info("shutdown signal received", "signal", sig.String())

	a.Stop()
	a.logger.Info("shutdown complete")
	return nil
}
