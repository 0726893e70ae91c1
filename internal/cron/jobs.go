package cron

import (
	"context"
	"log/slog"
	"time"
)

// Pruner is the subset of a store needed by cleanup jobs. Defined here
// to avoid circular imports with the session and memory packages.
type Pruner interface {
	Prune(maxIdle time.Duration) int
}

// SessionCleanupJob removes exam sessions that have been idle longer
// than MaxIdle, so an abandoned /create flow does not linger forever.
type SessionCleanupJob struct {
	Store        Pruner
	MaxIdle      time.Duration
	Logger       *slog.Logger
	ScheduleExpr string // empty = default "*/5 * * * *"
}

// Compile-time interface check.
var _ Job = (*SessionCleanupJob)(nil)

// Name implements Job.
func (j *SessionCleanupJob) Name() string { return "session_cleanup" }

// Schedule implements Job.
func (j *SessionCleanupJob) Schedule() string {
	if j.ScheduleExpr != "" {
		return j.ScheduleExpr
	}
	return "*/5 * * * *"
}

// Run prunes sessions idle longer than MaxIdle.
func (j *SessionCleanupJob) Run(_ context.Context) error {
	pruned := j.Store.Prune(j.MaxIdle)
	if pruned > 0 {
		j.Logger.Info("cron: pruned idle sessions", "count", pruned)
	}
	return nil
}

// ConversationCleanupJob drops conversation history that has seen no
// activity for longer than MaxIdle. Only registered for the in-memory
// backend; the sqlite backend keeps history across restarts.
type ConversationCleanupJob struct {
	Store        Pruner
	MaxIdle      time.Duration
	Logger       *slog.Logger
	ScheduleExpr string // empty = default "*/10 * * * *"
}

// Compile-time interface check.
var _ Job = (*ConversationCleanupJob)(nil)

// Name implements Job.
func (j *ConversationCleanupJob) Name() string { return "conversation_cleanup" }

// Schedule implements Job.
func (j *ConversationCleanupJob) Schedule() string {
	if j.ScheduleExpr != "" {
		return j.ScheduleExpr
	}
	return "*/10 * * * *"
}

// Run prunes conversations idle longer than MaxIdle.
func (j *ConversationCleanupJob) Run(_ context.Context) error {
	pruned := j.Store.Prune(j.MaxIdle)
	if pruned > 0 {
		j.Logger.Info("cron: pruned idle conversations", "count", pruned)
	}
	return nil
}
