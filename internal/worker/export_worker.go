// Package worker rebuilds report snapshots and pushes them to the export
// destination in response to AMQP messages and on a periodic schedule.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"budget/internal/amqp"
	"budget/internal/core"
	"budget/internal/export"
	"budget/internal/report"
)

// UserLister enumerates users whose reports are worth re-exporting.
type UserLister interface {
	ActiveUsers(ctx context.Context) ([]core.UserID, error)
}

// ExportWorker builds a fresh report for a user and hands the snapshot to
// the exporter. The report is always recomputed from the store; nothing is
// read from a cache.
type ExportWorker struct {
	engine   *report.Engine
	users    UserLister
	exporter export.ReportExporter
}

func NewExportWorker(engine *report.Engine, users UserLister, exporter export.ReportExporter) *ExportWorker {
	return &ExportWorker{
		engine:   engine,
		users:    users,
		exporter: exporter,
	}
}

// HandleExportMessage processes one export request from AMQP. The report is
// built against the current time, not the message timestamp, so a delayed
// message still exports current data.
func (w *ExportWorker) HandleExportMessage(ctx context.Context, msg *amqp.ReportExportMessage) error {
	slog.InfoContext(ctx, "Processing export message",
		"user_id", msg.UserID,
		"requested_at", msg.Timestamp)

	return w.exportUser(ctx, msg.UserID, time.Now())
}

// RunPeriodicExports re-exports every active user's report on a fixed
// interval until ctx ends. It covers export requests lost while the worker
// was down.
func (w *ExportWorker) RunPeriodicExports(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "Starting periodic report exports", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping periodic exports", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			if err := w.ExportAll(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic export pass failed", "error", err)
			}
		}
	}
}

// ExportAll exports a snapshot for every active user. Per-user failures are
// logged and counted; the pass continues.
func (w *ExportWorker) ExportAll(ctx context.Context) error {
	users, err := w.users.ActiveUsers(ctx)
	if err != nil {
		return fmt.Errorf("list active users: %w", err)
	}

	if len(users) == 0 {
		slog.InfoContext(ctx, "No active users to export")
		return nil
	}

	now := time.Now()
	exported := 0
	failed := 0
	for _, user := range users {
		if err := w.exportUser(ctx, user, now); err != nil {
			slog.ErrorContext(ctx, "Failed to export user report",
				"user_id", user, "error", err)
			failed++
			continue
		}
		exported++
	}

	slog.InfoContext(ctx, "Export pass completed",
		"total", len(users),
		"exported", exported,
		"failed", failed)

	return nil
}

func (w *ExportWorker) exportUser(ctx context.Context, user core.UserID, ref time.Time) error {
	if w.exporter == nil {
		slog.WarnContext(ctx, "No exporter configured, skipping export", "user_id", user)
		return nil
	}

	rep, err := w.engine.BuildReport(ctx, user, ref)
	if err != nil {
		return fmt.Errorf("build report for user %d: %w", user, err)
	}

	if err := w.exporter.ExportReport(ctx, user, rep, ref); err != nil {
		return fmt.Errorf("export report for user %d: %w", user, err)
	}

	slog.InfoContext(ctx, "Exported report",
		"user_id", user,
		"goals", len(rep.GoalProgress),
		"categories", len(rep.CategorySummaries))

	return nil
}
