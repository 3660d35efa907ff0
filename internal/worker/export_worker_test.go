package worker_test

import (
	"context"
	"testing"

	"budget/internal/amqp"
	"budget/internal/core"
	exportmem "budget/internal/export/memory"
	"budget/internal/memstore"
	"budget/internal/report"
	"budget/internal/worker"
)

func seededStore(t *testing.T) *memstore.Store {
	t.Helper()
	store := memstore.NewSeeded([]string{"Groceries"})
	ctx := context.Background()

	cats, err := store.AllCategories(ctx)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if _, err := store.CreateTransaction(ctx, core.Transaction{
		Owner: 1, Kind: core.KindExpense, CategoryID: cats[0].ID,
		Amount: core.Money{Cents: 1500}, Date: core.NewDate(2025, 2, 2), Name: "bread",
	}); err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	goal, err := store.CreateGoal(ctx, core.Goal{Owner: 2, Name: "Holiday", Target: core.Money{Cents: 50000}})
	if err != nil {
		t.Fatalf("create goal: %v", err)
	}
	if _, err := store.CreateContribution(ctx, core.Contribution{GoalID: goal.ID, Contributor: 2, Amount: core.Money{Cents: 10000}}); err != nil {
		t.Fatalf("create contribution: %v", err)
	}
	return store
}

func TestHandleExportMessage(t *testing.T) {
	store := seededStore(t)
	exporter := exportmem.New()
	w := worker.NewExportWorker(report.NewEngine(store), store, exporter)

	msg := amqp.NewReportExportMessage(2)
	if err := w.HandleExportMessage(context.Background(), msg); err != nil {
		t.Fatalf("handle export message: %v", err)
	}

	snaps := exporter.Snapshots()
	if len(snaps) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(snaps))
	}
	snap := snaps[0]
	if snap.User != 2 {
		t.Fatalf("expected snapshot for user 2, got %d", snap.User)
	}
	if len(snap.Report.GoalProgress) != 1 || snap.Report.GoalProgress[0].ProgressPercent != 20.0 {
		t.Fatalf("unexpected goal progress: %+v", snap.Report.GoalProgress)
	}
}

func TestHandleExportMessageWithoutExporter(t *testing.T) {
	store := seededStore(t)
	w := worker.NewExportWorker(report.NewEngine(store), store, nil)

	// Messages must still be consumable when no destination is configured.
	if err := w.HandleExportMessage(context.Background(), amqp.NewReportExportMessage(1)); err != nil {
		t.Fatalf("expected skip without error, got %v", err)
	}
}

func TestExportAll(t *testing.T) {
	store := seededStore(t)
	exporter := exportmem.New()
	w := worker.NewExportWorker(report.NewEngine(store), store, exporter)

	if err := w.ExportAll(context.Background()); err != nil {
		t.Fatalf("export all: %v", err)
	}

	snaps := exporter.Snapshots()
	if len(snaps) != 2 {
		t.Fatalf("expected snapshots for users 1 and 2, got %d", len(snaps))
	}
	seen := map[core.UserID]bool{}
	for _, s := range snaps {
		seen[s.User] = true
	}
	if !seen[1] || !seen[2] {
		t.Fatalf("expected users 1 and 2, got %v", seen)
	}
}

func TestExportAllEmptyStore(t *testing.T) {
	store := memstore.New()
	exporter := exportmem.New()
	w := worker.NewExportWorker(report.NewEngine(store), store, exporter)

	if err := w.ExportAll(context.Background()); err != nil {
		t.Fatalf("export all on empty store: %v", err)
	}
	if len(exporter.Snapshots()) != 0 {
		t.Fatalf("expected no snapshots")
	}
}
