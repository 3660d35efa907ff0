// Package memory is an in-process ReportExporter used in tests and when no
// spreadsheet is configured.
package memory

import (
	"context"
	"sync"
	"time"

	"budget/internal/core"
	ports "budget/internal/export"
)

type Snapshot struct {
	User       core.UserID
	Report     core.Report
	Reference  time.Time
	ExportedAt time.Time
}

type Exporter struct {
	mu        sync.Mutex
	snapshots []Snapshot
}

var _ ports.ReportExporter = (*Exporter)(nil)

func New() *Exporter {
	return &Exporter{}
}

func (e *Exporter) ExportReport(_ context.Context, user core.UserID, rep core.Report, ref time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.snapshots = append(e.snapshots, Snapshot{
		User:       user,
		Report:     rep,
		Reference:  ref,
		ExportedAt: time.Now(),
	})
	return nil
}

// Snapshots returns a copy of everything exported so far.
func (e *Exporter) Snapshots() []Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Snapshot(nil), e.snapshots...)
}
