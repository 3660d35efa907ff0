// Package export defines the destinations report snapshots can be written to.
package export

import (
	"context"
	"time"

	"budget/internal/core"
)

// ReportExporter writes a snapshot of a user's report to an external
// destination. Exports are append-only; the destination keeps history.
type ReportExporter interface {
	ExportReport(ctx context.Context, user core.UserID, rep core.Report, ref time.Time) error
}
