// Package backup defines the outbound port for exporting ledger snapshots.
package backup

import (
	"context"

	"fintrack/internal/core"
)

// Exporter writes a full ledger snapshot to an external destination.
type Exporter interface {
	Export(ctx context.Context, l *core.Ledger) error
}
