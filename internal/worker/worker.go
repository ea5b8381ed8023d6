// Package worker implements the delivery side of the notification pipeline
// and the periodic ledger backup.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/backup"
	"fintrack/internal/core"
	"fintrack/internal/notify"
)

// LedgerReader loads the latest persisted ledger for backup runs.
type LedgerReader interface {
	LoadLedger(ctx context.Context) (*core.Ledger, error)
}

// Worker consumes notification messages and runs scheduled backups.
type Worker struct {
	notifier notify.Notifier
	reader   LedgerReader
	exporter backup.Exporter
}

// New creates a worker. exporter may be nil when no backup destination is
// configured.
func New(notifier notify.Notifier, reader LedgerReader, exporter backup.Exporter) *Worker {
	return &Worker{
		notifier: notifier,
		reader:   reader,
		exporter: exporter,
	}
}

// HandleNotification delivers a single notification message to the
// platform facility.
func (w *Worker) HandleNotification(ctx context.Context, msg *amqp.NotificationMessage) error {
	if err := w.notifier.Notify(ctx, msg.Title, msg.Message); err != nil {
		return fmt.Errorf("deliver notification %s: %w", msg.ID, err)
	}

	slog.InfoContext(ctx, "Delivered notification",
		"component", "worker",
		"id", msg.ID,
		"type", msg.Type)
	return nil
}

// RunBackup exports the latest persisted ledger snapshot.
func (w *Worker) RunBackup(ctx context.Context) error {
	if w.exporter == nil {
		slog.DebugContext(ctx, "No backup exporter configured, skipping backup")
		return nil
	}

	ledger, err := w.reader.LoadLedger(ctx)
	if err != nil {
		return fmt.Errorf("load ledger for backup: %w", err)
	}

	if err := w.exporter.Export(ctx, ledger); err != nil {
		return fmt.Errorf("export ledger: %w", err)
	}
	return nil
}
