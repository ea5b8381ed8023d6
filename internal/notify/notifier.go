// Package notify defines the platform-notification port. The engine only
// decides when a notification should exist; delivery is fire-and-forget
// through a Notifier.
package notify

import (
	"context"
	"log/slog"
)

// Notifier displays a message to the user through whatever facility the
// platform offers.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// LogNotifier writes notifications to the structured log. It stands in for
// a real platform facility in headless deployments.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, title, body string) error {
	slog.InfoContext(ctx, "Notification",
		"component", "notify",
		"title", title,
		"body", body)
	return nil
}
