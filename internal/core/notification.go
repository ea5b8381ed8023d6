package core

import (
	"fmt"
	"time"
)

const (
	NotifyExpense NotificationType = "expense"
	NotifyDebt    NotificationType = "debt"
)

type NotificationType string

// Notification is a pending reminder shown to the user. Its id is derived
// deterministically from the source record and the due period, never
// generated randomly, so a rescan can recognize reminders it already
// issued.
type Notification struct {
	ID      string           `json:"id"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Date    Date             `json:"date"`
	Type    NotificationType `json:"type"`
}

// NotificationID builds the deterministic id for a reminder about sourceID
// due in the month of target.
func NotificationID(sourceID string, kind NotificationType, target time.Time) string {
	return fmt.Sprintf("%s:%s:%s", sourceID, kind, target.Format("2006-01"))
}
