package amqp

import (
	"testing"
	"time"

	"fintrack/internal/core"
)

func TestNewNotificationMessage(t *testing.T) {
	n := core.Notification{
		ID:      "e1:expense:2024-05",
		Title:   "Upcoming expense",
		Message: `"Rent" is due in 2 days`,
		Type:    core.NotifyExpense,
	}

	msg := NewNotificationMessage(n)

	if msg.ID != n.ID {
		t.Errorf("ID = %v, want %v", msg.ID, n.ID)
	}
	if msg.Type != string(core.NotifyExpense) {
		t.Errorf("Type = %v, want %v", msg.Type, core.NotifyExpense)
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should not be zero")
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Error("Timestamp should be recent")
	}
}

func TestNotificationMessage_JSON(t *testing.T) {
	timestamp := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	msg := &NotificationMessage{
		ID:        "d1:debt:2024-05",
		Title:     "Upcoming debt payment",
		Message:   `"Car loan" is due tomorrow`,
		Type:      "debt",
		Timestamp: timestamp,
	}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := NotificationMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("NotificationMessageFromJSON() error = %v", err)
	}

	if parsed.ID != msg.ID {
		t.Errorf("Parsed ID = %v, want %v", parsed.ID, msg.ID)
	}
	if parsed.Message != msg.Message {
		t.Errorf("Parsed Message = %v, want %v", parsed.Message, msg.Message)
	}
	if !parsed.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Parsed Timestamp = %v, want %v", parsed.Timestamp, msg.Timestamp)
	}
}

func TestNotificationMessage_InvalidJSON(t *testing.T) {
	if _, err := NotificationMessageFromJSON([]byte(`{"id": 42`)); err == nil {
		t.Error("NotificationMessageFromJSON() should fail with invalid JSON")
	}
}
