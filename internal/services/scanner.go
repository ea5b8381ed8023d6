package services

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"fintrack/internal/core"
)

// Reminders fire for obligations due between today and this many days out.
const reminderWindowDays = 3

// A due date that slipped up to this far into the past still counts as the
// current cycle, so a scan running just after midnight does not push a
// same-day reminder a whole month forward.
const dueDateGrace = 24 * time.Hour

// ScanResult describes what one scan pass changed.
type ScanResult struct {
	// CreditedAssets is the number of pending assets flipped to received.
	CreditedAssets int
	// NewNotifications are the reminders issued by this pass, already
	// appended to the ledger.
	NewNotifications []core.Notification
}

// Changed reports whether the scan mutated the ledger.
func (r ScanResult) Changed() bool {
	return r.CreditedAssets > 0 || len(r.NewNotifications) > 0
}

// ScanForUpdates runs the auto-credit resolver and then the reminder
// scanner against the ledger at the given wall-clock time. The pass is
// idempotent: running it again on the resulting ledger with the same now
// changes nothing, because credited assets stay credited and reminder ids
// are deterministic per due period.
func ScanForUpdates(l *core.Ledger, now time.Time) ScanResult {
	result := ScanResult{
		CreditedAssets: resolveAutoCredits(l, now),
	}
	result.NewNotifications = l.AppendNotifications(collectReminders(l, now))

	if result.Changed() {
		slog.Info("Ledger scan applied changes",
			"component", "scanner",
			"credited_assets", result.CreditedAssets,
			"new_notifications", len(result.NewNotifications))
	}
	return result
}

// resolveAutoCredits flips pending auto-credit assets to received once
// their scheduled date has arrived. The autoCredit flag itself is left
// untouched.
func resolveAutoCredits(l *core.Ledger, now time.Time) int {
	credited := 0
	for i := range l.Assets {
		a := &l.Assets[i]
		if a.Received || !a.AutoCredit {
			continue
		}
		if a.Date.After(now) {
			continue
		}
		a.Received = true
		credited++
	}
	return credited
}

// collectReminders derives the notifications due for the near-term
// obligations in the ledger. Deduplication happens in the caller via the
// deterministic ids.
func collectReminders(l *core.Ledger, now time.Time) []core.Notification {
	var reminders []core.Notification

	for _, e := range l.Expenses {
		var target time.Time
		switch s := e.Schedule.(type) {
		case core.MonthlySchedule:
			target = nextMonthlyDue(s.DayOfMonth, now)
		case core.OneTimeSchedule:
			if e.Paid {
				continue
			}
			target = s.Date.Time
		default:
			continue
		}
		if days, ok := withinWindow(target, now); ok {
			reminders = append(reminders, core.Notification{
				ID:      core.NotificationID(e.ID, core.NotifyExpense, target),
				Title:   "Upcoming expense",
				Message: dueMessage(e.Title, days),
				Date:    core.DateOf(now),
				Type:    core.NotifyExpense,
			})
		}
	}

	for _, d := range l.Debts {
		if d.Installment == nil || d.RemainingAmount <= 0 {
			continue
		}
		target := nextMonthlyDue(d.DueDay(), now)
		if days, ok := withinWindow(target, now); ok {
			reminders = append(reminders, core.Notification{
				ID:      core.NotificationID(d.ID, core.NotifyDebt, target),
				Title:   "Upcoming debt payment",
				Message: dueMessage(d.Title, days),
				Date:    core.DateOf(now),
				Type:    core.NotifyDebt,
			})
		}
	}

	return reminders
}

// nextMonthlyDue resolves a recurring day of month to a concrete date in
// the current cycle: this month's occurrence, or next month's once this
// month's has passed beyond the grace window. The day clamps to the length
// of the target month.
func nextMonthlyDue(dayOfMonth int, now time.Time) time.Time {
	year, month := now.Year(), now.Month()
	day := core.ClampDay(dayOfMonth, year, month)
	target := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if target.Before(now.Add(-dueDateGrace)) {
		next := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC)
		day = core.ClampDay(dayOfMonth, next.Year(), next.Month())
		target = time.Date(next.Year(), next.Month(), day, 0, 0, 0, 0, time.UTC)
	}
	return target
}

// withinWindow reports whether target is due today through
// reminderWindowDays out, and how many days remain (rounded up).
func withinWindow(target, now time.Time) (int, bool) {
	days := int(math.Ceil(target.Sub(now).Hours() / 24))
	if days < 0 || days > reminderWindowDays {
		return 0, false
	}
	return days, true
}

func dueMessage(title string, days int) string {
	switch days {
	case 0:
		return fmt.Sprintf("%q is due today", title)
	case 1:
		return fmt.Sprintf("%q is due tomorrow", title)
	default:
		return fmt.Sprintf("%q is due in %d days", title, days)
	}
}
