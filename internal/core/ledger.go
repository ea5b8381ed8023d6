package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrDuplicateID = errors.New("duplicate record id")
)

// Ledger is the whole in-memory state of the tracker: every record the user
// entered plus the notifications that have been issued and not yet
// acknowledged. All aggregation reads it; mutations go through the typed
// add/update/delete methods so validation always runs first.
type Ledger struct {
	Debts         []Debt         `json:"debts"`
	Expenses      []Expense      `json:"expenses"`
	Assets        []Asset        `json:"assets"`
	Goals         []Goal         `json:"goals"`
	Notifications []Notification `json:"notifications"`
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Clone returns a deep copy, used to hand out snapshots without exposing
// the live slices.
func (l *Ledger) Clone() *Ledger {
	c := &Ledger{
		Debts:         make([]Debt, len(l.Debts)),
		Expenses:      append([]Expense(nil), l.Expenses...),
		Assets:        append([]Asset(nil), l.Assets...),
		Goals:         make([]Goal, len(l.Goals)),
		Notifications: append([]Notification(nil), l.Notifications...),
	}
	for i, d := range l.Debts {
		if d.Installment != nil {
			p := *d.Installment
			d.Installment = &p
		}
		c.Debts[i] = d
	}
	for i, g := range l.Goals {
		if g.Deadline != nil {
			dl := *g.Deadline
			g.Deadline = &dl
		}
		c.Goals[i] = g
	}
	return c
}

func (l *Ledger) AddDebt(d Debt) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if l.findDebt(d.ID) >= 0 {
		return fmt.Errorf("%w: debt %s", ErrDuplicateID, d.ID)
	}
	l.Debts = append(l.Debts, d)
	return nil
}

func (l *Ledger) UpdateDebt(d Debt) error {
	if err := d.Validate(); err != nil {
		return err
	}
	i := l.findDebt(d.ID)
	if i < 0 {
		return fmt.Errorf("%w: debt %s", ErrNotFound, d.ID)
	}
	l.Debts[i] = d
	return nil
}

func (l *Ledger) DeleteDebt(id string) error {
	i := l.findDebt(id)
	if i < 0 {
		return fmt.Errorf("%w: debt %s", ErrNotFound, id)
	}
	l.Debts = append(l.Debts[:i], l.Debts[i+1:]...)
	return nil
}

func (l *Ledger) AddExpense(e Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if l.findExpense(e.ID) >= 0 {
		return fmt.Errorf("%w: expense %s", ErrDuplicateID, e.ID)
	}
	l.Expenses = append(l.Expenses, e)
	return nil
}

func (l *Ledger) UpdateExpense(e Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	i := l.findExpense(e.ID)
	if i < 0 {
		return fmt.Errorf("%w: expense %s", ErrNotFound, e.ID)
	}
	l.Expenses[i] = e
	return nil
}

func (l *Ledger) DeleteExpense(id string) error {
	i := l.findExpense(id)
	if i < 0 {
		return fmt.Errorf("%w: expense %s", ErrNotFound, id)
	}
	l.Expenses = append(l.Expenses[:i], l.Expenses[i+1:]...)
	return nil
}

func (l *Ledger) AddAsset(a Asset) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if l.findAsset(a.ID) >= 0 {
		return fmt.Errorf("%w: asset %s", ErrDuplicateID, a.ID)
	}
	l.Assets = append(l.Assets, a)
	return nil
}

func (l *Ledger) UpdateAsset(a Asset) error {
	if err := a.Validate(); err != nil {
		return err
	}
	i := l.findAsset(a.ID)
	if i < 0 {
		return fmt.Errorf("%w: asset %s", ErrNotFound, a.ID)
	}
	l.Assets[i] = a
	return nil
}

func (l *Ledger) DeleteAsset(id string) error {
	i := l.findAsset(id)
	if i < 0 {
		return fmt.Errorf("%w: asset %s", ErrNotFound, id)
	}
	l.Assets = append(l.Assets[:i], l.Assets[i+1:]...)
	return nil
}

func (l *Ledger) AddGoal(g Goal) error {
	if err := g.Validate(); err != nil {
		return err
	}
	if l.findGoal(g.ID) >= 0 {
		return fmt.Errorf("%w: goal %s", ErrDuplicateID, g.ID)
	}
	l.Goals = append(l.Goals, g)
	return nil
}

func (l *Ledger) UpdateGoal(g Goal) error {
	if err := g.Validate(); err != nil {
		return err
	}
	i := l.findGoal(g.ID)
	if i < 0 {
		return fmt.Errorf("%w: goal %s", ErrNotFound, g.ID)
	}
	l.Goals[i] = g
	return nil
}

func (l *Ledger) DeleteGoal(id string) error {
	i := l.findGoal(id)
	if i < 0 {
		return fmt.Errorf("%w: goal %s", ErrNotFound, id)
	}
	l.Goals = append(l.Goals[:i], l.Goals[i+1:]...)
	return nil
}

// HasNotification reports whether a notification with the given id already
// exists. Deduplication of reminders relies on this together with
// deterministic ids.
func (l *Ledger) HasNotification(id string) bool {
	for _, n := range l.Notifications {
		if n.ID == id {
			return true
		}
	}
	return false
}

// AppendNotifications appends the notifications whose ids are not already
// present and returns the ones actually added.
func (l *Ledger) AppendNotifications(ns []Notification) []Notification {
	var added []Notification
	for _, n := range ns {
		if l.HasNotification(n.ID) {
			continue
		}
		l.Notifications = append(l.Notifications, n)
		added = append(added, n)
	}
	return added
}

// AcknowledgeNotification removes a notification; acknowledged reminders
// are dropped, not flagged.
func (l *Ledger) AcknowledgeNotification(id string) error {
	for i, n := range l.Notifications {
		if n.ID == id {
			l.Notifications = append(l.Notifications[:i], l.Notifications[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: notification %s", ErrNotFound, id)
}

func (l *Ledger) findDebt(id string) int {
	for i, d := range l.Debts {
		if d.ID == id {
			return i
		}
	}
	return -1
}

func (l *Ledger) findExpense(id string) int {
	for i, e := range l.Expenses {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (l *Ledger) findAsset(id string) int {
	for i, a := range l.Assets {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func (l *Ledger) findGoal(id string) int {
	for i, g := range l.Goals {
		if g.ID == id {
			return i
		}
	}
	return -1
}

const dateLayout = "2006-01-02"

// MarshalJSON encodes the date as YYYY-MM-DD for backup compatibility.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	// Accept full timestamps from older backups as well.
	for _, layout := range []string{dateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", s)
}
