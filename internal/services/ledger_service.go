package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/scheduler"
)

// StateStore persists the ledger and rate table as opaque blobs.
type StateStore interface {
	LoadLedger(ctx context.Context) (*core.Ledger, error)
	SaveLedger(ctx context.Context, l *core.Ledger) error
	LoadRates(ctx context.Context) (core.RateTable, error)
	SaveRates(ctx context.Context, t core.RateTable) error
}

// NotificationPublisher hands newly fired notifications to the delivery
// pipeline. Publishing is fire-and-forget from the service's perspective.
type NotificationPublisher interface {
	PublishNotification(ctx context.Context, n core.Notification) error
}

// LedgerService owns the live ledger. Every mutation, whether it came from
// the UI or from the assistant, goes through the same methods here:
// validate, apply, persist, bump the version, and arm the debounced rescan.
// All reads and writes take the service lock; the ledger itself is never
// shared.
type LedgerService struct {
	mu        sync.Mutex
	ledger    *core.Ledger
	rates     core.RateTable
	store     StateStore
	publisher NotificationPublisher
	rescan    *scheduler.Debouncer
	version   uint64
	logger    *log.Logger
}

// NewLedgerService loads persisted state and wires the debounced rescan.
// publisher may be nil when no delivery pipeline is configured.
func NewLedgerService(ctx context.Context, store StateStore, publisher NotificationPublisher, rescanDelay time.Duration, logger *log.Logger) (*LedgerService, error) {
	ledger, err := store.LoadLedger(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	rates, err := store.LoadRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("load rates: %w", err)
	}

	s := &LedgerService{
		ledger:    ledger,
		rates:     rates,
		store:     store,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentLedger),
	}
	s.rescan = scheduler.NewDebouncer(rescanDelay, func() {
		if _, err := s.Scan(context.Background(), time.Now()); err != nil {
			s.logger.Error("Debounced scan failed", log.FieldError, err)
		}
	})

	if missing := rates.MissingFrom(ledger); len(missing) > 0 {
		s.logger.Warn("Ledger uses currencies without exchange rates, treating them as 1:1 with the anchor",
			"currencies", missing)
	}
	return s, nil
}

// Close cancels any pending rescan.
func (s *LedgerService) Close() {
	s.rescan.Stop()
}

// Version increases on every state change; callers use it as a cache key.
func (s *LedgerService) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

func (s *LedgerService) AddDebt(ctx context.Context, d core.Debt) (core.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.RemainingAmount == 0 {
		d.RemainingAmount = d.TotalAmount
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = core.DateOf(time.Now())
	}
	if err := s.ledger.AddDebt(d); err != nil {
		return core.Debt{}, err
	}
	s.afterMutation(ctx, log.OpCreate, "debt", d.ID)
	return d, nil
}

func (s *LedgerService) UpdateDebt(ctx context.Context, d core.Debt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ledger.UpdateDebt(d); err != nil {
		return err
	}
	s.afterMutation(ctx, log.OpUpdate, "debt", d.ID)
	return nil
}

func (s *LedgerService) DeleteDebt(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ledger.DeleteDebt(id); err != nil {
		return err
	}
	s.afterMutation(ctx, log.OpDelete, "debt", id)
	return nil
}

func (s *LedgerService) AddExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if err := s.ledger.AddExpense(e); err != nil {
		return core.Expense{}, err
	}
	s.afterMutation(ctx, log.OpCreate, "expense", e.ID)
	return e, nil
}

func (s *LedgerService) UpdateExpense(ctx context.Context, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ledger.UpdateExpense(e); err != nil {
		return err
	}
	s.afterMutation(ctx, log.OpUpdate, "expense", e.ID)
	return nil
}

func (s *LedgerService) DeleteExpense(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ledger.DeleteExpense(id); err != nil {
		return err
	}
	s.afterMutation(ctx, log.OpDelete, "expense", id)
	return nil
}

func (s *LedgerService) AddAsset(ctx context.Context, a core.Asset) (core.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Date.IsZero() {
		a.Date = core.DateOf(time.Now())
	}
	if err := s.ledger.AddAsset(a); err != nil {
		return core.Asset{}, err
	}
	s.afterMutation(ctx, log.OpCreate, "asset", a.ID)
	return a, nil
}

func (s *LedgerService) UpdateAsset(ctx context.Context, a core.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ledger.UpdateAsset(a); err != nil {
		return err
	}
	s.afterMutation(ctx, log.OpUpdate, "asset", a.ID)
	return nil
}

func (s *LedgerService) DeleteAsset(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ledger.DeleteAsset(id); err != nil {
		return err
	}
	s.afterMutation(ctx, log.OpDelete, "asset", id)
	return nil
}

func (s *LedgerService) AddGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = core.DateOf(time.Now())
	}
	if err := s.ledger.AddGoal(g); err != nil {
		return core.Goal{}, err
	}
	s.afterMutation(ctx, log.OpCreate, "goal", g.ID)
	return g, nil
}

func (s *LedgerService) UpdateGoal(ctx context.Context, g core.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ledger.UpdateGoal(g); err != nil {
		return err
	}
	s.afterMutation(ctx, log.OpUpdate, "goal", g.ID)
	return nil
}

func (s *LedgerService) DeleteGoal(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ledger.DeleteGoal(id); err != nil {
		return err
	}
	s.afterMutation(ctx, log.OpDelete, "goal", id)
	return nil
}

// Snapshot returns a deep copy of the current ledger for read-only
// consumers such as the backup exporter.
func (s *LedgerService) Snapshot() *core.Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Clone()
}

// Summary computes every headline metric in the display currency.
func (s *LedgerService) Summary(display core.CurrencyCode) core.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ComputeSummary(s.ledger, s.rates, display, time.Now())
}

// DrillDownItems lists the line items behind one headline metric.
func (s *LedgerService) DrillDownItems(kind core.MetricKind, display core.CurrencyCode) ([]core.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return DrillDown(s.ledger, kind, s.rates, display, time.Now())
}

// Notifications returns the pending notifications.
func (s *LedgerService) Notifications() []core.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Notification(nil), s.ledger.Notifications...)
}

// Acknowledge removes a notification from the ledger.
func (s *LedgerService) Acknowledge(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ledger.AcknowledgeNotification(id); err != nil {
		return err
	}
	s.afterMutation(ctx, log.OpDelete, "notification", id)
	return nil
}

// Rates returns a copy of the active rate table.
func (s *LedgerService) Rates() core.RateTable {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := make(core.RateTable, len(s.rates))
	for c, r := range s.rates {
		t[c] = r
	}
	return t
}

// SetRates replaces the rate table after validation.
func (s *LedgerService) SetRates(ctx context.Context, t core.RateTable) error {
	if err := t.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates = t
	s.version++
	if err := s.store.SaveRates(ctx, t); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist rate table", log.FieldError, err)
	}
	if missing := t.MissingFrom(s.ledger); len(missing) > 0 {
		s.logger.WarnContext(ctx, "Ledger uses currencies without exchange rates, treating them as 1:1 with the anchor",
			"currencies", missing)
	}
	return nil
}

// Scan runs the auto-credit resolver and reminder scanner, persists any
// change and publishes the new notifications.
func (s *LedgerService) Scan(ctx context.Context, now time.Time) (ScanResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := ScanForUpdates(s.ledger, now)
	if !result.Changed() {
		return result, nil
	}
	s.version++
	if err := s.store.SaveLedger(ctx, s.ledger); err != nil {
		return result, fmt.Errorf("persist ledger after scan: %w", err)
	}
	if s.publisher != nil {
		for _, n := range result.NewNotifications {
			if err := s.publisher.PublishNotification(ctx, n); err != nil {
				s.logger.ErrorContext(ctx, "Failed to publish notification",
					log.FieldRecordID, n.ID, log.FieldError, err)
			}
		}
	}
	return result, nil
}

// afterMutation is called with the lock held after every successful ledger
// change. It bumps the cache version, persists, then arms the debounced
// rescan so a burst of edits ends in one scan.
func (s *LedgerService) afterMutation(ctx context.Context, op, kind, id string) {
	s.version++
	if err := s.store.SaveLedger(ctx, s.ledger); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist ledger",
			log.FieldOperation, op, log.FieldRecordKind, kind, log.FieldRecordID, id, log.FieldError, err)
	}
	s.rescan.Trigger()
	s.logger.InfoContext(ctx, "Ledger mutation applied",
		log.FieldOperation, op, log.FieldRecordKind, kind, log.FieldRecordID, id)
}
