// Package scheduler provides the cancelable delayed-task primitive used to
// coalesce bursts of ledger mutations into a single rescan.
package scheduler

import (
	"sync"
	"time"
)

// Debouncer runs a function once a quiet period has elapsed since the last
// trigger. Re-triggering while armed cancels the pending run and restarts
// the delay, so a burst of mutations produces one run over the final state.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	fn    func()
	timer *time.Timer
}

// NewDebouncer creates a debouncer that runs fn delay after the most recent
// Trigger call.
func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger arms the debouncer, canceling any pending run.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fn)
}

// Stop cancels a pending run, if any. The debouncer stays usable.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
