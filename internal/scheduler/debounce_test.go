package scheduler

import (
	"sync/atomic"
	"testing"
	"time"
)

func waitForCount(t *testing.T, counter *atomic.Int32, want int32, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if counter.Load() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("count = %d after %v, want %d", counter.Load(), timeout, want)
}

func TestDebouncer_CoalescesBurst(t *testing.T) {
	var runs atomic.Int32
	d := NewDebouncer(50*time.Millisecond, func() { runs.Add(1) })
	defer d.Stop()

	// A burst of triggers inside the quiet period collapses to one run.
	for i := 0; i < 5; i++ {
		d.Trigger()
		time.Sleep(10 * time.Millisecond)
	}

	waitForCount(t, &runs, 1, time.Second)

	// Settle long enough to catch a stray second run.
	time.Sleep(150 * time.Millisecond)
	if runs.Load() != 1 {
		t.Errorf("runs = %d, want 1", runs.Load())
	}
}

func TestDebouncer_RunsAgainAfterQuietPeriod(t *testing.T) {
	var runs atomic.Int32
	d := NewDebouncer(20*time.Millisecond, func() { runs.Add(1) })
	defer d.Stop()

	d.Trigger()
	waitForCount(t, &runs, 1, time.Second)

	d.Trigger()
	waitForCount(t, &runs, 2, time.Second)
}

func TestDebouncer_StopCancelsPendingRun(t *testing.T) {
	var runs atomic.Int32
	d := NewDebouncer(30*time.Millisecond, func() { runs.Add(1) })

	d.Trigger()
	d.Stop()

	time.Sleep(100 * time.Millisecond)
	if runs.Load() != 0 {
		t.Errorf("runs = %d after Stop, want 0", runs.Load())
	}

	// Stop does not retire the debouncer.
	d.Trigger()
	waitForCount(t, &runs, 1, time.Second)
	d.Stop()
}
