// Package watcher reloads galleries when their source changes on disk and
// coalesces bursts of events (file writes, terminal resizes) into one call.
package watcher

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet period used when none is given.
const DefaultDebounce = 200 * time.Millisecond

// Debouncer runs fn once the calls to Trigger stop for the configured period.
// Only the most recent fn runs.
type Debouncer struct {
	period time.Duration

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// NewDebouncer returns a debouncer; a non-positive period means DefaultDebounce.
func NewDebouncer(period time.Duration) *Debouncer {
	if period <= 0 {
		period = DefaultDebounce
	}
	return &Debouncer{period: period}
}

// Trigger (re)starts the quiet period and replaces the pending fn.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.period, func() {
		if !d.claim(gen) {
			return
		}
		fn()
	})
}

// claim reports whether gen is still current. A timer that fired while a
// newer Trigger was stopping it loses here.
func (d *Debouncer) claim(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.gen {
		return false
	}
	d.timer = nil
	return true
}

// Pending reports whether a call is scheduled
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop drops any scheduled call
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Period returns the quiet period
func (d *Debouncer) Period() time.Duration {
	return d.period
}
