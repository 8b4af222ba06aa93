// Package transition provides the mutual exclusion that keeps animated
// carousel transitions from overlapping, plus small future helpers used to
// sequence them.
package transition

import (
	"context"
	"sync"
)

// Guard is a non-blocking try-lock over asynchronous tasks.
//
// RunGuarded counts a task as in flight from the moment it starts until it
// completes. TryRun only runs a command while nothing is in flight; otherwise
// the command is dropped without notice. Commands are not queued.
type Guard struct {
	// entry serializes TryRun so two callers never both see an idle guard.
	entry sync.Mutex

	mu     sync.Mutex
	active int
	idle   chan struct{}
	onIdle func()
}

// NewGuard returns an idle guard
func NewGuard() *Guard {
	idle := make(chan struct{})
	close(idle)
	return &Guard{idle: idle}
}

// TryRun runs cmd synchronously if no guarded task is in flight.
// cmd must not call TryRun itself.
func (g *Guard) TryRun(cmd func()) {
	g.entry.Lock()
	defer g.entry.Unlock()

	if g.Busy() {
		return
	}
	cmd()
}

// RunGuarded starts task and counts it as in flight until it completes,
// with or without error. The returned future resolves after the count drops.
func (g *Guard) RunGuarded(ctx context.Context, task Task) *Future {
	g.acquire()
	f := newFuture()
	go func() {
		err := task(ctx)
		g.release()
		f.resolve(err)
	}()
	return f
}

// Active returns the number of tasks in flight
func (g *Guard) Active() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}

// Busy reports whether any task is in flight
func (g *Guard) Busy() bool {
	return g.Active() > 0
}

// Idle returns a channel that is closed while no task is in flight.
func (g *Guard) Idle() <-chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.idle
}

// Wait blocks until the guard is idle or ctx ends
func (g *Guard) Wait(ctx context.Context) error {
	select {
	case <-g.Idle():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// OnIdle sets a hook that runs each time the last in-flight task completes.
// It runs on the completing task's goroutine.
func (g *Guard) OnIdle(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onIdle = fn
}

func (g *Guard) acquire() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.active == 0 {
		g.idle = make(chan struct{})
	}
	g.active++
}

func (g *Guard) release() {
	g.mu.Lock()
	g.active--
	if g.active > 0 {
		g.mu.Unlock()
		return
	}
	close(g.idle)
	hook := g.onIdle
	g.mu.Unlock()

	if hook != nil {
		hook()
	}
}
