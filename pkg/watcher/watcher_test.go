package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerCoalesces(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	var calls atomic.Int32
	var last atomic.Int32
	for i := range 5 {
		d.Trigger(func() {
			calls.Add(1)
			last.Store(int32(i))
		})
		time.Sleep(5 * time.Millisecond)
	}
	if !d.Pending() {
		t.Fatal("expected a pending call")
	}
	time.Sleep(100 * time.Millisecond)
	if calls.Load() != 1 {
		t.Errorf("expected one call, got %d", calls.Load())
	}
	if last.Load() != 4 {
		t.Errorf("expected the last fn to run, got %d", last.Load())
	}
	if d.Pending() {
		t.Error("nothing should be pending after the call")
	}
}

func TestDebouncerStop(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	d.Stop()
	time.Sleep(60 * time.Millisecond)
	if calls.Load() != 0 {
		t.Errorf("stopped call ran %d times", calls.Load())
	}
}

func TestDebouncerDefaultPeriod(t *testing.T) {
	if got := NewDebouncer(0).Period(); got != DefaultDebounce {
		t.Errorf("Period = %v", got)
	}
}

func waitFor(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatcherReportsFileChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gallery.yaml")
	if err := os.WriteFile(path, []byte("galleries: {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	changed := make(chan struct{}, 4)
	w, err := New(path, 20*time.Millisecond, func() { changed <- struct{}{} })
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)

	// A sibling file is ignored.
	os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644)
	select {
	case <-changed:
		t.Fatal("unrelated file reported")
	case <-time.After(100 * time.Millisecond):
	}

	os.WriteFile(path, []byte("galleries: {a/b/1: []}\n"), 0o644)
	waitFor(t, changed)

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run: %v", err)
	}
}

func TestWatcherDirectory(t *testing.T) {
	dir := t.TempDir()
	changed := make(chan struct{}, 4)
	w, err := New(dir, 20*time.Millisecond, func() { changed <- struct{}{} })
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)
	time.Sleep(50 * time.Millisecond)

	os.WriteFile(filepath.Join(dir, "new.png"), []byte("x"), 0o644)
	waitFor(t, changed)
}

func TestWatcherMissingPath(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "missing"), 0, func() {}); err == nil {
		t.Error("expected error for missing path")
	}
}
