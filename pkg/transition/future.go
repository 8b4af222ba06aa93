package transition

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Task is one unit of asynchronous work, such as an animation or an image load.
type Task func(ctx context.Context) error

// Future is the completion of a Task. It resolves exactly once.
type Future struct {
	done chan struct{}
	once sync.Once
	err  error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) resolve(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}

// Go starts task in its own goroutine and returns its future.
func Go(ctx context.Context, task Task) *Future {
	f := newFuture()
	go func() {
		f.resolve(task(ctx))
	}()
	return f
}

// Resolved returns a future that has already completed with err.
func Resolved(err error) *Future {
	f := newFuture()
	f.resolve(err)
	return f
}

// Done is closed once the future resolves
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Resolved reports whether the future has completed
func (f *Future) Resolved() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Err returns the task's error. It is only meaningful after Done is closed.
func (f *Future) Err() error {
	select {
	case <-f.done:
		return f.err
	default:
		return nil
	}
}

// Wait blocks until the future resolves or ctx ends.
func (f *Future) Wait(ctx context.Context) error {
	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Then registers fn to run with the task's error once the future resolves.
// fn runs on its own goroutine.
func (f *Future) Then(fn func(err error)) {
	go func() {
		<-f.done
		fn(f.err)
	}()
}

// Join resolves once every future has resolved, in any order. Its error is
// the first non-nil error among them.
func Join(ctx context.Context, futures ...*Future) *Future {
	return Go(ctx, func(ctx context.Context) error {
		var g errgroup.Group
		for _, f := range futures {
			g.Go(func() error {
				<-f.done
				return f.err
			})
		}
		return g.Wait()
	})
}
