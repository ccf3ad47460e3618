package flow

import (
	"context"
	"sync"
)

// EqualFunc reports whether two values are the same for de-duplication purposes.
type EqualFunc[T any] func(a, b T) bool

type subscriber[T any] struct {
	ch chan T
}

// StateFlow is a conflated, multi-subscriber cell holding the latest value.
// Values handed to Emit must not be modified afterwards.
type StateFlow[T any] struct {
	mu    sync.RWMutex
	value T
	equal EqualFunc[T]
	subs  map[*subscriber[T]]struct{}
}

// New creates a flow seeded with initial. When equal is non-nil, Emit ignores
// values equal to the current one.
func New[T any](initial T, equal EqualFunc[T]) *StateFlow[T] {
	return &StateFlow[T]{
		value: initial,
		equal: equal,
		subs:  make(map[*subscriber[T]]struct{}),
	}
}

// Value returns the current value.
func (f *StateFlow[T]) Value() T {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.value
}

// Emit replaces the current value and notifies subscribers.
// It reports false when the value was equal to the current one and nothing was published.
func (f *StateFlow[T]) Emit(v T) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.equal != nil && f.equal(f.value, v) {
		return false
	}
	f.value = v
	for sub := range f.subs {
		offer(sub.ch, v)
	}
	return true
}

// Subscribe returns a channel that immediately yields the current value and then
// every later value, conflated. The channel is closed once ctx is done.
func (f *StateFlow[T]) Subscribe(ctx context.Context) <-chan T {
	sub := &subscriber[T]{ch: make(chan T, 1)}

	f.mu.Lock()
	sub.ch <- f.value
	f.subs[sub] = struct{}{}
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		delete(f.subs, sub)
		close(sub.ch)
		f.mu.Unlock()
	}()

	return sub.ch
}

// Subscribers returns the number of live subscriptions.
func (f *StateFlow[T]) Subscribers() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}

// offer places v in a one-slot channel, replacing any unread value.
// The caller must be the only sender on ch.
func offer[T any](ch chan T, v T) {
	select {
	case ch <- v:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	ch <- v
}

// Map derives a conflated stream from src. Values are transformed with fn and,
// when equal is non-nil, consecutive equal results are suppressed.
// The returned channel is closed when ctx is done.
func Map[T, U any](ctx context.Context, src *StateFlow[T], fn func(T) U, equal EqualFunc[U]) <-chan U {
	in := src.Subscribe(ctx)
	out := make(chan U, 1)

	go func() {
		defer close(out)
		var (
			last U
			sent bool
		)
		for v := range in {
			u := fn(v)
			if sent && equal != nil && equal(last, u) {
				continue
			}
			last, sent = u, true
			offer(out, u)
		}
	}()

	return out
}
