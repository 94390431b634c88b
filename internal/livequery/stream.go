// Package livequery provides a cancellable stream of result-set snapshots.
//
// A Stream holds at most one undelivered snapshot: pushing a newer snapshot
// replaces an older one the consumer has not read yet. Each snapshot is a full
// replacement of the previous one, so skipping intermediate snapshots never
// loses information.
package livequery

import (
	"context"
	"errors"
	"sync"
)

// ErrDisposed is returned by Next after Dispose has been called.
var ErrDisposed = errors.New("livequery: stream disposed")

// Stream is an infinite sequence of snapshots of type []T.
//
// Producers call Push and Fail; consumers call Next and Dispose.
// Push must be called from a single goroutine.
type Stream[T any] struct {
	latest chan []T
	done   chan struct{}
	failed chan struct{}

	mu       sync.Mutex
	err      error
	stopOnce sync.Once
	failOnce sync.Once
	onStop   func()
}

// New creates a stream. onStop, if non-nil, runs once when the stream is
// disposed and must release every resource the producer holds.
func New[T any](onStop func()) *Stream[T] {
	return &Stream[T]{
		latest: make(chan []T, 1),
		done:   make(chan struct{}),
		failed: make(chan struct{}),
		onStop: onStop,
	}
}

// Push publishes a snapshot, replacing any snapshot not yet consumed.
// It returns false once the stream is disposed or failed.
func (s *Stream[T]) Push(items []T) bool {
	select {
	case <-s.done:
		return false
	case <-s.failed:
		return false
	default:
	}

	// Drop the stale snapshot, if any. With a single producer the send below
	// never blocks: the buffer is empty after this select.
	select {
	case <-s.latest:
	default:
	}
	s.latest <- items
	return true
}

// Fail puts the stream into its terminal error state. Snapshots pushed before
// the failure are still delivered; afterwards Next returns err.
func (s *Stream[T]) Fail(err error) {
	if err == nil {
		return
	}
	s.failOnce.Do(func() {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		close(s.failed)
	})
}

// Next blocks until a snapshot is available, the stream fails, the stream is
// disposed, or ctx is done.
func (s *Stream[T]) Next(ctx context.Context) ([]T, error) {
	select {
	case <-s.done:
		return nil, ErrDisposed
	default:
	}

	select {
	case items := <-s.latest:
		return items, nil
	default:
	}

	select {
	case items := <-s.latest:
		return items, nil
	case <-s.failed:
		// A snapshot pushed right before the failure wins.
		select {
		case items := <-s.latest:
			return items, nil
		default:
		}
		return nil, s.Err()
	case <-s.done:
		return nil, ErrDisposed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Err returns the terminal error, or nil while the stream is healthy.
func (s *Stream[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Failed is closed when the stream enters its terminal error state.
func (s *Stream[T]) Failed() <-chan struct{} { return s.failed }

// Done is closed once Dispose has been called.
func (s *Stream[T]) Done() <-chan struct{} { return s.done }

// Dispose stops delivery and releases the producer. Safe to call more than once.
func (s *Stream[T]) Dispose() {
	s.stopOnce.Do(func() {
		close(s.done)
		if s.onStop != nil {
			s.onStop()
		}
	})
}
