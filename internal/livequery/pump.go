package livequery

import (
	"context"
	"errors"
)

// ErrFeedClosed is reported when a change feed ends while the stream is still wanted.
var ErrFeedClosed = errors.New("livequery: change feed closed")

// Query loads one complete snapshot.
type Query[T any] func(ctx context.Context) ([]T, error)

// Run pushes a snapshot from q into s once immediately and again after every
// signal on notify. It returns when ctx is done or s is disposed; a failing
// query or a closed notify channel puts s in its terminal error state.
//
// Callers should establish the change feed before calling Run so that no
// change between the initial query and the first signal is missed.
func Run[T any](ctx context.Context, s *Stream[T], notify <-chan struct{}, q Query[T]) {
	refresh := func() bool {
		items, err := q(ctx)
		if err != nil {
			if ctx.Err() == nil {
				s.Fail(err)
			}
			return false
		}
		return s.Push(items)
	}

	if !refresh() {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.Done():
			return
		case _, ok := <-notify:
			if !ok {
				if ctx.Err() == nil {
					s.Fail(ErrFeedClosed)
				}
				return
			}
			if !refresh() {
				return
			}
		}
	}
}

// Signal performs a non-blocking send on a notify channel with capacity 1.
// Signals that arrive while one is pending collapse into it.
func Signal(notify chan<- struct{}) {
	select {
	case notify <- struct{}{}:
	default:
	}
}
