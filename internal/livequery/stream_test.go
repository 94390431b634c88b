package livequery

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestStreamDeliversLatestSnapshot(t *testing.T) {
	s := New[int](nil)
	defer s.Dispose()

	require.True(t, s.Push([]int{1}))
	require.True(t, s.Push([]int{1, 2}))
	require.True(t, s.Push([]int{1, 2, 3}))

	got, err := s.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestStreamNextBlocksUntilPush(t *testing.T) {
	s := New[string](nil)
	defer s.Dispose()

	result := make(chan []string, 1)
	go func() {
		items, err := s.Next(context.Background())
		if err == nil {
			result <- items
		}
		close(result)
	}()

	time.Sleep(10 * time.Millisecond)
	s.Push([]string{"a"})

	select {
	case items := <-result:
		assert.Equal(t, []string{"a"}, items)
	case <-time.After(time.Second):
		t.Fatal("Next() did not return after Push()")
	}
}

func TestStreamFailIsTerminal(t *testing.T) {
	s := New[int](nil)
	defer s.Dispose()

	boom := errors.New("permission denied")
	s.Push([]int{7})
	s.Fail(boom)
	s.Fail(errors.New("second failure is ignored"))

	got, err := s.Next(context.Background())
	require.NoError(t, err, "snapshot pushed before the failure is still delivered")
	assert.Equal(t, []int{7}, got)

	_, err = s.Next(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.False(t, s.Push([]int{8}), "Push after Fail must be rejected")
	assert.ErrorIs(t, s.Err(), boom)
}

func TestStreamDispose(t *testing.T) {
	var stops atomic.Int32
	s := New[int](func() { stops.Add(1) })

	s.Dispose()
	s.Dispose()

	assert.Equal(t, int32(1), stops.Load(), "onStop runs exactly once")
	assert.False(t, s.Push([]int{1}))

	_, err := s.Next(context.Background())
	assert.ErrorIs(t, err, ErrDisposed)

	select {
	case <-s.Done():
	default:
		t.Error("Done() should be closed after Dispose()")
	}
}

func TestStreamNextHonoursContext(t *testing.T) {
	s := New[int](nil)
	defer s.Dispose()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := s.Next(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunRefreshesOnSignal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New[int](cancel)

	var calls atomic.Int32
	notify := make(chan struct{}, 1)
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		Run(ctx, s, notify, func(context.Context) ([]int, error) {
			n := int(calls.Add(1))
			return []int{n}, nil
		})
	}()

	first, err := s.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1}, first)

	Signal(notify)
	second, err := s.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{2}, second)

	s.Dispose()
	<-finished
}

func TestRunReportsQueryFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := New[int](cancel)
	defer s.Dispose()

	boom := errors.New("unavailable")
	notify := make(chan struct{}, 1)
	Run(ctx, s, notify, func(context.Context) ([]int, error) {
		return nil, boom
	})

	_, err := s.Next(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestRunReportsClosedFeed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := New[int](cancel)
	defer s.Dispose()

	notify := make(chan struct{})
	close(notify)
	Run(ctx, s, notify, func(context.Context) ([]int, error) {
		return []int{1}, nil
	})

	got, err := s.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1}, got)

	_, err = s.Next(context.Background())
	assert.ErrorIs(t, err, ErrFeedClosed)
}

func TestSignalCollapses(t *testing.T) {
	notify := make(chan struct{}, 1)
	Signal(notify)
	Signal(notify)
	Signal(notify)

	assert.Len(t, notify, 1)
}
