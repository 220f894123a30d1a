package queue

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func TestNewBounded(t *testing.T) {
	q := NewBounded[int](2)
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, 2, q.Cap())

	assert.Panics(t, func() {
		NewBounded[int](0)
	})
	assert.Panics(t, func() {
		NewBounded[int](-1)
	})
}

func TestBounded_FIFO(t *testing.T) {
	ctx := context.Background()
	q := NewBounded[int](3)
	for i := 1; i <= 3; i++ {
		require.NoError(t, q.Put(ctx, i))
	}
	assert.Equal(t, 3, q.Len())

	for i := 1; i <= 3; i++ {
		val, err := q.Take(ctx)
		require.NoError(t, err)
		assert.Equal(t, i, val)
	}
	assert.Equal(t, 0, q.Len())
}

func TestBounded_Put_Blocking(t *testing.T) {
	ctx := context.Background()
	q := NewBounded[int](1)
	require.NoError(t, q.Put(ctx, 1))

	var (
		unblocked = make(chan struct{})
	)
	go func() {
		defer close(unblocked)
		assert.NoError(t, q.Put(ctx, 2))
	}()

	select {
	case <-unblocked:
		t.Fatal("Put should have blocked on a full queue")
	case <-time.After(50 * time.Millisecond):
	}

	val, err := q.Take(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, val)

	select {
	case <-unblocked:
	case <-time.After(time.Second):
		t.Fatal("Put should have unblocked after a slot freed")
	}
	val, err = q.Take(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, val)
}

func TestBounded_Put_Canceled(t *testing.T) {
	q := NewBounded[int](1)
	require.NoError(t, q.Put(context.Background(), 1))

	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)
	go func() {
		errs <- q.Put(ctx, 2)
	}()
	cancel()

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, ErrCanceled)
	case <-time.After(time.Second):
		t.Fatal("Put should have returned after cancellation")
	}

	// The cancelled value must not have been enqueued.
	val, err := q.Take(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, val)
	assert.Equal(t, 0, q.Len())
}

func TestBounded_Take_Canceled(t *testing.T) {
	q := NewBounded[int](1)
	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)
	go func() {
		_, err := q.Take(ctx)
		errs <- err
	}()
	cancel()

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, ErrCanceled)
	case <-time.After(time.Second):
		t.Fatal("Take should have returned after cancellation")
	}
}

func TestBounded_TryTake(t *testing.T) {
	q := NewBounded[int](1)
	val, ok := q.TryTake()
	assert.False(t, ok)
	assert.Equal(t, 0, val)

	require.NoError(t, q.Put(context.Background(), 5))
	val, ok = q.TryTake()
	assert.True(t, ok)
	assert.Equal(t, 5, val)
}
