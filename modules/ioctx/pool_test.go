package ioctx

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunPoolRunsEveryItem(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	var sum int64
	err := RunPool(context.Background(), 2, items, func(_ context.Context, n int) error {
		atomic.AddInt64(&sum, int64(n))
		return nil
	})
	require.NoError(t, err)
	require.EqualValues(t, 15, sum)
}

func TestRunPoolEmptyItemsIsNoop(t *testing.T) {
	called := false
	err := RunPool(context.Background(), 4, []int{}, func(context.Context, int) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	require.False(t, called)
}

func TestRunPoolNonPositiveSizeStillRunsSerially(t *testing.T) {
	var n int64
	err := RunPool(context.Background(), 0, []int{1, 2, 3}, func(context.Context, int) error {
		atomic.AddInt64(&n, 1)
		return nil
	})
	require.NoError(t, err)
	require.EqualValues(t, 3, n)
}

func TestRunPoolSurfacesFirstErrorAndCancelsRemaining(t *testing.T) {
	boom := errors.New("boom")
	items := make([]int, 50)
	for i := range items {
		items[i] = i
	}
	var started int64
	err := RunPool(context.Background(), 1, items, func(ctx context.Context, n int) error {
		atomic.AddInt64(&started, 1)
		if n == 0 {
			return boom
		}
		return nil
	})
	require.ErrorIs(t, err, boom)
	require.Less(t, int(atomic.LoadInt64(&started)), len(items))
}
