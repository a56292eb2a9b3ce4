// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package ioctx

import (
	"context"
	"sync"
)

// Normative bounded-pool sizes (spec §5): 8 for CPU-bound hash-compute
// tasks, 32 for I/O-bound restore/delete tasks.
const (
	HashPoolSize          = 8
	RestoreDeletePoolSize = 32
)

// RunPool executes one task per element of items using size concurrent
// workers. The pool is a barrier: it does not return until every task has
// either completed or been abandoned. If any task returns an error, the
// remaining queued tasks are never started and RunPool returns that first
// error (spec §5 "Cancellation": "any failure cancels remaining tasks and
// surfaces the first error... partial effects are not rolled back").
func RunPool[T any](ctx context.Context, size int, items []T, task func(context.Context, T) error) error {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 {
		size = 1
	}
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, size)
	var wg sync.WaitGroup
	var once sync.Once
	var firstErr error

	for _, item := range items {
		select {
		case <-runCtx.Done():
		default:
		}
		if runCtx.Err() != nil {
			break
		}
		item := item
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			if runCtx.Err() != nil {
				return
			}
			if err := task(runCtx, item); err != nil {
				once.Do(func() {
					firstErr = err
					cancel()
				})
			}
		}()
	}
	wg.Wait()
	return firstErr
}
