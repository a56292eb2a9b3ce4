// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package ioctx

import (
	"fmt"
	"runtime"
	"sync"
)

// trashCmdLineBudget bounds how many path bytes are handed to one trash
// helper invocation (spec §4.2 "Chunks arguments to stay under a 4 KiB
// command-line budget").
const trashCmdLineBudget = 4096

// trashConcurrency is the fixed fan-out for chunk dispatch (spec §4.2
// "Runs up to 8 chunks concurrently").
const trashConcurrency = 8

// minTrashPathLen refuses suspiciously short paths that are more likely a
// caller bug (an empty or single-character relative path) than a genuine
// delete target (spec §4.2 "Refuses paths ≤ 3 characters (or ≤ 1 on
// Unix)").
func minTrashPathLen() int {
	if runtime.GOOS == "windows" {
		return 4
	}
	return 2
}

// PutToTrash moves paths to the host recycle bin, via TrashFunc if the
// Context was constructed with one, or the platform helper otherwise.
func (c *Context) PutToTrash(paths []string) error {
	min := minTrashPathLen()
	var candidates []string
	for _, p := range paths {
		if len(p) < min {
			c.log.WithField("component", "ioctx").WithField("path", p).
				Warn("refusing to trash suspiciously short path")
			continue
		}
		candidates = append(candidates, p)
	}
	if len(candidates) == 0 {
		return nil
	}

	dispatch := c.TrashFunc
	if dispatch == nil {
		dispatch = platformTrash
	}

	chunks := chunkByByteBudget(candidates, trashCmdLineBudget)

	sem := make(chan struct{}, trashConcurrency)
	var wg sync.WaitGroup
	errCh := make(chan error, len(chunks))
	for _, chunk := range chunks {
		wg.Add(1)
		sem <- struct{}{}
		go func(chunk []string) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := dispatch(chunk); err != nil {
				errCh <- fmt.Errorf("trash %d item(s): %w", len(chunk), err)
			}
		}(chunk)
	}
	wg.Wait()
	close(errCh)

	var firstErr error
	for err := range errCh {
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// chunkByByteBudget splits paths into groups whose combined byte length
// (plus one separator per entry) stays under budget, preserving order.
func chunkByByteBudget(paths []string, budget int) [][]string {
	var chunks [][]string
	var cur []string
	curLen := 0
	for _, p := range paths {
		need := len(p) + 1
		if curLen+need > budget && len(cur) > 0 {
			chunks = append(chunks, cur)
			cur = nil
			curLen = 0
		}
		cur = append(cur, p)
		curLen += need
	}
	if len(cur) > 0 {
		chunks = append(chunks, cur)
	}
	return chunks
}
