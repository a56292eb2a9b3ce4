// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package ioctx

import (
	"fmt"
	"strings"
)

// ErrFilesLocked aggregates every path a write-lock check found held open
// by another process (spec §7 FilesLockedByOtherProcess).
type ErrFilesLocked struct {
	Paths []string
}

func (e *ErrFilesLocked) Error() string {
	return fmt.Sprintf("files locked by another process: %s", strings.Join(e.Paths, ", "))
}

func IsErrFilesLocked(err error) bool {
	_, ok := err.(*ErrFilesLocked)
	return ok
}

// ProcessListFunc reports which of paths are held open by a process other
// than the caller. It is spec §9's "process-level helper must be a
// parameter, not a process global": the platform-specific lsof/helper
// lookup is an external collaborator (spec §1) this package depends on
// through an injectable function, never a hardwired syscall in the
// repository engine itself.
type ProcessListFunc func(paths []string) ([]string, error)

// maxLockCheckPaths mirrors spec §4.2's Windows helper ceiling: beyond
// this many candidate paths the check is skipped rather than risking a
// pathological helper invocation.
const maxLockCheckPaths = 5000

// CheckWriteAccess verifies that none of relPaths (resolved against dir)
// are held open for write by another process. lister defaults to the
// platform helper (defaultProcessLister) when nil.
func (c *Context) CheckWriteAccess(dir string, relPaths []string, lister ProcessListFunc) error {
	if len(relPaths) == 0 || len(relPaths) > maxLockCheckPaths {
		return nil
	}
	if lister == nil {
		lister = defaultProcessLister
	}
	abs := make([]string, len(relPaths))
	for i, p := range relPaths {
		abs[i] = joinPath(dir, p)
	}
	locked, err := lister(abs)
	if err != nil {
		c.log.WithField("component", "ioctx").WithError(err).Warn("access check failed, proceeding without lock information")
		return nil
	}
	if len(locked) == 0 {
		return nil
	}
	return &ErrFilesLocked{Paths: locked}
}

func joinPath(dir, rel string) string {
	if dir == "" {
		return rel
	}
	return dir + "/" + rel
}
