//go:build darwin

// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package ioctx

import (
	"os"

	"golang.org/x/sys/unix"
)

// cloneAPFS issues an APFS clone (copy-on-write, instant regardless of
// file size) via the clonefile(2) syscall.
func cloneAPFS(src, dst string) (int64, error) {
	if err := unix.Clonefile(src, dst, unix.CLONE_NOFOLLOW); err != nil {
		return 0, err
	}
	st, err := os.Stat(dst)
	if err != nil {
		return 0, err
	}
	return st.Size(), nil
}

// cloneReFS has no Darwin equivalent.
func cloneReFS(src, dst string) (int64, error) {
	return 0, unix.ENOTSUP
}

// cloneReflink on Darwin degrades to the same clonefile primitive: APFS is
// the only CoW-capable filesystem in practice, and clonefile is cheap
// enough to always attempt.
func cloneReflink(src, dst string) (int64, error) {
	return cloneAPFS(src, dst)
}
