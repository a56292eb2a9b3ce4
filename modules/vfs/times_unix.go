//go:build linux

// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package vfs

import (
	"os"
	"syscall"
	"time"
)

// FileTimes extracts ctime, mtime and (best-effort) birthtime from an
// os.FileInfo. Linux's stat(2) has no creation time in the common case;
// ctime is used as the closest available proxy, matching what most
// userspace tools report for "birthtime" on ext4 without statx.
func FileTimes(info os.FileInfo) (ctime, mtime, birthtime time.Time) {
	mtime = info.ModTime()
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return mtime, mtime, mtime
	}
	ctime = time.Unix(st.Ctim.Sec, st.Ctim.Nsec)
	return ctime, mtime, ctime
}
