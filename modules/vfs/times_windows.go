//go:build windows

// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package vfs

import (
	"os"
	"syscall"
	"time"
)

// FileTimes extracts ctime (Windows has no inode-change time; the NTFS
// "last attribute change" concept is approximated with LastWriteTime),
// mtime and birthtime (NTFS's CreationTime, a real field).
func FileTimes(info os.FileInfo) (ctime, mtime, birthtime time.Time) {
	mtime = info.ModTime()
	st, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return mtime, mtime, mtime
	}
	birthtime = time.Unix(0, st.CreationTime.Nanoseconds())
	return mtime, mtime, birthtime
}
