// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package ioctx

import (
	"github.com/snowtrack/snow/modules/vfs"
)

// smallFileThreshold is the size below which a clone/block-clone failure
// falls back to a reflink-hinted copy rather than surfacing the error
// (spec §4.2 steps 1-2: "fallback to reflink-hinted copy when file size <
// 1 MiB").
const smallFileThreshold = 1 << 20

// CopyFile picks the fastest copy primitive for the src→dst pair, per spec
// §4.2:
//  1. Same-mount APFS: APFS-clone, falling back to reflink-hinted copy for
//     files under 1 MiB.
//  2. Same-mount ReFS: block-clone, same fallback.
//  3. Otherwise: reflink-hinted copy (the kernel falls back to a byte
//     copy when the underlying filesystem has no CoW support).
func (c *Context) CopyFile(src, dst string, size int64) (int64, error) {
	family := c.Classify(dirOf(src))
	if family == c.Classify(dirOf(dst)) {
		switch family {
		case APFS:
			if n, err := cloneAPFS(src, dst); err == nil {
				return n, nil
			} else if size >= smallFileThreshold {
				return 0, err
			}
		case ReFS:
			if n, err := cloneReFS(src, dst); err == nil {
				return n, nil
			} else if size >= smallFileThreshold {
				return 0, err
			}
		}
	}
	return reflinkCopy(src, dst)
}

func dirOf(path string) string {
	i := len(path) - 1
	for i >= 0 && path[i] != '/' && path[i] != '\\' {
		i--
	}
	if i <= 0 {
		return path
	}
	return path[:i]
}

// reflinkCopy issues the platform reflink hint where one exists and falls
// back to vfs.CopyFile's plain byte copy otherwise.
func reflinkCopy(src, dst string) (int64, error) {
	if n, err := cloneReflink(src, dst); err == nil {
		return n, nil
	}
	return vfs.CopyFile(src, dst)
}
