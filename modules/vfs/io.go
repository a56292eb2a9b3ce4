// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package vfs

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const defaultDirMode = 0o755

// EnsureDir creates dir and any missing parents, matching spec §4.1
// ensureDir.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, defaultDirMode)
}

// Stat is a thin alias kept for symmetry with the other platform
// abstractions this package groups together.
func Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// PathExists reports whether path exists, treating any error other than
// "not exist" as existence (conservative: callers of pathExists in the
// repository engine only use it to skip redundant mkdir/copy work).
func PathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil || !os.IsNotExist(err)
}

// Rmdir recursively removes dir and everything under it.
func Rmdir(dir string) error {
	return os.RemoveAll(dir)
}

// Utimes sets the access and modification time of path.
func Utimes(path string, atime, mtime time.Time) error {
	return os.Chtimes(path, atime, mtime)
}

// CopyFile is the portable byte-copy primitive: the fallback every
// filesystem family reduces to when no block-clone/reflink acceleration
// applies (spec §4.2 step 3, "reflink-hinted copy, kernel falls back to
// byte copy"). Platform-specific primitives live in modules/ioctx and call
// this as their last resort.
func CopyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	if err := EnsureDir(filepath.Dir(dst)); err != nil {
		return 0, err
	}
	tmp := dst + ".tmp-copy"
	out, err := os.OpenFile(tmp, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, err
	}
	n, copyErr := io.Copy(out, in)
	closeErr := out.Close()
	if copyErr != nil {
		os.Remove(tmp)
		return n, copyErr
	}
	if closeErr != nil {
		os.Remove(tmp)
		return n, closeErr
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return n, err
	}
	return n, nil
}

// HideItem best-effort hides path from normal directory listings. It never
// fails fatally (spec §4.1): on platforms without a hidden attribute this
// is a silent no-op, and any error from the platform call is swallowed.
func HideItem(path string) {
	hideItem(path)
}

// protectedRoots are OS-critical locations init/delete must refuse to
// touch (spec §4.1 protectedLocation).
var protectedRoots = []string{
	"/", "/System", "/System/Library", "/usr", "/bin", "/sbin", "/etc",
}

// ProtectedLocation reports whether path names an OS-critical root that
// must never be initialized into or deleted.
func ProtectedLocation(path string) bool {
	clean := filepath.Clean(path)
	if runtime.GOOS == "windows" {
		if vol := filepath.VolumeName(clean); vol != "" && strings.EqualFold(clean, vol+`\`) {
			return true
		}
		winDir := os.Getenv("WINDIR")
		if winDir != "" && strings.EqualFold(clean, filepath.Clean(winDir)) {
			return true
		}
		return false
	}
	for _, root := range protectedRoots {
		if clean == root {
			return true
		}
	}
	return false
}
