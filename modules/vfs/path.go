// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package vfs

import (
	"path"
	"strings"
)

// Normalize collapses ".." segments, deduplicates separators and converts
// host path separators to the single POSIX "/" the repository engine uses
// internally for every stored relative path (spec §4.1 normalize).
func Normalize(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	cleaned := path.Clean(p)
	if cleaned == "." {
		return ""
	}
	return strings.TrimPrefix(cleaned, "/")
}

// illegalPathChars are rejected on every host regardless of platform, the
// conservative subset illegal on Windows that would otherwise silently
// corrupt a cross-platform worktree (spec §4.1: "all paths are rejected if
// they contain characters illegal on the host filesystem").
const illegalPathChars = `<>:"|?*`

// ValidRelativePath reports whether p is safe to use as a path component
// inside a worktree or object store: no illegal characters, and no ".."
// segment anywhere in it.
func ValidRelativePath(p string) bool {
	if p == "" {
		return false
	}
	if strings.ContainsAny(p, illegalPathChars) {
		return false
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return false
		}
	}
	return true
}
