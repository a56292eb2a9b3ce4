// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package vfs

import (
	"path/filepath"

	securejoin "github.com/cyphar/filepath-securejoin"
)

// SecureJoin resolves rel against root the way a checkout restore needs to:
// a commit's tree can originate from a merged remote repository (spec
// §4.12), so a TreeFile's RelPath is untrusted input by the time it reaches
// the worktree-write path. SecureJoin, unlike filepath.Join, guarantees the
// result stays within root even if rel carries ".." segments or walks
// through a symlink that would otherwise escape it.
func SecureJoin(root, rel string) (string, error) {
	return securejoin.SecureJoin(root, filepath.FromSlash(rel))
}
