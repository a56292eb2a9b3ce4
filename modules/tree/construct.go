// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package tree

import (
	"path"
	"strings"
	"time"

	"github.com/snowtrack/snow/modules/plumbing"
	"github.com/snowtrack/snow/modules/vfs"
)

// ProcessedEntry is the {fingerprint, stat subset} pair the index records
// for a path once writeFiles has hashed it (spec §4.5 "sets fingerprints
// of leaves from a supplied processed-map").
type ProcessedEntry struct {
	Fingerprint plumbing.Hash
	Size        int64
	Ctime       time.Time
	Mtime       time.Time
	Birthtime   time.Time
}

// ConstructTree walks worktreeRoot and builds a TreeDir mirroring it,
// skipping the repository's own metadata directories. Every file's
// fingerprint and stat subset are taken from processed when present;
// otherwise the fingerprint is left zero for the caller to fill in later
// (spec §4.5 constructTree).
func ConstructTree(worktreeRoot string, processed map[string]ProcessedEntry) (*TreeDir, error) {
	entries, err := vfs.OSWalk(worktreeRoot, vfs.WalkFiles|vfs.WalkDirs|vfs.WalkRecursive)
	if err != nil {
		return nil, err
	}

	root := NewRoot()
	dirs := map[string]*TreeDir{"": root}

	var ensureDir func(rel string) *TreeDir
	ensureDir = func(rel string) *TreeDir {
		if d, ok := dirs[rel]; ok {
			return d
		}
		parent := ensureDir(parentOf(rel))
		d := &TreeDir{RelPath: rel}
		parent.addChild(d)
		dirs[rel] = d
		return d
	}

	for _, e := range entries {
		rel := vfs.Normalize(e.Rel)
		if e.Info.IsDir() {
			ensureDir(rel)
			continue
		}
		parent := ensureDir(parentOf(rel))
		ctime, mtime, birthtime := vfs.FileTimes(e.Info)
		f := &TreeFile{
			RelPath:   rel,
			Ext:       path.Ext(rel),
			Size:      e.Info.Size(),
			Ctime:     ctime,
			Mtime:     mtime,
			Birthtime: birthtime,
		}
		if p, ok := processed[rel]; ok {
			f.Fingerprint = p.Fingerprint
			f.Size = p.Size
			f.Ctime = p.Ctime
			f.Mtime = p.Mtime
			f.Birthtime = p.Birthtime
		}
		parent.addChild(f)
	}

	root.ComputeFingerprint()
	return root, nil
}

// parentOf returns the parent directory's relative path of a POSIX rel
// path, "" for a top-level entry.
func parentOf(rel string) string {
	i := strings.LastIndexByte(rel, '/')
	if i < 0 {
		return ""
	}
	return rel[:i]
}
