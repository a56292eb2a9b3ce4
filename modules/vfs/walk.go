// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package vfs

import (
	"os"
	"path/filepath"
	"sort"
)

// WalkFlags selects which entries OSWalk yields (spec §4.1 osWalk flags
// "{files, dirs, hidden, recursive}").
type WalkFlags uint8

const (
	WalkFiles WalkFlags = 1 << iota
	WalkDirs
	WalkHidden
	WalkRecursive
)

func (f WalkFlags) has(bit WalkFlags) bool { return f&bit != 0 }

// metaDirNames are the repository's own metadata directories; OSWalk skips
// them unless WalkHidden is set, mirroring spec §4.1's ".snow and .git
// unless asked" rule.
var metaDirNames = map[string]bool{".snow": true, ".git": true}

// Entry is one node produced by OSWalk: an absolute path, the path relative
// to the walk root (POSIX separators), its os.FileInfo, and for
// directories, whether it turned out to have zero children once the walk
// finished visiting them.
type Entry struct {
	Abs     string
	Rel     string
	Info    os.FileInfo
	IsEmpty bool
}

// OSWalk enumerates root's descendants according to flags and returns them
// all at once, each directory listed after its own children. It
// silently skips subdirectories that disappear mid-walk (a concurrent
// editor deleting a temp dir) and fails only if root itself is unreadable.
func OSWalk(root string, flags WalkFlags) ([]Entry, error) {
	var entries []Entry
	var walk func(abs, rel string) (empty bool, err error)
	walk = func(abs, rel string) (bool, error) {
		items, err := os.ReadDir(abs)
		if err != nil {
			if rel == "" {
				return false, err
			}
			// A subdirectory vanished mid-walk: treat it as empty rather
			// than failing the whole operation.
			return true, nil
		}
		sort.Slice(items, func(i, j int) bool { return items[i].Name() < items[j].Name() })
		sawChild := false
		for _, it := range items {
			name := it.Name()
			if !flags.has(WalkHidden) && metaDirNames[name] {
				continue
			}
			childAbs := filepath.Join(abs, name)
			childRel := name
			if rel != "" {
				childRel = rel + "/" + name
			}
			info, err := it.Info()
			if err != nil {
				continue
			}
			if it.IsDir() {
				if !flags.has(WalkRecursive) {
					if flags.has(WalkDirs) {
						entries = append(entries, Entry{Abs: childAbs, Rel: childRel, Info: info})
					}
					sawChild = true
					continue
				}
				childEmpty, err := walk(childAbs, childRel)
				if err != nil {
					continue
				}
				if flags.has(WalkDirs) {
					entries = append(entries, Entry{Abs: childAbs, Rel: childRel, Info: info, IsEmpty: childEmpty})
				}
				sawChild = true
				continue
			}
			if flags.has(WalkFiles) {
				entries = append(entries, Entry{Abs: childAbs, Rel: childRel, Info: info})
			}
			sawChild = true
		}
		return !sawChild, nil
	}
	if _, err := walk(root, ""); err != nil {
		return nil, err
	}
	return entries, nil
}
