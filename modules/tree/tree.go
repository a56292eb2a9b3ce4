// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package tree implements the in-memory snapshot of a directory hierarchy
// spec §3/§4.5 describes: TreeDir and TreeFile nodes linked by an owning
// children list and a non-owning parent back-link, with fingerprints
// propagated bottom-up.
package tree

import (
	"path"
	"sort"
	"time"

	"github.com/snowtrack/snow/modules/plumbing"
)

// Entry is the tagged-variant interface spec §9 calls for: a node is
// either a *TreeFile or a *TreeDir. Children are held by the owning
// TreeDir.Children slice; each concrete type's Parent field is a
// non-owning back-reference, never counted as ownership (spec §9 "Cyclic
// parent links").
type Entry interface {
	entryName() string
	hash() plumbing.Hash
	setParent(*TreeDir)
	parent() *TreeDir
}

// TreeFile is a leaf node: one versioned file.
type TreeFile struct {
	RelPath     string
	Ext         string
	Fingerprint plumbing.Hash
	Size        int64
	Ctime       time.Time
	Mtime       time.Time
	Birthtime   time.Time
	Parent      *TreeDir
}

func (f *TreeFile) entryName() string         { return path.Base(f.RelPath) }
func (f *TreeFile) hash() plumbing.Hash       { return f.Fingerprint }
func (f *TreeFile) setParent(d *TreeDir)      { f.Parent = d }
func (f *TreeFile) parent() *TreeDir          { return f.Parent }

// TreeDir is an interior node: a directory, its ordered children, and a
// fingerprint computed as the hash of the concatenation of its children's
// fingerprints (spec §3).
type TreeDir struct {
	RelPath     string
	Parent      *TreeDir
	Children    []Entry
	Fingerprint plumbing.Hash
	Size        int64
}

func (d *TreeDir) entryName() string    { return path.Base(d.RelPath) }
func (d *TreeDir) hash() plumbing.Hash  { return d.Fingerprint }
func (d *TreeDir) setParent(p *TreeDir) { d.Parent = p }
func (d *TreeDir) parent() *TreeDir     { return d.Parent }

// NewRoot creates an empty root TreeDir: empty path, no parent (spec §3
// invariant "the root has an empty path and no parent").
func NewRoot() *TreeDir {
	return &TreeDir{RelPath: ""}
}

// addChild appends entry to d.Children and wires its parent back-link.
func (d *TreeDir) addChild(e Entry) {
	e.setParent(d)
	d.Children = append(d.Children, e)
}

// find returns the direct child named name, if any.
func (d *TreeDir) find(name string) (Entry, int) {
	for i, c := range d.Children {
		if c.entryName() == name {
			return c, i
		}
	}
	return nil, -1
}

// ComputeFingerprint recomputes d's fingerprint (and every descendant
// directory's fingerprint) bottom-up: hash(concat(children fingerprints))
// in insertion order.
func (d *TreeDir) ComputeFingerprint() plumbing.Hash {
	var buf []byte
	var size int64
	for _, c := range d.Children {
		if cd, ok := c.(*TreeDir); ok {
			cd.ComputeFingerprint()
			size += cd.Size
		} else if cf, ok := c.(*TreeFile); ok {
			size += cf.Size
		}
		h := c.hash()
		buf = append(buf, h[:]...)
	}
	d.Size = size
	d.Fingerprint = plumbing.HashBytes(buf)
	return d.Fingerprint
}

// FlattenOpts controls GetAllTreeFiles.
type FlattenOpts struct {
	EntireHierarchy bool // recurse into every descendant, not just direct children
	IncludeDirs     bool // include TreeDir entries in the result, keyed by path
}

// GetAllTreeFiles flattens root into a map keyed by relative path (spec
// §4.5).
func (d *TreeDir) GetAllTreeFiles(opts FlattenOpts) map[string]Entry {
	out := make(map[string]Entry)
	var walk func(dir *TreeDir)
	walk = func(dir *TreeDir) {
		for _, c := range dir.Children {
			switch v := c.(type) {
			case *TreeFile:
				out[v.RelPath] = v
			case *TreeDir:
				if opts.IncludeDirs {
					out[v.RelPath] = v
				}
				if opts.EntireHierarchy {
					walk(v)
				}
			}
		}
	}
	walk(d)
	return out
}

// Walk pre-order visits every descendant of root, calling cb for each.
// cb returning false stops descent into that entry's children (TreeDir
// only; no-op for TreeFile).
func (d *TreeDir) Walk(cb func(Entry) bool) {
	for _, c := range d.Children {
		descend := cb(c)
		if cd, ok := c.(*TreeDir); ok && descend {
			cd.Walk(cb)
		}
	}
}

// Remove performs a post-order prune: every entry (file or empty-after-
// pruning directory) for which predicate returns true is dropped from its
// parent's children list (spec §4.5 "used to strip deleted paths from the
// prior-commit tree").
func (d *TreeDir) Remove(predicate func(Entry) bool) {
	kept := d.Children[:0:0]
	for _, c := range d.Children {
		if cd, ok := c.(*TreeDir); ok {
			cd.Remove(predicate)
		}
		if predicate(c) {
			continue
		}
		kept = append(kept, c)
	}
	d.Children = kept
}

// PruneEmptyDirs drops every descendant directory that has zero children
// after pruning (spec §4.9 step 7).
func (d *TreeDir) PruneEmptyDirs() {
	d.Remove(func(e Entry) bool {
		cd, ok := e.(*TreeDir)
		return ok && len(cd.Children) == 0
	})
}

// Clone deep-copies the subtree rooted at d, fixing parent back-links in
// the copy.
func (d *TreeDir) Clone() *TreeDir {
	clone := &TreeDir{RelPath: d.RelPath, Fingerprint: d.Fingerprint, Size: d.Size}
	for _, c := range d.Children {
		switch v := c.(type) {
		case *TreeFile:
			f := *v
			clone.addChild(&f)
		case *TreeDir:
			clone.addChild(v.Clone())
		}
	}
	return clone
}

// Merge recursively overlays high onto low: when both sides have a child
// with the same relative path, the high side wins (spec §4.5 "used to
// overlay the worktree's added/modified subset onto the previous commit's
// tree"). Returns a new tree; low and high are not mutated.
func Merge(low, high *TreeDir) *TreeDir {
	out := &TreeDir{RelPath: low.RelPath}
	byName := make(map[string]Entry, len(low.Children)+len(high.Children))
	var order []string
	for _, c := range low.Children {
		name := c.entryName()
		byName[name] = c
		order = append(order, name)
	}
	for _, c := range high.Children {
		name := c.entryName()
		if _, existed := byName[name]; !existed {
			order = append(order, name)
		}
		byName[name] = c
	}
	for _, name := range order {
		c := byName[name]
		if v, ok := c.(*TreeFile); ok {
			f := *v
			out.addChild(&f)
			continue
		}
		lowDir, hasLow := findDir(low, name)
		highDir, hasHigh := findDir(high, name)
		switch {
		case hasLow && hasHigh:
			out.addChild(Merge(lowDir, highDir))
		case hasHigh:
			out.addChild(highDir.Clone())
		default:
			out.addChild(lowDir.Clone())
		}
	}
	out.ComputeFingerprint()
	return out
}

func findDir(parent *TreeDir, name string) (*TreeDir, bool) {
	c, _ := parent.find(name)
	d, ok := c.(*TreeDir)
	return d, ok
}

// DiffResult is the presence/hash-level changed-path report spec §8
// scenario 3 requires: no content diffing, only which relative paths were
// added, had their fingerprint change, or disappeared between two trees.
type DiffResult struct {
	Added    []string
	Modified []string
	Deleted  []string
}

// Diff compares to against from and reports which file paths were added,
// modified (fingerprint differs), or deleted — e.g. for commits B built on
// A, Diff(B.Root, A.Root) reports what B changed relative to A. Directories
// themselves are never reported; only the TreeFile leaves they contain are.
func Diff(to, from *TreeDir) DiffResult {
	toFiles := to.GetAllTreeFiles(FlattenOpts{EntireHierarchy: true})
	fromFiles := from.GetAllTreeFiles(FlattenOpts{EntireHierarchy: true})

	var result DiffResult
	for relPath, entry := range toFiles {
		toFile, ok := entry.(*TreeFile)
		if !ok {
			continue
		}
		prior, existed := fromFiles[relPath]
		if !existed {
			result.Added = append(result.Added, relPath)
			continue
		}
		if fromFile, ok := prior.(*TreeFile); ok && fromFile.Fingerprint != toFile.Fingerprint {
			result.Modified = append(result.Modified, relPath)
		}
	}
	for relPath, entry := range fromFiles {
		if _, ok := entry.(*TreeFile); !ok {
			continue
		}
		if _, stillPresent := toFiles[relPath]; !stillPresent {
			result.Deleted = append(result.Deleted, relPath)
		}
	}

	sort.Strings(result.Added)
	sort.Strings(result.Modified)
	sort.Strings(result.Deleted)
	return result
}

// SortChildrenByName orders a directory's children lexicographically; used
// when a deterministic JSON encoding is required regardless of insertion
// order.
func SortChildrenByName(d *TreeDir) {
	sort.Slice(d.Children, func(i, j int) bool {
		return d.Children[i].entryName() < d.Children[j].entryName()
	})
	for _, c := range d.Children {
		if cd, ok := c.(*TreeDir); ok {
			SortChildrenByName(cd)
		}
	}
}
