// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package tree

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/snowtrack/snow/modules/plumbing"
)

// statsJSON is the "stats" sub-object of a TreeFile JSON record (spec §6).
type statsJSON struct {
	Size      int64 `json:"size"`
	Mtime     int64 `json:"mtime"`
	Ctime     int64 `json:"ctime"`
	Birthtime int64 `json:"birthtime"`
}

// rawEntry is the wire shape both TreeDir and TreeFile decode through;
// which concrete type a record holds is disambiguated by the presence of
// "children" (TreeDir) versus "ext"/"stats" (TreeFile), per spec §9
// "decode into a tagged variant".
type rawEntry struct {
	Hash     plumbing.Hash     `json:"hash"`
	Path     string            `json:"path"`
	Children []json.RawMessage `json:"children,omitempty"`
	Ext      *string           `json:"ext,omitempty"`
	Stats    *statsJSON        `json:"stats,omitempty"`
}

// ToJSON produces the deterministic serialization spec §6 defines for a
// TreeDir. includeChildren false encodes only this node's hash and path
// (used for compact references).
func (d *TreeDir) ToJSON(includeChildren bool) ([]byte, error) {
	return json.Marshal(d.toRaw(includeChildren))
}

func (d *TreeDir) toRaw(includeChildren bool) rawEntry {
	raw := rawEntry{Hash: d.Fingerprint, Path: d.RelPath}
	if !includeChildren {
		return raw
	}
	raw.Children = make([]json.RawMessage, 0, len(d.Children))
	for _, c := range d.Children {
		var b []byte
		var err error
		switch v := c.(type) {
		case *TreeFile:
			b, err = json.Marshal(v.toRaw())
		case *TreeDir:
			b, err = json.Marshal(v.toRaw(true))
		}
		if err == nil {
			raw.Children = append(raw.Children, b)
		}
	}
	return raw
}

func (f *TreeFile) toRaw() rawEntry {
	ext := f.Ext
	return rawEntry{
		Hash: f.Fingerprint,
		Path: f.RelPath,
		Ext:  &ext,
		Stats: &statsJSON{
			Size:      f.Size,
			Mtime:     f.Mtime.UnixMilli(),
			Ctime:     f.Ctime.UnixMilli(),
			Birthtime: f.Birthtime.UnixMilli(),
		},
	}
}

// BuildRootFromJSON rehydrates a TreeDir from its JSON encoding, fixing
// every parent back-link in a second pass after the children list is
// built (spec §9 "Prototype rehydration after JSON read").
func BuildRootFromJSON(data []byte) (*TreeDir, error) {
	var raw rawEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	root, err := decodeDir(raw)
	if err != nil {
		return nil, err
	}
	fixupParents(root, nil)
	return root, nil
}

func decodeEntry(data json.RawMessage) (Entry, error) {
	var raw rawEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw.Children != nil || (raw.Ext == nil && raw.Stats == nil) {
		return decodeDir(raw)
	}
	return decodeFile(raw)
}

func decodeDir(raw rawEntry) (*TreeDir, error) {
	d := &TreeDir{RelPath: raw.Path, Fingerprint: raw.Hash}
	for _, childData := range raw.Children {
		child, err := decodeEntry(childData)
		if err != nil {
			return nil, fmt.Errorf("tree: decode child of %q: %w", raw.Path, err)
		}
		d.Children = append(d.Children, child)
	}
	return d, nil
}

func decodeFile(raw rawEntry) (*TreeFile, error) {
	f := &TreeFile{RelPath: raw.Path, Fingerprint: raw.Hash}
	if raw.Ext != nil {
		f.Ext = *raw.Ext
	}
	if raw.Stats != nil {
		f.Size = raw.Stats.Size
		f.Mtime = time.UnixMilli(raw.Stats.Mtime).UTC()
		f.Ctime = time.UnixMilli(raw.Stats.Ctime).UTC()
		f.Birthtime = time.UnixMilli(raw.Stats.Birthtime).UTC()
	}
	return f, nil
}

// fixupParents links every descendant of root to its owning TreeDir. This
// is the "second pass" spec §9 calls for: children are decoded first,
// without any parent reference, and only once the whole subtree exists do
// we walk it again to set the non-owning back-links.
func fixupParents(root *TreeDir, parent *TreeDir) {
	root.Parent = parent
	for _, c := range root.Children {
		switch v := c.(type) {
		case *TreeFile:
			v.Parent = root
		case *TreeDir:
			fixupParents(v, root)
		}
	}
}
