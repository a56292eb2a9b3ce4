// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package index implements the staging index spec §3/§4.7 describes: the
// add-set/delete-set a worktree mutation accumulates before it becomes a
// commit.
package index

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/snowtrack/snow/modules/ioctx"
	"github.com/snowtrack/snow/modules/tree"
	"github.com/snowtrack/snow/modules/vfs"
	"github.com/snowtrack/snow/pkg/odb"
)

var ErrAlreadyWritten = errors.New("snow: index already written; call invalidate first")

// Index is the staging area: the set of paths about to be added or
// removed, and, once writeFiles runs, the hashed result of doing so (spec
// §3 "Index").
type Index struct {
	// ID is empty for the main index, or a 6-hex suffix for a side index
	// (spec §3 "identifier").
	ID string

	addSet    map[string]bool
	deleteSet map[string]bool

	ProcessedAdded map[string]tree.ProcessedEntry
	Invalidated    bool

	worktreeRoot string
}

// New creates a fresh main index rooted at worktreeRoot.
func New(worktreeRoot string) *Index {
	return &Index{
		addSet:       make(map[string]bool),
		deleteSet:    make(map[string]bool),
		worktreeRoot: worktreeRoot,
	}
}

// NewSide creates a new side index with a random 6-hex identifier.
func NewSide(worktreeRoot string) *Index {
	idx := New(worktreeRoot)
	idx.ID = fmt.Sprintf("%06x", rand.Intn(1<<24))
	return idx
}

func (idx *Index) relativize(p string) (string, error) {
	abs := p
	if !filepath.IsAbs(p) {
		abs = filepath.Join(idx.worktreeRoot, p)
	}
	rel, err := filepath.Rel(idx.worktreeRoot, abs)
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("snow: %s is outside the worktree", p)
	}
	return vfs.Normalize(rel), nil
}

// AddFiles stages paths for inclusion, relativizing absolute paths against
// the worktree root (spec §4.7 addFiles).
func (idx *Index) AddFiles(paths []string) error {
	for _, p := range paths {
		rel, err := idx.relativize(p)
		if err != nil {
			return err
		}
		idx.addSet[rel] = true
		delete(idx.deleteSet, rel)
	}
	return nil
}

// DeleteFiles stages paths for removal. A path added then deleted before
// writeFiles is never processed (spec §4.7 invariant).
func (idx *Index) DeleteFiles(paths []string) error {
	for _, p := range paths {
		rel, err := idx.relativize(p)
		if err != nil {
			return err
		}
		idx.deleteSet[rel] = true
		delete(idx.addSet, rel)
	}
	return nil
}

// AddSet returns the sorted relative paths currently staged for addition.
func (idx *Index) AddSet() []string { return sortedKeys(idx.addSet) }

// DeleteSet returns the sorted relative paths currently staged for
// removal.
func (idx *Index) DeleteSet() []string { return sortedKeys(idx.deleteSet) }

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// WriteFiles snapshots the add-set (minus anything since deleted), hashes
// each surviving path through the object database, and records the
// result in ProcessedAdded (spec §4.7 writeFiles). It fails if called
// twice without an intervening Invalidate.
func (idx *Index) WriteFiles(db *odb.Database, ioc *ioctx.Context) error {
	if idx.Invalidated {
		return errors.New("snow: index has been invalidated")
	}
	if idx.ProcessedAdded != nil {
		return ErrAlreadyWritten
	}
	var toHash []string
	for rel := range idx.addSet {
		if !idx.deleteSet[rel] {
			toHash = append(toHash, rel)
		}
	}

	var mu sync.Mutex
	processed := make(map[string]tree.ProcessedEntry, len(toHash))
	err := ioctx.RunPool(context.Background(), ioctx.HashPoolSize, toHash, func(ctx context.Context, rel string) error {
		abs := filepath.Join(idx.worktreeRoot, filepath.FromSlash(rel))
		info, err := os.Stat(abs)
		if err != nil {
			return fmt.Errorf("snow: stat %s: %w", rel, err)
		}
		written, err := db.WriteObject(abs, ioc)
		if err != nil {
			return fmt.Errorf("snow: write object for %s: %w", rel, err)
		}
		ctime, mtime, birthtime := vfs.FileTimes(info)
		entry := tree.ProcessedEntry{
			Fingerprint: written.Fingerprint,
			Size:        written.Size,
			Ctime:       ctime,
			Mtime:       mtime,
			Birthtime:   birthtime,
		}
		mu.Lock()
		processed[rel] = entry
		mu.Unlock()
		return nil
	})
	if err != nil {
		return err
	}
	idx.ProcessedAdded = processed
	return idx.persist(db)
}

// Invalidate clears this index's state and removes its persisted file.
// Any further use of this handle must fail.
func (idx *Index) Invalidate(db *odb.Database) error {
	idx.Invalidated = true
	idx.addSet = nil
	idx.deleteSet = nil
	idx.ProcessedAdded = nil
	path := idx.path(db)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("snow: remove index file: %w", err)
	}
	return nil
}

func (idx *Index) path(db *odb.Database) string {
	name := "INDEX"
	if idx.ID != "" {
		name = "INDEX-" + idx.ID
	}
	return filepath.Join(db.CommonDir(), name)
}

type wireIndex struct {
	ID             string                           `json:"id"`
	AddSet         []string                         `json:"addSet"`
	DeleteSet      []string                         `json:"deleteSet"`
	ProcessedAdded map[string]tree.ProcessedEntry   `json:"processedAdded,omitempty"`
}

func (idx *Index) persist(db *odb.Database) error {
	w := wireIndex{
		ID:             idx.ID,
		AddSet:         idx.AddSet(),
		DeleteSet:      idx.DeleteSet(),
		ProcessedAdded: idx.ProcessedAdded,
	}
	data, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(idx.path(db), data, 0o644)
}

// LoadAll rehydrates every persisted index (main and side) found under
// db's commondir (spec §4.7 loadAll).
func LoadAll(worktreeRoot string, db *odb.Database) ([]*Index, error) {
	entries, err := os.ReadDir(db.CommonDir())
	if err != nil {
		return nil, fmt.Errorf("snow: list commondir: %w", err)
	}
	var out []*Index
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), "INDEX") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(db.CommonDir(), e.Name()))
		if err != nil {
			return nil, err
		}
		var w wireIndex
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("snow: decode %s: %w", e.Name(), err)
		}
		idx := New(worktreeRoot)
		idx.ID = w.ID
		for _, p := range w.AddSet {
			idx.addSet[p] = true
		}
		for _, p := range w.DeleteSet {
			idx.deleteSet[p] = true
		}
		idx.ProcessedAdded = w.ProcessedAdded
		out = append(out, idx)
	}
	return out, nil
}
