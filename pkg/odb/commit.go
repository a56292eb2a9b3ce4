// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package odb

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/snowtrack/snow/modules/object"
	"github.com/snowtrack/snow/modules/plumbing"
)

// WriteCommit persists c under versions/<hash> and refreshes the state
// marker (spec §4.6 "writeCommit... use write-to-temp-then-atomic-rename
// and refresh the state dirty marker").
func (d *Database) WriteCommit(c *object.Commit) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("odb: encode commit: %w", err)
	}
	path := filepath.Join(d.commondir, dirVersions, c.Hash.String())
	if err := writeSafeFile(path, data); err != nil {
		return fmt.Errorf("odb: write commit: %w", err)
	}
	d.log.WithField("component", "odb").WithField("hash", c.Hash.String()).Info("wrote commit")
	return d.touchState()
}

// ReadCommit loads a single commit by fingerprint.
func (d *Database) ReadCommit(h plumbing.Hash) (*object.Commit, error) {
	path := filepath.Join(d.commondir, dirVersions, h.String())
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("odb: read commit %s: %w", h, err)
	}
	c := &object.Commit{}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("odb: decode commit %s: %w", h, err)
	}
	return c, nil
}

// ReadCommits rehydrates every commit in versions/ (spec §4.6
// "readCommits... reconstructs the tree via buildRootFromJson").
func (d *Database) ReadCommits() (map[plumbing.Hash]*object.Commit, error) {
	dir := filepath.Join(d.commondir, dirVersions)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[plumbing.Hash]*object.Commit{}, nil
		}
		return nil, fmt.Errorf("odb: list versions: %w", err)
	}
	out := make(map[plumbing.Hash]*object.Commit, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		h, err := plumbing.NewHashEx(e.Name())
		if err != nil {
			continue
		}
		c, err := d.ReadCommit(h)
		if err != nil {
			return nil, err
		}
		out[h] = c
	}
	return out, nil
}
