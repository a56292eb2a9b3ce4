// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package odb

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/snowtrack/snow/modules/plumbing"
)

// WriteReference persists ref under refs/<name> (spec §6 "Reference file
// JSON").
func (d *Database) WriteReference(ref *plumbing.Reference) error {
	data, err := json.Marshal(ref)
	if err != nil {
		return fmt.Errorf("odb: encode reference: %w", err)
	}
	path := filepath.Join(d.commondir, string(ref.Name))
	if err := writeSafeFile(path, data); err != nil {
		return fmt.Errorf("odb: write reference: %w", err)
	}
	d.log.WithField("component", "odb").WithField("ref", ref.Name.String()).Info("wrote reference")
	return d.touchState()
}

// ReadReference loads one reference by its full name (e.g.
// "refs/heads/Main").
func (d *Database) ReadReference(name plumbing.ReferenceName) (*plumbing.Reference, error) {
	path := filepath.Join(d.commondir, string(name))
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, plumbing.ErrReferenceNotFound
		}
		return nil, fmt.Errorf("odb: read reference %s: %w", name, err)
	}
	ref := &plumbing.Reference{Name: name}
	if err := json.Unmarshal(data, ref); err != nil {
		return nil, fmt.Errorf("odb: decode reference %s: %w", name, err)
	}
	return ref, nil
}

// DeleteReference removes a reference file, used by delete-commit history
// rewrite when a branch is left pointing nowhere (spec §4.11).
func (d *Database) DeleteReference(name plumbing.ReferenceName) error {
	path := filepath.Join(d.commondir, string(name))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("odb: delete reference %s: %w", name, err)
	}
	return d.touchState()
}

// ReadReferences lists every reference under refs/heads and refs/tags.
func (d *Database) ReadReferences() ([]*plumbing.Reference, error) {
	var out []*plumbing.Reference
	for _, sub := range []string{"refs/heads", "refs/tags"} {
		dir := filepath.Join(d.commondir, sub)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("odb: list %s: %w", sub, err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			name := plumbing.ReferenceName(sub + "/" + e.Name())
			ref, err := d.ReadReference(name)
			if err != nil {
				return nil, err
			}
			out = append(out, ref)
		}
	}
	return out, nil
}

// ReadHeadReference reads the HEAD file, returning either a branch
// ReferenceName (named state) or the literal detached commit hash string
// (spec §3 "HEAD", §6 "HEAD file").
func (d *Database) ReadHeadReference() (string, error) {
	data, err := os.ReadFile(filepath.Join(d.commondir, fileHead))
	if err != nil {
		return "", fmt.Errorf("odb: read HEAD: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// WriteHeadReference overwrites HEAD with either a branch short name or a
// detached commit hash.
func (d *Database) WriteHeadReference(target string) error {
	path := filepath.Join(d.commondir, fileHead)
	if err := writeSafeFile(path, []byte(target)); err != nil {
		return fmt.Errorf("odb: write HEAD: %w", err)
	}
	return d.touchState()
}
