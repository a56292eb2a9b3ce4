// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package object holds the Commit value type spec §3/§6 describes: an
// immutable labeled snapshot of a tree, plus the small amount of runtime
// bookkeeping the repository engine needs around it.
package object

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/snowtrack/snow/modules/plumbing"
	"github.com/snowtrack/snow/modules/tree"
)

// Commit is a versioned snapshot (spec §3 "Commit").
type Commit struct {
	Hash             plumbing.Hash
	Message          string
	Date             time.Time
	LastModifiedDate *time.Time
	Parent           []plumbing.Hash
	Root             *tree.TreeDir
	Tags             []string
	UserData         map[string]any

	// Runtime flags; never persisted as part of the commit's own fields,
	// only reflected through the backend that tracks them (spec §3
	// "runtime flags").
	MarkForDeletion bool
	MissingObjects  map[plumbing.Hash]bool
}

// IsRoot reports whether c is the repository's root commit (spec §3
// "exactly one commit... has an empty/null parent list").
func (c *Commit) IsRoot() bool {
	return len(c.Parent) == 0
}

// Fingerprint computes c's content fingerprint: the structural hash of
// `<repoId><iso-date><message>`, so identical messages at different
// instants differ (spec §3).
func Fingerprint(repoID string, date time.Time, message string) plumbing.Hash {
	s := repoID + date.UTC().Format(time.RFC3339Nano) + message
	return plumbing.HashBytes([]byte(s))
}

// commitJSON is the wire shape spec §6 defines.
type commitJSON struct {
	Hash             plumbing.Hash    `json:"hash"`
	Message          string           `json:"message"`
	Date             int64            `json:"date"`
	Parent           []plumbing.Hash  `json:"parent"`
	Root             json.RawMessage  `json:"root"`
	Tags             []string         `json:"tags,omitempty"`
	UserData         map[string]any   `json:"userData,omitempty"`
	LastModifiedDate *int64           `json:"lastModifiedDate,omitempty"`
}

// MarshalJSON encodes c per spec §6's Commit file JSON schema.
func (c *Commit) MarshalJSON() ([]byte, error) {
	rootJSON, err := c.Root.ToJSON(true)
	if err != nil {
		return nil, fmt.Errorf("object: encode commit root: %w", err)
	}
	out := commitJSON{
		Hash:     c.Hash,
		Message:  sanitizeMessage(c.Message),
		Date:     c.Date.UnixMilli(),
		Parent:   c.Parent,
		Root:     rootJSON,
		Tags:     c.Tags,
		UserData: c.UserData,
	}
	if c.LastModifiedDate != nil {
		ms := c.LastModifiedDate.UnixMilli()
		out.LastModifiedDate = &ms
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a Commit file, rebuilding its tree via
// tree.BuildRootFromJSON (spec §4.6 readCommits "reconstructs the tree via
// buildRootFromJson").
func (c *Commit) UnmarshalJSON(data []byte) error {
	var raw commitJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	root, err := tree.BuildRootFromJSON(raw.Root)
	if err != nil {
		return fmt.Errorf("object: decode commit root: %w", err)
	}
	c.Hash = raw.Hash
	c.Message = raw.Message
	c.Date = time.UnixMilli(raw.Date).UTC()
	c.Parent = raw.Parent
	c.Root = root
	c.Tags = raw.Tags
	c.UserData = raw.UserData
	if raw.LastModifiedDate != nil {
		t := time.UnixMilli(*raw.LastModifiedDate).UTC()
		c.LastModifiedDate = &t
	}
	return nil
}

// sanitizeMessage strips characters that would make the commit message
// unsafe inside JSON when round-tripped by tooling outside this module
// (spec §3 "message sanitized to be JSON-safe").
func sanitizeMessage(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '\x00' {
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
