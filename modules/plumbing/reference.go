// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package plumbing

import (
	"errors"
	"strings"
)

const (
	// ReferencePrefix is the on-disk directory every named reference lives
	// under (commondir/refs/<name>, spec §3).
	ReferencePrefix = "refs/"
	refHeadPrefix   = ReferencePrefix + "heads/"
	refTagPrefix    = ReferencePrefix + "tags/"
)

// HEAD is the reserved name for the floating current-commit pointer (spec
// §3 "HEAD"). It is never itself stored under refs/.
const HEAD ReferenceName = "HEAD"

// DefaultBranch is the branch spec §4.9 step 11 creates on the first
// commit, when HEAD does not already name one.
const DefaultBranch = "Main"

var ErrReferenceNotFound = errors.New("reference does not exist")

// ReferenceType distinguishes the two reference kinds spec §3 names.
type ReferenceType int8

const (
	BranchReference ReferenceType = iota
	TagReference
	InvalidReference ReferenceType = -1
)

func (t ReferenceType) String() string {
	switch t {
	case BranchReference:
		return "branch"
	case TagReference:
		return "tag"
	default:
		return "invalid-reference"
	}
}

// ReferenceName is a full reference path, e.g. "refs/heads/Main".
type ReferenceName string

// NewBranchReferenceName builds the full reference path for a branch short
// name.
func NewBranchReferenceName(name string) ReferenceName {
	return ReferenceName(refHeadPrefix + name)
}

// NewTagReferenceName builds the full reference path for a tag short name.
func NewTagReferenceName(name string) ReferenceName {
	return ReferenceName(refTagPrefix + name)
}

func (r ReferenceName) IsBranch() bool {
	return strings.HasPrefix(string(r), refHeadPrefix)
}

func (r ReferenceName) IsTag() bool {
	return strings.HasPrefix(string(r), refTagPrefix)
}

// Short strips the refs/heads/ or refs/tags/ prefix, returning the name a
// user would type at the CLI.
func (r ReferenceName) Short() string {
	switch {
	case r.IsBranch():
		return strings.TrimPrefix(string(r), refHeadPrefix)
	case r.IsTag():
		return strings.TrimPrefix(string(r), refTagPrefix)
	default:
		return string(r)
	}
}

func (r ReferenceName) Prefix() string {
	switch {
	case r.IsBranch():
		return "refs/heads"
	case r.IsTag():
		return "refs/tags"
	default:
		return string(r)
	}
}

func (r ReferenceName) String() string { return string(r) }

// Reference is the mutable named pointer spec §3 describes: a name, a
// kind, the commit fingerprint it currently targets, the fingerprint it
// was created from, a last-modified timestamp and free-form user data.
//
// Unlike the teacher's git-shaped Reference, there is no symbolic
// indirection to an arbitrary other reference: HEAD either names a branch
// directly (by short name) or carries a detached commit fingerprint, per
// spec §3/§6 — the backend (pkg/odb) owns that distinction, not this type.
type Reference struct {
	Name             ReferenceName  `json:"-"`
	Type             ReferenceType  `json:"type"`
	Target           Hash           `json:"hash"`
	Start            Hash           `json:"start,omitempty"`
	UserData         map[string]any `json:"userData,omitempty"`
	LastModifiedDate *int64         `json:"lastModifiedDate,omitempty"`
}

// NewBranch creates an in-memory branch reference. Persisting it is the
// backend's job.
func NewBranch(name ReferenceName, target, start Hash) *Reference {
	return &Reference{Name: name, Type: BranchReference, Target: target, Start: start}
}

// NewTag creates an in-memory, non-moving tag reference.
func NewTag(name ReferenceName, target Hash) *Reference {
	return &Reference{Name: name, Type: TagReference, Target: target}
}

type ReferenceSlice []*Reference

func (p ReferenceSlice) Len() int           { return len(p) }
func (p ReferenceSlice) Less(i, j int) bool { return p[i].Name < p[j].Name }
func (p ReferenceSlice) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }
