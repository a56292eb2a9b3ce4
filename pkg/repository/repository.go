// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package repository implements the coordinator spec §4.8-§4.12 describes:
// status, commit, checkout, delete-commit and cross-repository merge,
// built on top of pkg/odb, pkg/index, modules/tree and modules/ignore.
package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/snowtrack/snow/modules/object"
	"github.com/snowtrack/snow/modules/plumbing"
	"github.com/snowtrack/snow/modules/tree"
	"github.com/snowtrack/snow/modules/vfs"
	"github.com/snowtrack/snow/pkg/odb"
)

// Repository ties a worktree to its commondir. Every mutating method
// acquires and releases its own ioctx.Context (spec §5 "Resource
// scoping").
type Repository struct {
	WorktreeRoot string
	DB           *odb.Database
	log          *logrus.Logger
}

// Init creates a fresh repository: a commondir (inside the worktree
// unless commondir is given separately) and a root commit (spec §3 "Init",
// §7 RepositoryExists/ProtectedLocation).
func Init(worktreeRoot, commondir string) (*Repository, error) {
	if vfs.ProtectedLocation(worktreeRoot) {
		return nil, ErrProtectedLocation
	}
	if commondir == "" {
		commondir = filepath.Join(worktreeRoot, ".snow")
	} else if commondir != filepath.Join(worktreeRoot, ".snow") {
		marker := filepath.Join(worktreeRoot, ".snow")
		if err := os.WriteFile(marker, []byte(commondir), 0o644); err != nil {
			return nil, fmt.Errorf("snow: write .snow marker: %w", err)
		}
		vfs.HideItem(marker)
	}

	db, err := odb.Init(commondir)
	if err != nil {
		return nil, err
	}
	if commondir == filepath.Join(worktreeRoot, ".snow") {
		vfs.HideItem(commondir)
	}

	repo := &Repository{WorktreeRoot: worktreeRoot, DB: db, log: db.Logger()}

	root := object.Commit{
		Message: "root",
		Root:    tree.NewRoot(),
		Parent:  nil,
	}
	root.Date = time.Now().UTC()
	root.Hash = object.Fingerprint(commondir, root.Date, root.Message)
	if err := db.WriteCommit(&root); err != nil {
		return nil, err
	}

	ref := plumbing.NewBranch(plumbing.NewBranchReferenceName(plumbing.DefaultBranch), root.Hash, root.Hash)
	if err := db.WriteReference(ref); err != nil {
		return nil, err
	}
	if err := db.WriteHeadReference(plumbing.DefaultBranch); err != nil {
		return nil, err
	}
	_ = db.AppendLog("init", "initialized repository, root commit "+root.Hash.String())
	return repo, nil
}

// Open attaches to an existing repository discovered from start (spec §7
// "NotARepository").
func Open(start string) (*Repository, error) {
	commondir, err := odb.Discover(start)
	if err != nil {
		return nil, err
	}
	worktreeRoot := filepath.Dir(commondir)
	if b, err := os.ReadFile(filepath.Join(worktreeRoot, ".snow")); err == nil && !isDir(filepath.Join(worktreeRoot, ".snow")) {
		commondir = string(b)
	}
	db := odb.Open(commondir)
	if _, err := db.LoadConfig(); err != nil {
		return nil, err
	}
	return &Repository{WorktreeRoot: worktreeRoot, DB: db, log: db.Logger()}, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// HeadCommit resolves HEAD to its target commit, whether HEAD is a named
// branch or detached (spec §3 "HEAD").
func (r *Repository) HeadCommit() (*object.Commit, error) {
	h, _, err := r.resolveHead()
	if err != nil {
		return nil, err
	}
	return r.DB.ReadCommit(h)
}

// resolveHead returns the target hash HEAD currently names, and the
// branch reference it is named through (nil if detached).
func (r *Repository) resolveHead() (plumbing.Hash, *plumbing.Reference, error) {
	head, err := r.DB.ReadHeadReference()
	if err != nil {
		return plumbing.ZeroHash, nil, err
	}
	if h, err := plumbing.NewHashEx(head); err == nil && len(head) == 64 {
		return h, nil, nil
	}
	ref, err := r.DB.ReadReference(plumbing.NewBranchReferenceName(head))
	if err != nil {
		return plumbing.ZeroHash, nil, fmt.Errorf("%w: HEAD names missing branch %q", plumbing.ErrReferenceNotFound, head)
	}
	return ref.Target, ref, nil
}

// ResolveCommitish resolves a commit-ish string: a 64-hex hash, a branch
// or tag short name, or either suffixed with "~n" (spec §4.10 "a target
// (commit, reference, or commit-ish string HEAD~n, <refName>~n)").
func (r *Repository) ResolveCommitish(s string) (plumbing.Hash, error) {
	base, n, err := splitTilde(s)
	if err != nil {
		return plumbing.ZeroHash, &ErrInvalidCommitRef{Ref: s}
	}

	var start plumbing.Hash
	switch {
	case base == "HEAD" || base == "":
		h, _, err := r.resolveHead()
		if err != nil {
			return plumbing.ZeroHash, err
		}
		start = h
	case len(base) == 64:
		h, err := plumbing.NewHashEx(base)
		if err != nil {
			return plumbing.ZeroHash, &ErrInvalidCommitRef{Ref: s}
		}
		start = h
	default:
		ref, err := r.DB.ReadReference(plumbing.NewBranchReferenceName(base))
		if err != nil {
			ref, err = r.DB.ReadReference(plumbing.NewTagReferenceName(base))
			if err != nil {
				return plumbing.ZeroHash, &ErrNoSuchReference{Name: base}
			}
		}
		start = ref.Target
	}

	commits, err := r.DB.ReadCommits()
	if err != nil {
		return plumbing.ZeroHash, err
	}
	cur := start
	for i := 0; i < n; i++ {
		c, ok := commits[cur]
		if !ok || len(c.Parent) == 0 {
			cause := plumbing.NewErrRevNotFound("%q has no ancestor %d generations back", s, n)
			return plumbing.ZeroHash, &ErrInvalidCommitRef{Ref: s, Cause: cause}
		}
		cur = c.Parent[0]
	}
	return cur, nil
}

// Diff reports the presence/hash-level changes between two commit-ish
// targets (spec §8 scenario 3): which paths were added, modified, or
// deleted in toish relative to fromish. File contents are never compared,
// only fingerprint equality (spec §1 Non-goals: "diffing file contents").
func (r *Repository) Diff(toish, fromish string) (tree.DiffResult, error) {
	toHash, err := r.ResolveCommitish(toish)
	if err != nil {
		return tree.DiffResult{}, err
	}
	fromHash, err := r.ResolveCommitish(fromish)
	if err != nil {
		return tree.DiffResult{}, err
	}
	toCommit, err := r.DB.ReadCommit(toHash)
	if err != nil {
		return tree.DiffResult{}, err
	}
	fromCommit, err := r.DB.ReadCommit(fromHash)
	if err != nil {
		return tree.DiffResult{}, err
	}
	return tree.Diff(toCommit.Root, fromCommit.Root), nil
}

// CreateTag records a lightweight, non-moving reference at targetish
// (SPEC_FULL.md §12's supplemented tag-reference feature). Unlike a
// branch, a tag's Target is fixed at creation time and Checkout never
// rewrites it.
func (r *Repository) CreateTag(name, targetish string) error {
	if !plumbing.ValidateTagName([]byte(name)) {
		return &plumbing.ErrBadReferenceName{Name: name}
	}
	refName := plumbing.NewTagReferenceName(name)
	if _, err := r.DB.ReadReference(refName); err == nil {
		return &ErrTagExists{Name: name}
	}
	target, err := r.ResolveCommitish(targetish)
	if err != nil {
		return err
	}
	if err := r.DB.WriteReference(plumbing.NewTag(refName, target)); err != nil {
		return err
	}
	_ = r.DB.AppendLog("tag", fmt.Sprintf("%s %s", name, target))
	return nil
}

func splitTilde(s string) (string, int, error) {
	idx := strings.IndexByte(s, '~')
	if idx < 0 {
		return s, 0, nil
	}
	n, err := strconv.Atoi(s[idx+1:])
	if err != nil || n < 0 {
		return "", 0, fmt.Errorf("malformed commit-ish %q", s)
	}
	return s[:idx], n, nil
}
