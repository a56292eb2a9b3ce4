// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package repository

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/snowtrack/snow/modules/object"
	"github.com/snowtrack/snow/modules/plumbing"
	"github.com/snowtrack/snow/modules/tree"
	"github.com/snowtrack/snow/pkg/index"
)

// CommitOptions parameterizes CreateCommit.
type CommitOptions struct {
	Message    string
	AllowEmpty bool
}

// CreateCommit builds a new commit from idx's staged changes overlaid on
// HEAD's tree, following spec §4.9's algorithm step by step.
func (r *Repository) CreateCommit(idx *index.Index, opts CommitOptions) (*object.Commit, error) {
	if !opts.AllowEmpty && len(idx.AddSet()) == 0 && len(idx.DeleteSet()) == 0 {
		return nil, ErrCommitEmpty
	}

	headHash, headRef, err := r.resolveHead()
	if err != nil {
		return nil, err
	}
	headCommit, err := r.DB.ReadCommit(headHash)
	if err != nil {
		return nil, err
	}

	// Step 2-3: scan the worktree, then build the added closure: every
	// staged add-set path present in processed-added, plus all ancestors.
	workdirTree, err := tree.ConstructTree(r.WorktreeRoot, idx.ProcessedAdded)
	if err != nil {
		return nil, fmt.Errorf("snow: scan worktree: %w", err)
	}
	addedClosure := make(map[string]bool)
	for rel := range idx.ProcessedAdded {
		addedClosure[rel] = true
		for dir := path.Dir(rel); dir != "." && dir != "/"; dir = path.Dir(dir) {
			addedClosure[dir] = true
		}
	}

	// Step 4: prune workdirTree down to the added closure.
	workdirTree.Remove(func(e tree.Entry) bool {
		rel := entryRelPath(e)
		return !addedClosure[rel]
	})

	// Step 5: clone HEAD's tree and prune every path in the delete-set.
	deleteSet := make(map[string]bool)
	for _, rel := range idx.DeleteSet() {
		deleteSet[rel] = true
	}
	prunedHead := headCommit.Root.Clone()
	prunedHead.Remove(func(e tree.Entry) bool {
		return deleteSet[entryRelPath(e)]
	})

	// Step 6-7: merge pruned-HEAD (low) with pruned-worktree (high), then
	// drop directories left empty by the prune.
	newTree := tree.Merge(prunedHead, workdirTree)
	newTree.PruneEmptyDirs()

	if err := validateTree(newTree); err != nil {
		return nil, err
	}

	// Step 9: the index is spent regardless of outcome from here on.
	if err := idx.Invalidate(r.DB); err != nil {
		return nil, err
	}

	commit := &object.Commit{
		Message: opts.Message,
		Date:    time.Now().UTC(),
		Root:    newTree,
	}
	commit.Parent = []plumbing.Hash{headHash}
	commit.Hash = object.Fingerprint(r.DB.CommonDir(), commit.Date, commit.Message)

	if err := r.DB.WriteCommit(commit); err != nil {
		return nil, err
	}

	branchName := plumbing.DefaultBranch
	if headRef != nil {
		branchName = headRef.Name.Short()
	}
	refName := plumbing.NewBranchReferenceName(branchName)
	ref, err := r.DB.ReadReference(refName)
	if err != nil {
		ref = plumbing.NewBranch(refName, commit.Hash, commit.Hash)
	} else {
		ref.Target = commit.Hash
	}
	if err := r.DB.WriteReference(ref); err != nil {
		return nil, err
	}
	if err := r.DB.WriteHeadReference(branchName); err != nil {
		return nil, err
	}
	_ = r.DB.AppendLog("commit", fmt.Sprintf("%s %s", commit.Hash, strings.ReplaceAll(commit.Message, "\n", " ")))
	return commit, nil
}

func entryRelPath(e tree.Entry) string {
	switch v := e.(type) {
	case *tree.TreeFile:
		return v.RelPath
	case *tree.TreeDir:
		return v.RelPath
	default:
		return ""
	}
}

// validateTree checks spec §4.9 step 8's node invariants: non-negative
// size, real dates, and a well-formed fingerprint for every file.
func validateTree(root *tree.TreeDir) error {
	var firstErr error
	root.Walk(func(e tree.Entry) bool {
		if firstErr != nil {
			return false
		}
		tf, ok := e.(*tree.TreeFile)
		if !ok {
			return true
		}
		if tf.Size < 0 {
			firstErr = fmt.Errorf("snow: %s has negative size", tf.RelPath)
			return false
		}
		if tf.Mtime.IsZero() || tf.Ctime.IsZero() {
			firstErr = fmt.Errorf("snow: %s has no recorded modification time", tf.RelPath)
			return false
		}
		if tf.Fingerprint.IsZero() {
			firstErr = fmt.Errorf("snow: %s has no fingerprint", tf.RelPath)
			return false
		}
		return true
	})
	return firstErr
}
