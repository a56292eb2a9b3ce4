// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package repository

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/snowtrack/snow/modules/object"
	"github.com/snowtrack/snow/modules/plumbing"
)

var ErrRootCommitUndeletable = errors.New("snow: the root commit cannot be deleted")

// DeleteCommit removes commit h from history, rewiring children and
// references per spec §4.11. Deleting the currently checked-out commit is
// deferred: it is marked and persisted, and actually removed the next
// time checkout moves HEAD off it (see finalizeMarkedDeletions).
func (r *Repository) DeleteCommit(h plumbing.Hash) error {
	commits, err := r.DB.ReadCommits()
	if err != nil {
		return err
	}
	victim, ok := commits[h]
	if !ok {
		return &ErrInvalidCommitRef{Ref: h.String()}
	}
	if victim.IsRoot() {
		return ErrRootCommitUndeletable
	}

	headHash, _, err := r.resolveHead()
	if err != nil {
		return err
	}
	if headHash == h {
		victim.MarkForDeletion = true
		return r.DB.WriteCommit(victim)
	}

	// Rewire every child's parent list to victim's parents.
	for ch, c := range commits {
		changed := false
		var newParents []plumbing.Hash
		for _, p := range c.Parent {
			if p == h {
				newParents = append(newParents, victim.Parent...)
				changed = true
			} else {
				newParents = append(newParents, p)
			}
		}
		if changed {
			c.Parent = newParents
			if err := r.DB.WriteCommit(c); err != nil {
				return err
			}
			commits[ch] = c
		}
	}

	if err := r.retargetOrDeleteBranches(h, victim, commits); err != nil {
		return err
	}

	path := filepath.Join(r.DB.CommonDir(), "versions", h.String())
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("snow: delete commit file: %w", err)
	}
	_ = r.DB.AppendLog("delete-commit", h.String())
	return nil
}

// retargetOrDeleteBranches implements spec §4.11's branch rule: for every
// branch targeting victimHash, delete it if another surviving leaf still
// covers every one of victim's parents and more than one reference would
// remain; otherwise retarget it to victim's first parent. A HEAD detached
// at victimHash that now matches a retargeted branch reattaches to it
// (first match wins).
func (r *Repository) retargetOrDeleteBranches(victimHash plumbing.Hash, victim *object.Commit, commits map[plumbing.Hash]*object.Commit) error {
	refs, err := r.DB.ReadReferences()
	if err != nil {
		return err
	}

	var affected []*plumbing.Reference
	for _, ref := range refs {
		if ref.Target == victimHash {
			affected = append(affected, ref)
		}
	}
	if len(affected) == 0 {
		return nil
	}

	// Parents referenced by some other, surviving leaf commit.
	otherLeafParents := make(map[plumbing.Hash]bool)
	for ch, c := range commits {
		if ch == victimHash || isParentOfAny(ch, commits) {
			continue
		}
		for _, p := range c.Parent {
			otherLeafParents[p] = true
		}
	}
	coveredByOthers := 0
	for _, p := range victim.Parent {
		if otherLeafParents[p] {
			coveredByOthers++
		}
	}
	deletable := coveredByOthers == len(victim.Parent) && len(refs) > 1

	headHash, headRef, err := r.resolveHead()
	if err != nil {
		return err
	}
	detachedAtVictim := headRef == nil && headHash == victimHash
	reattached := false

	for _, ref := range affected {
		if deletable {
			if err := r.DB.DeleteReference(ref.Name); err != nil {
				return err
			}
			continue
		}
		newTarget := victim.Parent[0]
		ref.Target = newTarget
		if err := r.DB.WriteReference(ref); err != nil {
			return err
		}
		if detachedAtVictim && !reattached {
			if err := r.DB.WriteHeadReference(ref.Name.Short()); err != nil {
				return err
			}
			reattached = true
		}
	}
	return nil
}

func isParentOfAny(h plumbing.Hash, commits map[plumbing.Hash]*object.Commit) bool {
	for _, c := range commits {
		for _, p := range c.Parent {
			if p == h {
				return true
			}
		}
	}
	return false
}
