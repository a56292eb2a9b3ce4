// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package repository

import (
	"sort"
	"time"

	"github.com/snowtrack/snow/modules/object"
	"github.com/snowtrack/snow/modules/plumbing"
)

// MergeResult is the pure history union spec §4.12 produces: no blob
// transfer happens here, callers stage object files separately.
type MergeResult struct {
	Commits []*object.Commit
	Refs    []*plumbing.Reference
}

// MergeHistories unions local and remote's commit/reference lists, per
// spec §4.12. refNamePool supplies replacement names for reference
// collisions among leaf commits; "Unnamed Track" is the final fallback.
func MergeHistories(local, remote MergeResult, refNamePool []string) (MergeResult, error) {
	localRoot := findRoot(local.Commits)
	remoteRoot := findRoot(remote.Commits)
	if localRoot == nil || remoteRoot == nil || localRoot.Hash != remoteRoot.Hash {
		return MergeResult{}, ErrUnrelatedHistories
	}

	// Step 2: concatenate, sort by lastModifiedDate ?? date ascending,
	// de-duplicate by hash (later writer wins by map insertion order).
	allCommits := append(append([]*object.Commit{}, local.Commits...), remote.Commits...)
	sort.SliceStable(allCommits, func(i, j int) bool {
		return commitOrderKey(allCommits[i]).Before(commitOrderKey(allCommits[j]))
	})
	commitByHash := make(map[plumbing.Hash]*object.Commit)
	var commitOrder []plumbing.Hash
	for _, c := range allCommits {
		if _, existed := commitByHash[c.Hash]; !existed {
			commitOrder = append(commitOrder, c.Hash)
		}
		commitByHash[c.Hash] = c
	}
	mergedCommits := make([]*object.Commit, 0, len(commitOrder))
	for _, h := range commitOrder {
		mergedCommits = append(mergedCommits, commitByHash[h])
	}

	// Step 3: concatenate references, sort by lastModifiedDate ascending
	// (nulls last).
	allRefs := append(append([]*plumbing.Reference{}, local.Refs...), remote.Refs...)
	sort.SliceStable(allRefs, func(i, j int) bool {
		a, b := allRefs[i].LastModifiedDate, allRefs[j].LastModifiedDate
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return *a < *b
	})

	// Step 4: leaf commits are those never named as a parent.
	isParent := make(map[plumbing.Hash]bool)
	for _, c := range mergedCommits {
		for _, p := range c.Parent {
			isParent[p] = true
		}
	}
	var leaves []plumbing.Hash
	for _, h := range commitOrder {
		if !isParent[h] {
			leaves = append(leaves, h)
		}
	}

	// Step 5: assign each leaf the reference that targets it, renaming on
	// collision.
	usedNames := make(map[string]bool)
	poolIdx := 0
	var mergedRefs []*plumbing.Reference
	for _, leaf := range leaves {
		var picked *plumbing.Reference
		for _, ref := range allRefs {
			if ref.Target == leaf {
				picked = ref
				break
			}
		}
		if picked == nil {
			continue
		}
		name := picked.Name.Short()
		if usedNames[name] {
			name = nextPoolName(refNamePool, &poolIdx, usedNames)
			out := *picked
			out.Name = plumbing.NewBranchReferenceName(name)
			picked = &out
		}
		usedNames[name] = true
		mergedRefs = append(mergedRefs, picked)
	}

	return MergeResult{Commits: mergedCommits, Refs: mergedRefs}, nil
}

func findRoot(commits []*object.Commit) *object.Commit {
	for _, c := range commits {
		if c.IsRoot() {
			return c
		}
	}
	return nil
}

func commitOrderKey(c *object.Commit) time.Time {
	if c.LastModifiedDate != nil {
		return *c.LastModifiedDate
	}
	return c.Date
}

func nextPoolName(pool []string, idx *int, used map[string]bool) string {
	for *idx < len(pool) {
		name := pool[*idx]
		*idx++
		if !used[name] {
			return name
		}
	}
	return "Unnamed Track"
}
