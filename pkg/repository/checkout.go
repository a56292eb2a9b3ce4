// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package repository

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/snowtrack/snow/modules/hasher"
	"github.com/snowtrack/snow/modules/ioctx"
	"github.com/snowtrack/snow/modules/object"
	"github.com/snowtrack/snow/modules/plumbing"
	"github.com/snowtrack/snow/modules/tree"
	"github.com/snowtrack/snow/modules/vfs"
	"github.com/snowtrack/snow/pkg/odb"
)

// CheckoutFlags selects the destructive operations a checkout is allowed
// to perform (spec §4.10 step 3's RESTORE_DELETED_ITEMS,
// RESTORE_MODIFIED_ITEMS, DELETE_NEW_ITEMS bits) plus a hard reset.
type CheckoutFlags uint8

const (
	RestoreDeletedItems CheckoutFlags = 1 << iota
	RestoreModifiedItems
	DeleteNewItems
	Reset
)

type taskKind uint8

const (
	taskRestore taskKind = iota
	taskDeleteOrTrash
	taskEnsureDir
)

type checkoutTask struct {
	kind      taskKind
	relPath   string
	tf        *tree.TreeFile
	isDir     bool
	alwaysDel bool
}

// Checkout switches the worktree and HEAD to target, restoring, deleting
// or trashing files per flags, following spec §4.10's algorithm.
func (r *Repository) Checkout(targetish string, newBranch string, flags CheckoutFlags) (*object.Commit, error) {
	target, err := r.ResolveCommitish(targetish)
	if err != nil {
		return nil, err
	}
	targetRefName := resolveNamedRef(r, targetish)
	targetCommit, err := r.DB.ReadCommit(target)
	if err != nil {
		return nil, err
	}

	entries, err := r.GetStatus(StatusFilter{IncludeDirs: true, IncludeIgnored: true}, target)
	if err != nil {
		return nil, err
	}
	targetFiles := targetCommit.Root.GetAllTreeFiles(tree.FlattenOpts{EntireHierarchy: true, IncludeDirs: false})

	tasks, toDeleteCandidates, deleteRevokeDirs := classifyCheckoutTasks(entries, targetFiles, flags)
	tasks = append(tasks, pruneDeleteCandidates(toDeleteCandidates, deleteRevokeDirs, flags)...)

	ioc := ioctx.New(ioctx.WithLogger(r.log))
	defer ioc.Close()

	var touched []string
	for _, t := range tasks {
		if t.kind != taskEnsureDir {
			touched = append(touched, t.relPath)
		}
	}
	if err := ioc.CheckWriteAccess(r.WorktreeRoot, touched, nil); err != nil {
		return nil, err
	}

	// Step 6: update HEAD before executing anything destructive.
	if err := r.retargetHead(target, targetRefName, newBranch); err != nil {
		return nil, err
	}

	var toTrash []string
	var trashMu sync.Mutex
	alwaysDelete := flags&Reset != 0

	runErr := ioctx.RunPool(context.Background(), ioctx.RestoreDeletePoolSize, tasks, func(ctx context.Context, t checkoutTask) error {
		abs, err := vfs.SecureJoin(r.WorktreeRoot, t.relPath)
		if err != nil {
			return fmt.Errorf("snow: checkout path %q: %w", t.relPath, err)
		}
		switch t.kind {
		case taskEnsureDir:
			return vfs.EnsureDir(abs)
		case taskRestore:
			if err := vfs.EnsureDir(filepath.Dir(abs)); err != nil {
				return err
			}
			return r.DB.ReadObject(t.tf.Fingerprint, t.tf.Ext, abs, t.tf.Mtime, ioc)
		case taskDeleteOrTrash:
			trashInstead, err := deleteOrTrash(r.DB, abs, t.isDir, alwaysDelete || t.alwaysDel)
			if err != nil {
				return err
			}
			if trashInstead {
				trashMu.Lock()
				toTrash = append(toTrash, abs)
				trashMu.Unlock()
			}
		}
		return nil
	})
	if runErr != nil {
		return nil, runErr
	}

	if len(toTrash) > 0 {
		if err := ioc.PutToTrash(toTrash); err != nil {
			return nil, err
		}
	}

	if err := r.finalizeMarkedDeletions(target); err != nil {
		return nil, err
	}

	_ = r.DB.AppendLog("checkout", fmt.Sprintf("checked out %s", target))
	return targetCommit, nil
}

func (r *Repository) retargetHead(target plumbing.Hash, targetRefName, newBranch string) error {
	if newBranch != "" {
		if !plumbing.ValidateBranchName([]byte(newBranch)) {
			return &plumbing.ErrBadReferenceName{Name: newBranch}
		}
		if _, err := r.DB.ReadReference(plumbing.NewBranchReferenceName(newBranch)); err == nil {
			return &ErrBranchExists{Name: newBranch}
		}
		ref := plumbing.NewBranch(plumbing.NewBranchReferenceName(newBranch), target, target)
		if err := r.DB.WriteReference(ref); err != nil {
			return err
		}
		return r.DB.WriteHeadReference(newBranch)
	}
	if targetRefName != "" {
		return r.DB.WriteHeadReference(targetRefName)
	}
	return r.DB.WriteHeadReference(target.String())
}

// classifyCheckoutTasks implements spec §4.10 step 3: walk the status
// entries and bucket each into a restore, a candidate for deletion, or a
// directory whose ancestors must never be swept by a later delete.
func classifyCheckoutTasks(entries []StatusEntry, targetFiles map[string]tree.Entry, flags CheckoutFlags) ([]checkoutTask, []StatusEntry, map[string]bool) {
	var tasks []checkoutTask
	var candidates []StatusEntry
	revoke := make(map[string]bool)

	for _, e := range entries {
		switch {
		case e.Kind == WTDeleted && !e.IsDir:
			if flags&RestoreDeletedItems != 0 {
				tf := targetFiles[e.RelPath].(*tree.TreeFile)
				tasks = append(tasks, checkoutTask{kind: taskRestore, relPath: e.RelPath, tf: tf})
			}
		case e.Kind == WTDeleted && e.IsDir:
			tasks = append(tasks, checkoutTask{kind: taskEnsureDir, relPath: e.RelPath, isDir: true})
			markAncestors(e.RelPath, revoke)
		case e.Kind == WTNew && flags&DeleteNewItems != 0:
			candidates = append(candidates, e)
		case e.Kind == WTModified && !e.IsDir && flags&RestoreModifiedItems != 0:
			tf := targetFiles[e.RelPath].(*tree.TreeFile)
			tasks = append(tasks, checkoutTask{kind: taskDeleteOrTrash, relPath: e.RelPath})
			tasks = append(tasks, checkoutTask{kind: taskRestore, relPath: e.RelPath, tf: tf})
		case e.Kind == WTIgnored:
			markAncestors(e.RelPath, revoke)
		}
	}
	return tasks, candidates, revoke
}

// pruneDeleteCandidates implements spec §4.10 step 4: skip any candidate
// under a revoked (ignored-descendant) directory, and drop every
// candidate already subsumed by an earlier scheduled directory delete.
func pruneDeleteCandidates(candidates []StatusEntry, revoke map[string]bool, flags CheckoutFlags) []checkoutTask {
	var tasks []checkoutTask
	var scheduledDirs []string
	for _, e := range candidates {
		if revoke[e.RelPath] {
			continue
		}
		subsumed := false
		for _, d := range scheduledDirs {
			if e.RelPath == d || strings.HasPrefix(e.RelPath, d+"/") {
				subsumed = true
				break
			}
		}
		if subsumed {
			continue
		}
		tasks = append(tasks, checkoutTask{kind: taskDeleteOrTrash, relPath: e.RelPath, isDir: e.IsDir})
		if e.IsDir {
			scheduledDirs = append(scheduledDirs, e.RelPath)
		}
	}
	return tasks
}

// deleteOrTrash implements spec §4.10's policy: always delete when
// switching commits (alwaysDelete); otherwise trash anything whose
// content the ODB does not recognize, so an in-place "checkout HEAD"
// never destroys unsaved work. Returns true if the caller should queue
// abs for the batched trash call instead of deleting it directly.
func deleteOrTrash(db *odb.Database, abs string, isDir, alwaysDelete bool) (bool, error) {
	if alwaysDelete {
		return false, vfs.Rmdir(abs)
	}
	if isDir {
		if allObjectsKnown(db, abs) {
			return false, vfs.Rmdir(abs)
		}
		return true, nil
	}
	res, err := hasher.Hash(abs)
	if err != nil || !db.HasObject(res.FileHash, filepath.Ext(abs)) {
		return true, nil
	}
	return false, os.Remove(abs)
}

func allObjectsKnown(db *odb.Database, dir string) bool {
	known := true
	_ = filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		res, hErr := hasher.Hash(p)
		if hErr != nil || !db.HasObject(res.FileHash, filepath.Ext(p)) {
			known = false
		}
		return nil
	})
	return known
}

func markAncestors(rel string, set map[string]bool) {
	for dir := path.Dir(rel); dir != "." && dir != "/"; dir = path.Dir(dir) {
		set[dir] = true
	}
}

func resolveNamedRef(r *Repository, targetish string) string {
	base, _, err := splitTilde(targetish)
	if err != nil {
		return ""
	}
	if base == "HEAD" || base == "" || len(base) == 64 {
		return ""
	}
	if _, err := r.DB.ReadReference(plumbing.NewBranchReferenceName(base)); err == nil {
		return base
	}
	return ""
}

func (r *Repository) finalizeMarkedDeletions(newHead plumbing.Hash) error {
	commits, err := r.DB.ReadCommits()
	if err != nil {
		return err
	}
	for h, c := range commits {
		if c.MarkForDeletion && h != newHead {
			if err := r.DeleteCommit(h); err != nil {
				return err
			}
		}
	}
	return nil
}
