package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/snowtrack/snow/modules/plumbing"
)

func commitFile(t *testing.T, r *Repository, rel, content, message string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(r.WorktreeRoot, rel), []byte(content), 0o644))
	idx := stageAndWrite(t, r, []string{rel}, nil)
	_, err := r.CreateCommit(idx, CommitOptions{Message: message})
	require.NoError(t, err)
}

func TestCheckoutNewBranchCreatesReference(t *testing.T) {
	worktree := t.TempDir()
	r, err := Init(worktree, "")
	require.NoError(t, err)
	commitFile(t, r, "scene.blend", "scene", "add scene")

	_, err = r.Checkout("HEAD", "feature", RestoreDeletedItems|RestoreModifiedItems|DeleteNewItems)
	require.NoError(t, err)

	head, err := r.DB.ReadHeadReference()
	require.NoError(t, err)
	require.Equal(t, "feature", head)
}

func TestCheckoutNewBranchRejectsLeadingDash(t *testing.T) {
	worktree := t.TempDir()
	r, err := Init(worktree, "")
	require.NoError(t, err)
	commitFile(t, r, "scene.blend", "scene", "add scene")

	_, err = r.Checkout("HEAD", "-evil", RestoreDeletedItems|RestoreModifiedItems|DeleteNewItems)
	require.True(t, plumbing.IsErrBadReferenceName(err))
}

func TestCheckoutRestoresDeletedFile(t *testing.T) {
	worktree := t.TempDir()
	r, err := Init(worktree, "")
	require.NoError(t, err)
	commitFile(t, r, "scene.blend", "scene", "add scene")

	path := filepath.Join(worktree, "scene.blend")
	require.NoError(t, os.Remove(path))

	_, err = r.Checkout("HEAD", "", RestoreDeletedItems|RestoreModifiedItems|DeleteNewItems)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "scene", string(data))
}

func TestCheckoutBranchExistsRejected(t *testing.T) {
	worktree := t.TempDir()
	r, err := Init(worktree, "")
	require.NoError(t, err)
	commitFile(t, r, "scene.blend", "scene", "add scene")

	_, err = r.Checkout("HEAD", "Main", RestoreDeletedItems|RestoreModifiedItems|DeleteNewItems)
	require.True(t, IsErrBranchExists(err))
}

func TestCheckoutDeletesNewUntrackedFileWhenFlagSet(t *testing.T) {
	worktree := t.TempDir()
	r, err := Init(worktree, "")
	require.NoError(t, err)
	commitFile(t, r, "scene.blend", "scene", "add scene")

	require.NoError(t, os.WriteFile(filepath.Join(worktree, "scratch.blend"), []byte("untracked"), 0o644))

	_, err = r.Checkout("HEAD", "", RestoreDeletedItems|RestoreModifiedItems|DeleteNewItems)
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(worktree, "scratch.blend"))
	require.True(t, os.IsNotExist(statErr))
}
