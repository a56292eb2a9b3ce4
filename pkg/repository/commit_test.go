package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/snowtrack/snow/modules/ioctx"
	"github.com/snowtrack/snow/modules/tree"
	"github.com/snowtrack/snow/pkg/index"
)

func stageAndWrite(t *testing.T, r *Repository, add, del []string) *index.Index {
	t.Helper()
	idx := index.New(r.WorktreeRoot)
	if len(add) > 0 {
		require.NoError(t, idx.AddFiles(add))
	}
	if len(del) > 0 {
		require.NoError(t, idx.DeleteFiles(del))
	}
	ioc := ioctx.New()
	defer ioc.Close()
	require.NoError(t, idx.WriteFiles(r.DB, ioc))
	return idx
}

func TestCreateCommitRejectsEmptyByDefault(t *testing.T) {
	worktree := t.TempDir()
	r, err := Init(worktree, "")
	require.NoError(t, err)

	idx := index.New(worktree)
	_, err = r.CreateCommit(idx, CommitOptions{Message: "noop"})
	require.ErrorIs(t, err, ErrCommitEmpty)
}

func TestCreateCommitAllowEmpty(t *testing.T) {
	worktree := t.TempDir()
	r, err := Init(worktree, "")
	require.NoError(t, err)

	idx := index.New(worktree)
	c, err := r.CreateCommit(idx, CommitOptions{Message: "empty checkpoint", AllowEmpty: true})
	require.NoError(t, err)
	require.Equal(t, "empty checkpoint", c.Message)
}

func TestCreateCommitAddsFileIntoTree(t *testing.T) {
	worktree := t.TempDir()
	r, err := Init(worktree, "")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(worktree, "scene.blend"), []byte("scene"), 0o644))
	idx := stageAndWrite(t, r, []string{"scene.blend"}, nil)

	c, err := r.CreateCommit(idx, CommitOptions{Message: "add scene"})
	require.NoError(t, err)

	files := c.Root.GetAllTreeFiles(tree.FlattenOpts{EntireHierarchy: true})
	require.Contains(t, files, "scene.blend")
	require.Len(t, c.Parent, 1)
}

func TestCreateCommitInvalidatesIndexAfterUse(t *testing.T) {
	worktree := t.TempDir()
	r, err := Init(worktree, "")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(worktree, "scene.blend"), []byte("scene"), 0o644))
	idx := stageAndWrite(t, r, []string{"scene.blend"}, nil)

	_, err = r.CreateCommit(idx, CommitOptions{Message: "add scene"})
	require.NoError(t, err)
	require.True(t, idx.Invalidated)
}

func TestCreateCommitDeletesFileFromTree(t *testing.T) {
	worktree := t.TempDir()
	r, err := Init(worktree, "")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(worktree, "scene.blend"), []byte("scene"), 0o644))
	idx := stageAndWrite(t, r, []string{"scene.blend"}, nil)
	_, err = r.CreateCommit(idx, CommitOptions{Message: "add scene"})
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(worktree, "scene.blend")))
	idx2 := stageAndWrite(t, r, nil, []string{"scene.blend"})
	c2, err := r.CreateCommit(idx2, CommitOptions{Message: "remove scene"})
	require.NoError(t, err)

	files := c2.Root.GetAllTreeFiles(tree.FlattenOpts{EntireHierarchy: true})
	require.NotContains(t, files, "scene.blend")
}

func TestCreateCommitMovesBranchReference(t *testing.T) {
	worktree := t.TempDir()
	r, err := Init(worktree, "")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(worktree, "scene.blend"), []byte("scene"), 0o644))
	idx := stageAndWrite(t, r, []string{"scene.blend"}, nil)
	c, err := r.CreateCommit(idx, CommitOptions{Message: "add scene"})
	require.NoError(t, err)

	head, err := r.HeadCommit()
	require.NoError(t, err)
	require.Equal(t, c.Hash, head.Hash)
}
