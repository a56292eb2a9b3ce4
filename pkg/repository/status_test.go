package repository

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/snowtrack/snow/modules/plumbing"
)

func findStatus(entries []StatusEntry, rel string) (StatusEntry, bool) {
	for _, e := range entries {
		if e.RelPath == rel {
			return e, true
		}
	}
	return StatusEntry{}, false
}

func TestGetStatusReportsNewFile(t *testing.T) {
	worktree := t.TempDir()
	r, err := Init(worktree, "")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(worktree, "scene.blend"), []byte("scene"), 0o644))

	entries, err := r.GetStatus(StatusFilter{Mode: SizeAndHashForSmallFiles}, plumbing.ZeroHash)
	require.NoError(t, err)

	e, ok := findStatus(entries, "scene.blend")
	require.True(t, ok)
	require.Equal(t, WTNew, e.Kind)
}

func TestGetStatusReportsUnmodifiedAfterCommit(t *testing.T) {
	worktree := t.TempDir()
	r, err := Init(worktree, "")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(worktree, "scene.blend"), []byte("scene"), 0o644))
	idx := stageAndWrite(t, r, []string{"scene.blend"}, nil)
	_, err = r.CreateCommit(idx, CommitOptions{Message: "add scene"})
	require.NoError(t, err)

	entries, err := r.GetStatus(StatusFilter{Mode: SizeAndHashForSmallFiles}, plumbing.ZeroHash)
	require.NoError(t, err)

	e, ok := findStatus(entries, "scene.blend")
	require.True(t, ok)
	require.Equal(t, Unmodified, e.Kind)
}

func TestGetStatusReportsModifiedAfterContentChange(t *testing.T) {
	worktree := t.TempDir()
	r, err := Init(worktree, "")
	require.NoError(t, err)

	path := filepath.Join(worktree, "scene.blend")
	require.NoError(t, os.WriteFile(path, []byte("scene"), 0o644))
	idx := stageAndWrite(t, r, []string{"scene.blend"}, nil)
	_, err = r.CreateCommit(idx, CommitOptions{Message: "add scene"})
	require.NoError(t, err)

	future := time.Now().Add(time.Hour)
	require.NoError(t, os.WriteFile(path, []byte("scene-modified-bytes"), 0o644))
	require.NoError(t, os.Chtimes(path, future, future))

	entries, err := r.GetStatus(StatusFilter{Mode: SizeAndHashForSmallFiles}, plumbing.ZeroHash)
	require.NoError(t, err)

	e, ok := findStatus(entries, "scene.blend")
	require.True(t, ok)
	require.Equal(t, WTModified, e.Kind)
}

func TestGetStatusReportsDeletedFile(t *testing.T) {
	worktree := t.TempDir()
	r, err := Init(worktree, "")
	require.NoError(t, err)

	path := filepath.Join(worktree, "scene.blend")
	require.NoError(t, os.WriteFile(path, []byte("scene"), 0o644))
	idx := stageAndWrite(t, r, []string{"scene.blend"}, nil)
	_, err = r.CreateCommit(idx, CommitOptions{Message: "add scene"})
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))

	entries, err := r.GetStatus(StatusFilter{Mode: SizeAndHashForSmallFiles}, plumbing.ZeroHash)
	require.NoError(t, err)

	e, ok := findStatus(entries, "scene.blend")
	require.True(t, ok)
	require.Equal(t, WTDeleted, e.Kind)
}

func TestGetStatusRespectsIgnoreFile(t *testing.T) {
	worktree := t.TempDir()
	_, err := Init(worktree, "")
	require.NoError(t, err)
	r, err := Open(worktree)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(worktree, "scratch.tmp"), []byte("x"), 0o644))

	entries, err := r.GetStatus(StatusFilter{Mode: SizeAndHashForSmallFiles}, plumbing.ZeroHash)
	require.NoError(t, err)

	_, ok := findStatus(entries, "scratch.tmp")
	require.False(t, ok)
}

func TestStatusKindString(t *testing.T) {
	require.Equal(t, "new", WTNew.String())
	require.Equal(t, "modified", WTModified.String())
	require.Equal(t, "deleted", WTDeleted.String())
	require.Equal(t, "ignored", WTIgnored.String())
	require.Equal(t, "unmodified", Unmodified.String())
}
