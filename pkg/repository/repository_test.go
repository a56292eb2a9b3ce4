package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/snowtrack/snow/modules/ioctx"
	"github.com/snowtrack/snow/modules/plumbing"
	"github.com/snowtrack/snow/pkg/index"
)

func TestInitCreatesRootCommitOnDefaultBranch(t *testing.T) {
	worktree := t.TempDir()
	r, err := Init(worktree, "")
	require.NoError(t, err)

	head, err := r.HeadCommit()
	require.NoError(t, err)
	require.True(t, head.IsRoot())
	require.Equal(t, "root", head.Message)
}

func TestInitRefusesProtectedLocation(t *testing.T) {
	if os.PathSeparator != '/' {
		t.Skip("unix-specific protected roots")
	}
	_, err := Init("/usr", "")
	require.ErrorIs(t, err, ErrProtectedLocation)
}

func TestOpenReattachesToInitializedRepository(t *testing.T) {
	worktree := t.TempDir()
	_, err := Init(worktree, "")
	require.NoError(t, err)

	r, err := Open(worktree)
	require.NoError(t, err)
	require.Equal(t, worktree, r.WorktreeRoot)
}

func TestResolveCommitishHandlesHeadAndTilde(t *testing.T) {
	worktree := t.TempDir()
	r, err := Init(worktree, "")
	require.NoError(t, err)

	root, err := r.HeadCommit()
	require.NoError(t, err)

	h, err := r.ResolveCommitish("HEAD")
	require.NoError(t, err)
	require.Equal(t, root.Hash, h)

	require.NoError(t, os.WriteFile(filepath.Join(worktree, "scene.blend"), []byte("scene"), 0o644))
	idx := index.New(worktree)
	require.NoError(t, idx.AddFiles([]string{"scene.blend"}))
	ioc := ioctx.New()
	require.NoError(t, idx.WriteFiles(r.DB, ioc))
	ioc.Close()

	commit, err := r.CreateCommit(idx, CommitOptions{Message: "add scene"})
	require.NoError(t, err)

	parent, err := r.ResolveCommitish("HEAD~1")
	require.NoError(t, err)
	require.Equal(t, root.Hash, parent)

	self, err := r.ResolveCommitish(commit.Hash.String())
	require.NoError(t, err)
	require.Equal(t, commit.Hash, self)
}

func TestResolveCommitishRejectsMalformedRef(t *testing.T) {
	worktree := t.TempDir()
	r, err := Init(worktree, "")
	require.NoError(t, err)

	_, err = r.ResolveCommitish("HEAD~notanumber")
	require.Error(t, err)
	require.True(t, IsErrInvalidCommitRef(err))
}

func TestResolveCommitishWalkPastRootReportsRevNotFound(t *testing.T) {
	worktree := t.TempDir()
	r, err := Init(worktree, "")
	require.NoError(t, err)

	_, err = r.ResolveCommitish("HEAD~3")
	require.True(t, IsErrInvalidCommitRef(err))
	require.True(t, plumbing.IsErrRevNotFound(err))
}

func TestResolveCommitishRejectsUnknownReference(t *testing.T) {
	worktree := t.TempDir()
	r, err := Init(worktree, "")
	require.NoError(t, err)

	_, err = r.ResolveCommitish("no-such-branch")
	require.True(t, IsErrNoSuchReference(err))
}

func TestDiffReportsAddedModifiedAndDeletedAcrossCommits(t *testing.T) {
	worktree := t.TempDir()
	r, err := Init(worktree, "")
	require.NoError(t, err)
	root, err := r.HeadCommit()
	require.NoError(t, err)

	commitFile(t, r, "fooA.txt", "x", "add fooA")
	b, err := r.HeadCommit()
	require.NoError(t, err)

	commitFile(t, r, "fooA.txt", "y", "modify fooA")
	c, err := r.HeadCommit()
	require.NoError(t, err)

	commitFile(t, r, "fooB.txt", "z", "add fooB")
	d, err := r.HeadCommit()
	require.NoError(t, err)

	addedBA, err := r.Diff(b.Hash.String(), root.Hash.String())
	require.NoError(t, err)
	require.Equal(t, []string{"fooA.txt"}, addedBA.Added)

	modifiedCB, err := r.Diff(c.Hash.String(), b.Hash.String())
	require.NoError(t, err)
	require.Equal(t, []string{"fooA.txt"}, modifiedCB.Modified)

	addedDC, err := r.Diff(d.Hash.String(), c.Hash.String())
	require.NoError(t, err)
	require.Equal(t, []string{"fooB.txt"}, addedDC.Added)
}

func TestCreateTagResolvesAsCommitish(t *testing.T) {
	worktree := t.TempDir()
	r, err := Init(worktree, "")
	require.NoError(t, err)
	root, err := r.HeadCommit()
	require.NoError(t, err)

	require.NoError(t, r.CreateTag("v1", "HEAD"))

	hash, err := r.ResolveCommitish("v1")
	require.NoError(t, err)
	require.Equal(t, root.Hash, hash)
}

func TestCreateTagRejectsDuplicateName(t *testing.T) {
	worktree := t.TempDir()
	r, err := Init(worktree, "")
	require.NoError(t, err)

	require.NoError(t, r.CreateTag("v1", "HEAD"))
	err = r.CreateTag("v1", "HEAD")
	require.True(t, IsErrTagExists(err))
}

func TestCreateTagRejectsBadName(t *testing.T) {
	worktree := t.TempDir()
	r, err := Init(worktree, "")
	require.NoError(t, err)

	err = r.CreateTag("-evil", "HEAD")
	require.True(t, plumbing.IsErrBadReferenceName(err))
}

func TestCreateTagDoesNotMoveAfterFurtherCommits(t *testing.T) {
	worktree := t.TempDir()
	r, err := Init(worktree, "")
	require.NoError(t, err)
	root, err := r.HeadCommit()
	require.NoError(t, err)
	require.NoError(t, r.CreateTag("v1", "HEAD"))

	commitFile(t, r, "fooA.txt", "x", "add fooA")

	hash, err := r.ResolveCommitish("v1")
	require.NoError(t, err)
	require.Equal(t, root.Hash, hash)
}
