package vfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureDirCreatesNestedPath(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "a", "b", "c")
	require.NoError(t, EnsureDir(target))
	info, err := os.Stat(target)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestPathExistsReportsPresenceAndAbsence(t *testing.T) {
	root := t.TempDir()
	present := filepath.Join(root, "present")
	require.NoError(t, os.WriteFile(present, []byte("x"), 0o644))
	require.True(t, PathExists(present))
	require.False(t, PathExists(filepath.Join(root, "absent")))
}

func TestRmdirRemovesTree(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "nested")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(nested, "f"), []byte("x"), 0o644))
	require.NoError(t, Rmdir(nested))
	require.False(t, PathExists(nested))
}

func TestCopyFileWritesContentAndCreatesParent(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src.bin")
	require.NoError(t, os.WriteFile(src, []byte("texture payload"), 0o644))

	dst := filepath.Join(root, "nested", "dst.bin")
	n, err := CopyFile(src, dst)
	require.NoError(t, err)
	require.EqualValues(t, len("texture payload"), n)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "texture payload", string(got))
}

func TestCopyFileMissingSource(t *testing.T) {
	root := t.TempDir()
	_, err := CopyFile(filepath.Join(root, "missing"), filepath.Join(root, "dst"))
	require.Error(t, err)
}

func TestProtectedLocationRejectsRoot(t *testing.T) {
	if os.PathSeparator != '/' {
		t.Skip("unix-specific protected roots")
	}
	require.True(t, ProtectedLocation("/"))
	require.True(t, ProtectedLocation("/usr"))
	require.False(t, ProtectedLocation("/home/user/project"))
}
