package vfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildWalkFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "textures"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".snow"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "scene.blend"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "textures", "rock.png"), []byte("y"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".snow", "config.json"), []byte("{}"), 0o644))
	return root
}

func relPaths(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Rel
	}
	return out
}

func TestOSWalkSkipsMetadataDirByDefault(t *testing.T) {
	root := buildWalkFixture(t)
	entries, err := OSWalk(root, WalkFiles|WalkDirs|WalkRecursive)
	require.NoError(t, err)
	require.NotContains(t, relPaths(entries), ".snow")
	require.NotContains(t, relPaths(entries), ".snow/config.json")
}

func TestOSWalkHiddenFlagIncludesMetadataDir(t *testing.T) {
	root := buildWalkFixture(t)
	entries, err := OSWalk(root, WalkFiles|WalkDirs|WalkRecursive|WalkHidden)
	require.NoError(t, err)
	require.Contains(t, relPaths(entries), ".snow")
}

func TestOSWalkFilesOnlyExcludesDirs(t *testing.T) {
	root := buildWalkFixture(t)
	entries, err := OSWalk(root, WalkFiles|WalkRecursive)
	require.NoError(t, err)
	for _, e := range entries {
		require.False(t, e.Info.IsDir())
	}
	require.Contains(t, relPaths(entries), "textures/rock.png")
}

func TestOSWalkNonRecursiveOnlyTopLevel(t *testing.T) {
	root := buildWalkFixture(t)
	entries, err := OSWalk(root, WalkFiles|WalkDirs)
	require.NoError(t, err)
	require.NotContains(t, relPaths(entries), "textures/rock.png")
	require.Contains(t, relPaths(entries), "textures")
}

func TestOSWalkMissingRootErrors(t *testing.T) {
	_, err := OSWalk(filepath.Join(t.TempDir(), "absent"), WalkFiles)
	require.Error(t, err)
}
