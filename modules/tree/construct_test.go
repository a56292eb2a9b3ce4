package tree

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/snowtrack/snow/modules/plumbing"
)

func TestConstructTreeMirrorsWorktree(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "textures"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "scene.blend"), []byte("scene"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "textures", "rock.png"), []byte("rockdata"), 0o644))

	fingerprint := plumbing.HashBytes([]byte("rockdata"))
	processed := map[string]ProcessedEntry{
		"textures/rock.png": {Fingerprint: fingerprint, Size: 8},
	}

	tr, err := ConstructTree(root, processed)
	require.NoError(t, err)

	files := tr.GetAllTreeFiles(FlattenOpts{EntireHierarchy: true})
	require.Contains(t, files, "scene.blend")
	require.Contains(t, files, "textures/rock.png")

	rock := files["textures/rock.png"].(*TreeFile)
	require.Equal(t, fingerprint, rock.Fingerprint)
	require.EqualValues(t, 8, rock.Size)

	scene := files["scene.blend"].(*TreeFile)
	require.True(t, scene.Fingerprint.IsZero())
	require.Equal(t, ".blend", scene.Ext)
}

func TestConstructTreeSkipsMetadataDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".snow"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".snow", "config.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "scene.blend"), []byte("x"), 0o644))

	tr, err := ConstructTree(root, nil)
	require.NoError(t, err)

	files := tr.GetAllTreeFiles(FlattenOpts{EntireHierarchy: true, IncludeDirs: true})
	require.NotContains(t, files, ".snow")
	require.Contains(t, files, "scene.blend")
}

func TestConstructTreeEmptyWorktree(t *testing.T) {
	root := t.TempDir()
	tr, err := ConstructTree(root, nil)
	require.NoError(t, err)
	require.Empty(t, tr.Children)
	require.Equal(t, plumbing.HashBytes(nil), tr.Fingerprint)
}
