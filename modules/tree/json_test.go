package tree

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func buildSampleTree() *TreeDir {
	root := NewRoot()
	now := time.Now().UTC().Truncate(time.Millisecond)
	f := &TreeFile{RelPath: "scene.blend", Ext: ".blend", Size: 42, Ctime: now, Mtime: now, Birthtime: now}
	f.Parent = root
	root.Children = append(root.Children, f)
	sub := &TreeDir{RelPath: "textures"}
	sub.Parent = root
	root.Children = append(root.Children, sub)
	g := &TreeFile{RelPath: "textures/rock.png", Ext: ".png", Size: 7, Ctime: now, Mtime: now, Birthtime: now}
	g.Parent = sub
	sub.Children = append(sub.Children, g)
	root.ComputeFingerprint()
	return root
}

func TestToJSONWithoutChildrenOmitsThem(t *testing.T) {
	root := buildSampleTree()
	data, err := root.ToJSON(false)
	require.NoError(t, err)
	require.NotContains(t, string(data), "children")
}

func TestToJSONAndBuildRootFromJSONRoundTrip(t *testing.T) {
	root := buildSampleTree()
	data, err := root.ToJSON(true)
	require.NoError(t, err)

	decoded, err := BuildRootFromJSON(data)
	require.NoError(t, err)
	require.Nil(t, decoded.Parent)

	files := decoded.GetAllTreeFiles(FlattenOpts{EntireHierarchy: true})
	require.Len(t, files, 2)

	rock := files["textures/rock.png"].(*TreeFile)
	require.EqualValues(t, 7, rock.Size)
	require.Equal(t, ".png", rock.Ext)
	require.NotNil(t, rock.Parent)
	require.Equal(t, "textures", rock.Parent.RelPath)
}

func TestBuildRootFromJSONFixesUpParentLinks(t *testing.T) {
	root := buildSampleTree()
	data, err := root.ToJSON(true)
	require.NoError(t, err)

	decoded, err := BuildRootFromJSON(data)
	require.NoError(t, err)

	sub := decoded.Children[1].(*TreeDir)
	require.Same(t, decoded, sub.Parent)
}

func TestBuildRootFromJSONRejectsMalformedInput(t *testing.T) {
	_, err := BuildRootFromJSON([]byte("not json"))
	require.Error(t, err)
}
