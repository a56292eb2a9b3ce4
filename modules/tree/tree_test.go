package tree

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/snowtrack/snow/modules/plumbing"
)

func addFile(d *TreeDir, relPath string, size int64) *TreeFile {
	f := &TreeFile{RelPath: relPath, Size: size, Fingerprint: plumbing.HashBytes([]byte(relPath))}
	f.Parent = d
	d.Children = append(d.Children, f)
	return f
}

func addDir(d *TreeDir, relPath string) *TreeDir {
	child := &TreeDir{RelPath: relPath}
	child.Parent = d
	d.Children = append(d.Children, child)
	return child
}

func TestComputeFingerprintPropagatesSizeAndIsOrderSensitive(t *testing.T) {
	root := NewRoot()
	addFile(root, "a.blend", 10)
	addFile(root, "b.blend", 20)
	root.ComputeFingerprint()
	require.EqualValues(t, 30, root.Size)

	reordered := NewRoot()
	addFile(reordered, "b.blend", 20)
	addFile(reordered, "a.blend", 10)
	reordered.ComputeFingerprint()

	require.NotEqual(t, root.Fingerprint, reordered.Fingerprint)
}

func TestComputeFingerprintIncludesNestedDirSize(t *testing.T) {
	root := NewRoot()
	sub := addDir(root, "textures")
	addFile(sub, "textures/rock.png", 5)
	root.ComputeFingerprint()
	require.EqualValues(t, 5, root.Size)
	require.EqualValues(t, 5, sub.Size)
}

func TestGetAllTreeFilesDirectChildrenOnly(t *testing.T) {
	root := NewRoot()
	addFile(root, "a.blend", 1)
	sub := addDir(root, "textures")
	addFile(sub, "textures/rock.png", 1)

	shallow := root.GetAllTreeFiles(FlattenOpts{})
	require.Len(t, shallow, 1)
	require.Contains(t, shallow, "a.blend")

	deep := root.GetAllTreeFiles(FlattenOpts{EntireHierarchy: true})
	require.Len(t, deep, 2)
	require.Contains(t, deep, "textures/rock.png")
}

func TestGetAllTreeFilesIncludeDirs(t *testing.T) {
	root := NewRoot()
	sub := addDir(root, "textures")
	addFile(sub, "textures/rock.png", 1)

	flattened := root.GetAllTreeFiles(FlattenOpts{EntireHierarchy: true, IncludeDirs: true})
	require.Contains(t, flattened, "textures")
	require.Contains(t, flattened, "textures/rock.png")
}

func TestWalkVisitsPreOrder(t *testing.T) {
	root := NewRoot()
	sub := addDir(root, "textures")
	addFile(sub, "textures/rock.png", 1)
	addFile(root, "a.blend", 1)

	var names []string
	root.Walk(func(e Entry) bool {
		names = append(names, e.entryName())
		return true
	})
	require.Equal(t, []string{"textures", "rock.png", "a.blend"}, names)
}

func TestWalkStopsDescentWhenCallbackReturnsFalse(t *testing.T) {
	root := NewRoot()
	sub := addDir(root, "textures")
	addFile(sub, "textures/rock.png", 1)

	var names []string
	root.Walk(func(e Entry) bool {
		names = append(names, e.entryName())
		return false
	})
	require.Equal(t, []string{"textures"}, names)
}

func TestRemoveDropsMatchingEntriesPostOrder(t *testing.T) {
	root := NewRoot()
	sub := addDir(root, "textures")
	addFile(sub, "textures/rock.png", 1)
	addFile(root, "a.blend", 1)

	root.Remove(func(e Entry) bool {
		f, ok := e.(*TreeFile)
		return ok && f.RelPath == "textures/rock.png"
	})
	require.Empty(t, sub.Children)
	require.Len(t, root.Children, 2)
}

func TestPruneEmptyDirsRemovesDirsLeftEmptyAfterRemove(t *testing.T) {
	root := NewRoot()
	sub := addDir(root, "textures")
	addFile(sub, "textures/rock.png", 1)
	addFile(root, "a.blend", 1)

	root.Remove(func(e Entry) bool {
		f, ok := e.(*TreeFile)
		return ok && f.RelPath == "textures/rock.png"
	})
	root.PruneEmptyDirs()
	require.Len(t, root.Children, 1)
	require.Equal(t, "a.blend", root.Children[0].entryName())
}

func TestCloneIsDeepAndIndependent(t *testing.T) {
	root := NewRoot()
	sub := addDir(root, "textures")
	f := addFile(sub, "textures/rock.png", 1)
	root.ComputeFingerprint()

	clone := root.Clone()
	f.Size = 99
	root.ComputeFingerprint()

	cloneSub := clone.Children[0].(*TreeDir)
	cloneFile := cloneSub.Children[0].(*TreeFile)
	require.EqualValues(t, 1, cloneFile.Size)
	require.Same(t, clone, cloneSub.Parent)
}

func TestMergeHighSideWinsOnConflict(t *testing.T) {
	low := NewRoot()
	addFile(low, "a.blend", 10)
	low.ComputeFingerprint()

	high := NewRoot()
	addFile(high, "a.blend", 20)
	high.ComputeFingerprint()

	merged := Merge(low, high)
	files := merged.GetAllTreeFiles(FlattenOpts{})
	require.EqualValues(t, 20, files["a.blend"].(*TreeFile).Size)
}

func TestMergeUnionsDisjointEntries(t *testing.T) {
	low := NewRoot()
	addFile(low, "a.blend", 10)
	low.ComputeFingerprint()

	high := NewRoot()
	addFile(high, "b.blend", 20)
	high.ComputeFingerprint()

	merged := Merge(low, high)
	files := merged.GetAllTreeFiles(FlattenOpts{})
	require.Len(t, files, 2)
}

func TestMergeRecursesIntoSharedSubdirectories(t *testing.T) {
	low := NewRoot()
	lowSub := addDir(low, "textures")
	addFile(lowSub, "textures/rock.png", 1)
	low.ComputeFingerprint()

	high := NewRoot()
	highSub := addDir(high, "textures")
	addFile(highSub, "textures/moss.png", 2)
	high.ComputeFingerprint()

	merged := Merge(low, high)
	files := merged.GetAllTreeFiles(FlattenOpts{EntireHierarchy: true})
	require.Contains(t, files, "textures/rock.png")
	require.Contains(t, files, "textures/moss.png")
}

func TestSortChildrenByNameOrdersLexicographically(t *testing.T) {
	root := NewRoot()
	addFile(root, "zeta.blend", 1)
	addFile(root, "alpha.blend", 1)
	SortChildrenByName(root)
	require.Equal(t, "alpha.blend", root.Children[0].entryName())
	require.Equal(t, "zeta.blend", root.Children[1].entryName())
}

func TestNewRootHasEmptyPathAndNoParent(t *testing.T) {
	root := NewRoot()
	require.Equal(t, "", root.RelPath)
	require.Nil(t, root.Parent)
}

func addFileContent(d *TreeDir, relPath, content string) *TreeFile {
	f := &TreeFile{RelPath: relPath, Size: int64(len(content)), Fingerprint: plumbing.HashBytes([]byte(content))}
	f.Parent = d
	d.Children = append(d.Children, f)
	return f
}

// TestDiffMatchesCommitSequenceScenario reproduces the spec's worked
// example verbatim: commits A (empty), B (add fooA.txt "x"), C (modify
// fooA.txt -> "y"), D (add fooB.txt), E (delete fooB.txt).
func TestDiffMatchesCommitSequenceScenario(t *testing.T) {
	a := NewRoot()

	b := NewRoot()
	addFileContent(b, "fooA.txt", "x")

	c := NewRoot()
	addFileContent(c, "fooA.txt", "y")

	d := NewRoot()
	addFileContent(d, "fooA.txt", "y")
	addFileContent(d, "fooB.txt", "z")

	e := NewRoot()
	addFileContent(e, "fooA.txt", "y")

	require.Equal(t, []string{"fooA.txt"}, Diff(b, a).Added)
	require.Empty(t, Diff(b, a).Modified)
	require.Empty(t, Diff(b, a).Deleted)

	require.Equal(t, []string{"fooA.txt"}, Diff(c, b).Modified)
	require.Empty(t, Diff(c, b).Added)
	require.Empty(t, Diff(c, b).Deleted)

	require.Equal(t, []string{"fooB.txt"}, Diff(d, c).Added)
	require.Empty(t, Diff(d, c).Modified)
	require.Empty(t, Diff(d, c).Deleted)

	require.Equal(t, []string{"fooB.txt"}, Diff(e, d).Deleted)
	require.Empty(t, Diff(e, d).Added)
	require.Empty(t, Diff(e, d).Modified)

	require.Equal(t, []string{"fooA.txt", "fooB.txt"}, Diff(d, a).Added)
	require.Empty(t, Diff(d, a).Modified)
	require.Empty(t, Diff(d, a).Deleted)
}
