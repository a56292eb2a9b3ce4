package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchBasenamePattern(t *testing.T) {
	m := New([]string{"*.tmp"})
	require.True(t, m.Match("scratch.tmp", false))
	require.True(t, m.Match("nested/dir/scratch.tmp", false))
	require.False(t, m.Match("scratch.blend", false))
}

func TestMatchDirectoryPattern(t *testing.T) {
	m := New([]string{".git"})
	require.True(t, m.Match(".git", true))
}

func TestNegationReincludes(t *testing.T) {
	m := New([]string{"*.bkp", "!keep.bkp"})
	require.True(t, m.Match("scene.bkp", false))
	require.False(t, m.Match("keep.bkp", false))
}

func TestLaterRuleOverridesEarlier(t *testing.T) {
	m := New([]string{"!important.tmp", "*.tmp"})
	require.True(t, m.Match("important.tmp", false))
}

func TestEmptyAndBangOnlyPatternsIgnored(t *testing.T) {
	m := New([]string{"", "!"})
	require.Empty(t, m.rules)
}

func TestIgnoredListFiltersPaths(t *testing.T) {
	m := New([]string{"*.tmp"})
	paths := []string{"a.tmp", "b.blend", "c.tmp"}
	dirOf := func(string) bool { return false }
	require.Equal(t, []string{"a.tmp", "c.tmp"}, m.IgnoredList(paths, dirOf))
}

func TestLoadFileStripsCommentsAndBlankLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".snowignore")
	content := "*.tmp // scratch files\n\n/* block\ncomment */\n*.bkp\n   \n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	patterns, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, []string{"*.tmp", "*.bkp"}, patterns)
}

func TestLoadFileMissingIsNotError(t *testing.T) {
	patterns, err := LoadFile(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	require.Nil(t, patterns)
}

func TestLoadWorktreeIncludesDefaultsAndExtras(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".snowignore"), []byte("*.psd_lock\n"), 0o644))

	m, err := LoadWorktree(dir)
	require.NoError(t, err)
	require.True(t, m.Match(".DS_Store", false))
	require.True(t, m.Match("scene.psd_lock", false))
	require.False(t, m.Match("scene.blend", false))
}

func TestLoadWorktreeWithoutIgnoreFileUsesDefaultsOnly(t *testing.T) {
	dir := t.TempDir()
	m, err := LoadWorktree(dir)
	require.NoError(t, err)
	require.True(t, m.Match("Thumbs.db", false))
	require.False(t, m.Match("scene.blend", false))
}
