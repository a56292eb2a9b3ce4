package odb

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppendLogWritesOneLinePerCall(t *testing.T) {
	dir := t.TempDir()
	db, err := Init(dir)
	require.NoError(t, err)

	require.NoError(t, db.AppendLog("commit", "initial import"))
	require.NoError(t, db.AppendLog("commit", "add textures"))

	data, err := os.ReadFile(filepath.Join(dir, fileMainlog))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "initial import")
	require.Contains(t, lines[1], "add textures")
}
