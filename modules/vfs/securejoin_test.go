package vfs

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSecureJoinStaysWithinRoot(t *testing.T) {
	root := t.TempDir()
	got, err := SecureJoin(root, "assets/rock.png")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "assets", "rock.png"), got)
}

func TestSecureJoinClampsDotDotEscape(t *testing.T) {
	root := t.TempDir()
	got, err := SecureJoin(root, "../../etc/passwd")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(got, root))
}
