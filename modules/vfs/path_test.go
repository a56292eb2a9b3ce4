package vfs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeConvertsBackslashes(t *testing.T) {
	require.Equal(t, "assets/textures/rock.png", Normalize(`assets\textures\rock.png`))
}

func TestNormalizeCollapsesDotDot(t *testing.T) {
	require.Equal(t, "assets/rock.png", Normalize("assets/tmp/../rock.png"))
}

func TestNormalizeDotBecomesEmpty(t *testing.T) {
	require.Equal(t, "", Normalize("."))
	require.Equal(t, "", Normalize("./"))
}

func TestNormalizeStripsLeadingSlash(t *testing.T) {
	require.Equal(t, "assets/rock.png", Normalize("/assets/rock.png"))
}

func TestValidRelativePathRejectsEmpty(t *testing.T) {
	require.False(t, ValidRelativePath(""))
}

func TestValidRelativePathRejectsIllegalChars(t *testing.T) {
	require.False(t, ValidRelativePath("scene:blend"))
	require.False(t, ValidRelativePath("what?.psd"))
}

func TestValidRelativePathRejectsDotDotSegment(t *testing.T) {
	require.False(t, ValidRelativePath("../outside"))
	require.False(t, ValidRelativePath("assets/../../outside"))
}

func TestValidRelativePathAcceptsOrdinaryPath(t *testing.T) {
	require.True(t, ValidRelativePath("assets/textures/rock.png"))
}
