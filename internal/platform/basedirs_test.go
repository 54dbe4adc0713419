package platform

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewBaseDirs(t *testing.T) {
	dirs, err := NewBaseDirs()
	require.NoError(t, err)
	require.NotEmpty(t, dirs.Home)
	require.NotEmpty(t, dirs.Config)
	require.NotEmpty(t, dirs.Data)
}

func TestJoins(t *testing.T) {
	dirs := BaseDirs{Home: "/home/u", Config: "/home/u/.config"}
	require.Equal(t, filepath.Join("/home/u", ".zshrc"), dirs.HomeJoin(".zshrc"))
	require.Equal(t, filepath.Join("/home/u/.config", "upkeep", "upkeep.yaml"), dirs.ConfigJoin("upkeep", "upkeep.yaml"))
}
