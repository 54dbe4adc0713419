package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// BaseDirs bundles the directory roots steps resolve paths against. It is
// populated once at startup; failing to determine the home directory is fatal
// to the whole run.
type BaseDirs struct {
	Home   string
	Config string
	Data   string
}

// NewBaseDirs resolves the user's home plus the XDG config and data homes.
func NewBaseDirs() (BaseDirs, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return BaseDirs{}, fmt.Errorf("cannot determine home directory: %w", err)
	}

	return BaseDirs{
		Home:   home,
		Config: xdg.ConfigHome,
		Data:   xdg.DataHome,
	}, nil
}

// HomeJoin joins elem onto the home directory.
func (b BaseDirs) HomeJoin(elem ...string) string {
	return filepath.Join(append([]string{b.Home}, elem...)...)
}

// ConfigJoin joins elem onto the config directory.
func (b BaseDirs) ConfigJoin(elem ...string) string {
	return filepath.Join(append([]string{b.Config}, elem...)...)
}
