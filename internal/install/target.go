package install

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Mode selects how the install target directory is resolved.
type Mode string

const (
	// ModeStandard installs to the OS-convention application-data path.
	ModeStandard Mode = "standard"
	// ModeSpecific installs to a caller-supplied directory.
	ModeSpecific Mode = "specific"
)

const (
	appDirName    = "aurora"
	installSubdir = "app"
)

// StandardTarget returns the fixed OS-convention install directory used
// by ModeStandard.
func StandardTarget() string {
	return filepath.Join(xdg.DataHome, appDirName, installSubdir)
}
