//go:build windows

package platform

import (
	"fmt"

	"golang.org/x/sys/windows/registry"
)

type hostProber struct{}

// OSVersion reads the Windows version from the registry. Any probing
// failure degrades to UnknownVersion rather than an error.
func (hostProber) OSVersion() string {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE,
		`SOFTWARE\Microsoft\Windows NT\CurrentVersion`, registry.QUERY_VALUE)
	if err != nil {
		return UnknownVersion
	}
	defer k.Close()

	version, _, err := k.GetStringValue("CurrentVersion")
	if err != nil || version == "" {
		return UnknownVersion
	}
	if build, _, err := k.GetStringValue("CurrentBuild"); err == nil && build != "" {
		return fmt.Sprintf("%s (build %s)", version, build)
	}
	return version
}
