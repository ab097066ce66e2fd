//go:build linux

package hostenv

import "os"

// IsNoExecMount reports whether installing to destPath would place the
// launcher on a noexec filesystem. Best effort only: if anything looks
// odd, return false.
func IsNoExecMount(destPath string) bool {
	if destPath == "" {
		return false
	}

	data, err := os.ReadFile("/proc/mounts") // #nosec G304 -- fixed procfs path
	if err != nil {
		return false
	}
	mounts := parseProcMounts(string(data))
	if len(mounts) == 0 {
		return false
	}
	return detectNoExec(destPath, mounts)
}
