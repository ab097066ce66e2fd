//go:build !linux

package hostenv

// IsNoExecMount always reports false on platforms without procfs mount
// tables.
func IsNoExecMount(string) bool { return false }
