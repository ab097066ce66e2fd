//go:build !windows

package platform

import (
	"fmt"
	"os"
	"strings"
)

type hostShortcutCreator struct{}

// ShortcutName derives the shortcut file name for a launcher
// executable; on unix the symlink drops any .exe suffix.
func ShortcutName(launcher string) string {
	return strings.TrimSuffix(launcher, ".exe")
}

// Create makes shortcutPath a symlink to exePath, replacing a shortcut
// left by a previous install.
func (hostShortcutCreator) Create(exePath, shortcutPath string) error {
	if err := os.Remove(shortcutPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing shortcut %s: %w", shortcutPath, err)
	}
	if err := os.Symlink(exePath, shortcutPath); err != nil {
		return fmt.Errorf("create shortcut %s: %w", shortcutPath, err)
	}
	return nil
}
