//go:build windows

package platform

import (
	"bytes"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

const maxCommandError = 512

type hostShortcutCreator struct{}

// ShortcutName derives the shortcut file name for a launcher
// executable: aurora.exe becomes aurora.lnk.
func ShortcutName(launcher string) string {
	return strings.TrimSuffix(launcher, ".exe") + ".lnk"
}

// Create writes a .lnk shortcut via the WScript.Shell COM object,
// driven through PowerShell so no COM bindings are needed in-process.
func (hostShortcutCreator) Create(exePath, shortcutPath string) error {
	script := fmt.Sprintf(
		`$s = (New-Object -ComObject WScript.Shell).CreateShortcut(%s); $s.TargetPath = %s; $s.WorkingDirectory = %s; $s.Save()`,
		psQuote(shortcutPath), psQuote(exePath), psQuote(filepath.Dir(exePath)))
	return runCommand("powershell", "-NoProfile", "-NonInteractive", "-Command", script)
}

func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func runCommand(bin string, args ...string) error {
	cmd := exec.Command(bin, args...)
	var combined bytes.Buffer
	cmd.Stdout = &combined
	cmd.Stderr = &combined
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %s", bin, trimCommandOutput(combined.String()))
	}
	return nil
}

func trimCommandOutput(out string) string {
	clean := strings.TrimSpace(out)
	if clean == "" {
		return "command failed"
	}
	if len(clean) > maxCommandError {
		return clean[:maxCommandError] + "..."
	}
	return clean
}
