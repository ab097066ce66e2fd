// Package hostenv answers best-effort questions about the host
// filesystem environment. Its checks are advisory: callers log findings
// and continue.
package hostenv

import (
	"path/filepath"
	"strings"
)

type mountEntry struct {
	mountPoint string
	options    map[string]struct{}
}

func parseProcMounts(content string) []mountEntry {
	var out []mountEntry
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		out = append(out, mountEntry{
			mountPoint: unescapeMountPath(fields[1]),
			options:    parseMountOptions(fields[3]),
		})
	}
	return out
}

func parseMountOptions(opt string) map[string]struct{} {
	m := make(map[string]struct{})
	for _, part := range strings.Split(opt, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		m[part] = struct{}{}
	}
	return m
}

func unescapeMountPath(value string) string {
	// Procfs encodes spaces and a few special characters with octal escapes.
	repl := strings.NewReplacer(
		"\\040", " ",
		"\\011", "\t",
		"\\012", "\n",
		"\\134", "\\",
	)
	return repl.Replace(value)
}

// detectNoExec reports whether the longest-prefix mount covering
// destPath carries the noexec option.
func detectNoExec(destPath string, mounts []mountEntry) bool {
	dest := filepath.ToSlash(filepath.Clean(destPath))
	if dest == "." || dest == "" {
		return false
	}

	bestLen := -1
	bestNoExec := false

	for _, m := range mounts {
		mountPoint := filepath.ToSlash(filepath.Clean(m.mountPoint))
		if mountPoint == "." || mountPoint == "" {
			continue
		}
		if !pathHasPrefix(dest, mountPoint) {
			continue
		}
		if len(mountPoint) > bestLen {
			bestLen = len(mountPoint)
			_, bestNoExec = m.options["noexec"]
		}
	}

	return bestNoExec
}

func pathHasPrefix(path, prefix string) bool {
	if prefix == "/" {
		return strings.HasPrefix(path, "/")
	}
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}
