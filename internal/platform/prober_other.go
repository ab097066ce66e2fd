//go:build !windows

package platform

import (
	"bufio"
	"os"
	"strings"
)

const osReleasePath = "/etc/os-release"

type hostProber struct{}

// OSVersion reports the host distribution from /etc/os-release. Any
// probing failure degrades to UnknownVersion rather than an error.
func (hostProber) OSVersion() string {
	f, err := os.Open(osReleasePath)
	if err != nil {
		return UnknownVersion
	}
	defer f.Close()
	return parseOSRelease(f)
}

func parseOSRelease(f *os.File) string {
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		value, ok := strings.CutPrefix(line, "PRETTY_NAME=")
		if !ok {
			continue
		}
		value = strings.Trim(value, `"`)
		if value != "" {
			return value
		}
	}
	return UnknownVersion
}
