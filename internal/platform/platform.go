// Package platform isolates OS-integration conveniences behind
// capability interfaces. The install pipeline depends only on these
// interfaces; the concrete mechanism is selected per platform at build
// time.
package platform

// UnknownVersion is returned when the OS version cannot be determined.
// Probing is best-effort and never fails the caller.
const UnknownVersion = "Unknown"

// Prober reports facts about the host environment.
type Prober interface {
	// OSVersion returns the host OS version string, or UnknownVersion.
	OSVersion() string
}

// ShortcutCreator creates a launcher shortcut pointing at an installed
// executable.
type ShortcutCreator interface {
	Create(exePath, shortcutPath string) error
}

// NewProber returns the prober for the build platform.
func NewProber() Prober { return hostProber{} }

// NewShortcutCreator returns the shortcut creator for the build
// platform.
func NewShortcutCreator() ShortcutCreator { return hostShortcutCreator{} }
