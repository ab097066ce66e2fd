package manifest

import "github.com/auroralabs/bootstrapper/internal/logging"

// VersionProber reports the host OS version, best-effort. Probing must
// not fail; implementations return "Unknown" when detection is
// unreliable.
type VersionProber interface {
	OSVersion() string
}

// CheckPrerequisites evaluates the manifest's advisory conditions and
// logs the findings. It never blocks the install: detection of the
// current environment may itself be unreliable, so a mismatch is
// informational only.
func CheckPrerequisites(m *Manifest, prober VersionProber) {
	logger := logging.GetLogger("manifest")

	if min := m.Prerequisites.WindowsVersionMin; min != "" {
		current := prober.OSVersion()
		logger.Info().
			Str("required", min).
			Str("current", current).
			Msg("OS version requirement")
	}

	if rd := m.Prerequisites.VCRedist; rd != nil && rd.Required {
		logger.Info().Str("url", rd.URL).Msg("redistributable may be required")
	}

	if m.LicenseCheckURL != "" {
		logger.Debug().Str("url", m.LicenseCheckURL).Msg("license check URL present (not enforced)")
	}
}
