// Package bootstrap sequences the install pipeline: manifest
// resolution, prerequisite checks, artifact download, integrity
// verification, extraction, required-file verification, and the atomic
// commit. Any stage failure aborts the run before the commit step; only
// a fully verified, fully extracted candidate reaches the installer.
package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"

	"github.com/auroralabs/bootstrapper/internal/archive"
	"github.com/auroralabs/bootstrapper/internal/hostenv"
	"github.com/auroralabs/bootstrapper/internal/install"
	"github.com/auroralabs/bootstrapper/internal/logging"
	"github.com/auroralabs/bootstrapper/internal/manifest"
	"github.com/auroralabs/bootstrapper/internal/platform"
	"github.com/auroralabs/bootstrapper/internal/verify"
)

// DefaultManifestURL is the compiled-in manifest endpoint. It survives
// only as a default; the orchestrator always takes the URL from its
// Config.
const DefaultManifestURL = "https://releases.auroralabs.dev/aurora/installer.json"

// DefaultLauncherName is the well-known executable the shortcut points
// at after a successful install.
const DefaultLauncherName = "aurora.exe"

// ConfigError reports a bad mode/argument combination. It is detected
// before any network or filesystem I/O.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", e.Reason)
}

// MissingFileError reports the first manifest-required file absent from
// the extracted archive.
type MissingFileError struct {
	Name string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("required file not found in archive: %s", e.Name)
}

// Fetcher is the transport dependency of the pipeline.
type Fetcher interface {
	Bytes(url string) ([]byte, error)
	ToFile(url, path string) (int64, error)
}

// Config carries one run's settings. Zero values fall back to defaults
// where a default exists; Mode defaults to ModeStandard.
type Config struct {
	ManifestURL     string
	Mode            install.Mode
	TargetDir       string
	DryRun          bool
	NoShortcut      bool
	MinisignKeyPath string
	LauncherName    string
}

// Installer orchestrates one install run. A single run owns its scratch
// workspace exclusively; running two installers concurrently against
// the same target directory is unsupported.
type Installer struct {
	cfg       Config
	targetDir string
	fetcher   Fetcher
	prober    platform.Prober
	shortcuts platform.ShortcutCreator
	logger    zerolog.Logger
}

// New validates cfg and resolves the install target. A specific-mode
// configuration without a target path is rejected here, before any
// network activity.
func New(cfg Config, fetcher Fetcher, prober platform.Prober, shortcuts platform.ShortcutCreator) (*Installer, error) {
	if cfg.ManifestURL == "" {
		cfg.ManifestURL = DefaultManifestURL
	}
	if cfg.LauncherName == "" {
		cfg.LauncherName = DefaultLauncherName
	}
	if cfg.Mode == "" {
		cfg.Mode = install.ModeStandard
	}

	var targetDir string
	switch cfg.Mode {
	case install.ModeStandard:
		targetDir = install.StandardTarget()
	case install.ModeSpecific:
		if cfg.TargetDir == "" {
			return nil, &ConfigError{Reason: "specific mode requires a target directory"}
		}
		targetDir = cfg.TargetDir
	default:
		return nil, &ConfigError{Reason: fmt.Sprintf("unknown install mode %q", cfg.Mode)}
	}

	return &Installer{
		cfg:       cfg,
		targetDir: targetDir,
		fetcher:   fetcher,
		prober:    prober,
		shortcuts: shortcuts,
		logger:    logging.GetLogger("bootstrap"),
	}, nil
}

// TargetDir returns the resolved install directory.
func (b *Installer) TargetDir() string { return b.targetDir }

// Run executes the pipeline. Every stage fails fast; errors abort the
// remaining stages and propagate typed to the caller.
func (b *Installer) Run() error {
	b.logger.Info().Str("manifestURL", b.cfg.ManifestURL).Msg("starting installation")

	m, err := manifest.Resolve(b.fetcher, b.cfg.ManifestURL)
	if err != nil {
		return err
	}
	manifest.CheckPrerequisites(m, b.prober)
	if hostenv.IsNoExecMount(b.targetDir) {
		b.logger.Warn().Str("target", b.targetDir).Msg("install target is on a noexec mount; the launcher may not run")
	}

	if b.cfg.DryRun {
		b.logger.Info().
			Str("source", m.ReleaseZipURL).
			Str("target", b.targetDir).
			Msg("dry run: no download or filesystem changes")
		return nil
	}

	scratch, err := os.MkdirTemp("", "aurora-install-")
	if err != nil {
		return fmt.Errorf("create scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	zipPath := filepath.Join(scratch, "release.zip")
	if _, err := b.fetcher.ToFile(m.ReleaseZipURL, zipPath); err != nil {
		return err
	}

	ok, actual, err := verify.Matches(zipPath, m.SHA256)
	if err != nil {
		return err
	}
	if !ok {
		return &verify.IntegrityError{Path: zipPath, Expected: m.SHA256, Actual: actual}
	}
	b.logger.Info().Str("sha256", actual).Msg("archive digest verified")

	if err := b.checkSignature(m, scratch, zipPath); err != nil {
		return err
	}

	extractDir := filepath.Join(scratch, "extracted")
	if err := os.MkdirAll(extractDir, 0o755); err != nil {
		return fmt.Errorf("create extraction directory: %w", err)
	}
	if err := archive.ExtractZip(zipPath, extractDir); err != nil {
		return err
	}

	if err := verifyRequiredFiles(extractDir, m); err != nil {
		return err
	}
	b.logger.Info().Int("files", len(m.Files)).Msg("all required files present")

	installer := install.New(b.targetDir)
	if err := installer.Commit(extractDir); err != nil {
		return err
	}

	if !b.cfg.NoShortcut {
		b.createShortcut()
	}

	b.logger.Info().Str("version", m.Version).Str("target", b.targetDir).Msg("installation completed")
	return nil
}

// checkSignature verifies the release archive against the manifest's
// minisign signature when both the signature URL and an operator key
// are present. A signature without a key (or a key without a
// signature) is logged and skipped.
func (b *Installer) checkSignature(m *manifest.Manifest, scratch, zipPath string) error {
	switch {
	case m.SignatureURL != "" && b.cfg.MinisignKeyPath != "":
		sigPath := filepath.Join(scratch, "release.zip.minisig")
		if _, err := b.fetcher.ToFile(m.SignatureURL, sigPath); err != nil {
			return err
		}
		content, err := os.ReadFile(zipPath) // #nosec G304 -- zipPath scratch controlled
		if err != nil {
			return fmt.Errorf("read archive for signature check: %w", err)
		}
		if err := verify.VerifyMinisign(content, sigPath, b.cfg.MinisignKeyPath); err != nil {
			return err
		}
		b.logger.Info().Msg("archive signature verified")
	case m.SignatureURL != "":
		b.logger.Warn().Str("url", m.SignatureURL).Msg("release publishes a signature but no minisign key was supplied; skipping")
	case b.cfg.MinisignKeyPath != "":
		b.logger.Warn().Msg("minisign key supplied but manifest publishes no signature; skipping")
	}
	return nil
}

// verifyRequiredFiles checks every manifest-listed file exists under
// extractDir, failing fast on the first missing entry so error messages
// are deterministic.
func verifyRequiredFiles(extractDir string, m *manifest.Manifest) error {
	for _, entry := range m.Files {
		path := filepath.Join(extractDir, filepath.FromSlash(entry.Name))
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return &MissingFileError{Name: entry.Name}
			}
			return fmt.Errorf("check required file %s: %w", entry.Name, err)
		}
	}
	return nil
}

// createShortcut points a shortcut at the well-known launcher inside
// the installed directory: on the user desktop for standard installs,
// inside the install directory for specific ones. The install has
// already succeeded, so every failure here degrades to a warning.
func (b *Installer) createShortcut() {
	exePath := filepath.Join(b.targetDir, b.cfg.LauncherName)
	if _, err := os.Stat(exePath); err != nil {
		b.logger.Warn().Str("launcher", b.cfg.LauncherName).Msg("launcher not found, skipping shortcut creation")
		return
	}

	var shortcutDir string
	if b.cfg.Mode == install.ModeStandard {
		shortcutDir = xdg.UserDirs.Desktop
		if shortcutDir == "" {
			b.logger.Warn().Msg("no desktop directory, skipping shortcut creation")
			return
		}
	} else {
		shortcutDir = b.targetDir
	}

	shortcutPath := filepath.Join(shortcutDir, platform.ShortcutName(b.cfg.LauncherName))
	if err := b.shortcuts.Create(exePath, shortcutPath); err != nil {
		b.logger.Warn().Err(err).Str("shortcut", shortcutPath).Msg("shortcut creation failed")
		return
	}
	b.logger.Info().Str("shortcut", shortcutPath).Msg("shortcut created")
}
