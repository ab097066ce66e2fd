// Package cli defines the bootstrapper command line.
package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/auroralabs/bootstrapper/internal/bootstrap"
	"github.com/auroralabs/bootstrapper/internal/fetch"
	"github.com/auroralabs/bootstrapper/internal/install"
	"github.com/auroralabs/bootstrapper/internal/logging"
	"github.com/auroralabs/bootstrapper/internal/platform"
)

// Version is the build version, overridden at link time.
var Version = "dev"

var (
	verbosity   int
	mode        string
	targetDir   string
	manifestURL string
	dryRun      bool
	noShortcut  bool
	minisignKey string
)

var rootCmd = &cobra.Command{
	Use:   "bootstrapper",
	Short: "Download, verify, and atomically install the aurora application",
	Long: `bootstrapper fetches the release manifest, downloads and
integrity-checks the release archive, and swaps it into the install
directory atomically, keeping one backup generation of any replaced
installation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(verbosity)
		log.Debug().Str("command", cmd.Name()).Msg("command started")
	},
	RunE: runInstall,
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase verbosity (-v DEBUG, -vv TRACE)")
	rootCmd.Flags().StringVar(&mode, "mode", string(install.ModeStandard), "install mode: standard or specific")
	rootCmd.Flags().StringVar(&targetDir, "target", "", "install directory (required with --mode specific)")
	rootCmd.Flags().StringVar(&manifestURL, "manifest-url", bootstrap.DefaultManifestURL, "release manifest URL")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "resolve the manifest and log intent without downloading or installing")
	rootCmd.Flags().BoolVar(&noShortcut, "no-shortcut", false, "skip shortcut creation after install")
	rootCmd.Flags().StringVar(&minisignKey, "minisign-key", "", "path to a minisign public key for archive signature verification")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "bootstrapper %s\n", Version)
	},
}

func runInstall(cmd *cobra.Command, args []string) error {
	cfg := bootstrap.Config{
		ManifestURL:     manifestURL,
		Mode:            install.Mode(mode),
		TargetDir:       targetDir,
		DryRun:          dryRun,
		NoShortcut:      noShortcut,
		MinisignKeyPath: minisignKey,
	}

	installer, err := bootstrap.New(cfg, fetch.NewClient(Version), platform.NewProber(), platform.NewShortcutCreator())
	if err != nil {
		return err
	}

	if err := installer.Run(); err != nil {
		return err
	}

	if dryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "dry run complete; would install to %s\n", installer.TargetDir())
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "install complete: %s\n", installer.TargetDir())
	return nil
}

// Execute runs the root command and returns a process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("installation failed")
		fmt.Fprintf(rootCmd.ErrOrStderr(), "install failed: %v\n", err)
		return 1
	}
	return 0
}
