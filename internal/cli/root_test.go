package cli

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auroralabs/bootstrapper/internal/bootstrap"
	"github.com/auroralabs/bootstrapper/internal/install"
)

// execute runs the root command with args and captures stdout. Flag
// variables persist between Execute calls, so they are reset to their
// registered defaults first.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	verbosity = 0
	mode = string(install.ModeStandard)
	targetDir = ""
	manifestURL = bootstrap.DefaultManifestURL
	dryRun = false
	noShortcut = false
	minisignKey = ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "bootstrapper dev\n", out)
}

func TestDryRunAgainstManifestServer(t *testing.T) {
	digest := sha256.Sum256([]byte("unfetched"))
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{
			"version": "2.0.0",
			"release_zip_url": "http://127.0.0.1:1/release.zip",
			"sha256": %q,
			"files": [{"name": "app.exe"}]
		}`, hex.EncodeToString(digest[:]))
	}))
	defer ts.Close()

	target := t.TempDir() + "/app"
	out, err := execute(t,
		"--manifest-url", ts.URL,
		"--mode", "specific",
		"--target", target,
		"--dry-run",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "dry run complete; would install to "+target)
	assert.NoDirExists(t, target)
}

func TestSpecificModeRequiresTarget(t *testing.T) {
	_, err := execute(t, "--mode", "specific", "--dry-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target directory")
}

func TestUnknownModeRejected(t *testing.T) {
	_, err := execute(t, "--mode", "portable", "--dry-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "portable")
}
