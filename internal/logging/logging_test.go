package logging

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestRunLogPath(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	path := RunLogPath(ts)

	assert.True(t, filepath.IsAbs(path))
	assert.Equal(t, "bootstrapper_20260314_092653.log", filepath.Base(path))
	assert.Contains(t, path, filepath.Join("aurora", "logs"))
}

func TestSetupVerbosityLevels(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zerolog.Level
	}{
		{verbosity: 0, want: zerolog.InfoLevel},
		{verbosity: 1, want: zerolog.DebugLevel},
		{verbosity: 2, want: zerolog.TraceLevel},
		{verbosity: 5, want: zerolog.TraceLevel},
	}

	for _, tc := range tests {
		Setup(tc.verbosity)
		assert.Equal(t, tc.want, zerolog.GlobalLevel(), "verbosity %d", tc.verbosity)
	}
}

func TestGetLoggerTagsComponent(t *testing.T) {
	logger := GetLogger("verify")
	// Smoke check: the scoped logger is usable without Setup having run.
	logger.Debug().Msg("scoped logger")
}
