// Package logging configures the process-wide zerolog logger.
//
// Output goes to the console and, when it can be created, to a per-run
// timestamped log file under the OS state directory, so a failed install
// always leaves a record the operator can inspect afterwards.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const appDirName = "aurora"

// Setup configures the global logger based on verbosity level and wires
// dual output to console and the per-run log file.
func Setup(verbosity int) {
	switch verbosity {
	case 0:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case 1:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
	}

	writers := []io.Writer{consoleWriter}

	logFile := RunLogPath(time.Now())
	handle, err := openLogFile(logFile)
	if err == nil {
		writers = append(writers, handle)
	}

	log.Logger = zerolog.New(io.MultiWriter(writers...)).With().Timestamp().Logger()

	if err != nil {
		log.Warn().Err(err).Str("path", logFile).Msg("could not create log file, logging to console only")
	}
	log.Debug().Int("verbosity", verbosity).Str("logFile", logFile).Msg("logger initialized")
}

// GetLogger returns a logger scoped to the named component.
func GetLogger(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// RunLogPath returns the log file path for a run started at ts, one file
// per run under the state directory.
func RunLogPath(ts time.Time) string {
	return filepath.Join(xdg.StateHome, appDirName, "logs",
		fmt.Sprintf("bootstrapper_%s.log", ts.Format("20060102_150405")))
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644) // #nosec G304 -- path derived from state dir
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
