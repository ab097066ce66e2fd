// Package install commits a fully-verified extraction into the live
// install directory. The commit is observably all-or-nothing: the
// target is either the complete old installation or the complete new
// one, backed by a single retained backup generation.
package install

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/auroralabs/bootstrapper/internal/logging"
)

// BackupSuffix is appended to the target path to derive the backup
// location. One backup generation is retained; it is replaced on the
// next commit that backs up an existing target.
const BackupSuffix = ".backup"

// State tracks the commit state machine.
type State string

const (
	StateNoExistingTarget State = "no-existing-target"
	StateExistingTarget   State = "existing-target"
	StateBackedUp         State = "backed-up"
	StateCommitted        State = "committed"
	StateRolledBack       State = "rolled-back"
	StateFailed           State = "failed"
)

// Phase identifies which commit step failed.
type Phase string

const (
	PhaseBackup  Phase = "backup"
	PhasePrepare Phase = "prepare"
	PhaseRename  Phase = "rename"
	PhaseCopy    Phase = "copy"
	PhaseRestore Phase = "restore"
)

// InstallError reports a failed commit step with enough context to
// identify the phase and path involved. It is fatal to the run; the
// installer never retries.
type InstallError struct {
	Phase Phase
	Path  string
	Err   error
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("install %s failed for %s: %v", e.Phase, e.Path, e.Err)
}

func (e *InstallError) Unwrap() error { return e.Err }

// Installer performs the atomic swap-with-backup for one target
// directory. At most one installer process may operate on a target at a
// time; concurrent commits against the same target are unsupported.
type Installer struct {
	targetDir string
	backupDir string
	state     State
	logger    zerolog.Logger
}

// New returns an Installer for targetDir. The backup path is derived
// deterministically from the target.
func New(targetDir string) *Installer {
	return &Installer{
		targetDir: targetDir,
		backupDir: targetDir + BackupSuffix,
		logger:    logging.GetLogger("install"),
	}
}

// TargetDir returns the live install path.
func (in *Installer) TargetDir() string { return in.targetDir }

// BackupDir returns the derived backup path.
func (in *Installer) BackupDir() string { return in.backupDir }

// State returns the current commit state.
func (in *Installer) State() State { return in.state }

// Commit moves sourceDir (a fully-verified extraction) into the target
// path. An existing target is first renamed to the backup path; on any
// later failure the backup is renamed back so the target is never left
// absent. On success the backup is intentionally retained for manual
// recovery and is only deleted by the next commit that supersedes it.
func (in *Installer) Commit(sourceDir string) error {
	in.logger.Info().Str("target", in.targetDir).Str("source", sourceDir).Msg("committing installation")

	exists, err := dirExists(in.targetDir)
	if err != nil {
		in.state = StateFailed
		return &InstallError{Phase: PhasePrepare, Path: in.targetDir, Err: err}
	}
	if exists {
		in.state = StateExistingTarget
		if err := in.backup(); err != nil {
			in.state = StateFailed
			return err
		}
		in.state = StateBackedUp
	} else {
		in.state = StateNoExistingTarget
	}

	if err := os.MkdirAll(filepath.Dir(in.targetDir), 0o755); err != nil {
		return in.fail(&InstallError{Phase: PhasePrepare, Path: filepath.Dir(in.targetDir), Err: err})
	}

	// Preferred path: a single rename, atomic on the same volume.
	if err := os.Rename(sourceDir, in.targetDir); err != nil {
		in.logger.Debug().Err(err).Msg("rename failed, falling back to staged copy")
		if err := in.stagedCopy(sourceDir); err != nil {
			return in.fail(err)
		}
	}

	in.state = StateCommitted
	in.logger.Info().Str("target", in.targetDir).Msg("installation committed")
	return nil
}

// backup clears any stale backup from a prior run and renames the
// current target aside. Rename is the only step that leaves the target
// path temporarily absent.
func (in *Installer) backup() error {
	if _, err := os.Stat(in.backupDir); err == nil {
		in.logger.Info().Str("backup", in.backupDir).Msg("removing stale backup")
		if err := os.RemoveAll(in.backupDir); err != nil {
			return &InstallError{Phase: PhaseBackup, Path: in.backupDir, Err: err}
		}
	}
	in.logger.Info().Str("target", in.targetDir).Str("backup", in.backupDir).Msg("backing up existing installation")
	if err := os.Rename(in.targetDir, in.backupDir); err != nil {
		return &InstallError{Phase: PhaseBackup, Path: in.targetDir, Err: err}
	}
	return nil
}

// stagedCopy handles cross-volume sources: copy the tree into a
// temporary sibling of the target, then rename that sibling into place
// so the final step is still a single rename on the target's volume.
func (in *Installer) stagedCopy(sourceDir string) error {
	stage, err := os.MkdirTemp(filepath.Dir(in.targetDir), filepath.Base(in.targetDir)+".stage-")
	if err != nil {
		return &InstallError{Phase: PhaseCopy, Path: in.targetDir, Err: err}
	}
	if err := copyTree(sourceDir, stage); err != nil {
		os.RemoveAll(stage)
		return &InstallError{Phase: PhaseCopy, Path: stage, Err: err}
	}
	if err := os.Rename(stage, in.targetDir); err != nil {
		os.RemoveAll(stage)
		return &InstallError{Phase: PhaseRename, Path: in.targetDir, Err: err}
	}
	return nil
}

// fail restores the backup into the target path when one was taken, so
// a failed commit never leaves the target observably missing.
func (in *Installer) fail(cause error) error {
	if in.state != StateBackedUp {
		in.state = StateFailed
		return cause
	}
	in.logger.Warn().Err(cause).Str("backup", in.backupDir).Msg("commit failed, restoring backup")
	if err := os.Rename(in.backupDir, in.targetDir); err != nil {
		in.state = StateFailed
		return &InstallError{Phase: PhaseRestore, Path: in.backupDir, Err: err}
	}
	in.state = StateRolledBack
	return cause
}

func dirExists(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// copyTree recursively copies every file and directory from src into
// dst, preserving the relative layout and file modes.
func copyTree(src, dst string) error {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return err
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())
		if entry.IsDir() {
			if err := copyTree(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(srcPath, dstPath); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	in, err := os.Open(src) // #nosec G304 -- src scratch controlled
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm()) // #nosec G304
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
