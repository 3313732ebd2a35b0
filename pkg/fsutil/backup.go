package fsutil

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// BackupMode specifies how backups are stored.
type BackupMode string

const (
	// BackupModeSidecar stores the backup next to the file with BackupSuffix.
	BackupModeSidecar BackupMode = "sidecar"

	// BackupModeNone disables backups.
	BackupModeNone BackupMode = "none"
)

// BackupSuffix is appended to the file name of sidecar backups.
const BackupSuffix = ".gotypfmt.bak"

// BackupConfig controls backup behavior.
type BackupConfig struct {
	Enabled bool
	Mode    BackupMode
}

// BackupPath returns where the backup of path is stored, or "" when the mode
// keeps no backups.
func BackupPath(path string, mode BackupMode) string {
	if mode == BackupModeNone {
		return ""
	}
	return path + BackupSuffix
}

// CreateBackup stores original as the backup of the file described by snap.
// An existing backup is never overwritten, so repeated runs keep the oldest
// content. It returns the backup path, or "" when nothing was written.
func CreateBackup(ctx context.Context, snap *Snapshot, original []byte, cfg BackupConfig) (string, error) {
	if !cfg.Enabled || snap == nil {
		return "", nil
	}
	backupPath := BackupPath(snap.Path, cfg.Mode)
	if backupPath == "" {
		return "", nil
	}

	_, err := os.Stat(backupPath)
	switch {
	case err == nil:
		return "", nil
	case !errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("stat backup path: %w", err)
	}

	if err := WriteAtomic(ctx, backupPath, original, snap.Mode); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return backupPath, nil
}
