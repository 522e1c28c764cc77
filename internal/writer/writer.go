// Package writer persists transcription results, keeping one rotated
// backup of whatever the output path held before.
package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// BackupSuffix is appended to the previous file when rotating.
const BackupSuffix = ".backup"

// SaveWithBackup writes text to path as UTF-8. If a file already exists
// there it is renamed to path+BackupSuffix first, replacing any prior
// backup. It returns the backup path when a rotation happened.
func SaveWithBackup(text, path string) (string, error) {
	backupPath := ""
	if _, err := os.Stat(path); err == nil {
		backupPath = path + BackupSuffix
		if err := os.Rename(path, backupPath); err != nil {
			return "", fmt.Errorf("failed to create backup: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return backupPath, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return backupPath, nil
}

// DefaultOutputPath derives the output file name from the input audio
// path: the input base name with a _transcribed_fw.txt suffix, in the
// current directory.
func DefaultOutputPath(audioPath string) string {
	base := filepath.Base(audioPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + "_transcribed_fw.txt"
}
