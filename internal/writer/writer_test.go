package writer

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveWithBackupRotatesExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	if err := os.WriteFile(path, []byte("old content"), 0644); err != nil {
		t.Fatalf("failed to seed file: %v", err)
	}

	backup, err := SaveWithBackup("new content", path)
	if err != nil {
		t.Fatalf("SaveWithBackup() error: %v", err)
	}

	if backup != path+BackupSuffix {
		t.Errorf("backup path = %q, want %q", backup, path+BackupSuffix)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if string(got) != "new content" {
		t.Errorf("output = %q, want %q", got, "new content")
	}

	old, err := os.ReadFile(backup)
	if err != nil {
		t.Fatalf("failed to read backup: %v", err)
	}
	if string(old) != "old content" {
		t.Errorf("backup = %q, want %q", old, "old content")
	}
}

func TestSaveWithBackupReplacesPriorBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	for _, content := range []string{"first", "second", "third"} {
		if _, err := SaveWithBackup(content, path); err != nil {
			t.Fatalf("SaveWithBackup(%q) error: %v", content, err)
		}
	}

	got, _ := os.ReadFile(path)
	if string(got) != "third" {
		t.Errorf("output = %q, want %q", got, "third")
	}
	old, err := os.ReadFile(path + BackupSuffix)
	if err != nil {
		t.Fatalf("failed to read backup: %v", err)
	}
	if string(old) != "second" {
		t.Errorf("backup = %q, want %q (only one rotation kept)", old, "second")
	}
}

func TestSaveWithBackupNoExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh.txt")

	backup, err := SaveWithBackup("text", path)
	if err != nil {
		t.Fatalf("SaveWithBackup() error: %v", err)
	}
	if backup != "" {
		t.Errorf("backup path = %q, want empty for a fresh file", backup)
	}
	if _, err := os.Stat(path + BackupSuffix); !os.IsNotExist(err) {
		t.Error("backup file created for a fresh save")
	}
}

func TestDefaultOutputPath(t *testing.T) {
	tests := []struct {
		audioPath string
		want      string
	}{
		{"lecture.mp3", "lecture_transcribed_fw.txt"},
		{"/data/audio/interview.wav", "interview_transcribed_fw.txt"},
		{"noext", "noext_transcribed_fw.txt"},
		{"archive.tar.gz", "archive.tar_transcribed_fw.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.audioPath, func(t *testing.T) {
			if got := DefaultOutputPath(tt.audioPath); got != tt.want {
				t.Errorf("DefaultOutputPath(%q) = %q, want %q", tt.audioPath, got, tt.want)
			}
		})
	}
}
