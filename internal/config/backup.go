package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	// MaxBackups is the maximum number of config backups kept per file.
	MaxBackups = 3

	// BackupSuffix is the file extension appended before the timestamp.
	BackupSuffix = ".bak"
)

// BackupFile creates a timestamped backup of path next to it. Returns the
// backup path, or an empty string and nil error if path does not exist.
func BackupFile(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("config: stat %s: %w", path, err)
	}

	timestamp := time.Now().Format("20060102-150405.000000000")
	backupPath := fmt.Sprintf("%s%s.%s", path, BackupSuffix, timestamp)

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("config: reading %s for backup: %w", path, err)
	}
	if err := os.WriteFile(backupPath, data, 0o644); err != nil {
		return "", fmt.Errorf("config: writing backup %s: %w", backupPath, err)
	}

	// Best-effort: pruning old backups should never fail the backup itself.
	_ = cleanupOldBackups(path)

	return backupPath, nil
}

// ListBackups returns all backup files for path, sorted by modification
// time, newest first.
func ListBackups(path string) ([]string, error) {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: listing %s: %w", dir, err)
	}

	prefix := base + BackupSuffix + "."
	var backups []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasPrefix(entry.Name(), prefix) {
			backups = append(backups, filepath.Join(dir, entry.Name()))
		}
	}

	sort.Slice(backups, func(i, j int) bool {
		infoI, errI := os.Stat(backups[i])
		infoJ, errJ := os.Stat(backups[j])
		if errI != nil || errJ != nil {
			return false
		}
		return infoI.ModTime().After(infoJ.ModTime())
	})
	return backups, nil
}

// cleanupOldBackups removes backups of path beyond MaxBackups, keeping the
// newest.
func cleanupOldBackups(path string) error {
	backups, err := ListBackups(path)
	if err != nil {
		return err
	}
	if len(backups) <= MaxBackups {
		return nil
	}
	for _, stale := range backups[MaxBackups:] {
		_ = os.Remove(stale)
	}
	return nil
}

// RestoreFile restores path from backupPath, backing up the current file
// first if it exists.
func RestoreFile(path, backupPath string) error {
	if _, err := os.Stat(backupPath); err != nil {
		return fmt.Errorf("config: backup %s not found: %w", backupPath, err)
	}

	if _, err := os.Stat(path); err == nil {
		if _, err := BackupFile(path); err != nil {
			return fmt.Errorf("config: backing up current file before restore: %w", err)
		}
	}

	data, err := os.ReadFile(backupPath)
	if err != nil {
		return fmt.Errorf("config: reading backup %s: %w", backupPath, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: writing restored %s: %w", path, err)
	}
	return nil
}
