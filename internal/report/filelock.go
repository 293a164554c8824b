package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const (
	lockFileSuffixConstant        = ".lock"
	temporaryFilePatternConstant  = ".tmp-report-*"
	reportFilePermissionsConstant = 0o644
)

// lockAndWrite holds <path>.lock while replacing path with data.
func lockAndWrite(path string, data []byte) error {
	lockPath := path + lockFileSuffixConstant
	fileLock := flock.New(lockPath)
	if lockError := fileLock.Lock(); lockError != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", lockPath, lockError)
	}
	defer func() {
		_ = fileLock.Unlock()
		_ = os.Remove(lockPath)
	}()

	return atomicWrite(path, data)
}

// atomicWrite writes through a temporary sibling file so readers never observe a partial report.
func atomicWrite(path string, data []byte) error {
	directory := filepath.Dir(path)
	temporaryFile, createError := os.CreateTemp(directory, temporaryFilePatternConstant)
	if createError != nil {
		return fmt.Errorf("failed to create temp file: %w", createError)
	}
	temporaryPath := temporaryFile.Name()

	committed := false
	defer func() {
		if !committed {
			_ = temporaryFile.Close()
			_ = os.Remove(temporaryPath)
		}
	}()

	if _, writeError := temporaryFile.Write(data); writeError != nil {
		return fmt.Errorf("failed to write to temp file: %w", writeError)
	}
	if syncError := temporaryFile.Sync(); syncError != nil {
		return fmt.Errorf("failed to sync temp file: %w", syncError)
	}
	if closeError := temporaryFile.Close(); closeError != nil {
		_ = os.Remove(temporaryPath)
		committed = true
		return fmt.Errorf("failed to close temp file: %w", closeError)
	}
	if chmodError := os.Chmod(temporaryPath, reportFilePermissionsConstant); chmodError != nil {
		return fmt.Errorf("failed to set permissions: %w", chmodError)
	}
	if renameError := os.Rename(temporaryPath, path); renameError != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, renameError)
	}

	committed = true
	return nil
}
