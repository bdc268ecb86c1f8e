// Package writer provides the atomic file-write primitive used by
// File.Save (spec §4.9): a CIF file is never left half-written if the
// process dies mid-write.
package writer

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileWriter writes a finished CIF document to a filesystem path
// atomically, via temp-file-then-rename in the same directory.
type FileWriter struct {
	Path string
}

// WriteCIF writes buf to the configured path atomically.
func (w *FileWriter) WriteCIF(buf []byte) error {
	dir := filepath.Dir(w.Path)
	tmpFile, err := os.CreateTemp(dir, ".cifkit-tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(buf); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	tmpFile = nil

	if err := os.Rename(tmpPath, w.Path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
