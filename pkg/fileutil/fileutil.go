// Package fileutil provides file utilities for sorted outputs with tmp+mv semantics.
package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/eunmann/i32sort/pkg/logging"
)

// TmpSuffix marks staging files written by WriteTmpThenMove.
const TmpSuffix = ".i32sort.tmp"

// Exists returns true if the file exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureFile creates an empty file at path if nothing exists there.
// Existing files are left untouched. It reports whether a file was created.
func EnsureFile(path string) (bool, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("create %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return true, fmt.Errorf("close %s: %w", path, err)
	}
	return true, nil
}

// TmpPath returns the staging path WriteTmpThenMove uses for outPath.
func TmpPath(tmpDir, outPath string) string {
	return filepath.Join(tmpDir, filepath.Base(outPath)+TmpSuffix)
}

// WriteTmpThenMove writes to a temporary file then atomically moves it to the final path.
// The writeFunc receives the temporary path, which already exists and is empty,
// and should write the complete file. tmpDir must be on the same filesystem as outPath.
func WriteTmpThenMove(tmpDir, outPath string, writeFunc func(tmpPath string) error) error {
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return fmt.Errorf("create tmp dir: %w", err)
	}

	tmpPath := TmpPath(tmpDir, outPath)
	if err := os.WriteFile(tmpPath, nil, 0o644); err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if err := writeFunc(tmpPath); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := syncFile(tmpPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("sync temp file: %w", err)
	}

	outDir := filepath.Dir(outPath)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("create output dir: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp to final: %w", err)
	}

	return nil
}

// syncFile opens, syncs, and closes a file.
func syncFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	err = f.Sync()
	f.Close()
	return err
}

// CleanupTmpFiles removes staging files left in dir by interrupted runs.
// Only the top level of dir is scanned.
func CleanupTmpFiles(dir string) (int, error) {
	log := logging.L()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read dir: %w", err)
	}

	var removed int
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), TmpSuffix) {
			continue
		}
		if rmErr := os.Remove(filepath.Join(dir, e.Name())); rmErr == nil {
			removed++
		}
	}

	if removed > 0 {
		log.Debug().Int("files_removed", removed).Str("dir", dir).Msg("cleaned up tmp files")
	}
	return removed, nil
}
