package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExists(t *testing.T) {
	tmpDir := t.TempDir()

	if Exists(filepath.Join(tmpDir, "nonexistent")) {
		t.Error("Exists returned true for non-existent file")
	}

	path := filepath.Join(tmpDir, "exists.bin")
	if err := os.WriteFile(path, []byte{1, 2, 3, 4}, 0644); err != nil {
		t.Fatal(err)
	}
	if !Exists(path) {
		t.Error("Exists returned false for existing file")
	}
}

func TestEnsureFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "out.bin")

	created, err := EnsureFile(path)
	if err != nil {
		t.Fatalf("EnsureFile: %v", err)
	}
	if !created {
		t.Error("expected file to be created")
	}

	if err := os.WriteFile(path, []byte{9, 9, 9, 9}, 0644); err != nil {
		t.Fatal(err)
	}
	created, err = EnsureFile(path)
	if err != nil {
		t.Fatalf("EnsureFile on existing file: %v", err)
	}
	if created {
		t.Error("existing file reported as created")
	}
	if data, err := os.ReadFile(path); err != nil || len(data) != 4 {
		t.Errorf("EnsureFile changed an existing file: %v, %v", data, err)
	}

	if _, err := EnsureFile(filepath.Join(tmpDir, "missing", "out.bin")); err == nil {
		t.Error("expected error when parent directory is missing")
	}
}

func TestWriteTmpThenMove(t *testing.T) {
	tmpDir := t.TempDir()
	outDir := t.TempDir()
	outPath := filepath.Join(outDir, "output.bin")

	content := []byte{1, 0, 0, 0, 2, 0, 0, 0}
	err := WriteTmpThenMove(tmpDir, outPath, func(tmpPath string) error {
		if !Exists(tmpPath) {
			t.Error("temp file not created before writeFunc")
		}
		return os.WriteFile(tmpPath, content, 0644)
	})
	if err != nil {
		t.Fatalf("WriteTmpThenMove failed: %v", err)
	}

	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("Failed to read output file: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("Content mismatch: got %v, want %v", got, content)
	}

	if Exists(TmpPath(tmpDir, outPath)) {
		t.Error("Tmp file still exists after successful write")
	}
}

func TestWriteTmpThenMoveError(t *testing.T) {
	tmpDir := t.TempDir()
	outDir := t.TempDir()
	outPath := filepath.Join(outDir, "output.bin")
	if err := os.WriteFile(outPath, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	err := WriteTmpThenMove(tmpDir, outPath, func(tmpPath string) error {
		return os.ErrPermission
	})
	if err == nil {
		t.Error("WriteTmpThenMove should have failed")
	}

	if Exists(TmpPath(tmpDir, outPath)) {
		t.Error("Tmp file exists after failed write")
	}

	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "old" {
		t.Errorf("output replaced after failed write: %q", got)
	}
}

func TestCleanupTmpFiles(t *testing.T) {
	tmpDir := t.TempDir()

	stale := filepath.Join(tmpDir, "out.bin"+TmpSuffix)
	nested := filepath.Join(tmpDir, "subdir", "other.bin"+TmpSuffix)
	plainTmp := filepath.Join(tmpDir, "notes.tmp")
	regularFile := filepath.Join(tmpDir, "regular.bin")

	if err := os.MkdirAll(filepath.Join(tmpDir, "subdir"), 0755); err != nil {
		t.Fatal(err)
	}
	for _, path := range []string{stale, nested, plainTmp, regularFile} {
		if err := os.WriteFile(path, []byte("content"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := CleanupTmpFiles(tmpDir)
	if err != nil {
		t.Fatalf("CleanupTmpFiles failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed %d files, want 1", removed)
	}

	if Exists(stale) {
		t.Error("stale staging file still exists")
	}
	for _, path := range []string{nested, plainTmp, regularFile} {
		if !Exists(path) {
			t.Errorf("%s was removed", filepath.Base(path))
		}
	}
}
