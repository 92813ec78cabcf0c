package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestNewWritesFile tests that a run log file is created and receives
// debug records regardless of console verbosity
func TestNewWritesFile(t *testing.T) {
	dir := t.TempDir()

	log, path, err := New(Options{Quiet: true, Dir: dir, Name: "test"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	log.Debug("debug record")
	log.Info("info record")
	_ = log.Sync()

	if !strings.HasPrefix(filepath.Base(path), "test-") {
		t.Errorf("file name = %q, want test- prefix", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file missing: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "debug record") {
		t.Error("debug record not in file; file sink must log at debug level")
	}
	if !strings.Contains(content, "info record") {
		t.Error("info record not in file")
	}
	// file sink is JSON
	if !strings.Contains(content, `"msg"`) {
		t.Errorf("file sink not JSON encoded: %s", content)
	}
}

// TestNewCreatesDir tests that the log directory is created on demand
func TestNewCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "deep", "log")

	_, path, err := New(Options{Dir: dir, Name: "test"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("log file in %q, want %q", filepath.Dir(path), dir)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("log directory not created: %v", err)
	}
}

// TestNewDistinctFilesPerRun tests the one-file-per-run naming
func TestNewDistinctFilesPerRun(t *testing.T) {
	dir := t.TempDir()

	_, first, err := New(Options{Dir: dir})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	// same-second runs share a timestamp; appending keeps both runs
	if !strings.HasSuffix(first, ".log") {
		t.Errorf("file name = %q, want .log suffix", first)
	}
	if !strings.HasPrefix(filepath.Base(first), "espcfg-") {
		t.Errorf("file name = %q, want default espcfg- prefix", filepath.Base(first))
	}
}
