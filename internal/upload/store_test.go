package upload

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveAndRemove(t *testing.T) {
	s, err := NewStore(t.TempDir(), 1<<20)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	webPath, err := s.Save("Report.PDF", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasPrefix(webPath, "/uploads/") || !strings.HasSuffix(webPath, ".pdf") {
		t.Fatalf("unexpected stored path %q", webPath)
	}

	name := filepath.Base(webPath)
	b, err := os.ReadFile(filepath.Join(s.Dir, name))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(b) != "hello" {
		t.Fatalf("stored content mismatch: %q", b)
	}

	if err := s.Remove(webPath); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.Dir, name)); !os.IsNotExist(err) {
		t.Fatalf("file should be gone, stat err=%v", err)
	}

	// removing again is not an error
	if err := s.Remove(webPath); err != nil {
		t.Fatalf("second remove: %v", err)
	}
}

func TestSaveEnforcesLimit(t *testing.T) {
	s, err := NewStore(t.TempDir(), 4)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if _, err := s.Save("big.bin", strings.NewReader("too large")); err != ErrTooLarge {
		t.Fatalf("want ErrTooLarge, got %v", err)
	}

	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("oversized file must not be kept, found %d entries", len(entries))
	}
}

func TestRemoveIgnoresPathTraversal(t *testing.T) {
	dir := t.TempDir()
	outside := filepath.Join(dir, "outside.txt")
	if err := os.WriteFile(outside, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s, err := NewStore(filepath.Join(dir, "uploads"), 0)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if err := s.Remove("/uploads/../outside.txt"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(outside); err != nil {
		t.Fatalf("file outside the store must be untouched: %v", err)
	}
}
