package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHashFileStable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "src.txt")
	if err := os.WriteFile(path, []byte("hello world"), 0o644); err != nil {
		t.Fatal(err)
	}

	first, err := HashFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 64 {
		t.Fatalf("expected 64 hex chars, got %q", first)
	}
	again, err := HashFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if first != again {
		t.Fatalf("hash changed between reads: %q vs %q", first, again)
	}
}

func TestCopyVerifiedReturnsHash(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")

	content := []byte(`{"version": 1}`)
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatal(err)
	}

	sum, err := CopyVerified(src, dst)
	if err != nil {
		t.Fatal(err)
	}

	want, err := HashFile(src)
	if err != nil {
		t.Fatal(err)
	}
	if sum != want {
		t.Fatalf("copy hash %q does not match source hash %q", sum, want)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: got %q", got)
	}
}

func TestCopyVerifiedMissingSource(t *testing.T) {
	dir := t.TempDir()
	if _, err := CopyVerified(filepath.Join(dir, "absent"), filepath.Join(dir, "dst")); err == nil {
		t.Fatal("expected error for missing source")
	}
}
