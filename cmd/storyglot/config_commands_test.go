package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigNewAndShow(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, err := runCLI(t, []string{"config", "new", "--path", target}, "")
	if err != nil {
		t.Fatalf("config new: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	// Running new again without --overwrite refuses to clobber.
	if _, err := runCLI(t, []string{"config", "new", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config already exists")
	}

	out, err = runCLI(t, []string{"config", "show"}, writeTestConfig(t))
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "[paths]")
	requireContains(t, out, "[tts]")
	requireContains(t, out, "max_chars")
}
