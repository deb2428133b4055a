package fsutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if runtime.GOOS == "windows" {
		t.Setenv("USERPROFILE", home)
	}
	// raw path unaffected
	if got, err := ExpandHome("/tmp"); err != nil || got != "/tmp" {
		t.Fatalf("got %q err=%v", got, err)
	}
	if got, err := ExpandHome(""); err != nil || got != "" {
		t.Fatalf("got %q err=%v", got, err)
	}
	p, err := ExpandHome("~")
	if err != nil || p != home {
		t.Fatalf("expected %q, got %q err=%v", home, p, err)
	}
	exp, err := ExpandHome("~/.config/assemblyd")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if want := filepath.Join(home, ".config", "assemblyd"); exp != want {
		t.Fatalf("expected %q, got %q", want, exp)
	}
}

func TestFileExists(t *testing.T) {
	d := t.TempDir()
	if FileExists(d) {
		t.Fatalf("directory reported as file")
	}
	p := filepath.Join(d, "f")
	if FileExists(p) {
		t.Fatalf("missing file reported as present")
	}
	if err := os.WriteFile(p, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if !FileExists(p) {
		t.Fatalf("file not found")
	}
}
