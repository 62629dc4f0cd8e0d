package audio

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewStore_CreatesNestedDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "demo-output")
	s, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("output dir not created: %v", err)
	}

	// 目录已存在时不报错
	if _, err := NewStore(dir); err != nil {
		t.Fatalf("NewStore on existing dir failed: %v", err)
	}
	if s.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", s.Dir(), dir)
	}
}

func TestNewStore_FailsWhenPathIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewStore(filepath.Join(file, "out")); err == nil {
		t.Fatal("expected error when parent is a regular file")
	}
}

func TestStore_SaveOverwrites(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if s.Exists("voice_0.mp3") {
		t.Fatal("file should not exist yet")
	}

	path, err := s.Save("voice_0.mp3", []byte("first"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if path != filepath.Join(s.Dir(), "voice_0.mp3") {
		t.Errorf("unexpected path %q", path)
	}

	if _, err := s.Save("voice_0.mp3", []byte("second")); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "second" {
		t.Errorf("file content = %q, want %q", data, "second")
	}
	if !s.Exists("voice_0.mp3") {
		t.Error("Exists should report true after Save")
	}

	entries, _ := os.ReadDir(s.Dir())
	if len(entries) != 1 {
		t.Errorf("expected only the target file, found %d entries", len(entries))
	}
}
