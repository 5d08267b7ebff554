package kv

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func tempFS(t *testing.T) *FS {
	t.Helper()
	s, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return s
}

func TestFS_SetAndGet(t *testing.T) {
	s := tempFS(t)
	if err := s.Set("pnx_db_v1", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := s.Get("pnx_db_v1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `{"a":1}` {
		t.Errorf("value = %q", got)
	}
}

func TestFS_GetMissing(t *testing.T) {
	s := tempFS(t)
	if _, err := s.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestFS_Overwrite(t *testing.T) {
	s := tempFS(t)
	_ = s.Set("k", []byte("first"))
	if err := s.Set("k", []byte("second")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, _ := s.Get("k")
	if string(got) != "second" {
		t.Errorf("value = %q, want second", got)
	}

	matches, _ := filepath.Glob(filepath.Join(s.Root(), ".pnx-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestFS_InvalidKeys(t *testing.T) {
	s := tempFS(t)
	for _, k := range []string{"", "../escape", "/etc/passwd", "a/b", ".hidden"} {
		if err := s.Set(k, []byte("x")); err == nil {
			t.Errorf("expected error for key %q", k)
		}
		if _, err := s.Get(k); err == nil {
			t.Errorf("expected error reading key %q", k)
		}
	}
}

func TestNewFS_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	if _, err := NewFS(dir); err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("data dir not created: %v", err)
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "pnx-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	if _, err := NewFS(f.Name()); err == nil {
		t.Error("expected error when root is a file")
	}
}
