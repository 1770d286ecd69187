package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestMemoryStorePutListRead(t *testing.T) {
	s := New()
	s.Put("b", "stats/installs/installs_app_202402_overview.csv", []byte("x"))
	s.Put("b", "stats/installs/installs_app_202401_overview.csv", []byte("y"))
	s.Put("b", "stats/crashes/crashes_app_202401_overview.csv", []byte("z"))

	names, err := s.ListObjects(context.Background(), "b", "stats/installs/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 2 || names[0] != "stats/installs/installs_app_202401_overview.csv" {
		t.Fatalf("unexpected names: %v", names)
	}

	data, err := s.ReadObject(context.Background(), "b", names[0])
	if err != nil || string(data) != "y" {
		t.Fatalf("unexpected read: %q err=%v", data, err)
	}
	if _, err := s.ReadObject(context.Background(), "b", "missing"); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
	if s.Reads() != 2 {
		t.Fatalf("expected 2 reads, got %d", s.Reads())
	}
}

func TestMemoryStoreUnknownBucket(t *testing.T) {
	if _, err := New().ListObjects(context.Background(), "nope", ""); err == nil {
		t.Fatal("expected error for unknown bucket")
	}
}

func TestNewFromDirLoadsBucketMirror(t *testing.T) {
	dir := t.TempDir()
	mustWrite := func(rel, content string) {
		t.Helper()
		p := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	mustWrite("pubsite_prod_1/stats/installs/installs_app_202401_overview.csv", "a")
	mustWrite("pubsite_prod_1/stats/installs/installs_app_202402_overview.csv", "b")
	mustWrite(".cache/ignored.csv", "c")
	mustWrite("stray.txt", "d")

	s, err := NewFromDir(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	names, err := s.ListObjects(context.Background(), "pubsite_prod_1", "stats/installs/installs_app_")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("unexpected names: %v", names)
	}
	if _, err := s.ListObjects(context.Background(), ".cache", ""); err == nil {
		t.Fatal("hidden directories must not become buckets")
	}
}

func TestNewFromDirMissing(t *testing.T) {
	if _, err := NewFromDir(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
