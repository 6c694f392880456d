package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalPut(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocal(dir)
	if err != nil {
		t.Fatal(err)
	}

	url, err := s.Put(context.Background(), "infographics/abc.png", "image/png", []byte("payload"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !strings.HasPrefix(url, "file://") {
		t.Errorf("url = %q, want file:// scheme", url)
	}

	data, err := os.ReadFile(filepath.Join(dir, "infographics", "abc.png"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("content = %q", data)
	}

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Join(dir, "infographics"))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".upload-") {
			t.Errorf("stale temp file %s", e.Name())
		}
	}
}

func TestLocalPutOverwrites(t *testing.T) {
	s, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if _, err := s.Put(ctx, "k.png", "image/png", []byte("one")); err != nil {
		t.Fatal(err)
	}
	url, err := s.Put(ctx, "k.png", "image/png", []byte("two"))
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(strings.TrimPrefix(url, "file://"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "two" {
		t.Errorf("content = %q, want the second write", data)
	}
}

func TestLocalPutCancelledContext(t *testing.T) {
	s, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Put(ctx, "k.png", "image/png", []byte("x")); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestNewLocalCreatesDirectory(t *testing.T) {
	base := filepath.Join(t.TempDir(), "deep", "output")
	if _, err := NewLocal(base); err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	if _, err := os.Stat(base); err != nil {
		t.Errorf("base directory not created: %v", err)
	}
}
