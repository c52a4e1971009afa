package resolver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteEmitsOnlyNonEmptySections(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resolv.conf")
	w := New(path)

	if err := w.Write([]string{"8.8.8.8", "1.1.1.1"}, "example.com", []string{"corp.example.com"}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	content := string(data)

	for _, want := range []string{
		"domain example.com\n",
		"search corp.example.com\n",
		"nameserver 8.8.8.8\n",
		"nameserver 1.1.1.1\n",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, content)
		}
	}
	if !strings.HasPrefix(content, "# Created by Loom: ") {
		t.Errorf("expected header line, got:\n%s", content)
	}
}

func TestWriteOmitsAbsentSections(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resolv.conf")
	w := New(path)

	if err := w.Write([]string{"8.8.8.8"}, "", nil); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, _ := os.ReadFile(path)
	content := string(data)
	if strings.Contains(content, "domain") || strings.Contains(content, "search ") {
		t.Errorf("expected no domain/search lines, got:\n%s", content)
	}
	if !strings.Contains(content, "nameserver 8.8.8.8\n") {
		t.Errorf("expected nameserver line, got:\n%s", content)
	}
}

func TestErase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resolv.conf")
	w := New(path)

	if err := w.Write([]string{"8.8.8.8"}, "", nil); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Erase(); err != nil {
		t.Fatalf("Erase: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("expected empty file after Erase, got %q", data)
	}
}

func TestWriteIsAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resolv.conf")
	w := New(path)

	if err := w.Write([]string{"8.8.8.8"}, "", nil); err != nil {
		t.Fatalf("Write: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".loom-resolv-") {
			t.Errorf("expected no leftover temp file, found %s", e.Name())
		}
	}
}
