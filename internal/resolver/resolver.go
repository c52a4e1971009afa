// Package resolver atomically rewrites the system resolver file.
package resolver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultPath is the resolver file Loom owns.
const DefaultPath = "/etc/resolv.conf"

// Writer atomically rewrites path, or erases it on revert. The file's
// prior contents are never preserved -- the daemon is the sole author
// while any Connection is active.
type Writer struct {
	path string
}

// New returns a Writer for the given resolver file path.
func New(path string) *Writer {
	return &Writer{path: path}
}

// Write replaces the resolver file with a document of the form:
//
//	# Created by Loom: YYYY-MM-DD HH:MM:SS
//	[domain <domain>]
//	[search <s1> <s2> ...]
//	[nameserver <ns1>]
//	[nameserver <ns2>]
//	...
//
// Each section is emitted only when its input is non-empty.
func (w *Writer) Write(nameservers []string, domain string, searches []string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# Created by Loom: %s\n", time.Now().Format("2006-01-02 15:04:05"))

	if domain != "" {
		fmt.Fprintf(&b, "domain %s\n", domain)
	}
	if len(searches) > 0 {
		fmt.Fprintf(&b, "search %s\n", strings.Join(searches, " "))
	}
	for _, ns := range nameservers {
		fmt.Fprintf(&b, "nameserver %s\n", ns)
	}

	return w.atomicWrite(b.String())
}

// Erase truncates the resolver file to empty.
func (w *Writer) Erase() error {
	return w.atomicWrite("")
}

func (w *Writer) atomicWrite(content string) error {
	dir := filepath.Dir(w.path)
	tmp, err := os.CreateTemp(dir, ".loom-resolv-*.tmp")
	if err != nil {
		return fmt.Errorf("create tmp: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write tmp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close tmp: %w", err)
	}
	if err := os.Rename(tmpPath, w.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
