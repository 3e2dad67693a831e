package testkit

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"
)

// Ev is a shorthand for an event document in fixtures
type Ev = map[string]any

// Msg builds a message event authored by author
func Msg(author, content string) Ev {
	return Ev{"event_type": "message", "author_id": author, "content": content}
}

// Cmd builds a command event authored by author
func Cmd(author, name string) Ev {
	return Ev{"event_type": "command", "author_id": author, "command": name}
}

// GzipLines encodes events as JSON lines and gzips them
func GzipLines(t *testing.T, events ...Ev) []byte {
	t.Helper()
	var raw bytes.Buffer
	for _, e := range events {
		b, err := json.Marshal(e)
		if err != nil {
			t.Fatalf("marshal fixture event: %v", err)
		}
		raw.Write(b)
		raw.WriteByte('\n')
	}
	return GzipBytes(t, raw.Bytes())
}

// GzipBytes gzips raw bytes as-is (use for malformed line fixtures)
func GzipBytes(t *testing.T, raw []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		t.Fatalf("gzip fixture: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip fixture close: %v", err)
	}
	return buf.Bytes()
}

// WriteFile writes data to dir/name, creating parent directories
func WriteFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(p), err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

// WriteEvents writes a gzip JSON lines file with events to dir/name
func WriteEvents(t *testing.T, dir, name string, events ...Ev) string {
	t.Helper()
	return WriteFile(t, dir, name, GzipLines(t, events...))
}

// WriteCorrupt writes a file with a .gz name that is not a gzip container
func WriteCorrupt(t *testing.T, dir, name string) string {
	t.Helper()
	return WriteFile(t, dir, name, []byte("this is not gzip data"))
}

// Dataset maps unit id to file name to events
type Dataset map[string]map[string][]Ev

// BuildDataset materializes a dataset under a fresh temp root and returns the root
func BuildDataset(t *testing.T, ds Dataset) string {
	t.Helper()
	root := t.TempDir()
	for unit, files := range ds {
		if err := os.MkdirAll(filepath.Join(root, unit), 0o755); err != nil {
			t.Fatalf("mkdir unit %s: %v", unit, err)
		}
		for name, evs := range files {
			WriteEvents(t, filepath.Join(root, unit), name, evs...)
		}
	}
	return root
}
