// Tests for the file watcher: construction, event delivery, filtering of
// sibling files, close semantics, and the polling fallback.
package watch

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

// newPolling builds a watcher forced into polling mode with a fast interval.
func newPolling(t *testing.T, path string, interval time.Duration) *Watcher {
	t.Helper()
	w := &Watcher{
		path:         filepath.Clean(path),
		log:          quiet,
		events:       make(chan struct{}, 1),
		done:         make(chan struct{}),
		pollInterval: interval,
	}
	w.startPolling()
	t.Cleanup(func() { w.Close() })
	return w
}

func expectEvent(t *testing.T, w *Watcher, timeout time.Duration) {
	t.Helper()
	select {
	case <-w.Events():
	case <-time.After(timeout):
		t.Fatal("timed out waiting for change event")
	}
}

func expectNoEvent(t *testing.T, w *Watcher, wait time.Duration) {
	t.Helper()
	select {
	case <-w.Events():
		t.Error("received unexpected event")
	case <-time.After(wait):
	}
}

// ///////////////////////////////////////////////
// Constructor Tests
// ///////////////////////////////////////////////

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
	}{
		{
			name: "existing file",
			setup: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "fixturegen.toml")
				os.WriteFile(path, []byte("[generate]\n"), 0o644)
				return path
			},
		},
		{
			name: "file not yet created",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "fixturegen.toml")
			},
		},
		{
			name: "missing directory polls",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "nope", "fixturegen.toml")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := New(tt.setup(t), quiet)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if w.Events() == nil {
				t.Error("Events() channel is nil")
			}
			if err := w.Close(); err != nil {
				t.Errorf("Close: %v", err)
			}
		})
	}
}

func TestNewMissingDirectoryPolls(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "nope", "fixturegen.toml"), quiet)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()
	if !w.Polling() {
		t.Error("expected polling when the directory does not exist")
	}
}

func TestNewEmptyPath(t *testing.T) {
	if _, err := New("", quiet); err == nil {
		t.Fatal("expected error for empty path")
	}
}

// ///////////////////////////////////////////////
// Event Tests
// ///////////////////////////////////////////////

func TestWriteTriggersEvent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping slow watcher test in short mode")
	}

	path := filepath.Join(t.TempDir(), "fixturegen.toml")
	os.WriteFile(path, []byte("count = 1\n"), 0o644)

	w, err := New(path, quiet)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()
	time.Sleep(100 * time.Millisecond)

	os.WriteFile(path, []byte("count = 2\n"), 0o644)
	expectEvent(t, w, 5*time.Second)
}

func TestRenameOntoFileTriggersEvent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping slow watcher test in short mode")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "fixturegen.toml")
	os.WriteFile(path, []byte("count = 1\n"), 0o644)

	w, err := New(path, quiet)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()
	time.Sleep(100 * time.Millisecond)

	tmp := filepath.Join(dir, "fixturegen.toml.tmp.1")
	os.WriteFile(tmp, []byte("count = 3\n"), 0o644)
	// Ensure polling mode also sees a new mtime.
	future := time.Now().Add(2 * time.Second)
	os.Chtimes(tmp, future, future)
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("rename: %v", err)
	}
	expectEvent(t, w, 5*time.Second)
}

func TestSiblingFileIgnored(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping slow watcher test in short mode")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "fixturegen.toml")
	os.WriteFile(path, []byte("count = 1\n"), 0o644)

	w, err := New(path, quiet)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()
	time.Sleep(100 * time.Millisecond)

	os.WriteFile(filepath.Join(dir, "image_0001.png"), []byte("x"), 0o644)
	expectNoEvent(t, w, 500*time.Millisecond)
}

func TestMultipleWritesCoalesce(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping slow watcher test in short mode")
	}

	path := filepath.Join(t.TempDir(), "fixturegen.toml")
	os.WriteFile(path, []byte("count = 0\n"), 0o644)

	w, err := New(path, quiet)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()
	time.Sleep(100 * time.Millisecond)

	for i := range 10 {
		os.WriteFile(path, []byte{byte('0' + i), '\n'}, 0o644)
	}
	expectEvent(t, w, 5*time.Second)
}

// ///////////////////////////////////////////////
// Close Tests
// ///////////////////////////////////////////////

func TestCloseStopsEvents(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping slow watcher test in short mode")
	}

	path := filepath.Join(t.TempDir(), "fixturegen.toml")
	os.WriteFile(path, []byte("count = 1\n"), 0o644)

	w, err := New(path, quiet)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	os.WriteFile(path, []byte("count = 2\n"), 0o644)
	expectNoEvent(t, w, 500*time.Millisecond)
}

func TestCloseIdempotent(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "fixturegen.toml"), quiet)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

// ///////////////////////////////////////////////
// Poll Tests
// ///////////////////////////////////////////////

func TestPollDetectsModification(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixturegen.toml")
	os.WriteFile(path, []byte("count = 1\n"), 0o644)

	w := newPolling(t, path, 20*time.Millisecond)
	time.Sleep(60 * time.Millisecond)

	future := time.Now().Add(time.Second)
	os.Chtimes(path, future, future)
	expectEvent(t, w, 3*time.Second)
}

func TestPollDetectsCreation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixturegen.toml")

	w := newPolling(t, path, 20*time.Millisecond)
	time.Sleep(60 * time.Millisecond)

	os.WriteFile(path, []byte("count = 1\n"), 0o644)
	expectEvent(t, w, 3*time.Second)
}

func TestPollMissingFileNoEvent(t *testing.T) {
	w := newPolling(t, filepath.Join(t.TempDir(), "missing.toml"), 20*time.Millisecond)
	expectNoEvent(t, w, 200*time.Millisecond)
}

func TestPollUnchangedNoEvent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixturegen.toml")
	os.WriteFile(path, []byte("count = 1\n"), 0o644)

	w := newPolling(t, path, 20*time.Millisecond)
	expectNoEvent(t, w, 200*time.Millisecond)
}

func TestPollStopsOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixturegen.toml")
	os.WriteFile(path, []byte("count = 1\n"), 0o644)

	w := newPolling(t, path, 20*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	w.Close()
	time.Sleep(60 * time.Millisecond)

	future := time.Now().Add(time.Second)
	os.Chtimes(path, future, future)
	expectNoEvent(t, w, 200*time.Millisecond)
}
