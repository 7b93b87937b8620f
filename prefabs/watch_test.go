package prefabs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWatcherReportsEdits(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("watcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, RatFile), []byte("name: rat\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case name := <-w.Events:
			if strings.HasSuffix(name, ".txt") {
				t.Fatalf("unexpected event for %s", name)
			}
			if strings.HasSuffix(name, RatFile) {
				return
			}
		case err := <-w.Errors:
			t.Fatalf("watch error: %v", err)
		case <-deadline:
			t.Fatalf("no event for %s", RatFile)
		}
	}
}

func TestWatcherDrainDeduplicates(t *testing.T) {
	w := &Watcher{Events: make(chan string, 4)}
	w.Events <- RatFile
	w.Events <- CameraFile
	w.Events <- RatFile

	got := w.Drain()
	if len(got) != 2 || got[0] != RatFile || got[1] != CameraFile {
		t.Fatalf("Drain = %v", got)
	}
	if rest := w.Drain(); len(rest) != 0 {
		t.Fatalf("second Drain = %v", rest)
	}
}
