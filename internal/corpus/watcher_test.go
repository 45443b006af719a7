// ABOUTME: Tests for the corpus file watcher
// ABOUTME: Verifies edits to the bio trigger a reload of the store
package corpus

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	about := writeFile(t, dir, "about.md", "old bio")
	projects := writeFile(t, dir, "projects.json", testProjectsJSON)

	source := NewFileSource(about, projects)
	store := NewStore(NewLoader(source, nil), false)
	if _, err := store.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	w, err := NewWatcher(store, source.Paths()...)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()
	w.debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	if err := os.WriteFile(about, []byte("new bio"), 0644); err != nil {
		t.Fatalf("Failed to rewrite about: %v", err)
	}

	select {
	case <-w.Reloaded():
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	if got := store.Current().Passages[0].Text; got != "new bio" {
		t.Errorf("about passage = %q, want %q", got, "new bio")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	about := writeFile(t, dir, "about.md", "bio")
	projects := writeFile(t, dir, "projects.json", testProjectsJSON)

	w, err := NewWatcher(NewStore(NewLoader(NewFileSource(about, projects), nil), false), about, projects)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()

	if !w.isWatchedFile(about) {
		t.Error("about.md should be watched")
	}
	if w.isWatchedFile(dir + "/notes.txt") {
		t.Error("notes.txt should not be watched")
	}
}
