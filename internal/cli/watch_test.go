package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"

	"github.com/voiceprint/voiceprint/internal/ingest"
)

func TestShouldIgnoreEvent(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ingest.IgnoreFile), []byte("archive/\n*.bak\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	ignore := ingest.NewIgnoreMatcher(dir, "drafts/")

	tests := []struct {
		rel  string
		want bool
	}{
		{"chat.txt", false},
		{"2024/march.jsonl", false},
		{".git/HEAD", true},
		{".voiceprint/voiceprint.db", true},
		{"node_modules/pkg/index.js", true},
		{"archive/old.txt", true},
		{"drafts/a.txt", true},
		{"chat.bak", true},
	}

	for _, tt := range tests {
		got := shouldIgnoreEvent(tt.rel, ignore)
		if got != tt.want {
			t.Errorf("shouldIgnoreEvent(%q) = %v, want %v", tt.rel, got, tt.want)
		}
	}
}

func TestRootFor(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	roots := []watchRoot{{dir: a}, {dir: b}}

	r, rel, ok := rootFor(roots, filepath.Join(b, "x", "chat.txt"))
	if !ok || r.dir != b || rel != filepath.Join("x", "chat.txt") {
		t.Errorf("rootFor = (%q, %q, %v), want (%q, %q, true)", r.dir, rel, ok, b, filepath.Join("x", "chat.txt"))
	}
	if _, _, ok := rootFor(roots, a); ok {
		t.Error("a root itself should not match")
	}
	if _, _, ok := rootFor(roots, filepath.Join(filepath.Dir(a), "elsewhere.txt")); ok {
		t.Error("paths outside every root should not match")
	}
}

func TestAddWatchDirs_SkipsIgnored(t *testing.T) {
	dir := t.TempDir()

	os.MkdirAll(filepath.Join(dir, "2024"), 0o755)
	os.MkdirAll(filepath.Join(dir, "node_modules", "pkg"), 0o755)
	os.MkdirAll(filepath.Join(dir, ".git", "objects"), 0o755)
	os.MkdirAll(filepath.Join(dir, "archive"), 0o755)
	os.WriteFile(filepath.Join(dir, ingest.IgnoreFile), []byte("archive/\n"), 0o644)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer watcher.Close()

	r := watchRoot{dir: dir, ignore: ingest.NewIgnoreMatcher(dir)}
	if err := addWatchDirs(watcher, r); err != nil {
		t.Fatalf("addWatchDirs: %v", err)
	}

	watched := make(map[string]bool)
	for _, p := range watcher.WatchList() {
		rel, _ := filepath.Rel(dir, p)
		watched[rel] = true
	}

	if !watched["."] {
		t.Error("root directory should be watched")
	}
	if !watched["2024"] {
		t.Error("2024/ should be watched")
	}
	if watched["node_modules"] || watched[filepath.Join("node_modules", "pkg")] {
		t.Error("node_modules should not be watched")
	}
	if watched[".git"] || watched[filepath.Join(".git", "objects")] {
		t.Error(".git should not be watched")
	}
	if watched["archive"] {
		t.Error("archive/ is in the ignore file and should not be watched")
	}
}
