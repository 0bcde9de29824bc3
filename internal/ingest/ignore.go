package ingest

import (
	"os"
	"path/filepath"

	gitignore "github.com/sabhiram/go-gitignore"
)

// IgnoreFile is read from each transcript root.
const IgnoreFile = ".voiceprintignore"

// IgnoreMatcher wraps a gitignore pattern matcher.
type IgnoreMatcher struct {
	file  *gitignore.GitIgnore
	extra *gitignore.GitIgnore
}

// NewIgnoreMatcher loads .voiceprintignore from root and adds the extra
// patterns. With neither, the matcher accepts everything.
func NewIgnoreMatcher(root string, extra ...string) *IgnoreMatcher {
	m := &IgnoreMatcher{}
	path := filepath.Join(root, IgnoreFile)
	if _, err := os.Stat(path); err == nil {
		if gi, err := gitignore.CompileIgnoreFile(path); err == nil {
			m.file = gi
		}
	}
	if len(extra) > 0 {
		m.extra = gitignore.CompileIgnoreLines(extra...)
	}
	return m
}

// Match returns true if the given relative path should be ignored.
func (m *IgnoreMatcher) Match(relPath string) bool {
	if m.file != nil && m.file.MatchesPath(relPath) {
		return true
	}
	return m.extra != nil && m.extra.MatchesPath(relPath)
}

// hardIgnored contains directories that are always skipped.
var hardIgnored = map[string]bool{
	".git":         true,
	".voiceprint":  true,
	"node_modules": true,
	".venv":        true,
	"__pycache__":  true,
}

// HardIgnore returns true if the directory name is always excluded.
func HardIgnore(name string) bool {
	return hardIgnored[name]
}
