// Package export renders a voice profile into formats other tools can use.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/voiceprint/voiceprint/internal/analyzer"
	"github.com/voiceprint/voiceprint/internal/profile"
	"github.com/voiceprint/voiceprint/internal/store"
)

// ExportData is passed to every Exporter.
type ExportData struct {
	Profile  *profile.MasterProfile
	Sessions []store.SessionRecord
}

// Exporter renders ExportData to a string in a specific format.
type Exporter interface {
	Export(data ExportData) (string, error)
	// Filename is where scheduled exports write this format.
	Filename() string
}

// registry maps format names to Exporter implementations.
var registry = map[string]Exporter{
	"markdown": &MarkdownExporter{},
	"json":     &JSONExporter{},
	"prompt":   &PromptExporter{},
}

// Get returns the Exporter registered under name, and whether it was found.
func Get(name string) (Exporter, bool) {
	e, ok := registry[strings.ToLower(name)]
	return e, ok
}

// ValidFormats returns the sorted list of supported export format names.
func ValidFormats() []string {
	formats := make([]string, 0, len(registry))
	for k := range registry {
		formats = append(formats, k)
	}
	sort.Strings(formats)
	return formats
}

// WriteAll renders each format into dir and returns the paths written.
// Unknown formats are an error; nothing is written for them.
func WriteAll(dir string, formats []string, data ExportData) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("export: mkdir: %w", err)
	}
	var written []string
	for _, format := range formats {
		exp, ok := Get(format)
		if !ok {
			return written, fmt.Errorf("export: unknown format %q; valid formats: %s",
				format, strings.Join(ValidFormats(), ", "))
		}
		out, err := exp.Export(data)
		if err != nil {
			return written, fmt.Errorf("export: %s: %w", format, err)
		}
		path := filepath.Join(dir, exp.Filename())
		if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
			return written, fmt.Errorf("export: write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func terms(tcs []analyzer.TermCount, n int) []string {
	out := make([]string, 0, min(n, len(tcs)))
	for _, tc := range tcs {
		if len(out) == n {
			break
		}
		out = append(out, tc.Term)
	}
	return out
}
