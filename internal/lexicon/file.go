package lexicon

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Formats lists the file formats Load and Encode understand.
var Formats = []string{"toml", "yaml"}

// Load reads a lexicon file. The format is chosen by extension: .toml, or
// .yaml/.yml.
func Load(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lexicon: read %s: %w", path, err)
	}

	var t Tables
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), &t); err != nil {
			return nil, fmt.Errorf("lexicon: decode %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("lexicon: decode %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("lexicon: unsupported file extension %q (want .toml, .yaml or .yml)", ext)
	}
	return New(t)
}

// LoadOrDefault loads path, or returns the built-in Korean lexicon when path
// is empty.
func LoadOrDefault(path string) (*Lexicon, error) {
	if strings.TrimSpace(path) == "" {
		return Korean(), nil
	}
	return Load(path)
}

// Encode renders the lexicon tables in the given format ("toml" or "yaml").
func Encode(l *Lexicon, format string) ([]byte, error) {
	t := l.Tables()
	switch strings.ToLower(format) {
	case "toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(t); err != nil {
			return nil, fmt.Errorf("lexicon: encode toml: %w", err)
		}
		return buf.Bytes(), nil
	case "yaml", "yml":
		b, err := yaml.Marshal(t)
		if err != nil {
			return nil, fmt.Errorf("lexicon: encode yaml: %w", err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("lexicon: unknown format %q; valid formats: %s", format, strings.Join(Formats, ", "))
	}
}
