// Package ingest discovers chat transcripts on disk and parses them into
// exchanges ready to be learned.
package ingest

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// DefaultExtensions are the transcript formats Parse understands.
var DefaultExtensions = []string{".txt", ".jsonl"}

// Truncator shortens a message to a token budget.
type Truncator interface {
	Truncate(s string, maxTokens int) string
}

// Options controls discovery and loading.
type Options struct {
	Extensions []string
	Exclude    []string
	Workers    int
	// Truncator, when set, caps every message at MaxMessageTokens.
	Truncator        Truncator
	MaxMessageTokens int
}

func (o Options) extensions() map[string]bool {
	exts := o.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	out := make(map[string]bool, len(exts))
	for _, e := range exts {
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out[strings.ToLower(e)] = true
	}
	return out
}

// Accepts reports whether path has one of the transcript extensions.
func (o Options) Accepts(path string) bool {
	return o.extensions()[strings.ToLower(filepath.Ext(path))]
}

// Transcript is one parsed transcript file.
type Transcript struct {
	Path      string
	Hash      string
	Exchanges []Exchange
}

// Messages returns the user messages of t, in order.
func (t Transcript) Messages() []string {
	out := make([]string, len(t.Exchanges))
	for i, e := range t.Exchanges {
		out[i] = e.User
	}
	return out
}

// Discover expands paths into the sorted absolute paths of transcript
// files. Directories are walked recursively; explicit files are kept as
// long as their extension is accepted.
func Discover(paths []string, opts Options) ([]string, error) {
	exts := opts.extensions()
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("ingest: resolve %s: %w", p, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("ingest: %w", err)
		}
		if !info.IsDir() {
			if exts[strings.ToLower(filepath.Ext(abs))] {
				add(abs)
			}
			continue
		}

		ignore := NewIgnoreMatcher(abs, opts.Exclude...)
		err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil // Skip unreadable entries.
			}
			rel, err := filepath.Rel(abs, path)
			if err != nil || rel == "." {
				return nil
			}
			if d.IsDir() {
				if HardIgnore(d.Name()) || ignore.Match(rel+"/") {
					return filepath.SkipDir
				}
				return nil
			}
			if !exts[strings.ToLower(filepath.Ext(path))] || ignore.Match(rel) {
				return nil
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("ingest: walk %s: %w", p, err)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Load reads and parses files concurrently with at most opts.Workers files
// in flight. Results keep the order of files. The first failure cancels the
// remaining work.
func Load(ctx context.Context, files []string, opts Options) ([]Transcript, error) {
	out := make([]Transcript, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, opts.Workers))

	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := LoadFile(path, opts)
			if err != nil {
				return err
			}
			out[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadFile reads and parses a single transcript.
func LoadFile(path string, opts Options) (Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Transcript{}, fmt.Errorf("ingest: read %s: %w", path, err)
	}
	ex, err := Parse(path, data)
	if err != nil {
		return Transcript{}, fmt.Errorf("ingest: parse %s: %w", path, err)
	}
	if opts.Truncator != nil && opts.MaxMessageTokens > 0 {
		for i := range ex {
			ex[i].User = opts.Truncator.Truncate(ex[i].User, opts.MaxMessageTokens)
			ex[i].AI = opts.Truncator.Truncate(ex[i].AI, opts.MaxMessageTokens)
		}
	}
	return Transcript{Path: path, Hash: Hash(data), Exchanges: ex}, nil
}

// Hash is the content hash used to skip unchanged transcripts.
func Hash(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}
