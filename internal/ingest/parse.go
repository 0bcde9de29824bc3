package ingest

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
)

// Exchange is one user message and the AI reply that followed it, if any.
// Feedback is the user's verdict on the reply.
type Exchange struct {
	User     string `json:"user"`
	AI       string `json:"ai,omitempty"`
	Feedback string `json:"feedback,omitempty"`
}

var (
	aiPrefixes   = []string{"ai:", "assistant:", "bot:"}
	userPrefixes = []string{"user:", "me:"}
)

// Parse reads the exchanges of a transcript. The format is chosen by the
// extension of name: ".jsonl" holds one {"role","content"} object per line,
// anything else is plain text with one message per line.
func Parse(name string, data []byte) ([]Exchange, error) {
	if strings.EqualFold(filepath.Ext(name), ".jsonl") {
		return parseJSONL(data)
	}
	return parseText(data), nil
}

type builder struct {
	out []Exchange
}

func (b *builder) user(s string) {
	b.out = append(b.out, Exchange{User: s})
}

// ai attaches a reply to the latest user message. A reply before any user
// message has nothing to answer and is dropped.
func (b *builder) ai(s, feedback string) {
	if len(b.out) == 0 {
		return
	}
	last := &b.out[len(b.out)-1]
	if last.AI != "" {
		last.AI += "\n"
	}
	last.AI += s
	if feedback != "" {
		last.Feedback = feedback
	}
}

func parseText(data []byte) []Exchange {
	var b builder
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if rest, ok := cutPrefixFold(line, aiPrefixes); ok {
			if rest != "" {
				b.ai(rest, "")
			}
			continue
		}
		if rest, ok := cutPrefixFold(line, userPrefixes); ok {
			line = rest
		}
		if line != "" {
			b.user(line)
		}
	}
	return b.out
}

func cutPrefixFold(s string, prefixes []string) (string, bool) {
	lower := strings.ToLower(s)
	for _, p := range prefixes {
		if strings.HasPrefix(lower, p) {
			return strings.TrimSpace(s[len(p):]), true
		}
	}
	return s, false
}

type jsonLine struct {
	Role     string `json:"role"`
	Content  string `json:"content"`
	Feedback string `json:"feedback"`
}

func parseJSONL(data []byte) ([]Exchange, error) {
	var b builder
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var jl jsonLine
		if err := json.Unmarshal(line, &jl); err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		content := strings.TrimSpace(jl.Content)
		if content == "" {
			continue
		}
		switch strings.ToLower(jl.Role) {
		case "user", "human", "":
			b.user(content)
		case "assistant", "ai", "bot":
			b.ai(content, strings.ToLower(strings.TrimSpace(jl.Feedback)))
		case "system":
		default:
			return nil, fmt.Errorf("line %d: unknown role %q", n, jl.Role)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return b.out, nil
}
