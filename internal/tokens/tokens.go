// Package tokens counts and truncates text in model tokens.
package tokens

import (
	"fmt"
	"strings"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// Encoding is the tiktoken encoding used for every count.
const Encoding = "cl100k_base"

// Tokenizer wraps tiktoken for approximate token counting.
type Tokenizer struct {
	enc *tiktoken.Tiktoken
}

// New creates a Tokenizer. The encoding tables are fetched on first use, so
// this can fail without network access or a TIKTOKEN_CACHE_DIR.
func New() (*Tokenizer, error) {
	enc, err := tiktoken.GetEncoding(Encoding)
	if err != nil {
		return nil, fmt.Errorf("tokens: get encoding: %w", err)
	}
	return &Tokenizer{enc: enc}, nil
}

// Count returns the approximate number of tokens in s.
func (t *Tokenizer) Count(s string) int {
	return len(t.enc.Encode(s, nil, nil))
}

// Truncate cuts s to at most maxTokens tokens. A multi-byte character split
// by the cut is dropped.
func (t *Tokenizer) Truncate(s string, maxTokens int) string {
	if maxTokens <= 0 {
		return s
	}
	toks := t.enc.Encode(s, nil, nil)
	if len(toks) <= maxTokens {
		return s
	}
	return strings.ToValidUTF8(t.enc.Decode(toks[:maxTokens]), "")
}
