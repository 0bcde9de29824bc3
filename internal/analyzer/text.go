package analyzer

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

// IsSentenceTerminator reports whether r ends a sentence.
func IsSentenceTerminator(r rune) bool {
	switch r {
	case '.', '!', '?', '。', '！', '？', '…', '\n':
		return true
	}
	return false
}

// IsEmoji reports whether r falls in one of the emoji blocks, including the
// modifiers and joiners that appear inside emoji sequences.
func IsEmoji(r rune) bool {
	switch {
	case r >= 0x1F000 && r <= 0x1FAFF: // pictographs, emoticons, flags, skin tones
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols, dingbats
		return true
	case r >= 0x2300 && r <= 0x23FF, r >= 0x2B00 && r <= 0x2BFF:
		return true
	case r == 0x200D || r == 0xFE0F:
		return true
	}
	return false
}

// Emojis returns every emoji in text in order of appearance. Multi-rune
// sequences (skin tones, ZWJ families, flags) count as one emoji.
func Emojis(text string) []string {
	out := make([]string, 0)
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		runes := g.Runes()
		if len(runes) > 0 && IsEmoji(runes[0]) && runes[0] != 0x200D && runes[0] != 0xFE0F {
			out = append(out, g.Str())
		}
	}
	return out
}

// Sentences splits text into trimmed sentences. Segments with no letters or
// digits (a lone emoji, stray punctuation) are dropped.
func Sentences(text string) []string {
	var out []string
	var b strings.Builder
	flush := func() {
		s := strings.TrimSpace(b.String())
		b.Reset()
		if hasWordRune(s) {
			out = append(out, s)
		}
	}
	for _, r := range text {
		if IsSentenceTerminator(r) {
			flush()
			continue
		}
		b.WriteRune(r)
	}
	flush()
	return out
}

// IsTokenEdge reports whether r is trimmed from the ends of a token:
// punctuation, symbols and emoji.
func IsTokenEdge(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r) || IsEmoji(r)
}

// NormalizeToken lowercases w and trims leading and trailing punctuation and
// symbols.
func NormalizeToken(w string) string {
	return strings.ToLower(strings.TrimFunc(w, IsTokenEdge))
}

// Tokens returns the normalized, non-empty tokens of text.
func Tokens(text string) []string {
	fields := strings.Fields(text)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := NormalizeToken(f); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// TrimSentenceTail strips trailing whitespace, terminators, commas and emoji
// from a sentence so its grammatical ending can be inspected.
func TrimSentenceTail(s string) string {
	return strings.TrimRightFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || IsSentenceTerminator(r) || r == ',' || IsEmoji(r)
	})
}

func hasWordRune(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '.' && r != ',' {
			return false
		}
	}
	return s != ""
}
