package personalize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/voiceprint/voiceprint/internal/analyzer"
)

// splitSentences splits text into sentences that keep their terminators.
func splitSentences(text string) []string {
	var out []string
	var b strings.Builder
	flush := func() {
		if s := strings.TrimSpace(b.String()); s != "" {
			out = append(out, s)
		}
		b.Reset()
	}
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\n' {
			flush()
			continue
		}
		b.WriteRune(r)
		if analyzer.IsSentenceTerminator(r) {
			for i+1 < len(runes) && runes[i+1] != '\n' && analyzer.IsSentenceTerminator(runes[i+1]) {
				i++
				b.WriteRune(runes[i])
			}
			flush()
		}
	}
	flush()
	return out
}

// cut separates a sentence into its body and trailing punctuation.
func cut(s string) (body, tail string) {
	body = strings.TrimRightFunc(s, func(r rune) bool {
		return analyzer.IsSentenceTerminator(r) || unicode.IsSpace(r)
	})
	return body, strings.TrimSpace(s[len(body):])
}

func withTerminator(s, term string) string {
	body, _ := cut(s)
	return body + term
}

func wordCount(s string) int { return len(strings.Fields(s)) }

func hasEmoji(s string) bool {
	return len(analyzer.Emojis(s)) > 0
}

// prefix puts p in front of s unless s already starts with it.
func prefix(s, p string) (string, bool) {
	if p == "" || strings.HasPrefix(s, strings.TrimSpace(p)) {
		return s, false
	}
	return p + s, true
}

func removeAll(s string, terms []string) (string, bool) {
	out := s
	for _, t := range terms {
		if t != "" {
			out = strings.ReplaceAll(out, t, "")
		}
	}
	out = strings.Join(strings.Fields(out), " ")
	return out, out != strings.Join(strings.Fields(s), " ")
}

// isWordRune reports whether r belongs to a token, using the analyzer's
// token edges.
func isWordRune(r rune) bool {
	return !unicode.IsSpace(r) && !analyzer.IsTokenEdge(r)
}

// bounds says where a term may match inside a token. midWord lets a match
// start after other word runes, as Korean endings follow a stem. accept,
// when set, admits the word runes that directly follow a match.
type bounds struct {
	midWord bool
	accept  func(rest string) bool
}

// replaceTerm replaces case-insensitive occurrences of from with to where
// from is not part of a longer word, and returns the number replaced. A
// match that starts with an upper-case letter keeps it.
func replaceTerm(s, from, to string, b bounds) (string, int) {
	if from == "" {
		return s, 0
	}
	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(from))
	var out strings.Builder
	last, n := 0, 0
	for _, m := range re.FindAllStringIndex(s, -1) {
		start, end := m[0], m[1]
		if !b.midWord && start > 0 {
			if r, _ := utf8.DecodeLastRuneInString(s[:start]); isWordRune(r) {
				continue
			}
		}
		if rest := leadingWord(s[end:]); rest != "" && (b.accept == nil || !b.accept(rest)) {
			continue
		}
		out.WriteString(s[last:start])
		out.WriteString(matchCase(s[start:end], to))
		last = end
		n++
	}
	if n == 0 {
		return s, 0
	}
	out.WriteString(s[last:])
	return out.String(), n
}

func leadingWord(s string) string {
	for i, r := range s {
		if !isWordRune(r) {
			return s[:i]
		}
	}
	return s
}

func matchCase(matched, to string) string {
	m, _ := utf8.DecodeRuneInString(matched)
	t, size := utf8.DecodeRuneInString(to)
	if unicode.IsUpper(m) && unicode.IsLower(t) {
		return string(unicode.ToUpper(t)) + to[size:]
	}
	return to
}

func startsWithHangul(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.Is(unicode.Hangul, r)
}

// stripEmoji removes every emoji rune from s and tidies the spacing left
// behind.
func stripEmoji(s string) string {
	s = strings.Map(func(r rune) rune {
		if analyzer.IsEmoji(r) {
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
