package analyzer

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/voiceprint/voiceprint/internal/lexicon"
	"github.com/voiceprint/voiceprint/internal/score"
)

// Analyzer extracts MessageAnalysis values. It holds no mutable state and is
// safe for concurrent use.
type Analyzer struct {
	lex *lexicon.Lexicon
}

// New creates an Analyzer using lex. A nil lex selects the built-in Korean
// lexicon.
func New(lex *lexicon.Lexicon) *Analyzer {
	if lex == nil {
		lex = lexicon.Korean()
	}
	return &Analyzer{lex: lex}
}

// Lexicon returns the lexicon the analyzer was built with.
func (a *Analyzer) Lexicon() *lexicon.Lexicon { return a.lex }

// Analyze computes the features of one message. Empty text yields zero
// counts with sentence and word counts floored at 1.
func (a *Analyzer) Analyze(text string) MessageAnalysis {
	text = norm.NFC.String(text)
	lower := strings.ToLower(text)

	sentences := Sentences(text)
	tokens := Tokens(text)
	sentenceCount := max(1, len(sentences))
	wordCount := max(1, len(strings.Fields(text)))

	emojis := Emojis(text)

	return MessageAnalysis{
		Length:              utf8.RuneCountInString(text),
		SentenceCount:       sentenceCount,
		WordCount:           wordCount,
		AvgWordsPerSentence: score.Per(float64(wordCount), sentenceCount),
		VocabularyRichness:  richness(tokens),
		Tone: Tone{
			Formality:  toneScore(a.lex.Formality(), lower, len(emojis)),
			Enthusiasm: toneScore(a.lex.Enthusiasm(), lower, len(emojis)),
			Directness: toneScore(a.lex.Directness(), lower, len(emojis)),
			Politeness: toneScore(a.lex.Politeness(), lower, len(emojis)),
		},
		Patterns: Patterns{
			Emojis:       emojis,
			Exclamations: strings.Count(text, "!") + strings.Count(text, "！"),
			Questions:    strings.Count(text, "?") + strings.Count(text, "？"),
			Ellipses:     strings.Count(text, "...") + strings.Count(text, "…"),
			Brackets:     strings.Count(text, "(") + strings.Count(text, "[") + strings.Count(text, "（") + strings.Count(text, "【"),
			Quotes:       strings.Count(text, `"`)/2 + strings.Count(text, "“") + strings.Count(text, "「") + strings.Count(text, "『"),
		},
		Features: a.features(tokens, sentences),
		Words:    a.significantWords(tokens),
		Phrases:  a.phrases(sentences),
		Topics:   a.topics(lower),
	}
}

func toneScore(t lexicon.ToneTable, lower string, emojiCount int) float64 {
	s := t.Baseline
	for _, m := range t.Markers {
		if m.Term == "" {
			continue
		}
		s += m.Weight * float64(strings.Count(lower, strings.ToLower(m.Term)))
	}
	s += t.EmojiWeight * float64(emojiCount)
	return score.Clamp(s)
}

func richness(tokens []string) float64 {
	if len(tokens) == 0 {
		return 0
	}
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		seen[t] = struct{}{}
	}
	return score.Clamp(float64(len(seen)) / float64(len(tokens)) * 100)
}

func (a *Analyzer) features(tokens, sentences []string) Features {
	present := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		present[t] = struct{}{}
	}
	has := func(terms []string) []string {
		out := make([]string, 0)
		for _, term := range terms {
			if _, ok := present[strings.ToLower(term)]; ok {
				out = append(out, term)
			}
		}
		return out
	}

	endings := make([]string, 0)
	for _, e := range a.lex.SentenceEndings() {
		for _, s := range sentences {
			if strings.HasSuffix(TrimSentenceTail(s), e.Term) {
				endings = append(endings, e.Term)
				break
			}
		}
	}

	return Features{
		Conjunctions:    has(a.lex.Conjunctions()),
		Interjections:   has(a.lex.Interjections()),
		Fillers:         has(a.lex.Fillers()),
		SentenceEndings: endings,
	}
}

// significant reports whether a normalized token carries meaning on its own.
func (a *Analyzer) significant(tok string) (string, bool) {
	if a.lex.IsStopWord(tok) {
		return "", false
	}
	stem := a.lex.StripParticle(tok)
	if a.lex.IsStopWord(stem) || utf8.RuneCountInString(stem) < 2 || isNumeric(stem) {
		return "", false
	}
	return stem, true
}

func (a *Analyzer) significantWords(tokens []string) []TermCount {
	c := NewCounter()
	for _, t := range tokens {
		if stem, ok := a.significant(t); ok {
			c.Add(stem, 1)
		}
	}
	return c.Top(MaxWords)
}

func (a *Analyzer) phrases(sentences []string) []TermCount {
	c := NewCounter()
	for _, s := range sentences {
		toks := Tokens(s)
		for n := minNGram; n <= maxNGram; n++ {
			for i := 0; i+n <= len(toks); i++ {
				gram := toks[i : i+n]
				if a.lex.IsStopWord(gram[0]) || a.lex.IsStopWord(gram[n-1]) {
					continue
				}
				c.Add(strings.Join(gram, " "), 1)
			}
		}
	}
	return c.Top(MaxPhrases)
}

func (a *Analyzer) topics(lower string) []string {
	out := make([]string, 0)
	for _, tp := range a.lex.Topics() {
		for _, kw := range tp.Keywords {
			if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
				out = append(out, tp.Name)
				break
			}
		}
	}
	return out
}
