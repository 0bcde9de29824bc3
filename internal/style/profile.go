// Package style reduces a window of message analyses into a single
// statistical snapshot of how a user writes.
package style

import "github.com/voiceprint/voiceprint/internal/analyzer"

// Complexity buckets average words per sentence.
type Complexity string

const (
	Simple   Complexity = "simple"
	Moderate Complexity = "moderate"
	Complex  Complexity = "complex"
)

const (
	// DefaultWindow is how many recent analyses an Aggregator considers.
	DefaultWindow = 50
	// MaxFrequent caps the word, phrase and emoji frequency lists.
	MaxFrequent = 20
	// MaxTraits caps each linguistic trait list.
	MaxTraits = 5
)

// Flag thresholds, as per-message frequencies.
const (
	emojiThreshold       = 0.3
	exclamationThreshold = 0.3
	questionThreshold    = 0.3
	ellipsisThreshold    = 0.2
	bracketThreshold     = 0.2
	quoteThreshold       = 0.2

	simpleBelow  = 8.0
	complexAbove = 15.0
)

// Frequencies are per-message averages of pattern counts.
type Frequencies struct {
	Emoji       float64 `json:"emoji"`
	Exclamation float64 `json:"exclamation"`
	Question    float64 `json:"question"`
	Ellipsis    float64 `json:"ellipsis"`
	Bracket     float64 `json:"bracket"`
	Quote       float64 `json:"quote"`
}

// Flags mark habits whose frequency crosses a threshold.
type Flags struct {
	UsesEmoji       bool `json:"uses_emoji"`
	UsesExclamation bool `json:"uses_exclamation"`
	AsksQuestions   bool `json:"asks_questions"`
	UsesEllipsis    bool `json:"uses_ellipsis"`
	UsesBrackets    bool `json:"uses_brackets"`
	UsesQuotes      bool `json:"uses_quotes"`
}

// Traits are the most common linguistic features of the window.
type Traits struct {
	Conjunctions    []string `json:"conjunctions"`
	Interjections   []string `json:"interjections"`
	Fillers         []string `json:"fillers"`
	SentenceEndings []string `json:"sentence_endings"`
}

// TopicShare is how often a topic came up and its share of all mentions.
type TopicShare struct {
	Topic string  `json:"topic"`
	Count int     `json:"count"`
	Share float64 `json:"share"`
}

// Profile is the style snapshot of a window of messages.
type Profile struct {
	Tone                analyzer.Tone        `json:"tone"`
	AvgMessageLength    float64              `json:"avg_message_length"`
	AvgWordsPerMessage  float64              `json:"avg_words_per_message"`
	AvgWordsPerSentence float64              `json:"avg_words_per_sentence"`
	VocabularyRichness  float64              `json:"vocabulary_richness"`
	FrequentWords       []analyzer.TermCount `json:"frequent_words"`
	FrequentPhrases     []analyzer.TermCount `json:"frequent_phrases"`
	FrequentEmojis      []analyzer.TermCount `json:"frequent_emojis"`
	Frequencies         Frequencies          `json:"frequencies"`
	Flags               Flags                `json:"flags"`
	Traits              Traits               `json:"traits"`
	Topics              []TopicShare         `json:"topics"`
	Complexity          Complexity           `json:"complexity"`
	TotalAnalyzed       int                  `json:"total_analyzed"`
	ConfidenceScore     float64              `json:"confidence_score"`
}

// Neutral is the style of a user with no messages.
func Neutral() Profile {
	return Profile{
		Tone:            analyzer.NeutralTone(),
		FrequentWords:   []analyzer.TermCount{},
		FrequentPhrases: []analyzer.TermCount{},
		FrequentEmojis:  []analyzer.TermCount{},
		Traits: Traits{
			Conjunctions:    []string{},
			Interjections:   []string{},
			Fillers:         []string{},
			SentenceEndings: []string{},
		},
		Topics:     []TopicShare{},
		Complexity: Moderate,
	}
}

// Clone returns a deep copy of p.
func (p Profile) Clone() Profile {
	out := p
	out.FrequentWords = append([]analyzer.TermCount{}, p.FrequentWords...)
	out.FrequentPhrases = append([]analyzer.TermCount{}, p.FrequentPhrases...)
	out.FrequentEmojis = append([]analyzer.TermCount{}, p.FrequentEmojis...)
	out.Traits = Traits{
		Conjunctions:    append([]string{}, p.Traits.Conjunctions...),
		Interjections:   append([]string{}, p.Traits.Interjections...),
		Fillers:         append([]string{}, p.Traits.Fillers...),
		SentenceEndings: append([]string{}, p.Traits.SentenceEndings...),
	}
	out.Topics = append([]TopicShare{}, p.Topics...)
	return out
}

// Words returns the frequent word terms, most frequent first.
func (p Profile) Words() []string {
	out := make([]string, len(p.FrequentWords))
	for i, tc := range p.FrequentWords {
		out[i] = tc.Term
	}
	return out
}

// TopTopics returns up to n topic names, most mentioned first.
func (p Profile) TopTopics(n int) []string {
	out := make([]string, 0, n)
	for _, t := range p.Topics {
		if len(out) == n {
			break
		}
		out = append(out, t.Topic)
	}
	return out
}

// ActiveFlags names the flags that are set, in a fixed order.
func (f Flags) ActiveFlags() []string {
	out := make([]string, 0, 6)
	for _, c := range []struct {
		on   bool
		name string
	}{
		{f.UsesEmoji, "emoji"},
		{f.UsesExclamation, "exclamation"},
		{f.AsksQuestions, "questions"},
		{f.UsesEllipsis, "ellipsis"},
		{f.UsesBrackets, "brackets"},
		{f.UsesQuotes, "quotes"},
	} {
		if c.on {
			out = append(out, c.name)
		}
	}
	return out
}

func flagsFor(f Frequencies) Flags {
	return Flags{
		UsesEmoji:       f.Emoji > emojiThreshold,
		UsesExclamation: f.Exclamation > exclamationThreshold,
		AsksQuestions:   f.Question > questionThreshold,
		UsesEllipsis:    f.Ellipsis > ellipsisThreshold,
		UsesBrackets:    f.Bracket > bracketThreshold,
		UsesQuotes:      f.Quote > quoteThreshold,
	}
}

func complexityFor(avgWordsPerSentence float64) Complexity {
	switch {
	case avgWordsPerSentence < simpleBelow:
		return Simple
	case avgWordsPerSentence > complexAbove:
		return Complex
	default:
		return Moderate
	}
}
