// Package analyzer turns a single chat message into structured linguistic
// features: counts, tone scores, punctuation patterns, salient words,
// phrases and topics.
package analyzer

// Tone holds the four tone dimensions, each in [0,100].
type Tone struct {
	Formality  float64 `json:"formality"`
	Enthusiasm float64 `json:"enthusiasm"`
	Directness float64 `json:"directness"`
	Politeness float64 `json:"politeness"`
}

// NeutralTone is the tone of a user nothing is known about.
func NeutralTone() Tone {
	return Tone{Formality: 50, Enthusiasm: 50, Directness: 50, Politeness: 50}
}

// Sub returns t - o per dimension.
func (t Tone) Sub(o Tone) Tone {
	return Tone{
		Formality:  t.Formality - o.Formality,
		Enthusiasm: t.Enthusiasm - o.Enthusiasm,
		Directness: t.Directness - o.Directness,
		Politeness: t.Politeness - o.Politeness,
	}
}

// TermCount is a term and how often it occurred.
type TermCount struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// Patterns counts punctuation and emoji habits in a message.
type Patterns struct {
	Emojis       []string `json:"emojis"`
	Exclamations int      `json:"exclamations"`
	Questions    int      `json:"questions"`
	Ellipses     int      `json:"ellipses"`
	Brackets     int      `json:"brackets"`
	Quotes       int      `json:"quotes"`
}

// Features lists which lexicon entries appear in a message, in lexicon order.
type Features struct {
	Conjunctions    []string `json:"conjunctions"`
	Interjections   []string `json:"interjections"`
	Fillers         []string `json:"fillers"`
	SentenceEndings []string `json:"sentence_endings"`
}

// MessageAnalysis is the feature snapshot of one message.
type MessageAnalysis struct {
	Length              int         `json:"length"`
	SentenceCount       int         `json:"sentence_count"`
	WordCount           int         `json:"word_count"`
	AvgWordsPerSentence float64     `json:"avg_words_per_sentence"`
	VocabularyRichness  float64     `json:"vocabulary_richness"`
	Tone                Tone        `json:"tone"`
	Patterns            Patterns    `json:"patterns"`
	Features            Features    `json:"features"`
	Words               []TermCount `json:"words"`
	Phrases             []TermCount `json:"phrases"`
	Topics              []string    `json:"topics"`
}

const (
	// MaxWords is how many significant words an analysis keeps.
	MaxWords = 20
	// MaxPhrases is how many n-gram phrases an analysis keeps.
	MaxPhrases = 15
	minNGram   = 2
	maxNGram   = 4
)
