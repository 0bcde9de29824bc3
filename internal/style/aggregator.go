package style

import (
	"github.com/voiceprint/voiceprint/internal/analyzer"
	"github.com/voiceprint/voiceprint/internal/score"
)

// Aggregator builds Profiles from the most recent analyses of a window.
type Aggregator struct {
	window int
}

// NewAggregator creates an Aggregator over the last window analyses.
// window <= 0 selects DefaultWindow.
func NewAggregator(window int) *Aggregator {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Aggregator{window: window}
}

// Window returns the number of analyses considered.
func (a *Aggregator) Window() int { return a.window }

// Aggregate reduces analyses, oldest first, into a Profile. Only the newest
// Window() entries count. The result depends on nothing but its input.
func (a *Aggregator) Aggregate(analyses []analyzer.MessageAnalysis) Profile {
	if len(analyses) > a.window {
		analyses = analyses[len(analyses)-a.window:]
	}
	if len(analyses) == 0 {
		return Neutral()
	}
	n := len(analyses)

	var (
		tone                              analyzer.Tone
		length, words, perSentence, rich  float64
		emojis, excl, quest, ell, br, quo float64
	)
	wordC, phraseC, emojiC := analyzer.NewCounter(), analyzer.NewCounter(), analyzer.NewCounter()
	conj, inter, fill, end := analyzer.NewCounter(), analyzer.NewCounter(), analyzer.NewCounter(), analyzer.NewCounter()
	topicC := analyzer.NewCounter()

	for _, m := range analyses {
		tone.Formality += m.Tone.Formality
		tone.Enthusiasm += m.Tone.Enthusiasm
		tone.Directness += m.Tone.Directness
		tone.Politeness += m.Tone.Politeness

		length += float64(m.Length)
		words += float64(m.WordCount)
		perSentence += m.AvgWordsPerSentence
		rich += m.VocabularyRichness

		emojis += float64(len(m.Patterns.Emojis))
		excl += float64(m.Patterns.Exclamations)
		quest += float64(m.Patterns.Questions)
		ell += float64(m.Patterns.Ellipses)
		br += float64(m.Patterns.Brackets)
		quo += float64(m.Patterns.Quotes)

		wordC.AddAll(m.Words)
		phraseC.AddAll(m.Phrases)
		for _, e := range m.Patterns.Emojis {
			emojiC.Add(e, 1)
		}
		addEach(conj, m.Features.Conjunctions)
		addEach(inter, m.Features.Interjections)
		addEach(fill, m.Features.Fillers)
		addEach(end, m.Features.SentenceEndings)
		addEach(topicC, m.Topics)
	}

	freq := Frequencies{
		Emoji:       score.Per(emojis, n),
		Exclamation: score.Per(excl, n),
		Question:    score.Per(quest, n),
		Ellipsis:    score.Per(ell, n),
		Bracket:     score.Per(br, n),
		Quote:       score.Per(quo, n),
	}
	avgPerSentence := score.Per(perSentence, n)

	return Profile{
		Tone: analyzer.Tone{
			Formality:  score.Clamp(score.Per(tone.Formality, n)),
			Enthusiasm: score.Clamp(score.Per(tone.Enthusiasm, n)),
			Directness: score.Clamp(score.Per(tone.Directness, n)),
			Politeness: score.Clamp(score.Per(tone.Politeness, n)),
		},
		AvgMessageLength:    score.Per(length, n),
		AvgWordsPerMessage:  score.Per(words, n),
		AvgWordsPerSentence: avgPerSentence,
		VocabularyRichness:  score.Clamp(score.Per(rich, n)),
		FrequentWords:       wordC.Top(MaxFrequent),
		FrequentPhrases:     phraseC.Top(MaxFrequent),
		FrequentEmojis:      emojiC.Top(MaxFrequent),
		Frequencies:         freq,
		Flags:               flagsFor(freq),
		Traits: Traits{
			Conjunctions:    conj.Terms(MaxTraits),
			Interjections:   inter.Terms(MaxTraits),
			Fillers:         fill.Terms(MaxTraits),
			SentenceEndings: end.Terms(MaxTraits),
		},
		Topics:          topicShares(topicC),
		Complexity:      complexityFor(avgPerSentence),
		TotalAnalyzed:   n,
		ConfidenceScore: confidenceFor(n),
	}
}

func confidenceFor(n int) float64 {
	return score.Clamp(float64(n) * 2)
}

func addEach(c *analyzer.Counter, terms []string) {
	for _, t := range terms {
		c.Add(t, 1)
	}
}

func topicShares(c *analyzer.Counter) []TopicShare {
	top := c.Top(0)
	total := 0
	for _, tc := range top {
		total += tc.Count
	}
	out := make([]TopicShare, len(top))
	for i, tc := range top {
		out[i] = TopicShare{
			Topic: tc.Term,
			Count: tc.Count,
			Share: score.Round1(score.Per(float64(tc.Count)*100, total)),
		}
	}
	return out
}
