package style

import (
	"github.com/voiceprint/voiceprint/internal/analyzer"
	"github.com/voiceprint/voiceprint/internal/score"
)

// Blend combines a prior profile with one built from a new batch, weighting
// each side by the number of messages behind it. Frequency lists are merged
// with the new batch's terms ranked ahead of older ones on ties.
func Blend(prev, next Profile) Profile {
	switch {
	case next.TotalAnalyzed == 0:
		return prev.Clone()
	case prev.TotalAnalyzed == 0:
		return next.Clone()
	}
	total := prev.TotalAnalyzed + next.TotalAnalyzed
	wp := float64(prev.TotalAnalyzed) / float64(total)
	wn := float64(next.TotalAnalyzed) / float64(total)
	mix := func(a, b float64) float64 { return a*wp + b*wn }

	freq := Frequencies{
		Emoji:       mix(prev.Frequencies.Emoji, next.Frequencies.Emoji),
		Exclamation: mix(prev.Frequencies.Exclamation, next.Frequencies.Exclamation),
		Question:    mix(prev.Frequencies.Question, next.Frequencies.Question),
		Ellipsis:    mix(prev.Frequencies.Ellipsis, next.Frequencies.Ellipsis),
		Bracket:     mix(prev.Frequencies.Bracket, next.Frequencies.Bracket),
		Quote:       mix(prev.Frequencies.Quote, next.Frequencies.Quote),
	}
	perSentence := mix(prev.AvgWordsPerSentence, next.AvgWordsPerSentence)

	topics := analyzer.NewCounter()
	for _, ts := range next.Topics {
		topics.Add(ts.Topic, ts.Count)
	}
	for _, ts := range prev.Topics {
		topics.Add(ts.Topic, ts.Count)
	}

	return Profile{
		Tone: analyzer.Tone{
			Formality:  score.Clamp(mix(prev.Tone.Formality, next.Tone.Formality)),
			Enthusiasm: score.Clamp(mix(prev.Tone.Enthusiasm, next.Tone.Enthusiasm)),
			Directness: score.Clamp(mix(prev.Tone.Directness, next.Tone.Directness)),
			Politeness: score.Clamp(mix(prev.Tone.Politeness, next.Tone.Politeness)),
		},
		AvgMessageLength:    mix(prev.AvgMessageLength, next.AvgMessageLength),
		AvgWordsPerMessage:  mix(prev.AvgWordsPerMessage, next.AvgWordsPerMessage),
		AvgWordsPerSentence: perSentence,
		VocabularyRichness:  score.Clamp(mix(prev.VocabularyRichness, next.VocabularyRichness)),
		FrequentWords:       mergeCounts(next.FrequentWords, prev.FrequentWords, MaxFrequent),
		FrequentPhrases:     mergeCounts(next.FrequentPhrases, prev.FrequentPhrases, MaxFrequent),
		FrequentEmojis:      mergeCounts(next.FrequentEmojis, prev.FrequentEmojis, MaxFrequent),
		Frequencies:         freq,
		Flags:               flagsFor(freq),
		Traits: Traits{
			Conjunctions:    mergeTerms(next.Traits.Conjunctions, prev.Traits.Conjunctions),
			Interjections:   mergeTerms(next.Traits.Interjections, prev.Traits.Interjections),
			Fillers:         mergeTerms(next.Traits.Fillers, prev.Traits.Fillers),
			SentenceEndings: mergeTerms(next.Traits.SentenceEndings, prev.Traits.SentenceEndings),
		},
		Topics:          topicShares(topics),
		Complexity:      complexityFor(perSentence),
		TotalAnalyzed:   total,
		ConfidenceScore: confidenceFor(total),
	}
}

func mergeCounts(first, second []analyzer.TermCount, n int) []analyzer.TermCount {
	c := analyzer.NewCounter()
	c.AddAll(first)
	c.AddAll(second)
	return c.Top(n)
}

func mergeTerms(first, second []string) []string {
	seen := make(map[string]struct{}, len(first)+len(second))
	out := make([]string, 0, MaxTraits)
	for _, t := range append(append([]string{}, first...), second...) {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if len(out) == MaxTraits {
			break
		}
		out = append(out, t)
	}
	return out
}
