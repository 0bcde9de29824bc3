package style

// FingerprintDimension is the length of a Fingerprint vector.
const FingerprintDimension = 8

// Fingerprint summarizes p as a vector with every component in [0, 1]:
// the four tone dimensions, vocabulary richness, message length (saturating
// at 200 characters), and emoji and question frequency.
func Fingerprint(p Profile) []float32 {
	unit := func(v float64) float32 {
		return float32(min(100, max(0, v)) / 100)
	}
	t := p.Tone
	return []float32{
		unit(t.Formality),
		unit(t.Enthusiasm),
		unit(t.Directness),
		unit(t.Politeness),
		unit(p.VocabularyRichness),
		unit(p.AvgMessageLength / 2),
		unit(p.Frequencies.Emoji * 100),
		unit(p.Frequencies.Question * 100),
	}
}
