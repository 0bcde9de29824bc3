package profile

import (
	"strings"

	"github.com/voiceprint/voiceprint/internal/score"
)

func (m *Manager) updateInsights(p *MasterProfile, u Update) {
	in := &p.Insights
	st := p.Style

	in.DetailPreference = score.Clamp(st.AvgMessageLength / 2)
	in.EmojiPreference = score.Clamp(st.Frequencies.Emoji * 100)
	in.FormalityPreference = st.Tone.Formality
	in.EnthusiasmPreference = st.Tone.Enthusiasm
	in.QuestionPreference = score.Clamp(st.Frequencies.Question * 100)

	for _, fb := range u.Feedback {
		switch fb.Verdict {
		case Positive:
			in.PositiveFeedback++
		case Negative:
			in.NegativeFeedback++
		case Neutral:
			in.NeutralFeedback++
		}
	}
	in.Satisfaction = Satisfaction(in.PositiveFeedback, in.PositiveFeedback+in.NegativeFeedback+in.NeutralFeedback)

	for _, msg := range u.UserMessages {
		lower := strings.ToLower(msg)
		for _, kw := range m.lex.MotivationKeywords() {
			if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
				rememberKeyword(&in.Motivations, kw)
			}
		}
		for _, kw := range m.lex.PainPointKeywords() {
			if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
				rememberKeyword(&in.PainPoints, kw)
			}
		}
	}
}

// Satisfaction is the percentage of positive verdicts, or 50 with none.
func Satisfaction(positive, total int) float64 {
	if total <= 0 {
		return neutralSatisfaction
	}
	return score.Clamp(float64(positive) / float64(total) * 100)
}

// rememberKeyword keeps kw once, as the most recent entry.
func rememberKeyword(l *Keywords, kw string) {
	if i := l.Index(func(s string) bool { return s == kw }); i >= 0 {
		l.Touch(i, nil)
		return
	}
	l.Push(kw)
}
