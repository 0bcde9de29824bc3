package profile

import (
	"strings"

	"github.com/voiceprint/voiceprint/internal/score"
)

// QualityBreakdown holds the four sub-scores averaged into DataRichness.
type QualityBreakdown struct {
	BusinessCompletion   float64 `json:"business_completion"`
	WritingRichness      float64 `json:"writing_richness"`
	ConversationRichness float64 `json:"conversation_richness"`
	ContextRichness      float64 `json:"context_richness"`
}

// Breakdown computes the quality sub-scores of p.
func Breakdown(p *MasterProfile) QualityBreakdown {
	fields := p.Business.fields()
	filled := 0
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			filled++
		}
	}

	st := p.Style
	c := p.Conversation
	mem := p.Context
	in := p.Insights

	return QualityBreakdown{
		BusinessCompletion: score.Clamp(float64(filled) / float64(len(fields)) * 100),
		WritingRichness: score.Mean(
			score.Clamp(float64(len(st.FrequentWords))*5),
			st.VocabularyRichness,
			st.ConfidenceScore,
		),
		ConversationRichness: 0.5*score.Clamp(float64(c.TotalMessages)*2) +
			0.5*score.Clamp(float64(len(c.TopicFrequency))*10),
		ContextRichness: score.Clamp(float64(mem.OngoingProjects.Len())*10 +
			float64(mem.PersonalReferences.Len())*5 +
			float64(in.Motivations.Len())*5 +
			float64(in.PainPoints.Len())*5),
	}
}

func recomputeQuality(p *MasterProfile) {
	b := Breakdown(p)
	q := &p.Quality
	q.DataRichness = score.Clamp(score.Mean(b.BusinessCompletion, b.WritingRichness, b.ConversationRichness, b.ContextRichness))
	q.ConsistencyScore = score.Clamp(p.Style.ConfidenceScore)
	q.PredictionAccuracy = score.Clamp(q.DataRichness)
}
