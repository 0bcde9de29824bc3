package export

import (
	"fmt"
	"strings"
)

// MarkdownExporter renders the profile as a human-readable report.
type MarkdownExporter struct{}

func (e *MarkdownExporter) Filename() string { return "voice-profile.md" }

func (e *MarkdownExporter) Export(data ExportData) (string, error) {
	p := data.Profile
	if p == nil {
		return "", fmt.Errorf("no profile")
	}
	st := p.Style

	var b strings.Builder
	fmt.Fprintf(&b, "# Voice profile: %s\n\n", p.UserID)
	fmt.Fprintf(&b, "Version %d, %d messages analysed, updated %s.\n\n",
		p.Version, p.Quality.MessagesAnalyzed, p.LastUpdated.Format("2006-01-02 15:04"))

	b.WriteString("## Tone\n\n")
	b.WriteString("| Dimension | Score |\n|---|---|\n")
	fmt.Fprintf(&b, "| Formality | %.0f |\n", st.Tone.Formality)
	fmt.Fprintf(&b, "| Enthusiasm | %.0f |\n", st.Tone.Enthusiasm)
	fmt.Fprintf(&b, "| Directness | %.0f |\n", st.Tone.Directness)
	fmt.Fprintf(&b, "| Politeness | %.0f |\n\n", st.Tone.Politeness)

	b.WriteString("## Writing\n\n")
	fmt.Fprintf(&b, "- Interaction style: %s\n", p.Patterns.InteractionStyle)
	fmt.Fprintf(&b, "- Preferred length: %s (avg %.0f characters)\n", p.Patterns.ResponseLength, st.AvgMessageLength)
	fmt.Fprintf(&b, "- Sentence complexity: %s\n", st.Complexity)
	fmt.Fprintf(&b, "- Vocabulary richness: %.0f\n", st.VocabularyRichness)
	if tags := p.Patterns.CommunicationTags; len(tags) > 0 {
		fmt.Fprintf(&b, "- Habits: %s\n", strings.Join(tags, ", "))
	}
	b.WriteString("\n")

	b.WriteString(listSection("Frequent words", terms(st.FrequentWords, 10)))
	b.WriteString(listSection("Frequent phrases", terms(st.FrequentPhrases, 5)))
	b.WriteString(listSection("Sentence endings", st.Traits.SentenceEndings))
	b.WriteString(listSection("Preferred topics", p.Patterns.PreferredTopics))

	var projects []string
	for _, pr := range p.Context.OngoingProjects.Items() {
		projects = append(projects, fmt.Sprintf("%s (%d mentions)", pr.Name, pr.Mentions))
	}
	b.WriteString(listSection("Ongoing projects", projects))
	b.WriteString(listSection("Motivations", p.Insights.Motivations.Items()))
	b.WriteString(listSection("Pain points", p.Insights.PainPoints.Items()))

	biz := p.Business
	var business []string
	for _, kv := range [][2]string{
		{"Company", biz.CompanyName}, {"Industry", biz.Industry}, {"Role", biz.Role},
		{"Products", biz.Products}, {"Customers", biz.TargetCustomers}, {"Goals", biz.Goals},
	} {
		if kv[1] != "" {
			business = append(business, kv[0]+": "+kv[1])
		}
	}
	b.WriteString(listSection("Business", business))

	if len(data.Sessions) > 0 {
		b.WriteString("## Recent sessions\n\n")
		for _, s := range data.Sessions {
			fmt.Fprintf(&b, "- %s v%d: %d messages, engagement %.0f",
				s.CreatedAt.Format("2006-01-02"), s.VersionAfter, s.Summary.UserMessages, s.Summary.Engagement)
			if len(s.Delta.NewVocabulary) > 0 {
				fmt.Fprintf(&b, ", new words: %s", strings.Join(s.Delta.NewVocabulary, ", "))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	q := p.Quality
	fmt.Fprintf(&b, "## Quality\n\nData richness %.0f, consistency %.0f, prediction accuracy %.0f.\n",
		q.DataRichness, q.ConsistencyScore, q.PredictionAccuracy)

	b.WriteString("\n---\n*Generated by voiceprint*\n")
	return b.String(), nil
}

func listSection(heading string, items []string) string {
	if len(items) == 0 {
		return ""
	}
	out := fmt.Sprintf("## %s\n\n", heading)
	for _, it := range items {
		out += fmt.Sprintf("- %s\n", it)
	}
	return out + "\n"
}
