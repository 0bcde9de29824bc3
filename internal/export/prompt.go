package export

import (
	"fmt"
	"strings"

	"github.com/voiceprint/voiceprint/internal/profile"
)

// PromptExporter renders the profile as writing instructions that can be
// pasted into a model's system prompt.
type PromptExporter struct{}

func (e *PromptExporter) Filename() string { return "voice-prompt.txt" }

func (e *PromptExporter) Export(data ExportData) (string, error) {
	p := data.Profile
	if p == nil {
		return "", fmt.Errorf("no profile")
	}
	st := p.Style

	var b strings.Builder
	b.WriteString("Write in the voice of the user described below.\n\n")
	fmt.Fprintf(&b, "- Register: %s. %s\n", p.Patterns.InteractionStyle, level("formality", st.Tone.Formality))
	fmt.Fprintf(&b, "- %s %s %s\n",
		level("Enthusiasm", st.Tone.Enthusiasm), level("Directness", st.Tone.Directness), level("Politeness", st.Tone.Politeness))
	switch p.Patterns.ResponseLength {
	case profile.LengthShort:
		b.WriteString("- Keep messages short, one or two sentences.\n")
	case profile.LengthLong:
		b.WriteString("- Longer, detailed messages are fine.\n")
	default:
		b.WriteString("- Aim for medium-length messages.\n")
	}
	fmt.Fprintf(&b, "- Sentence structure: %s.\n", st.Complexity)

	f := st.Flags
	if f.UsesEmoji {
		emoji := terms(st.FrequentEmojis, 3)
		if len(emoji) > 0 {
			fmt.Fprintf(&b, "- Uses emoji, especially %s.\n", strings.Join(emoji, " "))
		} else {
			b.WriteString("- Uses emoji.\n")
		}
	} else {
		b.WriteString("- Avoid emoji.\n")
	}
	if f.UsesExclamation {
		b.WriteString("- Uses exclamation marks.\n")
	}
	if f.UsesEllipsis {
		b.WriteString("- Trails off with ellipses.\n")
	}
	if f.UsesBrackets {
		b.WriteString("- Adds asides in brackets.\n")
	}
	if words := terms(st.FrequentWords, 8); len(words) > 0 {
		fmt.Fprintf(&b, "- Favourite words: %s.\n", strings.Join(words, ", "))
	}
	if endings := st.Traits.SentenceEndings; len(endings) > 0 {
		fmt.Fprintf(&b, "- Typical sentence endings: %s.\n", strings.Join(endings, ", "))
	}
	if fillers := st.Traits.Fillers; len(fillers) > 0 {
		fmt.Fprintf(&b, "- Filler words: %s.\n", strings.Join(fillers, ", "))
	}

	var ctx []string
	if topics := p.Patterns.PreferredTopics; len(topics) > 0 {
		ctx = append(ctx, "usually talks about "+strings.Join(topics, ", "))
	}
	var projects []string
	for _, pr := range p.Context.OngoingProjects.Items() {
		projects = append(projects, pr.Name)
	}
	if len(projects) > 0 {
		ctx = append(ctx, "is working on "+strings.Join(projects, ", "))
	}
	if m := p.Insights.Motivations.Items(); len(m) > 0 {
		ctx = append(ctx, "cares about "+strings.Join(m, ", "))
	}
	if role := p.Business.Role; role != "" {
		ctx = append(ctx, "works as "+role)
	}
	if len(ctx) > 0 {
		fmt.Fprintf(&b, "\nContext: the user %s.\n", strings.Join(ctx, "; "))
	}
	return b.String(), nil
}

func level(name string, v float64) string {
	switch {
	case v > 70:
		return fmt.Sprintf("High %s.", strings.ToLower(name))
	case v < 30:
		return fmt.Sprintf("Low %s.", strings.ToLower(name))
	default:
		return fmt.Sprintf("Moderate %s.", strings.ToLower(name))
	}
}
