package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/voiceprint/voiceprint/internal/analyzer"
	"github.com/voiceprint/voiceprint/internal/config"
	"github.com/voiceprint/voiceprint/internal/profile"
)

// statusWords is how many frequent words status lists.
const statusWords = 5

func newStatusCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current voice profile for the workspace user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace()
			if err != nil {
				return err
			}
			defer ws.Close()

			user := ws.user(userID)
			p, err := ws.store.Profiles.Load(user)
			if err != nil {
				return err
			}
			sessions, _ := ws.store.Sessions.Count(user)
			messages, _ := ws.store.History.Count(user)
			transcripts, _ := ws.store.Transcripts.Count()

			var dbSize int64
			if fi, err := os.Stat(config.ProjectDBPath(ws.root)); err == nil {
				dbSize = fi.Size()
			}

			w := cmd.OutOrStdout()
			printProfileStatus(w, p)
			fmt.Fprintf(w, "Sessions: %d (%d messages, %d transcripts)\n", sessions, messages, transcripts)
			fmt.Fprintf(w, "Lexicon:  %s %s\n", ws.lex.Locale(), ws.lex.Version())
			fmt.Fprintf(w, "DB size:  %s\n", formatBytes(dbSize))
			fmt.Fprintln(w)
			return nil
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "User to show (default: configured user)")
	return cmd
}

func printProfileStatus(w io.Writer, p *profile.MasterProfile) {
	st := p.Style
	q := p.Quality

	fmt.Fprintf(w, "\nUser:     %s (profile v%d)\n", p.UserID, p.Version)
	if !p.LastUpdated.IsZero() {
		fmt.Fprintf(w, "Updated:  %s\n", p.LastUpdated.Format("2006-01-02 15:04"))
	}
	if b := p.Business; b.CompanyName != "" || b.Role != "" {
		fmt.Fprintf(w, "Business: %s\n", joinNonEmpty(" / ", b.CompanyName, b.Industry, b.Role))
	}
	fmt.Fprintf(w, "Analyzed: %d messages over %d conversations\n", q.MessagesAnalyzed, p.Conversation.TotalConversations)
	if st.TotalAnalyzed == 0 {
		fmt.Fprintln(w, "Style:    not learned yet")
	} else {
		fmt.Fprintf(w, "Style:    %s sentences, %.0f characters per message\n", st.Complexity, st.AvgMessageLength)
		fmt.Fprintf(w, "Tone:     %s\n", describeTone(st.Tone))
		if len(st.FrequentWords) > 0 {
			fmt.Fprintf(w, "Words:    %s\n", joinTerms(st.FrequentWords, statusWords))
		}
		if tags := p.Patterns.CommunicationTags; len(tags) > 0 {
			fmt.Fprintf(w, "Habits:   %s\n", strings.Join(tags, ", "))
		}
	}
	fmt.Fprintf(w, "Quality:  richness %.0f, consistency %.0f, accuracy %.0f\n",
		q.DataRichness, q.ConsistencyScore, q.PredictionAccuracy)
}

func describeTone(t analyzer.Tone) string {
	return fmt.Sprintf("formality %.0f, enthusiasm %.0f, directness %.0f, politeness %.0f",
		t.Formality, t.Enthusiasm, t.Directness, t.Politeness)
}

func joinTerms(terms []analyzer.TermCount, n int) string {
	parts := make([]string, 0, n)
	for i, t := range terms {
		if i == n {
			break
		}
		parts = append(parts, fmt.Sprintf("%s (%d)", t.Term, t.Count))
	}
	return strings.Join(parts, ", ")
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}

func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
