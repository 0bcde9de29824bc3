package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/voiceprint/voiceprint/internal/config"
	"github.com/voiceprint/voiceprint/internal/ingest"
	"github.com/voiceprint/voiceprint/internal/learn"
	"github.com/voiceprint/voiceprint/internal/session"
	"github.com/voiceprint/voiceprint/internal/tokens"
)

func newLearnCmd() *cobra.Command {
	var (
		userID string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "learn [paths...]",
		Short: "Learn the user's voice from transcript files",
		Long: `Discover transcripts (.txt, .jsonl) under the given paths, or under the
configured ingest paths when none are given, and learn each one as a
conversation. Files whose content has not changed since they were last
learned are skipped.

Text transcripts hold one message per line; lines starting with "AI:" or
"assistant:" are replies and "#" lines are comments. JSONL transcripts hold
{"role": "user"|"assistant", "content": "..."} objects.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace()
			if err != nil {
				return err
			}
			defer ws.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			paths := args
			if len(paths) == 0 {
				for _, p := range ws.cfg.Ingest.Paths {
					paths = append(paths, config.Resolve(ws.root, p))
				}
			}

			results, err := learnPaths(ctx, ws, ws.user(userID), paths, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}
			printLearnSummary(cmd.OutOrStdout(), results)
			return nil
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "User to learn for (default: configured user)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print per-transcript results as JSON")

	return cmd
}

// ingestOptions builds discovery options from config. Truncation is skipped
// when the tokenizer cannot load its encoding.
func ingestOptions(e *env) ingest.Options {
	opts := ingest.Options{
		Extensions:       e.cfg.Ingest.Extensions,
		Exclude:          e.cfg.Ingest.Exclude,
		Workers:          e.cfg.Ingest.Workers,
		MaxMessageTokens: e.cfg.Ingest.MaxMessageTokens,
	}
	if opts.MaxMessageTokens > 0 {
		tok, err := tokens.New()
		if err != nil {
			e.log.Warn("message truncation disabled", zap.Error(err))
		} else {
			opts.Truncator = tok
		}
	}
	return opts
}

// learnPaths discovers, parses and learns every transcript under paths, in
// path order. Progress goes to progress when it is a terminal.
func learnPaths(ctx context.Context, ws *workspace, userID string, paths []string, progress io.Writer) ([]learn.Result, error) {
	opts := ingestOptions(ws.env)
	files, err := ingest.Discover(paths, opts)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}

	transcripts, err := ingest.Load(ctx, files, opts)
	if err != nil {
		return nil, err
	}

	bar := newBar(progress, len(transcripts), "  Learning transcripts")
	results := make([]learn.Result, 0, len(transcripts))
	for _, t := range transcripts {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := ws.learner.Transcript(userID, t)
		if err != nil {
			return results, err
		}
		results = append(results, res)
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	return results, nil
}

// newBar returns a progress bar on terminals and a silent one elsewhere.
func newBar(w io.Writer, n int, desc string) *progressbar.ProgressBar {
	if f, ok := w.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		return progressbar.DefaultSilent(int64(n))
	}
	return progressbar.NewOptions(n,
		progressbar.OptionSetDescription(desc),
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func printLearnSummary(w io.Writer, results []learn.Result) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No transcripts found.")
		return
	}

	var learned, skipped int
	var last *session.Outcome
	for _, r := range results {
		if r.Skipped {
			skipped++
			continue
		}
		learned++
		last = r.Outcome
	}
	fmt.Fprintf(w, "Learned %d transcript%s, skipped %d unchanged\n", learned, pluralS(learned), skipped)
	if last == nil {
		return
	}

	d := last.Delta
	fmt.Fprintf(w, "Profile:  v%d -> v%d\n", d.VersionBefore, d.VersionAfter)
	fmt.Fprintf(w, "Tone:     formality %+.1f, enthusiasm %+.1f, directness %+.1f, politeness %+.1f\n",
		d.ToneDelta.Formality, d.ToneDelta.Enthusiasm, d.ToneDelta.Directness, d.ToneDelta.Politeness)
	if len(d.NewVocabulary) > 0 {
		fmt.Fprintf(w, "New words: %s\n", strings.Join(d.NewVocabulary, ", "))
	}
	if len(d.NewPatterns) > 0 {
		fmt.Fprintf(w, "New habits: %s\n", strings.Join(d.NewPatterns, ", "))
	}
	fmt.Fprintf(w, "Quality:  richness %+.1f, consistency %+.1f\n",
		d.Quality.DataRichness, d.Quality.ConsistencyScore)
}

func pluralS(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
