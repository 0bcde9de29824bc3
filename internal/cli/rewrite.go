package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/voiceprint/voiceprint/internal/personalize"
	"github.com/voiceprint/voiceprint/internal/tokens"
)

func newRewriteCmd() *cobra.Command {
	var (
		userID       string
		purpose      string
		tone         string
		length       string
		emoji        string
		context      string
		alternatives bool
		seed         uint64
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "rewrite [text]",
		Short: "Rewrite text in the user's voice",
		Long: `Rewrite a draft through the stored voice profile and list every transform
that was applied. With no argument, or with "-", the draft is read from stdin.

Examples:
  voiceprint rewrite "내일 회의 가능할까요?"
  voiceprint rewrite --tone casual --length short "..."
  voiceprint rewrite --alternatives --seed 42 "..."`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := argOrStdin(cmd, args)
			if err != nil {
				return err
			}
			emojiOverride, err := parseEmoji(emoji)
			if err != nil {
				return err
			}

			ws, err := openWorkspace()
			if err != nil {
				return err
			}
			defer ws.Close()

			p, err := ws.store.Profiles.Load(ws.user(userID))
			if err != nil {
				return err
			}

			req := personalize.Request{
				Content:              text,
				Purpose:              personalize.Purpose(purpose),
				Tone:                 personalize.Tone(tone),
				Length:               personalize.Length(length),
				Emoji:                emojiOverride,
				Context:              context,
				GenerateAlternatives: alternatives || ws.cfg.Personalization.Alternatives,
			}
			res, err := ws.engine(seed).RenderWithAlternatives(req, p)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			var tok *tokens.Tokenizer
			if t, err := tokens.New(); err == nil {
				tok = t
			}
			printRewrite(cmd.OutOrStdout(), res, tok)
			return nil
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "Whose voice to use (default: configured user)")
	cmd.Flags().StringVarP(&purpose, "purpose", "p", "", "response, suggestion, draft or example (default: draft)")
	cmd.Flags().StringVarP(&tone, "tone", "t", "", "Pin a tone: professional, casual, friendly or formal")
	cmd.Flags().StringVarP(&length, "length", "l", "", "Override length: short, medium or long")
	cmd.Flags().StringVar(&emoji, "emoji", "auto", "auto, on or off")
	cmd.Flags().StringVarP(&context, "context", "c", "", "Surrounding conversation, used to match projects")
	cmd.Flags().BoolVarP(&alternatives, "alternatives", "a", false, "Also render professional and casual variants")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed the random choices for a reproducible rewrite")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full result as JSON")

	return cmd
}

func parseEmoji(s string) (*bool, error) {
	on, off := true, false
	switch s {
	case "", "auto":
		return nil, nil
	case "on", "true", "yes":
		return &on, nil
	case "off", "false", "no":
		return &off, nil
	}
	return nil, fmt.Errorf("%w: --emoji %q (want auto, on or off)", errInvalidFlag, s)
}

func printRewrite(w io.Writer, res *personalize.Result, tok *tokens.Tokenizer) {
	fmt.Fprintln(w, res.PersonalizedContent)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Confidence: %.0f\n", res.ConfidenceScore)
	if tok != nil {
		fmt.Fprintf(w, "Tokens:     %d -> %d\n", tok.Count(res.OriginalContent), tok.Count(res.PersonalizedContent))
	}
	printApplied(w, res.StyleApplication, "")

	for _, alt := range res.Alternatives {
		fmt.Fprintf(w, "\n[%s] %s\n", alt.Tone, alt.Content)
		printApplied(w, alt.StyleApplication, "  ")
	}
}

func printApplied(w io.Writer, applied []personalize.Application, indent string) {
	if len(applied) == 0 {
		fmt.Fprintf(w, "%sNo transforms applied.\n", indent)
		return
	}
	fmt.Fprintf(w, "%sApplied:\n", indent)
	for _, a := range applied {
		line := a.Stage + "/" + a.Transform
		if a.Detail != "" {
			line += " (" + a.Detail + ")"
		}
		fmt.Fprintf(w, "%s  - %s\n", indent, line)
	}
}
