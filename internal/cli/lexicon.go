package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/voiceprint/voiceprint/internal/lexicon"
)

func newLexiconCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lexicon",
		Short: "Inspect and validate lexicon files",
	}
	cmd.AddCommand(newLexiconDumpCmd(), newLexiconCheckCmd())
	return cmd
}

func newLexiconDumpCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the active lexicon so it can be copied and edited",
		Long: `Print the lexicon in use (the built-in Korean pack unless lexicon.path is
set) as TOML or YAML. Edit the output and point lexicon.path at it to tune
tone markers, register pairs and phrases.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			data, err := lexicon.Encode(e.lex, format)
			if err != nil {
				return fmt.Errorf("%w: %v", errInvalidFlag, err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "toml", "output format: "+strings.Join(lexicon.Formats, ", "))
	return cmd
}

func newLexiconCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a lexicon file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lex, err := lexicon.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: lexicon %s %s is valid\n", args[0], lex.Locale(), lex.Version())
			return nil
		},
	}
}
