// Package cli defines the Cobra command tree for the voiceprint CLI.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// version, commit, date are set via -ldflags at build time.
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "voiceprint",
	Short: "Learn how someone writes and rewrite text in their voice",
	Long: `Voiceprint builds a voice profile from a person's chat messages: their tone,
vocabulary, habits and the projects they talk about.

It learns from transcript files, keeps the profile in a local SQLite
database, and rewrites drafts so they read like the person wrote them.
Every rewrite lists the transforms it applied.

Run 'voiceprint init' in a directory to get started.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute(v, c, d string) {
	version, commit, date = v, c, d
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(
		newInitCmd(),
		newLearnCmd(),
		newAnalyzeCmd(),
		newRewriteCmd(),
		newStatusCmd(),
		newBusinessCmd(),
		newExportCmd(),
		newDriftCmd(),
		newWatchCmd(),
		newLexiconCmd(),
		newPruneCmd(),
		newMCPCmd(),
		newVersionCmd(),
	)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "voiceprint %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
