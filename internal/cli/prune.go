package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newPruneCmd() *cobra.Command {
	var (
		olderThanDays int
		dryRun        bool
	)

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove old session records to reduce database size",
		Long: `Delete session records older than the given number of days, with their
message history and style fingerprints. Profiles are kept.

  voiceprint prune                    # delete sessions older than 90 days
  voiceprint prune --older-than 30    # delete sessions older than 30 days
  voiceprint prune --dry-run          # preview without deleting`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThanDays <= 0 {
				return fmt.Errorf("%w: --older-than must be positive", errInvalidFlag)
			}
			ws, err := openWorkspace()
			if err != nil {
				return err
			}
			defer ws.Close()

			w := cmd.OutOrStdout()
			cutoff := time.Now().AddDate(0, 0, -olderThanDays)
			before, _ := ws.store.Sessions.Count("")

			if dryRun {
				fmt.Fprintf(w, "Current sessions: %d\n", before)
				fmt.Fprintf(w, "Would delete sessions recorded before %s\n", cutoff.Format("2006-01-02 15:04"))
				return nil
			}

			pruned, err := ws.store.Sessions.Prune(cutoff)
			if err != nil {
				return err
			}
			after, _ := ws.store.Sessions.Count("")
			fmt.Fprintf(w, "Pruned %d sessions (%d -> %d)\n", pruned, before, after)
			return nil
		},
	}

	cmd.Flags().IntVar(&olderThanDays, "older-than", 90, "Delete sessions older than N days")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview what would be pruned without deleting")

	return cmd
}
