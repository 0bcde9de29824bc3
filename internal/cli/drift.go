package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voiceprint/voiceprint/internal/style"
)

func newDriftCmd() *cobra.Command {
	var (
		userID string
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "drift",
		Short: "List past sessions whose style is closest to the current profile",
		Long: `Compare the style fingerprint of the current profile with the fingerprint
recorded after each past session of the same user. Sessions near the top
wrote most like the user writes now; a large distance on recent sessions
means the style has been moving.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("%w: --limit must be positive", errInvalidFlag)
			}
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
			matches, err := ws.store.Fingerprints.Nearest(user, style.Fingerprint(p.Style), limit)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(matches)
			}

			w := cmd.OutOrStdout()
			if len(matches) == 0 {
				fmt.Fprintln(w, "No sessions recorded.")
				return nil
			}
			for _, m := range matches {
				rec, err := ws.store.Sessions.Get(m.SessionID)
				if err != nil {
					fmt.Fprintf(w, "%.3f  %s\n", m.Distance, m.SessionID)
					continue
				}
				fmt.Fprintf(w, "%.3f  [%s] v%d  %s\n", m.Distance,
					rec.CreatedAt.Format("2006-01-02 15:04"), rec.VersionAfter, rec.Source)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "User to compare (default: configured user)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of sessions to list")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print matches as JSON")

	return cmd
}
