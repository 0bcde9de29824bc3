package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voiceprint/voiceprint/internal/profile"
)

func newBusinessCmd() *cobra.Command {
	var (
		userID string
		info   profile.BusinessInfo
	)

	cmd := &cobra.Command{
		Use:   "business",
		Short: "Record what the user does for work",
		Long: `Store business details on the profile. Only the flags you pass are changed.

Example:
  voiceprint business --company Acme --industry retail --role founder`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if info == (profile.BusinessInfo{}) {
				return fmt.Errorf("%w: pass at least one business field", errInvalidFlag)
			}

			ws, err := openWorkspace()
			if err != nil {
				return err
			}
			defer ws.Close()

			user := ws.user(userID)
			unlock := ws.locks.Lock(user)
			defer unlock()

			p, err := ws.store.Profiles.Load(user)
			if err != nil {
				return err
			}
			next := ws.mgr.UpdateBusinessInfo(p, info)
			if err := ws.store.Profiles.Save(next); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved business info for %s (profile v%d, data richness %.0f)\n",
				user, next.Version, next.Quality.DataRichness)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&userID, "user", "u", "", "User to update (default: configured user)")
	f.StringVar(&info.CompanyName, "company", "", "Company name")
	f.StringVar(&info.Industry, "industry", "", "Industry")
	f.StringVar(&info.Role, "role", "", "The user's role")
	f.StringVar(&info.Products, "products", "", "Products or services")
	f.StringVar(&info.TargetCustomers, "customers", "", "Target customers")
	f.StringVar(&info.Goals, "goals", "", "Business goals")

	return cmd
}
