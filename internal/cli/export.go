package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/voiceprint/voiceprint/internal/export"
)

func newExportCmd() *cobra.Command {
	var (
		userID string
		format string
		write  bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the voice profile as markdown, JSON or a prompt",
		Long: `Render the profile in a format other tools can use. Output is written to
stdout; pipe it to a file. With --write, every configured format is written
to the export directory instead.

Examples:
  voiceprint export --format markdown > voice-profile.md
  voiceprint export --format prompt | pbcopy
  voiceprint export --write`,
		RunE: func(cmd *cobra.Command, args []string) error {
			exporter, ok := export.Get(format)
			if !write && !ok {
				return fmt.Errorf("%w: unknown format %q; valid formats: %s",
					errInvalidFlag, format, strings.Join(export.ValidFormats(), ", "))
			}

			ws, err := openWorkspace()
			if err != nil {
				return err
			}
			defer ws.Close()

			user := ws.user(userID)
			if write {
				if len(autoExport(ws.root, ws.cfg, ws.store, user, cmd.ErrOrStderr())) == 0 {
					return fmt.Errorf("nothing exported; check export.formats in config")
				}
				return nil
			}

			data, err := exportData(ws.store, user)
			if err != nil {
				return err
			}
			output, err := exporter.Export(data)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), output)
			return err
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "User to export (default: configured user)")
	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "output format: "+strings.Join(export.ValidFormats(), ", "))
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write all configured formats to the export directory")

	return cmd
}
