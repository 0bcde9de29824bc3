package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/voiceprint/voiceprint/internal/config"
	"github.com/voiceprint/voiceprint/internal/db"
)

func newInitCmd() *cobra.Command {
	var (
		root   string
		userID string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a voiceprint workspace in the current directory",
		Long: `Create the .voiceprint/ directory with a SQLite database and a workspace
config, plus an empty transcripts/ directory for 'voiceprint learn'.

Running init again is safe: the database is migrated and kept.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if root == "" {
				cwd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("get working directory: %w", err)
				}
				root = cwd
			}
			root, _ = filepath.Abs(root)
			out := cmd.OutOrStdout()

			database, err := db.Open(config.ProjectDBPath(root))
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			vector := database.HasVector()
			if err := database.Close(); err != nil {
				return err
			}

			pcfg, err := config.LoadProject(root)
			if err != nil {
				return err
			}
			if userID != "" {
				pcfg.User.ID = userID
			}
			if err := config.SaveProject(root, pcfg); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "  Warning: could not write workspace config: %v\n", err)
			}

			gcfg, _ := config.Load(root)
			for _, p := range gcfg.Ingest.Paths {
				if err := os.MkdirAll(config.Resolve(root, p), 0o755); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "  Warning: could not create %s: %v\n", p, err)
				}
			}

			ensureGitignore(root)

			fmt.Fprintf(out, "Voiceprint initialized in %s\n", filepath.Join(root, config.WorkspaceDirName))
			fmt.Fprintf(out, "User:     %s\n", gcfg.User.ID)
			if vector {
				fmt.Fprintln(out, "Vectors:  sqlite-vec enabled")
			} else {
				fmt.Fprintln(out, "Vectors:  sqlite-vec unavailable (drift search falls back to a scan)")
			}
			fmt.Fprintf(out, "Tip: put chat transcripts in %s and run \"voiceprint learn\".\n",
				strings.Join(gcfg.Ingest.Paths, ", "))
			return nil
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", "", "Workspace root directory (default: cwd)")
	cmd.Flags().StringVarP(&userID, "user", "u", "", "User whose profile this workspace learns")

	return cmd
}

// ensureGitignore appends .voiceprint/ to .gitignore when the workspace is
// inside a git checkout and the entry is missing.
func ensureGitignore(root string) {
	if _, err := os.Stat(filepath.Join(root, ".git")); err != nil {
		return
	}
	entry := config.WorkspaceDirName + "/"
	path := filepath.Join(root, ".gitignore")
	content, err := os.ReadFile(path)
	if err == nil && strings.Contains(string(content), entry) {
		return
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()

	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		_, _ = f.WriteString("\n")
	}
	_, _ = f.WriteString(entry + "\n")
}
