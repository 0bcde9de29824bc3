package cli

import (
	"github.com/spf13/cobra"

	"github.com/voiceprint/voiceprint/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	var (
		userID string
		seed   uint64
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve voice profile tools to MCP clients over stdio",
		Long: `Run an MCP server on stdin/stdout exposing analyze_message, rewrite_text,
get_profile, learn_messages and update_business. Logs go to stderr.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace()
			if err != nil {
				return err
			}
			defer ws.Close()

			srv := mcp.NewServer(mcp.Deps{
				Store:    ws.store,
				Learner:  ws.learner,
				Analyzer: ws.an,
				Engine:   ws.engine(seed),
				Manager:  ws.mgr,
				Locks:    ws.locks,
				Logger:   ws.log,
			}, ws.user(userID), version)
			return srv.Serve(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "Default user for tools (default: configured user)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed the rewrite randomness")
	return cmd
}
