package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/csheth/claimscout/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol server",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a refinement session over MCP on stdio",
	Long: `Start an MCP server on stdin/stdout exposing one refinement session as
tools: list_cases, select_case, submit_message, resolve_proposal,
request_export, get_snapshot, reset_session and help.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer rt.Close()

		srv := mcp.NewServer(rt.Session, mcp.Options{
			Exporter:  rt.Exporter,
			ExportDir: rt.Config.ExportDir,
			Version:   appVersion,
			Logger:    rt.Logger,
		})
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return srv.Run(ctx)
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}
