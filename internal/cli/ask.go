package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/csheth/claimscout/internal/conversation"
	"github.com/csheth/claimscout/internal/help"
)

var askCmd = &cobra.Command{
	Use:   "ask <question...>",
	Short: "Ask the help assistant how to use claimscout",
	Example: `  claimscout ask how do I undo
  claimscout ask what does weak mean`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		answer := help.Respond(strings.Join(args, " "))
		fmt.Fprintln(cmd.OutOrStdout(), conversation.Plain(answer))
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
