// Package cli wires the claimscout commands: the interactive workspace,
// scripted replays, the MCP server and config inspection.
package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/csheth/claimscout/internal/tui"
)

// appVersion is set via ldflags at build time.
var appVersion = "dev"

var (
	cfgFile     string
	verbose     bool
	noAltScreen bool
	caseFlag    string
)

var rootCmd = &cobra.Command{
	Use:   "claimscout",
	Short: "Refine patent infringement claim charts conversationally",
	Long: `claimscout opens a claim chart for a patent case and lets you refine it
by chatting: strengthen evidence, fix reasoning, clarify legal language,
add missing elements and undo, then export the result.

Run without a subcommand to open the interactive workspace.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runTUI,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "claimscout %s\n", appVersion)
	},
}

func init() {
	rootCmd.Version = appVersion
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.claimscout/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.Flags().BoolVar(&noAltScreen, "no-alt-screen", false, "render inline instead of using the alternate screen buffer")
	rootCmd.Flags().StringVar(&caseFlag, "case", "", "case to preselect in the picker (overrides config)")
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func runTUI(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(nil)
	if err != nil {
		return err
	}
	defer rt.Close()

	initial := rt.Config.Case
	if caseFlag != "" {
		initial = caseFlag
	}

	opts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if rt.Config.AltScreen && !noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(tui.New(tui.Config{
		Session:     rt.Session,
		Exporter:    rt.Exporter,
		ExportDir:   rt.Config.ExportDir,
		InitialCase: initial,
		ThinkingMin: rt.Config.Thinking.Min,
		ThinkingMax: rt.Config.Thinking.Max,
		Logger:      rt.Logger,
	}), opts...)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}
