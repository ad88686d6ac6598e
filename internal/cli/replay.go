package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/csheth/claimscout/internal/replay"
)

var replaySnapshot bool

var replayCmd = &cobra.Command{
	Use:   "replay <script.yaml>",
	Short: "Replay a scripted refinement session without the TUI",
	Long: `Replay reads a YAML script naming a case and a list of steps, each one of
"say", "resolve" (accept, reject, modify) or "export" (word, print, csv, pdf), and
prints the resulting transcript.

Example script:

  case: acme
  steps:
    - say: Strengthen evidence for element 3
    - resolve: accept
    - export: csv`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&replaySnapshot, "snapshot", false, "print the final chart as JSON instead of the transcript")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open script: %w", err)
	}
	defer f.Close()
	script, err := replay.Load(f)
	if err != nil {
		return err
	}

	rt, err := loadRuntime(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer rt.Close()

	runner := &replay.Runner{
		Session:   rt.Session,
		Exporter:  rt.Exporter,
		ExportDir: rt.Config.ExportDir,
	}
	if !replaySnapshot {
		runner.Out = cmd.OutOrStdout()
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := runner.Run(ctx, script)
	if err != nil {
		return err
	}
	if !replaySnapshot {
		return nil
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Case    string   `json:"case"`
		Chart   any      `json:"chart"`
		Exports []string `json:"exports"`
	}{Case: res.View.CaseID, Chart: res.View.Chart, Exports: nonNil(res.Exports)})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
