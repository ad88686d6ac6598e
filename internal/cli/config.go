package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/csheth/claimscout/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect claimscout configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the merged configuration after applying defaults, the config file
and CLAIMSCOUT_* environment variables.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Log.Level = "debug"
		}
		body, err := cfg.YAML()
		if err != nil {
			return err
		}

		errOut := cmd.ErrOrStderr()
		if cfg.Source != "" {
			fmt.Fprintf(errOut, "Using config file: %s\n", cfg.Source)
		} else {
			fmt.Fprintln(errOut, "No config file found, showing defaults and environment overrides")
		}

		out := cmd.OutOrStdout()
		rule := strings.Repeat("═", 63)
		fmt.Fprintln(out, rule)
		fmt.Fprintln(out, "                  claimscout effective config")
		fmt.Fprintln(out, rule)
		fmt.Fprintln(out)
		fmt.Fprint(out, string(body))
		fmt.Fprintln(out)
		fmt.Fprintln(out, rule)
		fmt.Fprintln(out, "Priority: flags > CLAIMSCOUT_* env > config file > defaults")
		fmt.Fprintln(out, rule)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		path := cfgFile
		if path == "" {
			path = config.DefaultPath()
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}
