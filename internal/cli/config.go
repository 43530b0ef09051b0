package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/ohlcv/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Generate or validate configuration files",
		Long: `Manage configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  ohlcv config init -o ohlcv.yaml
  ohlcv config validate -f ohlcv.yaml`,
		Annotations: map[string]string{skipConfig: "true"},
	}

	var output string
	initCmd := &cobra.Command{
		Use:         "init",
		Short:       "Generate a default configuration file",
		Annotations: map[string]string{skipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Default().SaveToFile(output); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Created default configuration: %s\n", output)
			fmt.Fprintf(out, "\nEdit the file and run with:\n  ohlcv eval --config %s --bars bars.csv\n", output)
			return nil
		},
	}
	initCmd.Flags().StringVarP(&output, "output", "o", "ohlcv.yaml", "output config file path")

	var path string
	validateCmd := &cobra.Command{
		Use:         "validate",
		Short:       "Validate a configuration file",
		Annotations: map[string]string{skipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromFile(path)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			f, _ := cfg.Factory()
			names := make([]string, len(cfg.Indicators))
			for k, sp := range cfg.Indicators {
				names[k] = specString(sp)
			}
			journal := cfg.Journal.Type
			if journal == "" {
				journal = "none"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Configuration valid: %s\n", path)
			fmt.Fprintf(out, "  Series: %s (%s, %s)\n", cfg.Series.Name, f.Name(), cfg.Series.Timeframe)
			fmt.Fprintf(out, "  Indicators: %s\n", strings.Join(names, ", "))
			fmt.Fprintf(out, "  Journal: %s\n", journal)
			return nil
		},
	}
	validateCmd.Flags().StringVarP(&path, "file", "f", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("file")

	cmd.AddCommand(initCmd, validateCmd)
	return cmd
}
