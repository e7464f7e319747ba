// Package cli wires the cobra command surface of the plugin.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"coneme/internal/app"
	"coneme/internal/config"
	"coneme/internal/descriptor"
)

// Version is the plugin version reported by -V and the descriptor.
const Version = "1.0.0"

const banner = `
       _
      | |
 _ __ | |______ ___ ___  _ __   ___ _ __ ___   ___
| '_ \| |______/ __/ _ \| '_ \ / _ \ '_ ` + "`" + ` _ \ / _ \
| |_) | |     | (_| (_) | | | |  __/ | | | | |  __/
| .__/|_|      \___\___/|_| |_|\___|_| |_| |_|\___|
| |
|_|
`

// NewRootCmd builds the root command:
//
//	coneme [flags] <inputdir> <outputdir>
//
// Flags override values loaded from an optional --config file only when
// explicitly set.
func NewRootCmd(version string) *cobra.Command {
	var (
		configPath string
		dbPath     string
	)

	cmd := &cobra.Command{
		Use:          "coneme [flags] <inputdir> <outputdir>",
		Short:        "A connectome csv file analyzer",
		Long:         "coneme reads CSV connectome adjacency matrices from an input directory,\ncomputes standard weighted graph measures, and writes one JSON result per\ninput file to an output directory.",
		Version:      version,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			applyFlagOverrides(cmd, &cfg)

			logger := config.NewLogger(cfg.LogLevel)
			fmt.Fprint(cmd.OutOrStdout(), banner)

			command := app.Command{
				InputDir:  args[0],
				OutputDir: args[1],
				DBPath:    dbPath,
				Options:   cfg,
				Log:       logger,
			}
			result, err := command.Run(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Run %s finished with status %s\n", result.RunID, result.Status)
			fmt.Fprintf(cmd.OutOrStdout(), "%d processed, %d skipped, %d failed\n",
				result.Summary.Processed, result.Summary.Skipped, result.Summary.Failed)
			return nil
		},
	}

	defaults := config.Default()
	flags := cmd.Flags()
	flags.StringP("pattern", "p", defaults.Pattern, "input file filter glob")
	flags.String("subj", "", "subject id carried into results")
	flags.String("atlas", "", "atlas name carried into results")
	flags.Int("nnode", 0, "expected number of nodes in each connectome (0 = unchecked)")
	flags.String("measurement-file", defaults.MeasurementFile, "analysis parameter file, relative to inputdir")
	flags.Int("workers", defaults.Workers, "number of parallel file workers")
	flags.String("log-level", defaults.LogLevel, "log level (trace, debug, info, warn, error)")
	flags.StringVar(&configPath, "config", "", "optional YAML config file")
	flags.StringVar(&dbPath, "db", "", "run ledger path (default <outputdir>/coneme.db)")
	flags.BoolP("version", "V", false, "print version and exit")

	cmd.AddCommand(newInfoCmd(version))

	return cmd
}

// applyFlagOverrides copies explicitly set flags over the loaded config.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("pattern") {
		cfg.Pattern, _ = flags.GetString("pattern")
	}
	if flags.Changed("subj") {
		cfg.Subject, _ = flags.GetString("subj")
	}
	if flags.Changed("atlas") {
		cfg.Atlas, _ = flags.GetString("atlas")
	}
	if flags.Changed("nnode") {
		cfg.Nodes, _ = flags.GetInt("nnode")
	}
	if flags.Changed("measurement-file") {
		cfg.MeasurementFile, _ = flags.GetString("measurement-file")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
}

func newInfoCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the ChRIS plugin descriptor as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return descriptor.Default(version).WriteJSON(cmd.OutOrStdout())
		},
	}
}
