package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/PSeitz/veloci-sub001/config"
)

const (
	flagConfig   = "config"
	flagDataDir  = "data-dir"
	flagPort     = "port"
	flagWorkers  = "workers"
	flagLogLevel = "log-level"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "search_engine",
		Short: "Fuzzy full-text search over prebuilt indexes",
		Long: `Serves and queries indexes made of term dictionaries, join levels and boost values.
Terms are matched with Levenshtein automata and scores are carried up to the documents.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.String(flagConfig, "", "Path to a YAML engine configuration file")
	flags.String(flagDataDir, "", "Directory holding the persisted indexes (default ./search_data)")
	flags.Int(flagWorkers, 0, "Size of the plan executor worker pool (default number of CPUs)")
	flags.String(flagLogLevel, "", "Log level: debug, info, warn or error")

	root.AddCommand(newServeCmd(), newSearchCmd())
	return root
}

// loadConfig reads the configuration file, if any, and lets explicitly set flags override it.
// It also installs the default slog handler at the configured level.
func loadConfig(cmd *cobra.Command) (config.EngineConfig, error) {
	cfg := config.DefaultEngineConfig()
	if path, _ := cmd.Flags().GetString(flagConfig); path != "" {
		loaded, err := config.LoadEngineConfig(path)
		if err != nil {
			return config.EngineConfig{}, err
		}
		cfg = loaded
	}

	if cmd.Flags().Changed(flagDataDir) {
		cfg.DataDir, _ = cmd.Flags().GetString(flagDataDir)
	}
	if cmd.Flags().Changed(flagWorkers) {
		cfg.Workers, _ = cmd.Flags().GetInt(flagWorkers)
	}
	if cmd.Flags().Changed(flagLogLevel) {
		cfg.LogLevel, _ = cmd.Flags().GetString(flagLogLevel)
	}
	if cmd.Flags().Lookup(flagPort) != nil && cmd.Flags().Changed(flagPort) {
		cfg.Port, _ = cmd.Flags().GetString(flagPort)
	}
	cfg.ApplyDefaults()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
	return cfg, nil
}
