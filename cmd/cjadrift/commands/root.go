package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cjaerrors "github.com/cjatools/cjadrift/internal/errors"
	"github.com/cjatools/cjadrift/internal/logger"
	"github.com/cjatools/cjadrift/pkg/config"
)

var (
	cfgFile string
	cfg     *config.Config
	log     logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cjadrift",
	Short: "Snapshot and diff CJA data views",
	Long: `cjadrift captures point-in-time snapshots of Adobe Customer Journey
Analytics data views and detects configuration drift between them.

Typical flow:

  cjadrift snapshot --dataview dv_12345        # capture current state
  cjadrift diff --from old.json --to new.json  # what changed?
  cjadrift list                                # stored snapshots

Exit codes of 'diff' follow the CI convention: 0 = no changes,
2 = changes found, 3 = change percentage above --fail-threshold,
1 = operational error.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command and maps failures onto the exit-code
// contract.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		cjaerrors.DisplayError(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.cjadrift/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("output.no_color", rootCmd.PersistentFlags().Lookup("no-color"))

	rootCmd.AddCommand(newSnapshotCommand())
	rootCmd.AddCommand(newDiffCommand())
	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newVersionCommand())
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.ExpandPaths(); err != nil {
		return fmt.Errorf("failed to expand config paths: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log = logger.NewLogrus(cfg.Logging.Level)
	return nil
}
