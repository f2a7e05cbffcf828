// Package main provides the oncomatrix command-line tool.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// logger is installed by the root command before any subcommand runs.
var logger = zap.NewNop()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "oncomatrix",
		Short: "Build oncoprint presence matrices from variant tables",
		Long: `oncomatrix converts directories of per-sample variant-calling tables
into sample-by-feature presence matrices for oncoprint plotting.

Features are genes, COSMIC mutation IDs, or amino-acid changes; the
target feature list is the top-N most frequent values in an aggregate
variant table plus a configured allow-list.`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(cfgFile); err != nil {
				return err
			}
			l, err := newLogger(verbose)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			logger = l
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.oncomatrix.yaml)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newBuildCmd())
	cmd.AddCommand(newGenesCmd())
	cmd.AddCommand(newCosmicCmd())
	cmd.AddCommand(newAAChangeCmd())
	cmd.AddCommand(newIngestCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// initConfig loads the viper configuration file if one exists.
func initConfig(cfgFile string) error {
	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".oncomatrix")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("ONCOMATRIX")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		if cfgFile == "" && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	return nil
}

// setDefaults registers configuration defaults, replacing the hardcoded
// constants of earlier one-off scripts.
func setDefaults() {
	viper.SetDefault("replicates_dir", "variants/replicates")
	viper.SetDefault("merged_dir", "variants/merged")
	viper.SetDefault("replicate_strip", "_processed_variants.tsv.bz2")
	viper.SetDefault("merged_strip", "_merged_variants.tsv.bz2")
	viper.SetDefault("aggregate_cosmic", "variants/all_cosmic.tsv")
	viper.SetDefault("aggregate_all", "variants/all_prefiltered.tsv")
	viper.SetDefault("top_genes", 20)
	viper.SetDefault("top_cosmic", 25)
	viper.SetDefault("top_aachanges", 20)
	viper.SetDefault("out_dir", ".")
	viper.SetDefault("id_header", "Case_ID")
}

// newLogger builds the CLI logger: console encoding to stderr.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}
