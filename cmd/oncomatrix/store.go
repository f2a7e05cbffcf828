package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/oncomatrix/internal/store"
)

func newIngestCmd() *cobra.Command {
	var (
		dbPath string
		dir    string
		strip  string
		remap  string
		clear  bool
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load a directory of variant tables into the aggregate store",
		Long: `Load every variant table in a directory into a DuckDB aggregate store
for ad hoc querying and summary statistics. Sample identifiers are
derived the same way as during matrix builds.`,
		Example: `  oncomatrix ingest --db variants.duckdb --dir variants/replicates
  oncomatrix ingest --db variants.duckdb --dir variants/merged --strip _merged_variants.tsv.bz2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = viper.GetString("replicates_dir")
			}
			if strip == "" {
				strip = viper.GetString("replicate_strip")
			}

			rm, err := loadRemap(remap)
			if err != nil {
				return err
			}

			s, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			if clear {
				if err := s.Clear(); err != nil {
					return fmt.Errorf("clear store: %w", err)
				}
			}

			n, err := s.IngestDir(dir, strip, rm)
			if err != nil {
				return err
			}

			logger.Info("ingested variant tables",
				zap.String("dir", dir), zap.Int("rows", n), zap.String("db", dbPath))
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "variants.duckdb", "DuckDB database path")
	cmd.Flags().StringVar(&dir, "dir", "", "directory of variant tables (default from config)")
	cmd.Flags().StringVar(&strip, "strip", "", "filename suffix stripped to derive sample IDs (default from config)")
	cmd.Flags().StringVar(&remap, "remap-table", "", "identifier remap table (default from config)")
	cmd.Flags().BoolVar(&clear, "clear", false, "clear existing rows before ingesting")

	return cmd
}

func newStatsCmd() *cobra.Command {
	var (
		dbPath string
		top    int
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the aggregate store",
		Example: `  oncomatrix stats --db variants.duckdb
  oncomatrix stats --db variants.duckdb --top 50`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			count, err := s.VariantCount()
			if err != nil {
				return err
			}
			samples, err := s.Samples()
			if err != nil {
				return err
			}
			genes, err := s.TopGenes(top)
			if err != nil {
				return err
			}
			cosmicIDs, err := s.TopCosmicIDs(top)
			if err != nil {
				return err
			}

			fmt.Printf("variants: %d\n", count)
			fmt.Printf("samples:  %d\n", len(samples))

			fmt.Printf("\ntop %d genes (COSMIC-annotated rows):\n", top)
			for _, g := range genes {
				fmt.Printf("  %-20s %d\n", g.Feature, g.Count)
			}

			fmt.Printf("\ntop %d COSMIC annotations:\n", top)
			for _, c := range cosmicIDs {
				fmt.Printf("  %-40s %d\n", c.Feature, c.Count)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "variants.duckdb", "DuckDB database path")
	cmd.Flags().IntVar(&top, "top", 20, "number of top features to show")

	return cmd
}
