package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/oncomatrix/internal/feature"
	"github.com/inodb/oncomatrix/internal/matrix"
	"github.com/inodb/oncomatrix/internal/variant"
)

// Output filenames of the five build passes.
const (
	fileGenesReplicates  = "gene_matrix_replicates.tsv"
	fileGenesMerged      = "gene_matrix_merged.tsv"
	fileCosmicReplicates = "cosmic_matrix_replicates.tsv"
	fileCosmicMerged     = "cosmic_matrix_merged.tsv"
	fileAAChangeCases    = "aachange_matrix_cases.tsv"
)

func newBuildCmd() *cobra.Command {
	var (
		outDir string
		npy    bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Run all matrix passes from configuration",
		Long: `Build all five presence matrices: gene and COSMIC-ID matrices for both
replicate-level and merged-sample tables, and the amino-acid-change
matrix grouped by case. Input locations, filename suffixes, top-N counts
and allow-lists come from configuration.`,
		Example: `  oncomatrix build
  oncomatrix build --out-dir results --npy`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outDir == "" {
				outDir = viper.GetString("out_dir")
			}
			return runBuild(outDir, npy)
		},
	}

	cmd.Flags().StringVar(&outDir, "out-dir", "", "output directory (default from config)")
	cmd.Flags().BoolVar(&npy, "npy", false, "also export COSMIC matrices as .npy arrays")

	return cmd
}

func runBuild(outDir string, npy bool) error {
	remap, err := loadRemap("")
	if err != nil {
		return err
	}

	aggregate := viper.GetString("aggregate_cosmic")
	idHeader := viper.GetString("id_header")

	genes, err := featureListFromTable(aggregate, feature.Genes,
		viper.GetInt("top_genes"), viper.GetStringSlice("gene_allowlist"))
	if err != nil {
		return err
	}

	cosmicIDs, err := featureListFromTable(aggregate, feature.CosmicIDs,
		viper.GetInt("top_cosmic"), viper.GetStringSlice("cosmic_allowlist"))
	if err != nil {
		return err
	}

	passes := []struct {
		dir    string
		strip  string
		out    string
		params matrix.Params
		npy    bool
	}{
		{
			dir:   viper.GetString("replicates_dir"),
			strip: viper.GetString("replicate_strip"),
			out:   fileGenesReplicates,
			params: matrix.Params{
				Features: genes,
				Extract:  feature.Genes,
				Mode:     matrix.Marker,
			},
		},
		{
			dir:   viper.GetString("merged_dir"),
			strip: viper.GetString("merged_strip"),
			out:   fileGenesMerged,
			params: matrix.Params{
				Features: genes,
				Extract:  feature.Genes,
				Mode:     matrix.Marker,
			},
		},
		{
			dir:   viper.GetString("replicates_dir"),
			strip: viper.GetString("replicate_strip"),
			out:   fileCosmicReplicates,
			params: matrix.Params{
				Features: cosmicIDs,
				Extract:  feature.CosmicIDs,
				Mode:     matrix.Binary,
			},
			npy: npy,
		},
		{
			dir:   viper.GetString("merged_dir"),
			strip: viper.GetString("merged_strip"),
			out:   fileCosmicMerged,
			params: matrix.Params{
				Features: cosmicIDs,
				Extract:  feature.CosmicIDs,
				Mode:     matrix.Binary,
			},
			npy: npy,
		},
	}

	for _, p := range passes {
		m, err := buildDirMatrix(p.dir, p.strip, remap, p.params)
		if err != nil {
			return err
		}
		if err := writeMatrix(m, filepath.Join(outDir, p.out), idHeader, p.npy); err != nil {
			return err
		}
	}

	m, err := buildAAChangeMatrix(viper.GetString("aggregate_all"),
		viper.GetInt("top_aachanges"), viper.GetStringSlice("aachange_allowlist"))
	if err != nil {
		return err
	}
	return writeMatrix(m, filepath.Join(outDir, fileAAChangeCases), idHeader, false)
}

// buildAAChangeMatrix runs the case-grouped amino-acid-change pass. Unlike
// the directory passes it walks the distinct case values of the prefiltered
// aggregate table, restricted to rows with a usable amino-acid change.
func buildAAChangeMatrix(tablePath string, topN int, allow []string) (*matrix.Matrix, error) {
	rows, err := variant.ReadFile(tablePath)
	if err != nil {
		return nil, fmt.Errorf("load prefiltered table: %w", err)
	}

	features := feature.TopN(feature.Count(rows, feature.AAChanges), topN)
	features = features.Append(allow...)
	if len(features) == 0 {
		return nil, fmt.Errorf("prefiltered table %s yields no amino-acid changes", tablePath)
	}

	b := matrix.NewBuilder()
	b.SetLogger(logger)

	// Walk only the cases that carry at least one usable amino-acid
	// change. Unlike the directory passes, a case appearing in the table
	// with none is omitted rather than emitted as an all-empty row.
	usable := make([]*variant.Row, 0, len(rows))
	for _, r := range rows {
		if r.HasAAChange() {
			usable = append(usable, r)
		}
	}

	src := &matrix.TableSource{
		Rows: usable,
		Key:  func(r *variant.Row) string { return r.Cohort },
	}
	m, err := b.Build(src, matrix.Params{
		Features: features,
		Extract:  feature.AAChanges,
		Mode:     matrix.Marker,
		Keep:     func(r *variant.Row) bool { return r.HasAAChange() },
	})
	if err != nil {
		return nil, fmt.Errorf("build amino-acid-change matrix: %w", err)
	}

	logger.Info("built amino-acid-change matrix",
		zap.Int("cases", m.Len()), zap.Int("features", len(m.Features())))
	return m, nil
}
