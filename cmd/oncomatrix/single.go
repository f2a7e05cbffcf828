package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/oncomatrix/internal/feature"
	"github.com/inodb/oncomatrix/internal/matrix"
)

// dirPassFlags holds the flags shared by the genes and cosmic commands.
type dirPassFlags struct {
	dir       string
	strip     string
	aggregate string
	top       int
	allow     []string
	remap     string
	out       string
	npy       bool
}

func (f *dirPassFlags) register(cmd *cobra.Command, defaultOut string) {
	cmd.Flags().StringVar(&f.dir, "dir", "", "directory of per-sample variant tables (default from config)")
	cmd.Flags().StringVar(&f.strip, "strip", "", "filename suffix stripped to derive sample IDs (default from config)")
	cmd.Flags().StringVar(&f.aggregate, "aggregate", "", "aggregate COSMIC variant table for feature selection (default from config)")
	cmd.Flags().IntVar(&f.top, "top", 0, "number of top features to select (default from config)")
	cmd.Flags().StringSliceVar(&f.allow, "allow", nil, "features appended to the selected list")
	cmd.Flags().StringVar(&f.remap, "remap-table", "", "identifier remap table (default from config)")
	cmd.Flags().StringVar(&f.out, "out", defaultOut, "output TSV path")
	cmd.Flags().BoolVar(&f.npy, "npy", false, "also export the matrix as an .npy array")
}

// fill resolves unset flags from configuration.
func (f *dirPassFlags) fill(dirKey, stripKey, topKey, allowKey string) {
	if f.dir == "" {
		f.dir = viper.GetString(dirKey)
	}
	if f.strip == "" {
		f.strip = viper.GetString(stripKey)
	}
	if f.aggregate == "" {
		f.aggregate = viper.GetString("aggregate_cosmic")
	}
	if f.top == 0 {
		f.top = viper.GetInt(topKey)
	}
	if f.allow == nil {
		f.allow = viper.GetStringSlice(allowKey)
	}
}

func newGenesCmd() *cobra.Command {
	var flags dirPassFlags

	cmd := &cobra.Command{
		Use:   "genes",
		Short: "Build a gene presence matrix for one directory",
		Long: `Build a gene presence matrix from a directory of per-sample variant
tables. Present genes are marked "` + matrix.MarkerPresent + `", absent genes are empty.`,
		Example: `  oncomatrix genes --dir variants/replicates --out genes.tsv
  oncomatrix genes --top 30 --allow TP53,KRAS`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.fill("replicates_dir", "replicate_strip", "top_genes", "gene_allowlist")
			return runDirPass(&flags, feature.Genes, matrix.Marker)
		},
	}

	flags.register(cmd, fileGenesReplicates)
	return cmd
}

func newCosmicCmd() *cobra.Command {
	var flags dirPassFlags

	cmd := &cobra.Command{
		Use:   "cosmic",
		Short: "Build a COSMIC-ID presence matrix for one directory",
		Long: `Build a COSMIC mutation-ID presence matrix from a directory of
per-sample variant tables. Cells are 1 when the catalog ID was observed
in the sample and 0 otherwise.`,
		Example: `  oncomatrix cosmic --dir variants/merged --strip _merged_variants.tsv.bz2
  oncomatrix cosmic --npy --out cosmic.tsv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.fill("replicates_dir", "replicate_strip", "top_cosmic", "cosmic_allowlist")
			return runDirPass(&flags, feature.CosmicIDs, matrix.Binary)
		},
	}

	flags.register(cmd, fileCosmicReplicates)
	return cmd
}

func runDirPass(flags *dirPassFlags, extract feature.Extractor, mode matrix.Mode) error {
	remap, err := loadRemap(flags.remap)
	if err != nil {
		return err
	}

	features, err := featureListFromTable(flags.aggregate, extract, flags.top, flags.allow)
	if err != nil {
		return err
	}

	m, err := buildDirMatrix(flags.dir, flags.strip, remap, matrix.Params{
		Features: features,
		Extract:  extract,
		Mode:     mode,
	})
	if err != nil {
		return err
	}

	return writeMatrix(m, flags.out, viper.GetString("id_header"), flags.npy)
}

func newAAChangeCmd() *cobra.Command {
	var (
		table string
		top   int
		allow []string
		out   string
	)

	cmd := &cobra.Command{
		Use:   "aachange",
		Short: "Build an amino-acid-change matrix grouped by case",
		Long: `Build an amino-acid-change presence matrix from the prefiltered
aggregate table. Rows are the distinct case identifiers found in the
table; only variants with a usable amino-acid change are considered.`,
		Example: `  oncomatrix aachange --table variants/all_prefiltered.tsv
  oncomatrix aachange --top 15 --out aachange.tsv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if table == "" {
				table = viper.GetString("aggregate_all")
			}
			if top == 0 {
				top = viper.GetInt("top_aachanges")
			}
			if allow == nil {
				allow = viper.GetStringSlice("aachange_allowlist")
			}

			m, err := buildAAChangeMatrix(table, top, allow)
			if err != nil {
				return err
			}
			return writeMatrix(m, out, viper.GetString("id_header"), false)
		},
	}

	cmd.Flags().StringVar(&table, "table", "", "prefiltered aggregate variant table (default from config)")
	cmd.Flags().IntVar(&top, "top", 0, "number of top amino-acid changes to select (default from config)")
	cmd.Flags().StringSliceVar(&allow, "allow", nil, "amino-acid changes appended to the selected list")
	cmd.Flags().StringVar(&out, "out", fileAAChangeCases, "output TSV path")

	return cmd
}
