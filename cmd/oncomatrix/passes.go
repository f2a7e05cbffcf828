package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/oncomatrix/internal/feature"
	"github.com/inodb/oncomatrix/internal/matrix"
	"github.com/inodb/oncomatrix/internal/output"
	"github.com/inodb/oncomatrix/internal/sample"
	"github.com/inodb/oncomatrix/internal/variant"
)

// loadRemap loads the configured identifier remap table, or the identity
// mapping when none is configured.
func loadRemap(path string) (*sample.Remap, error) {
	if path == "" {
		path = viper.GetString("remap_table")
	}
	if path == "" {
		return sample.Identity(), nil
	}

	remap, err := sample.LoadRemap(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded identifier remap table",
		zap.String("path", path), zap.Int("entries", remap.Len()))
	return remap, nil
}

// featureListFromTable derives the target feature list from an aggregate
// variant table: the top-N most frequent values plus the allow-list.
func featureListFromTable(path string, extract feature.Extractor, n int, allow []string) (feature.List, error) {
	rows, err := variant.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load aggregate table: %w", err)
	}

	list := feature.TopN(feature.Count(rows, extract), n)
	list = list.Append(allow...)
	if len(list) == 0 {
		return nil, fmt.Errorf("aggregate table %s yields no features", path)
	}

	logger.Debug("derived feature list",
		zap.String("table", path), zap.Int("features", len(list)))
	return list, nil
}

// buildDirMatrix runs one directory pass of the builder.
func buildDirMatrix(dir, strip string, remap *sample.Remap, p matrix.Params) (*matrix.Matrix, error) {
	b := matrix.NewBuilder()
	b.SetLogger(logger)

	src := &matrix.DirSource{Dir: dir, Strip: strip, Remap: remap}
	m, err := b.Build(src, p)
	if err != nil {
		return nil, fmt.Errorf("build matrix from %s: %w", dir, err)
	}

	logger.Info("built presence matrix",
		zap.String("dir", dir),
		zap.Int("samples", m.Len()),
		zap.Int("features", len(m.Features())))
	return m, nil
}

// writeMatrix writes a matrix as TSV, creating parent directories, and
// optionally exports an .npy copy alongside it.
func writeMatrix(m *matrix.Matrix, path, idHeader string, npy bool) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := m.WriteTSV(f, idHeader); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	logger.Info("wrote matrix", zap.String("path", path))

	if npy {
		npyPath := trimExt(path) + ".npy"
		if err := output.WriteNpy(m, npyPath); err != nil {
			return fmt.Errorf("write %s: %w", npyPath, err)
		}
		logger.Info("wrote npy export", zap.String("path", npyPath))
	}

	return nil
}

func trimExt(path string) string {
	return path[:len(path)-len(filepath.Ext(path))]
}
