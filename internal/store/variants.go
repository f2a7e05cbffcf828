package store

import (
	"context"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/oncomatrix/internal/sample"
	"github.com/inodb/oncomatrix/internal/variant"
)

// InsertRows batch-inserts variant rows using the DuckDB Appender API. The
// sampleID overrides the row's own Sample column when non-empty, so rows
// from per-file tables are attributed to the file's derived identifier.
func (s *Store) InsertRows(sampleID, sourceFile string, rows []*variant.Row) error {
	if len(rows) == 0 {
		return nil
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "variants")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, r := range rows {
		id := sampleID
		if id == "" {
			id = r.Sample
		}
		if err := appender.AppendRow(
			id, r.Cohort, r.Gene, r.Consequence, r.AAChange, r.CosmicID, sourceFile,
		); err != nil {
			return fmt.Errorf("append variant row: %w", err)
		}
	}

	return appender.Flush()
}

// IngestDir loads every variant table in a directory, deriving sample
// identifiers the same way the matrix builder does.
func (s *Store) IngestDir(dir, strip string, remap *sample.Remap) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read variant table directory: %w", err)
	}

	if remap == nil {
		remap = sample.Identity()
	}

	total := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		rows, err := variant.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return total, fmt.Errorf("load %s: %w", e.Name(), err)
		}

		id := remap.Apply(sample.IDFromFilename(e.Name(), strip))
		if err := s.InsertRows(id, e.Name(), rows); err != nil {
			return total, fmt.Errorf("ingest %s: %w", e.Name(), err)
		}
		total += len(rows)
	}

	return total, nil
}

// Clear removes all stored variant rows.
func (s *Store) Clear() error {
	_, err := s.db.Exec("DELETE FROM variants")
	return err
}

// VariantCount returns the number of stored variant rows.
func (s *Store) VariantCount() (int64, error) {
	var n int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM variants").Scan(&n); err != nil {
		return 0, fmt.Errorf("count variants: %w", err)
	}
	return n, nil
}

// Samples returns the distinct sample identifiers, sorted.
func (s *Store) Samples() ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT sample FROM variants WHERE sample <> '' ORDER BY sample")
	if err != nil {
		return nil, fmt.Errorf("query samples: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate samples: %w", err)
	}
	return ids, nil
}

// FeatureCount holds one feature and its occurrence count.
type FeatureCount struct {
	Feature string
	Count   int64
}

// TopGenes returns the n most frequent genes among COSMIC-annotated rows,
// frequency descending, name ascending on ties.
func (s *Store) TopGenes(n int) ([]FeatureCount, error) {
	return s.topFeatures("gene", n)
}

// TopCosmicIDs returns the n most frequent COSMIC identifiers among
// COSMIC-annotated rows.
func (s *Store) TopCosmicIDs(n int) ([]FeatureCount, error) {
	return s.topFeatures("cosmic_id", n)
}

func (s *Store) topFeatures(column string, n int) ([]FeatureCount, error) {
	q := fmt.Sprintf(`SELECT %[1]s, COUNT(*) AS cnt
		FROM variants
		WHERE cosmic_id <> '' AND cosmic_id <> '.'
		AND %[1]s <> '' AND %[1]s <> '.'
		GROUP BY %[1]s
		ORDER BY cnt DESC, %[1]s ASC
		LIMIT ?`, column)

	rows, err := s.db.Query(q, n)
	if err != nil {
		return nil, fmt.Errorf("query top %s: %w", column, err)
	}
	defer rows.Close()

	var out []FeatureCount
	for rows.Next() {
		var fc FeatureCount
		if err := rows.Scan(&fc.Feature, &fc.Count); err != nil {
			return nil, fmt.Errorf("scan top %s: %w", column, err)
		}
		out = append(out, fc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate top %s: %w", column, err)
	}
	return out, nil
}
