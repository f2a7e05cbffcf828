package matrix

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/inodb/oncomatrix/internal/sample"
	"github.com/inodb/oncomatrix/internal/variant"
)

// Group is one unit of matrix-row accumulation: a key (the derived
// sample or case identifier) and the variant rows belonging to it.
type Group struct {
	Key  string
	Rows []*variant.Row
}

// RowSource yields the groups a matrix is built from.
type RowSource interface {
	Groups() ([]Group, error)
}

// DirSource yields one group per variant table file in a directory. The
// group key is the filename with Strip removed, translated through Remap.
type DirSource struct {
	Dir   string
	Strip string
	Remap *sample.Remap
}

// Groups walks the directory in name order and parses each regular file.
func (s *DirSource) Groups() ([]Group, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("read variant table directory: %w", err)
	}

	remap := s.Remap
	if remap == nil {
		remap = sample.Identity()
	}

	var groups []Group
	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		rows, err := variant.ReadFile(filepath.Join(s.Dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", e.Name(), err)
		}

		id := remap.Apply(sample.IDFromFilename(e.Name(), s.Strip))
		groups = append(groups, Group{Key: id, Rows: rows})
	}

	return groups, nil
}

// TableSource yields one group per distinct value of a grouping column in
// an in-memory row set, for passes that group by a table column rather
// than by file. Rows for which Key returns "" are dropped.
type TableSource struct {
	Rows []*variant.Row
	Key  func(*variant.Row) string
}

// Groups partitions the rows by key, ordered by key ascending.
func (s *TableSource) Groups() ([]Group, error) {
	byKey := make(map[string][]*variant.Row)
	for _, r := range s.Rows {
		k := s.Key(r)
		if k == "" || k == variant.Missing {
			continue
		}
		byKey[k] = append(byKey[k], r)
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	groups := make([]Group, 0, len(keys))
	for _, k := range keys {
		groups = append(groups, Group{Key: k, Rows: byKey[k]})
	}
	return groups, nil
}
