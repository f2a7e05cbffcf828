// Package matrix builds sample-by-feature presence matrices from variant
// tables.
package matrix

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Matrix is a sample-by-feature presence matrix. Column order follows the
// feature list given at construction; rows are kept sorted by identifier
// so repeated runs over unchanged inputs produce byte-identical output.
type Matrix struct {
	features []string
	index    map[string]int
	rows     map[string][]string
}

// New creates an empty matrix with the given feature columns.
func New(features []string) *Matrix {
	index := make(map[string]int, len(features))
	for i, f := range features {
		index[f] = i
	}
	return &Matrix{
		features: features,
		index:    index,
		rows:     make(map[string][]string),
	}
}

// Features returns the ordered feature columns.
func (m *Matrix) Features() []string {
	return m.features
}

// IDs returns the sorted row identifiers.
func (m *Matrix) IDs() []string {
	ids := make([]string, 0, len(m.rows))
	for id := range m.rows {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// HasRow reports whether a row exists for the given identifier.
func (m *Matrix) HasRow(id string) bool {
	_, ok := m.rows[id]
	return ok
}

// SetRow stores the cell values for one identifier. A later call with the
// same identifier overwrites the earlier row.
func (m *Matrix) SetRow(id string, values []string) error {
	if len(values) != len(m.features) {
		return fmt.Errorf("row %s: expected %d values, got %d", id, len(m.features), len(values))
	}
	m.rows[id] = values
	return nil
}

// Get returns the cell value for an identifier and feature.
func (m *Matrix) Get(id, feature string) string {
	i, ok := m.index[feature]
	if !ok {
		return ""
	}
	row, ok := m.rows[id]
	if !ok {
		return ""
	}
	return row[i]
}

// Len returns the number of rows.
func (m *Matrix) Len() int {
	return len(m.rows)
}

// WriteTSV writes the matrix as tab-separated text. The first column is
// labeled idHeader; the remaining column headers are the feature values.
func (m *Matrix) WriteTSV(w io.Writer, idHeader string) error {
	bw := bufio.NewWriter(w)

	header := append([]string{idHeader}, m.features...)
	if _, err := bw.WriteString(strings.Join(header, "\t") + "\n"); err != nil {
		return fmt.Errorf("write matrix header: %w", err)
	}

	for _, id := range m.IDs() {
		line := append([]string{id}, m.rows[id]...)
		if _, err := bw.WriteString(strings.Join(line, "\t") + "\n"); err != nil {
			return fmt.Errorf("write matrix row %s: %w", id, err)
		}
	}

	return bw.Flush()
}
