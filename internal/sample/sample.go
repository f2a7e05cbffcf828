// Package sample derives and remaps sample identifiers.
package sample

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// IDFromFilename derives a sample identifier from a table filename by
// stripping the given suffix, e.g.
// "SAMPLE001_processed_variants.tsv.bz2" with strip
// "_processed_variants.tsv.bz2" yields "SAMPLE001".
func IDFromFilename(name, strip string) string {
	base := filepath.Base(name)
	if strip != "" && strings.HasSuffix(base, strip) {
		return base[:len(base)-len(strip)]
	}
	return base
}

// Remap translates the leading token of a sample identifier through a
// lookup table. An empty Remap is the identity mapping, so callers never
// need to branch on its presence.
type Remap struct {
	table map[string]string
}

// Identity returns a Remap that maps every identifier to itself.
func Identity() *Remap {
	return &Remap{}
}

// NewRemap builds a Remap from an explicit table.
func NewRemap(table map[string]string) *Remap {
	return &Remap{table: table}
}

// LoadRemap loads a two-column TSV mapping source tokens to replacement
// tokens. The first line is a header and is always skipped.
func LoadRemap(path string) (*Remap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open remap table: %w", err)
	}
	defer f.Close()

	return parseRemap(f)
}

func parseRemap(r io.Reader) (*Remap, error) {
	table := make(map[string]string)
	scanner := bufio.NewScanner(r)

	// Skip header line
	if !scanner.Scan() {
		return &Remap{table: table}, scanner.Err()
	}

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			continue
		}

		from := strings.TrimSpace(fields[0])
		to := strings.TrimSpace(fields[1])

		if from == "" || to == "" {
			continue
		}
		table[from] = to
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan remap table: %w", err)
	}

	return &Remap{table: table}, nil
}

// Len returns the number of entries in the table.
func (m *Remap) Len() int {
	return len(m.table)
}

// Apply substitutes the identifier's leading token (up to the first "_",
// or the whole identifier) when it is present in the table. Identifiers
// with no matching entry pass through unchanged.
func (m *Remap) Apply(id string) string {
	if len(m.table) == 0 {
		return id
	}

	token := id
	rest := ""
	if i := strings.IndexByte(id, '_'); i >= 0 {
		token = id[:i]
		rest = id[i:]
	}

	if to, ok := m.table[token]; ok {
		return to + rest
	}
	return id
}
