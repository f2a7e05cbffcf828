// Package variant provides parsing of annotated variant tables (TSV).
package variant

import "strings"

// Sentinel values used by upstream annotation for "no data".
const (
	Missing = "."
	Unknown = "UNKNOWN"
)

// Row represents a single called variant from an annotated table.
type Row struct {
	Gene        string // gene symbol
	Consequence string // functional consequence (e.g. exonic function)
	AAChange    string // amino-acid change identifier
	CosmicID    string // COSMIC catalog identifier, Missing if not catalogued
	Sample      string // sample / replicate identifier column, if present
	Cohort      string // case-level grouping column, if present
}

// HasCosmic returns true if the row carries a COSMIC annotation.
func (r *Row) HasCosmic() bool {
	return r.CosmicID != "" && r.CosmicID != Missing
}

// HasAAChange returns true if the row carries a usable amino-acid change.
func (r *Row) HasAAChange() bool {
	return r.AAChange != "" && r.AAChange != Missing && r.AAChange != Unknown
}

// CosmicIDs splits a COSMIC annotation that lists multiple catalog entries
// (e.g. "ID=COSM123,COSM456;OCCURENCE=...") into individual identifiers.
func (r *Row) CosmicIDs() []string {
	if !r.HasCosmic() {
		return nil
	}
	field := r.CosmicID
	if i := strings.Index(field, "ID="); i >= 0 {
		field = field[i+len("ID="):]
		if j := strings.IndexByte(field, ';'); j >= 0 {
			field = field[:j]
		}
	}
	parts := strings.Split(field, ",")
	ids := parts[:0]
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" && p != Missing {
			ids = append(ids, p)
		}
	}
	return ids
}
