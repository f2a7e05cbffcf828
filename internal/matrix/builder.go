package matrix

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/inodb/oncomatrix/internal/feature"
	"github.com/inodb/oncomatrix/internal/variant"
)

// Mode selects how presence is encoded in matrix cells.
type Mode int

const (
	// Binary encodes presence as "1" and absence as "0".
	Binary Mode = iota
	// Marker encodes presence as a mutation tag and absence as "".
	Marker
)

// MarkerPresent is the cell value written for present features in Marker
// mode. The trailing ";" is the alteration-string convention the external
// oncoprint tooling expects.
const MarkerPresent = "MUT;"

// Params configures a matrix build.
type Params struct {
	Features feature.List
	Extract  feature.Extractor
	Mode     Mode

	// Keep filters rows before membership testing. Nil keeps rows with a
	// COSMIC annotation, the default for directory passes.
	Keep func(*variant.Row) bool
}

// Builder assembles presence matrices from row sources.
type Builder struct {
	logger *zap.Logger
}

// NewBuilder creates a Builder.
func NewBuilder() *Builder {
	return &Builder{logger: zap.NewNop()}
}

// SetLogger sets the logger for warning messages.
func (b *Builder) SetLogger(l *zap.Logger) {
	b.logger = l
}

// Build produces a presence matrix from the source. Every group yields a
// row, including groups with no qualifying variant rows (all-absent).
// Groups sharing a key after identifier derivation collapse to one row,
// last write wins.
func (b *Builder) Build(src RowSource, p Params) (*Matrix, error) {
	if len(p.Features) == 0 {
		return nil, fmt.Errorf("empty feature list")
	}
	if p.Extract == nil {
		return nil, fmt.Errorf("no feature extractor")
	}

	keep := p.Keep
	if keep == nil {
		keep = func(r *variant.Row) bool { return r.HasCosmic() }
	}

	groups, err := src.Groups()
	if err != nil {
		return nil, err
	}

	m := New(p.Features)
	for _, g := range groups {
		if m.HasRow(g.Key) {
			b.logger.Warn("duplicate identifier, overwriting earlier row",
				zap.String("id", g.Key))
		}

		present := make(map[string]bool)
		for _, r := range g.Rows {
			if !keep(r) {
				continue
			}
			for _, v := range p.Extract(r) {
				present[v] = true
			}
		}

		values := make([]string, len(p.Features))
		for i, f := range p.Features {
			values[i] = cell(p.Mode, present[f])
		}
		if err := m.SetRow(g.Key, values); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func cell(mode Mode, present bool) string {
	switch mode {
	case Marker:
		if present {
			return MarkerPresent
		}
		return ""
	default:
		if present {
			return "1"
		}
		return "0"
	}
}
