package variant

import (
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// Recognized column names. Upstream tables come from different annotation
// pipelines, so each logical column accepts several header spellings.
var (
	geneColumns        = []string{"Gene.refGene", "Gene", "Hugo_Symbol"}
	consequenceColumns = []string{"ExonicFunc.refGene", "ExonicFunc", "Consequence"}
	aaChangeColumns    = []string{"AAChange.refGene", "AAChange", "HGVSp_Short"}
	sampleColumns      = []string{"Sample", "Tumor_Sample_Barcode"}
	cohortColumns      = []string{"Case", "Cohort", "Patient"}
)

// cosmicColumnPrefix matches versioned COSMIC columns such as "cosmic70".
const cosmicColumnPrefix = "cosmic"

// ColumnIndices holds the resolved indices of the logical columns.
// A value of -1 means the column is absent from the table.
type ColumnIndices struct {
	Gene        int
	Consequence int
	AAChange    int
	Cosmic      int
	Sample      int
	Cohort      int
}

// Parser reads variant rows from a tab-separated table with a header line.
// Plain, gzip and bzip2 compressed files are supported transparently.
type Parser struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
	columns    ColumnIndices
	headerLine string
}

// NewParser opens a variant table for reading and parses its header.
func NewParser(path string) (*Parser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open variant table: %w", err)
	}

	p := &Parser{file: file}

	buf := make([]byte, 3)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		file.Close()
		return nil, fmt.Errorf("read variant table: %w", err)
	}
	if _, err := file.Seek(0, 0); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek variant table: %w", err)
	}

	switch {
	case n >= 2 && buf[0] == 0x1f && buf[1] == 0x8b:
		p.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		p.reader = bufio.NewReader(p.gzipReader)
	case n >= 3 && buf[0] == 'B' && buf[1] == 'Z' && buf[2] == 'h':
		p.reader = bufio.NewReader(bzip2.NewReader(file))
	default:
		p.reader = bufio.NewReader(file)
	}

	if err := p.parseHeader(); err != nil {
		p.Close()
		return nil, err
	}

	return p, nil
}

// NewParserFromReader creates a parser from an io.Reader. The reader must
// yield uncompressed content.
func NewParserFromReader(r io.Reader) (*Parser, error) {
	p := &Parser{reader: bufio.NewReader(r)}
	if err := p.parseHeader(); err != nil {
		return nil, err
	}
	return p, nil
}

// parseHeader reads the header line and resolves column indices.
func (p *Parser) parseHeader() error {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return &ParseError{Line: p.lineNumber, Message: "no header line found"}
			}
			return fmt.Errorf("read header: %w", err)
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if line == "" || strings.HasPrefix(line, "##") {
			continue
		}

		p.headerLine = strings.TrimPrefix(line, "#")
		return p.resolveColumns(p.headerLine)
	}
}

// resolveColumns maps header names to column indices.
func (p *Parser) resolveColumns(headerLine string) error {
	p.columns = ColumnIndices{
		Gene:        -1,
		Consequence: -1,
		AAChange:    -1,
		Cosmic:      -1,
		Sample:      -1,
		Cohort:      -1,
	}

	columns := strings.Split(headerLine, "\t")
	for i, col := range columns {
		switch {
		case p.columns.Gene == -1 && matchesAny(col, geneColumns):
			p.columns.Gene = i
		case p.columns.Consequence == -1 && matchesAny(col, consequenceColumns):
			p.columns.Consequence = i
		case p.columns.AAChange == -1 && matchesAny(col, aaChangeColumns):
			p.columns.AAChange = i
		case p.columns.Cosmic == -1 && strings.HasPrefix(strings.ToLower(col), cosmicColumnPrefix):
			p.columns.Cosmic = i
		case p.columns.Sample == -1 && matchesAny(col, sampleColumns):
			p.columns.Sample = i
		case p.columns.Cohort == -1 && matchesAny(col, cohortColumns):
			p.columns.Cohort = i
		}
	}

	if p.columns.Gene == -1 {
		return &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("no gene column found (expected one of %s)", strings.Join(geneColumns, ", ")),
		}
	}

	return nil
}

func matchesAny(col string, names []string) bool {
	for _, n := range names {
		if col == n {
			return true
		}
	}
	return false
}

// Next reads the next row from the table.
// Returns nil, nil when there are no more rows.
func (p *Parser) Next() (*Row, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			if line == "" {
				return nil, nil
			}
		} else {
			return nil, fmt.Errorf("read variant line: %w", err)
		}
	}
	p.lineNumber++

	line = strings.TrimRight(line, "\r\n")
	if line == "" || strings.HasPrefix(line, "#") {
		return p.Next()
	}

	return p.parseLine(line)
}

// ReadAll reads all remaining rows from the table.
func (p *Parser) ReadAll() ([]*Row, error) {
	var rows []*Row
	for {
		row, err := p.Next()
		if err != nil {
			return nil, err
		}
		if row == nil {
			return rows, nil
		}
		rows = append(rows, row)
	}
}

// parseLine parses a single data line into a Row.
func (p *Parser) parseLine(line string) (*Row, error) {
	fields := strings.Split(line, "\t")

	if len(fields) <= p.columns.Gene {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("expected at least %d columns, found %d", p.columns.Gene+1, len(fields)),
		}
	}

	row := &Row{Gene: fields[p.columns.Gene]}
	row.Consequence = fieldAt(fields, p.columns.Consequence)
	row.AAChange = fieldAt(fields, p.columns.AAChange)
	row.CosmicID = fieldAt(fields, p.columns.Cosmic)
	row.Sample = fieldAt(fields, p.columns.Sample)
	row.Cohort = fieldAt(fields, p.columns.Cohort)

	return row, nil
}

// fieldAt returns the field at index i, or "" if the column is absent.
func fieldAt(fields []string, i int) string {
	if i < 0 || i >= len(fields) {
		return ""
	}
	return fields[i]
}

// Header returns the table header line.
func (p *Parser) Header() string {
	return p.headerLine
}

// Columns returns the resolved column indices.
func (p *Parser) Columns() ColumnIndices {
	return p.columns
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Close closes the parser and underlying file.
func (p *Parser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// ReadFile loads all rows from a variant table file.
func ReadFile(path string) ([]*Row, error) {
	p, err := NewParser(path)
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return p.ReadAll()
}

// ParseError represents an error during table parsing with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("variant table parse error at line %d: %s", e.Line, e.Message)
}
