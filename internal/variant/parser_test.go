package variant

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTable = `Gene.refGene	ExonicFunc.refGene	AAChange.refGene	cosmic70	Sample	Case
KRAS	nonsynonymous SNV	KRAS:NM_033360:exon2:c.G35T:p.G12V	ID=COSM520;OCCURENCE=1(large_intestine)	S1_rep1	S1
TP53	stopgain	TP53:NM_000546:exon8:c.C916T:p.R306X	.	S1_rep1	S1
BRAF	nonsynonymous SNV	UNKNOWN	ID=COSM476,COSM6137;OCCURENCE=2(skin)	S1_rep1	S1
`

func writeTable(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "table.tsv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParser_ResolveColumns(t *testing.T) {
	p, err := NewParserFromReader(strings.NewReader(sampleTable))
	require.NoError(t, err)

	cols := p.Columns()
	assert.Equal(t, 0, cols.Gene)
	assert.Equal(t, 1, cols.Consequence)
	assert.Equal(t, 2, cols.AAChange)
	assert.Equal(t, 3, cols.Cosmic)
	assert.Equal(t, 4, cols.Sample)
	assert.Equal(t, 5, cols.Cohort)
}

func TestParser_Next(t *testing.T) {
	p, err := NewParserFromReader(strings.NewReader(sampleTable))
	require.NoError(t, err)

	r, err := p.Next()
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "KRAS", r.Gene)
	assert.Equal(t, "nonsynonymous SNV", r.Consequence)
	assert.Equal(t, "S1_rep1", r.Sample)
	assert.Equal(t, "S1", r.Cohort)
	assert.True(t, r.HasCosmic())
	assert.True(t, r.HasAAChange())

	r, err = p.Next()
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "TP53", r.Gene)
	assert.False(t, r.HasCosmic(), "dot sentinel means no COSMIC annotation")

	r, err = p.Next()
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "BRAF", r.Gene)
	assert.False(t, r.HasAAChange(), "UNKNOWN is not a usable amino-acid change")

	r, err = p.Next()
	require.NoError(t, err)
	assert.Nil(t, r, "expected EOF after three rows")
}

func TestParser_MAFStyleColumns(t *testing.T) {
	table := "Hugo_Symbol\tConsequence\tHGVSp_Short\tCOSMIC_ID\tTumor_Sample_Barcode\n" +
		"KRAS\tmissense_variant\tp.G12C\tCOSM516\tTCGA-01\n"

	p, err := NewParserFromReader(strings.NewReader(table))
	require.NoError(t, err)

	r, err := p.Next()
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "KRAS", r.Gene)
	assert.Equal(t, "p.G12C", r.AAChange)
	assert.Equal(t, "COSM516", r.CosmicID)
	assert.Equal(t, "TCGA-01", r.Sample)
}

func TestParser_MissingGeneColumn(t *testing.T) {
	_, err := NewParserFromReader(strings.NewReader("Chrom\tPos\n1\t100\n"))
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Message, "no gene column")
}

func TestParser_ShortLine(t *testing.T) {
	table := "Chrom\tGene.refGene\n1\n"
	p, err := NewParserFromReader(strings.NewReader(table))
	require.NoError(t, err)

	_, err = p.Next()
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Line)
}

func TestParser_SkipsCommentsAndBlanks(t *testing.T) {
	table := "##source=caller\n" +
		"Gene.refGene\tcosmic70\n" +
		"\n" +
		"# interstitial comment\n" +
		"KRAS\tCOSM520\n"

	p, err := NewParserFromReader(strings.NewReader(table))
	require.NoError(t, err)

	rows, err := p.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "KRAS", rows[0].Gene)
}

func TestParser_NoTrailingNewline(t *testing.T) {
	p, err := NewParserFromReader(strings.NewReader("Gene.refGene\nKRAS"))
	require.NoError(t, err)

	rows, err := p.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "KRAS", rows[0].Gene)
}

func TestParser_PlainFile(t *testing.T) {
	path := writeTable(t, sampleTable)

	rows, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestParser_GzipFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.tsv.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(sampleTable))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	rows, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Equal(t, "KRAS", rows[0].Gene)
}

// bzip2Table is a bzip2-compressed two-line variant table (header + one
// KRAS row), pre-compressed since the standard library only decompresses.
var bzip2Table = []byte{
	0x42, 0x5a, 0x68, 0x39, 0x31, 0x41, 0x59, 0x26, 0x53, 0x59, 0xbe, 0x79, 0x91, 0xc9, 0x00, 0x00,
	0x1d, 0xdf, 0x80, 0x00, 0x30, 0x40, 0x61, 0x7b, 0x9a, 0x2f, 0xab, 0x9f, 0x00, 0xab, 0xe7, 0xde,
	0x60, 0x20, 0x00, 0x64, 0x35, 0x34, 0xa3, 0xc9, 0x0f, 0x53, 0x13, 0xd1, 0x1e, 0xa3, 0x46, 0x9e,
	0x9a, 0x4f, 0x6a, 0x40, 0xf5, 0x1a, 0x1a, 0x14, 0x46, 0xd2, 0x06, 0x83, 0x40, 0x00, 0x00, 0x00,
	0x1a, 0x44, 0x40, 0x13, 0xe6, 0xd3, 0x8b, 0x15, 0xef, 0x00, 0x91, 0x51, 0xd6, 0xd7, 0x5b, 0xbb,
	0xd3, 0x27, 0x72, 0x8a, 0x04, 0x27, 0x6e, 0xa5, 0x99, 0x3d, 0xee, 0xe6, 0x60, 0xce, 0xab, 0xd5,
	0x14, 0xae, 0x6a, 0x20, 0x3b, 0x22, 0xec, 0xe4, 0x4d, 0x65, 0x1d, 0x33, 0x45, 0x98, 0x0e, 0xb4,
	0x86, 0x9d, 0xab, 0xdf, 0xae, 0xc8, 0x78, 0x95, 0x37, 0x48, 0x56, 0x94, 0x09, 0x0c, 0x51, 0x78,
	0x1f, 0x16, 0x64, 0x66, 0x07, 0x3b, 0x54, 0xd9, 0xf3, 0xba, 0x7d, 0xf9, 0xa1, 0xbc, 0x4f, 0x8a,
	0x83, 0x28, 0x04, 0x48, 0x8e, 0x2c, 0x5c, 0x46, 0x23, 0x64, 0xeb, 0x9d, 0x71, 0x36, 0x92, 0x97,
	0x00, 0x0f, 0xc5, 0xdc, 0x91, 0x4e, 0x14, 0x24, 0x2f, 0x9e, 0x64, 0x72, 0x40,
}

func TestParser_Bzip2File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.tsv.bz2")
	require.NoError(t, os.WriteFile(path, bzip2Table, 0644))

	rows, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "KRAS", rows[0].Gene)
	assert.True(t, rows[0].HasCosmic())
}
