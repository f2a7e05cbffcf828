package matrix

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrix_SetRowLengthMismatch(t *testing.T) {
	m := New([]string{"KRAS", "TP53"})
	err := m.SetRow("S1", []string{"1"})
	require.Error(t, err)
}

func TestMatrix_GetAndIDs(t *testing.T) {
	m := New([]string{"KRAS", "TP53"})
	require.NoError(t, m.SetRow("S2", []string{"0", "1"}))
	require.NoError(t, m.SetRow("S1", []string{"1", "0"}))

	assert.Equal(t, []string{"S1", "S2"}, m.IDs(), "ids are sorted")
	assert.Equal(t, "1", m.Get("S1", "KRAS"))
	assert.Equal(t, "0", m.Get("S1", "TP53"))
	assert.Equal(t, "", m.Get("S3", "KRAS"), "unknown id yields empty")
	assert.Equal(t, "", m.Get("S1", "BRAF"), "unknown feature yields empty")
}

func TestMatrix_WriteTSV(t *testing.T) {
	m := New([]string{"KRAS", "TP53"})
	require.NoError(t, m.SetRow("S2", []string{"0", "1"}))
	require.NoError(t, m.SetRow("S1", []string{"1", "0"}))

	var buf bytes.Buffer
	require.NoError(t, m.WriteTSV(&buf, "Case_ID"))

	want := "Case_ID\tKRAS\tTP53\n" +
		"S1\t1\t0\n" +
		"S2\t0\t1\n"
	assert.Equal(t, want, buf.String())
}

func TestMatrix_WriteTSV_Idempotent(t *testing.T) {
	m := New([]string{"KRAS", "BRCA1", "TP53"})
	require.NoError(t, m.SetRow("S3", []string{"1", "0", "1"}))
	require.NoError(t, m.SetRow("S1", []string{"0", "0", "0"}))
	require.NoError(t, m.SetRow("S2", []string{"1", "1", "0"}))

	var first, second bytes.Buffer
	require.NoError(t, m.WriteTSV(&first, "Case_ID"))
	require.NoError(t, m.WriteTSV(&second, "Case_ID"))

	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestMatrix_LastWriteWins(t *testing.T) {
	m := New([]string{"KRAS"})
	require.NoError(t, m.SetRow("S1", []string{"0"}))
	require.NoError(t, m.SetRow("S1", []string{"1"}))

	assert.Equal(t, 1, m.Len())
	assert.Equal(t, "1", m.Get("S1", "KRAS"))
}
