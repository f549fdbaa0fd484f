package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() Table {
	return Table{
		Title:   "Standard",
		Headers: []string{"Grade", "Min %", "Max %"},
		Rows:    [][]string{{"A", "80", ""}, {"B, plus", "70", "79.99"}},
		Notes:   []string{"No grade covers 0-69.99%."},
	}
}

func TestCSVExporterRender(t *testing.T) {
	body, err := NewCSVExporter().Render(sampleTable())
	require.NoError(t, err)
	assert.Equal(t, "Grade,Min %,Max %\nA,80,\n\"B, plus\",70,79.99\n", string(body))
}

func TestCSVExporterRejectsRaggedRows(t *testing.T) {
	table := sampleTable()
	table.Rows = append(table.Rows, []string{"C"})
	_, err := NewCSVExporter().Render(table)
	assert.Error(t, err)

	_, err = NewCSVExporter().Render(Table{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	exporter := NewPDFExporter()
	body, err := exporter.Render(sampleTable())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF-")))
	assert.Equal(t, "application/pdf", exporter.ContentType())
}
