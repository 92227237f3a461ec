package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rejot-dev/qakit/internal/parser"
)

func TestWriteCSV_Categorized(t *testing.T) {
	format := parser.FormatFor(parser.ModeCategorized)
	rows := format.Parse("Positive:\n1. Login with \"valid\" email, password\nEdge:\n1. Empty form")

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, format.Header(), rows))

	assert.Equal(t,
		"Category,Test Case\n"+
			"Positive,\"Login with \"\"valid\"\" email, password\"\n"+
			"Edge,Empty form\n",
		buf.String())

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 3)
	assert.Equal(t, "Login with \"valid\" email, password", records[1][1])
}

func TestWriteCSV_Bulleted(t *testing.T) {
	format := parser.FormatFor(parser.ModeBulleted)
	rows := format.Parse("- First\n- Second")

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, format.Header(), rows))
	assert.Equal(t, "Index,Title\n1,First\n2,Second\n", buf.String())
}

func TestWriteCSV_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []string{"Index", "Title"}, nil))
	assert.Equal(t, "Index,Title\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWriteCSV_WriterError(t *testing.T) {
	err := WriteCSV(failingWriter{}, []string{"Index", "Title"}, nil)
	assert.Error(t, err)
}
