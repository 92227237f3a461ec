// Package export writes parsed test case tables to CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/rejot-dev/qakit/internal/parser"
)

// Filename is the suggested name for downloaded tables.
const Filename = "test_cases.csv"

// WriteCSV writes the header followed by one record per row.
func WriteCSV(w io.Writer, header []string, rows []parser.Row) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, row := range rows {
		if err := cw.Write(row.Record()); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
