package catalog

import (
	"encoding/csv"
	"fmt"
	"io"

	"scraper-dashboard/internal/domain"
)

// WriteCSV writes c with a header row of column names. Missing values are empty cells.
// A filtered collection keeps its parent's columns, so a view with no matching rows still gets a header.
// A collection without columns (an empty fetch) produces no output.
func WriteCSV(w io.Writer, c domain.Collection) error {
	cw := csv.NewWriter(w)
	cols := c.Columns()
	if len(cols) == 0 {
		return nil
	}
	if err := cw.Write(cols); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(cols))
	for i, p := range c.Rows() {
		for j, col := range cols {
			v, _ := p.Field(col)
			record[j] = domain.FormatValue(v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
