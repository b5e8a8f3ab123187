package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV serializes rows as CSV. Unpopulated cells become empty fields.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	record := make([]string, 0, len(Headers))

	for _, row := range rows {
		record = record[:0]
		for _, cell := range row {
			if cell == nil {
				record = append(record, "")
			} else {
				record = append(record, *cell)
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
