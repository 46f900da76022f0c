package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	// headerRow is the row carrying one dataset name per column.
	headerRow = 1
	// firstFieldRow is where the field rows start; everything between the
	// header and this offset is spreadsheet legend material.
	firstFieldRow = 4
	// reservedColumns are the leading columns holding the field name and an
	// auxiliary description, before the per-dataset value columns begin.
	reservedColumns = 2
)

// LoadTable reads the field-oriented histdem CSV and reshapes it into one
// Record per dataset column. The table is wide: row 1 names the datasets from
// column 2 onward, and every row from offset 4 holds one field across all
// datasets. Trailing columns with empty headers are ignored, and short rows
// are tolerated; a missing trailing cell reads as an empty field.
func LoadTable(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open table: %w", err)
	}
	defer file.Close()

	records, err := ParseTable(file)
	if err != nil {
		return nil, fmt.Errorf("dataset: parse %s: %w", path, err)
	}
	return records, nil
}

// ParseTable reshapes CSV rows from r into per-dataset records. See LoadTable.
func ParseTable(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // rows are ragged by design
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) <= headerRow {
		return nil, fmt.Errorf("table has no dataset header row")
	}

	header := rows[headerRow]
	count := 0
	for i := reservedColumns; i < len(header); i++ {
		if strings.TrimSpace(header[i]) != "" {
			count++
		}
	}
	if count == 0 {
		return nil, fmt.Errorf("table names no datasets")
	}

	records := make([]Record, count)
	for i := range records {
		records[i] = Record{}
	}

	for rowIdx := firstFieldRow; rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		if len(row) < reservedColumns {
			continue
		}
		field := strings.TrimSpace(row[0])
		if field == "" {
			continue
		}
		for i := 0; i < count; i++ {
			col := i + reservedColumns
			if col >= len(row) {
				continue
			}
			value := strings.TrimSpace(row[col])
			if value != "" {
				records[i][field] = value
			}
		}
	}

	return records, nil
}
