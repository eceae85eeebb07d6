// Package source reads raw form rows from spreadsheet exports.
package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/vidyaops/campusboard/internal/domain/model"
)

// CSVSource reads a CSV spreadsheet export: the first record supplies the
// header row, every following record becomes one RawRow.
type CSVSource struct {
	path string
}

// NewCSVSource creates a source for the export at path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Rows reads and converts the full export.
func (s *CSVSource) Rows(ctx context.Context) ([]model.RawRow, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open csv source: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	// Exports from older form revisions have ragged rows.
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv source: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	headers := records[0]
	rows := make([]model.RawRow, 0, len(records)-1)
	for _, record := range records[1:] {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("read csv source: %w", err)
		}
		row := make(model.RawRow, len(headers))
		for i, h := range headers {
			if i < len(record) {
				row[h] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
