// Package csvsource reads the flat-file exports (appointment_list.csv,
// user.csv, address.csv, address_mapped.csv) into raw row sets for the
// normalizer.
package csvsource

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/zipdash/appointment-analytics/internal/loader"
)

// Load reads a CSV file into a RowSet. The first record is the header;
// a file without one is a schema failure. Short records leave the
// remaining columns absent, long records drop the excess, matching how
// the normalizer treats missing values.
func Load(path string) (loader.RowSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return loader.RowSet{}, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer f.Close()

	rs, err := Read(f)
	if err != nil {
		return loader.RowSet{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	slog.Info("csv file loaded", slog.String("path", path), slog.Int("rows", len(rs.Rows)))
	return rs, nil
}

// Read parses CSV content from r into a RowSet.
func Read(r io.Reader) (loader.RowSet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // rows are coerced, not rejected

	header, err := reader.Read()
	if err == io.EOF {
		return loader.RowSet{}, fmt.Errorf("%w: empty file has no header", loader.ErrMissingColumn)
	}
	if err != nil {
		return loader.RowSet{}, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make([]string, len(header))
	for i, col := range header {
		columns[i] = strings.TrimSpace(col)
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return loader.RowSet{}, fmt.Errorf("failed to read record: %w", err)
		}

		row := make(map[string]string, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return loader.RowSet{Columns: columns, Rows: rows}, nil
}
