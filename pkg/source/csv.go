package source

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/graphscape/graphscape/pkg/errors"
)

// CSVFile reads a comma-separated file with a header row. All cell values
// are strings; empty cells count as missing during normalization.
type CSVFile struct {
	Path string
}

// Name implements Source.
func (c *CSVFile) Name() string { return filepath.Base(c.Path) }

// Read implements Source.
func (c *CSVFile) Read(_ context.Context) (Table, error) {
	f, err := os.Open(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return Table{}, errors.Wrap(errors.ErrCodeFileNotFound, err,
				"csv file not found: %s", c.Path)
		}
		return Table{}, errors.Wrap(errors.ErrCodeSourceUnavailable, err,
			"failed to open csv file: %s", c.Path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // tolerate ragged rows

	records, err := reader.ReadAll()
	if err != nil {
		return Table{}, errors.Wrap(errors.ErrCodeInvalidSource, err,
			"failed to parse csv file: %s", c.Path)
	}
	if len(records) == 0 {
		return Table{Name: c.Name()}, nil
	}

	header := records[0]
	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := Row{}
		for i, cell := range record {
			if i >= len(header) || cell == "" {
				continue
			}
			row[header[i]] = cell
		}
		rows = append(rows, row)
	}

	return Table{Name: c.Name(), Rows: rows}, nil
}
