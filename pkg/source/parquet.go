package source

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/graphscape/graphscape/pkg/errors"
)

// ParquetFile reads a flat Parquet table (e.g. the relationships output of
// an extraction pipeline). Nested columns are flattened to their leaf name.
type ParquetFile struct {
	Path string
}

// Name implements Source.
func (p *ParquetFile) Name() string { return filepath.Base(p.Path) }

// Read implements Source.
func (p *ParquetFile) Read(_ context.Context) (Table, error) {
	f, err := os.Open(p.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return Table{}, errors.Wrap(errors.ErrCodeFileNotFound, err,
				"parquet file not found: %s", p.Path)
		}
		return Table{}, errors.Wrap(errors.ErrCodeSourceUnavailable, err,
			"failed to open parquet file: %s", p.Path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Table{}, errors.Wrap(errors.ErrCodeSourceUnavailable, err,
			"failed to stat parquet file: %s", p.Path)
	}

	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return Table{}, errors.Wrap(errors.ErrCodeInvalidSource, err,
			"failed to parse parquet file: %s", p.Path)
	}

	// Leaf column names, indexed by column position within a row.
	paths := pf.Schema().Columns()
	names := make([]string, len(paths))
	for i, path := range paths {
		names[i] = path[len(path)-1]
	}

	var rows []Row
	buf := make([]parquet.Row, 64)
	for _, group := range pf.RowGroups() {
		reader := group.Rows()
		for {
			n, err := reader.ReadRows(buf)
			for _, raw := range buf[:n] {
				row := Row{}
				for _, value := range raw {
					col := value.Column()
					if col < 0 || col >= len(names) || value.IsNull() {
						continue
					}
					row[names[col]] = parquetValue(value)
				}
				rows = append(rows, row)
			}
			if err == io.EOF {
				break
			}
			if err != nil {
				reader.Close()
				return Table{}, errors.Wrap(errors.ErrCodeInvalidSource, err,
					"failed to read parquet rows: %s", p.Path)
			}
		}
		if err := reader.Close(); err != nil {
			return Table{}, errors.Wrap(errors.ErrCodeInvalidSource, err,
				"failed to close parquet row reader: %s", p.Path)
		}
	}

	return Table{Name: p.Name(), Rows: rows}, nil
}

// parquetValue converts a physical parquet value to a plain Go value.
func parquetValue(v parquet.Value) any {
	switch v.Kind() {
	case parquet.Boolean:
		return v.Boolean()
	case parquet.Int32:
		return v.Int32()
	case parquet.Int64:
		return v.Int64()
	case parquet.Float:
		return v.Float()
	case parquet.Double:
		return v.Double()
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(v.ByteArray())
	default:
		return v.String()
	}
}
