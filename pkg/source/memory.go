package source

import "context"

// MemoryTable is an in-process Source, used for tests and for callers that
// already hold rows (e.g. results of an upstream extraction run).
type MemoryTable struct {
	TableName string
	Rows      []Row
}

// Name implements Source.
func (m *MemoryTable) Name() string {
	if m.TableName == "" {
		return "memory"
	}
	return m.TableName
}

// Read implements Source.
func (m *MemoryTable) Read(_ context.Context) (Table, error) {
	return Table{Name: m.Name(), Rows: m.Rows}, nil
}
