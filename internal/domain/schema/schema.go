package schema

import (
	"fmt"

	"github.com/leengari/minidb/internal/domain/errors"
)

// Schema is the ordered column list of one table.
// It is not modified after the table is created.
type Schema struct {
	Name    string
	Columns []Column
}

// Validate checks the definition before a table is built from it
func (s *Schema) Validate() error {
	if len(s.Columns) == 0 {
		return &errors.SchemaError{Table: s.Name, Reason: "table has no columns"}
	}

	seen := make(map[string]bool, len(s.Columns))
	primaryKeys := 0
	for _, col := range s.Columns {
		if seen[col.Name] {
			return &errors.SchemaError{Table: s.Name, Column: col.Name, Reason: "duplicate column name"}
		}
		seen[col.Name] = true

		switch col.Type {
		case ColumnTypeInteger, ColumnTypeString:
		default:
			return &errors.SchemaError{Table: s.Name, Column: col.Name, Reason: fmt.Sprintf("unknown type %q", col.Type)}
		}

		if !col.Type.Accepts(col.Default) {
			return &errors.SchemaError{
				Table:  s.Name,
				Column: col.Name,
				Reason: fmt.Sprintf("default %v does not match type %s", col.Default, col.Type),
			}
		}

		if col.PrimaryKey {
			primaryKeys++
		}
	}

	switch {
	case primaryKeys > 1:
		return &errors.SchemaError{Table: s.Name, Reason: "multiple primary key columns"}
	case primaryKeys == 0:
		return &errors.SchemaError{Table: s.Name, Reason: "no primary key column"}
	}
	return nil
}

// ColumnIndex returns the position of the named column, or -1
func (s *Schema) ColumnIndex(name string) int {
	for i := range s.Columns {
		if s.Columns[i].Name == name {
			return i
		}
	}
	return -1
}

// PrimaryKeyIndex returns the position of the primary key column, or -1
func (s *Schema) PrimaryKeyIndex() int {
	for i := range s.Columns {
		if s.Columns[i].PrimaryKey {
			return i
		}
	}
	return -1
}

// GetPrimaryKeyColumn returns the primary key column, or nil
func (s *Schema) GetPrimaryKeyColumn() *Column {
	if i := s.PrimaryKeyIndex(); i >= 0 {
		return &s.Columns[i]
	}
	return nil
}

// ColumnNames returns the column names in declaration order
func (s *Schema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, col := range s.Columns {
		names[i] = col.Name
	}
	return names
}
