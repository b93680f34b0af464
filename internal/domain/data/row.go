package data

import (
	"strings"

	"github.com/leengari/minidb/internal/domain/value"
)

// Row represents a single table row.
// Values are positionally aligned with the table schema.
type Row []value.Value

// Copy creates a copy of the row to prevent mutation
func (r Row) Copy() Row {
	if r == nil {
		return nil
	}
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// Equal compares rows cell by cell
func (r Row) Equal(other Row) bool {
	if len(r) != len(other) {
		return false
	}
	for i := range r {
		if !r[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// String renders the row as [Integer(1), String("a"), Null]
func (r Row) String() string {
	parts := make([]string, len(r))
	for i, v := range r {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Project returns the cells at the given positions in order
func (r Row) Project(positions []int) Row {
	out := make(Row, len(positions))
	for i, pos := range positions {
		out[i] = r[pos]
	}
	return out
}
