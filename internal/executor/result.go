package executor

import (
	"fmt"
	"strings"

	"github.com/leengari/minidb/internal/domain/data"
	"github.com/leengari/minidb/internal/table"
)

// ResultKind identifies what a statement produced
type ResultKind string

const (
	KindCreated  ResultKind = "created"
	KindDropped  ResultKind = "dropped"
	KindInserted ResultKind = "inserted"
	KindUpdated  ResultKind = "update"
	KindDeleted  ResultKind = "delete"
	KindRows     ResultKind = "rows"
)

// Result is the structured outcome of one statement. Which fields are set
// depends on Kind:
//
//	created, dropped  Table
//	inserted          Table, Rows (the stored rows), Count
//	update, delete    Table, Count, AccessPath
//	rows              Table, Columns, Rows, Count, AccessPath
type Result struct {
	Kind       ResultKind       `json:"kind"`
	Table      string           `json:"table,omitempty"`
	Columns    []string         `json:"columns,omitempty"`
	Rows       []data.Row       `json:"rows,omitempty"`
	Count      uint64           `json:"count"`
	AccessPath table.AccessPath `json:"access_path,omitempty"`
	Message    string           `json:"message,omitempty"`
}

// String renders the debug form, e.g. Update { count: 1 }
func (r *Result) String() string {
	switch r.Kind {
	case KindCreated:
		return "Created"
	case KindDropped:
		return "Dropped"
	case KindInserted:
		if len(r.Rows) == 1 {
			return fmt.Sprintf("Inserted { row: %v }", r.Rows[0])
		}
		return fmt.Sprintf("Inserted { count: %d }", r.Count)
	case KindUpdated:
		return fmt.Sprintf("Update { count: %d }", r.Count)
	case KindDeleted:
		return fmt.Sprintf("Delete { count: %d }", r.Count)
	case KindRows:
		var b strings.Builder
		fmt.Fprintf(&b, "Rows { columns: [%s], rows: [", strings.Join(r.Columns, ", "))
		for i, row := range r.Rows {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(row.String())
		}
		b.WriteString("] }")
		return b.String()
	}
	return string(r.Kind)
}
