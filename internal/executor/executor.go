package executor

import (
	"fmt"

	"github.com/leengari/minidb/internal/domain/data"
	"github.com/leengari/minidb/internal/domain/errors"
	"github.com/leengari/minidb/internal/domain/transaction"
	"github.com/leengari/minidb/internal/domain/value"
	"github.com/leengari/minidb/internal/plan"
	"github.com/leengari/minidb/internal/table"
)

// Execute applies one statement to the database. Each statement is atomic:
// on error nothing it would have changed has been changed.
func Execute(node plan.Node, db *table.Database, tx *transaction.Transaction) (*Result, error) {
	switch n := node.(type) {
	case *plan.CreateTableNode:
		return executeCreateTable(n, db)
	case *plan.DropTableNode:
		return executeDropTable(n, db)
	case *plan.InsertNode:
		return executeInsert(n, db, tx)
	case *plan.UpdateNode:
		return executeUpdate(n, db, tx)
	case *plan.SelectNode:
		return executeSelect(n, db, tx)
	case *plan.DeleteNode:
		return executeDelete(n, db, tx)
	default:
		return nil, fmt.Errorf("unsupported statement type: %T", node)
	}
}

func executeCreateTable(n *plan.CreateTableNode, db *table.Database) (*Result, error) {
	if n.Schema == nil {
		return nil, &errors.SchemaError{Reason: "missing schema"}
	}
	if _, err := db.CreateTable(n.Schema); err != nil {
		return nil, err
	}
	return &Result{
		Kind:    KindCreated,
		Table:   n.Schema.Name,
		Message: fmt.Sprintf("Table '%s' created", n.Schema.Name),
	}, nil
}

func executeDropTable(n *plan.DropTableNode, db *table.Database) (*Result, error) {
	if err := db.DropTable(n.TableName); err != nil {
		return nil, err
	}
	return &Result{
		Kind:    KindDropped,
		Table:   n.TableName,
		Message: fmt.Sprintf("Table '%s' dropped", n.TableName),
	}, nil
}

func executeInsert(n *plan.InsertNode, db *table.Database, tx *transaction.Transaction) (*Result, error) {
	t, err := db.Table(n.TableName)
	if err != nil {
		return nil, err
	}

	rows := make([]data.Row, len(n.Rows))
	for i, vals := range n.Rows {
		row, err := buildRow(t, n.Columns, vals)
		if err != nil {
			return nil, err
		}
		rows[i] = row
	}

	inserted, err := t.InsertRows(rows, tx)
	if err != nil {
		return nil, err
	}
	return &Result{
		Kind:    KindInserted,
		Table:   t.Name,
		Rows:    inserted,
		Count:   uint64(len(inserted)),
		Message: fmt.Sprintf("INSERT %d", len(inserted)),
	}, nil
}

func executeUpdate(n *plan.UpdateNode, db *table.Database, tx *transaction.Transaction) (*Result, error) {
	t, err := db.Table(n.TableName)
	if err != nil {
		return nil, err
	}

	count, path, err := t.Update(n.Predicate, n.Assignments, tx)
	if err != nil {
		return nil, err
	}
	return &Result{
		Kind:       KindUpdated,
		Table:      t.Name,
		Count:      uint64(count),
		AccessPath: path,
		Message:    fmt.Sprintf("UPDATE %d", count),
	}, nil
}

func executeSelect(n *plan.SelectNode, db *table.Database, tx *transaction.Transaction) (*Result, error) {
	t, err := db.Table(n.TableName)
	if err != nil {
		return nil, err
	}

	columns, rows, path, err := t.Select(n.Predicate, n.Columns, tx)
	if err != nil {
		return nil, err
	}
	return &Result{
		Kind:       KindRows,
		Table:      t.Name,
		Columns:    columns,
		Rows:       rows,
		Count:      uint64(len(rows)),
		AccessPath: path,
		Message:    fmt.Sprintf("Returned %d rows", len(rows)),
	}, nil
}

func executeDelete(n *plan.DeleteNode, db *table.Database, tx *transaction.Transaction) (*Result, error) {
	t, err := db.Table(n.TableName)
	if err != nil {
		return nil, err
	}

	count, path, err := t.Delete(n.Predicate, tx)
	if err != nil {
		return nil, err
	}
	return &Result{
		Kind:       KindDeleted,
		Table:      t.Name,
		Count:      uint64(count),
		AccessPath: path,
		Message:    fmt.Sprintf("DELETE %d", count),
	}, nil
}

// buildRow turns INSERT values into a positional row. Without a column list
// the values are positional; with one, unnamed columns get their defaults.
func buildRow(t *table.Table, columns []string, vals []value.Value) (data.Row, error) {
	if len(columns) == 0 {
		return data.Row(vals).Copy(), nil
	}

	if len(columns) != len(vals) {
		return nil, &errors.SchemaError{
			Table:  t.Name,
			Reason: fmt.Sprintf("column count (%d) does not match value count (%d)", len(columns), len(vals)),
		}
	}

	cols := t.Schema.Columns
	row := make(data.Row, len(cols))
	for i, col := range cols {
		row[i] = col.Default
	}

	seen := make(map[string]bool, len(columns))
	for i, name := range columns {
		if seen[name] {
			return nil, &errors.SchemaError{Table: t.Name, Column: name, Reason: "column specified more than once"}
		}
		seen[name] = true

		pos := t.Schema.ColumnIndex(name)
		if pos < 0 {
			return nil, &errors.UnknownColumnError{Table: t.Name, Column: name}
		}
		row[pos] = vals[i]
	}
	return row, nil
}
