package errors

import (
	"fmt"
	"strings"
)

// SchemaError reports a malformed table definition or a row that does not
// fit its schema
type SchemaError struct {
	Table  string
	Column string // empty if table-level
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("schema error in %s.%s: %s", e.Table, e.Column, e.Reason)
	}
	return fmt.Sprintf("schema error in %s: %s", e.Table, e.Reason)
}

// TableExistsError is returned by CREATE TABLE when the name is taken
type TableExistsError struct {
	Table string
}

func (e *TableExistsError) Error() string {
	return fmt.Sprintf("table %s already exists", e.Table)
}

// DuplicateKeyError is a primary key collision on insert
type DuplicateKeyError struct {
	Table  string
	Column string
	Key    fmt.Stringer
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate primary key in %s.%s: %v", e.Table, e.Column, e.Key)
}

// TypeMismatchError means a value's variant does not match the column's
// declared type
type TypeMismatchError struct {
	Table    string
	Column   string
	Expected string
	Got      string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch in %s.%s: expected %s, got %s", e.Table, e.Column, e.Expected, e.Got)
}

// UnknownColumnError references a column the table does not have
type UnknownColumnError struct {
	Table  string
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown column %s in table %s", e.Column, e.Table)
}

// NotFoundKind distinguishes a missing table from a missing row
type NotFoundKind string

const (
	NotFoundTable NotFoundKind = "table"
	NotFoundRow   NotFoundKind = "row"
)

// NotFoundError is a missing table or a missing row
type NotFoundError struct {
	Kind  NotFoundKind
	Table string
	Key   fmt.Stringer // row key, nil for tables
}

func (e *NotFoundError) Error() string {
	var b strings.Builder
	if e.Kind == NotFoundRow {
		fmt.Fprintf(&b, "row %v not found in table %s", e.Key, e.Table)
	} else {
		fmt.Fprintf(&b, "table not found: %s", e.Table)
	}
	return b.String()
}

func NewTableNotFound(table string) *NotFoundError {
	return &NotFoundError{Kind: NotFoundTable, Table: table}
}

func NewRowNotFound(table string, key fmt.Stringer) *NotFoundError {
	return &NotFoundError{Kind: NotFoundRow, Table: table, Key: key}
}
