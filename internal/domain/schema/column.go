package schema

import (
	"strings"

	"github.com/leengari/minidb/internal/domain/value"
)

type ColumnType string

const (
	ColumnTypeInteger ColumnType = "INTEGER"
	ColumnTypeString  ColumnType = "STRING"
)

// ParseColumnType maps a declared SQL type name onto a ColumnType
func ParseColumnType(name string) (ColumnType, bool) {
	switch strings.ToUpper(name) {
	case "INT", "INTEGER":
		return ColumnTypeInteger, true
	case "STRING", "TEXT", "VARCHAR":
		return ColumnTypeString, true
	}
	return "", false
}

// Accepts reports whether v may be stored in a column of this type.
// Null is accepted by every type.
func (t ColumnType) Accepts(v value.Value) bool {
	switch v.Kind() {
	case value.KindNull:
		return true
	case value.KindInteger:
		return t == ColumnTypeInteger
	case value.KindString:
		return t == ColumnTypeString
	}
	return false
}

type Column struct {
	Name       string      `json:"name"`
	Type       ColumnType  `json:"type"`
	PrimaryKey bool        `json:"primary_key"`
	Default    value.Value `json:"default"`
	Indexed    bool        `json:"indexed"`
}
