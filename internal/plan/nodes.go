package plan

import (
	"fmt"
	"sort"
	"strings"

	"github.com/leengari/minidb/internal/domain/schema"
	"github.com/leengari/minidb/internal/domain/value"
)

// Node is the base interface for every parsed statement
type Node interface {
	// NodeType returns the type identifier (for debugging/logging)
	NodeType() string

	// Metadata returns attached metadata (never nil)
	Metadata() map[string]any
}

// metadata is embedded by every node
type metadata struct {
	m map[string]any
}

func (md *metadata) Metadata() map[string]any {
	if md.m == nil {
		md.m = make(map[string]any)
	}
	return md.m
}

// Predicate selects rows whose Column equals Value.
// "col IS NULL" is Predicate{Column: col, Value: value.Null()}.
type Predicate struct {
	Column string
	Value  value.Value
}

func (p *Predicate) String() string {
	if p == nil {
		return "TRUE"
	}
	if p.Value.IsNull() {
		return p.Column + " IS NULL"
	}
	return fmt.Sprintf("%s = %s", p.Column, p.Value.SQL())
}

// Assignment is one SET column = value clause
type Assignment struct {
	Column string
	Value  value.Value
}

// CreateTableNode creates a table from a schema
type CreateTableNode struct {
	metadata
	Schema *schema.Schema
}

func (n *CreateTableNode) NodeType() string { return "CREATE_TABLE" }

// DropTableNode removes a table
type DropTableNode struct {
	metadata
	TableName string
}

func (n *DropTableNode) NodeType() string { return "DROP_TABLE" }

// InsertNode inserts one row per entry of Rows.
// With no Columns, values are positional and trailing columns take their
// defaults. With Columns, unnamed columns take their defaults.
type InsertNode struct {
	metadata
	TableName string
	Columns   []string
	Rows      [][]value.Value
}

func (n *InsertNode) NodeType() string { return "INSERT" }

// UpdateNode assigns values to every row matching Predicate (all rows when nil)
type UpdateNode struct {
	metadata
	TableName   string
	Assignments []Assignment
	Predicate   *Predicate
}

func (n *UpdateNode) NodeType() string { return "UPDATE" }

// NewUpdateNode builds an UpdateNode from a column->value mapping.
// Assignments are sorted by column name so execution order is stable.
func NewUpdateNode(table string, set map[string]value.Value, pred *Predicate) *UpdateNode {
	assignments := make([]Assignment, 0, len(set))
	for col, v := range set {
		assignments = append(assignments, Assignment{Column: col, Value: v})
	}
	sort.Slice(assignments, func(i, j int) bool {
		return assignments[i].Column < assignments[j].Column
	})
	return &UpdateNode{TableName: table, Assignments: assignments, Predicate: pred}
}

// SelectNode returns rows matching Predicate (all rows when nil).
// Empty Columns selects every column.
type SelectNode struct {
	metadata
	TableName string
	Columns   []string
	Predicate *Predicate
}

func (n *SelectNode) NodeType() string { return "SELECT" }

// DeleteNode removes every row matching Predicate (all rows when nil)
type DeleteNode struct {
	metadata
	TableName string
	Predicate *Predicate
}

func (n *DeleteNode) NodeType() string { return "DELETE" }

// Describe returns a one-line summary of a node for logs
func Describe(n Node) string {
	var b strings.Builder
	b.WriteString(n.NodeType())
	switch s := n.(type) {
	case *CreateTableNode:
		b.WriteString(" " + s.Schema.Name)
	case *DropTableNode:
		b.WriteString(" " + s.TableName)
	case *InsertNode:
		fmt.Fprintf(&b, " %s rows=%d", s.TableName, len(s.Rows))
	case *UpdateNode:
		fmt.Fprintf(&b, " %s set=%d where %s", s.TableName, len(s.Assignments), s.Predicate)
	case *SelectNode:
		fmt.Fprintf(&b, " %s where %s", s.TableName, s.Predicate)
	case *DeleteNode:
		fmt.Fprintf(&b, " %s where %s", s.TableName, s.Predicate)
	}
	return b.String()
}
