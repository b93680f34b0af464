package plan

import (
	"testing"

	"github.com/leengari/minidb/internal/domain/schema"
	"github.com/leengari/minidb/internal/domain/value"
)

// TestNodeType verifies NodeType method
func TestNodeType(t *testing.T) {
	tests := []struct {
		node     Node
		expected string
	}{
		{&CreateTableNode{}, "CREATE_TABLE"},
		{&DropTableNode{}, "DROP_TABLE"},
		{&SelectNode{}, "SELECT"},
		{&InsertNode{}, "INSERT"},
		{&UpdateNode{}, "UPDATE"},
		{&DeleteNode{}, "DELETE"},
	}

	for _, tt := range tests {
		if tt.node.NodeType() != tt.expected {
			t.Errorf("Expected NodeType=%s, got %s", tt.expected, tt.node.NodeType())
		}
	}
}

// TestMetadata verifies metadata attachment
func TestMetadata(t *testing.T) {
	node := &SelectNode{TableName: "users"}

	if node.Metadata() == nil {
		t.Fatal("Metadata() should never return nil")
	}

	node.Metadata()["access_path"] = "index"
	if val, ok := node.Metadata()["access_path"].(string); !ok || val != "index" {
		t.Errorf("Expected access_path='index', got %v", node.Metadata()["access_path"])
	}
}

func TestPredicateString(t *testing.T) {
	tests := []struct {
		pred     *Predicate
		expected string
	}{
		{nil, "TRUE"},
		{&Predicate{Column: "id", Value: value.Integer(3)}, "id = 3"},
		{&Predicate{Column: "name", Value: value.String("a")}, "name = 'a'"},
		{&Predicate{Column: "name", Value: value.Null()}, "name IS NULL"},
	}

	for _, tt := range tests {
		if got := tt.pred.String(); got != tt.expected {
			t.Errorf("Expected %q, got %q", tt.expected, got)
		}
	}
}

func TestNewUpdateNodeSortsAssignments(t *testing.T) {
	node := NewUpdateNode("test", map[string]value.Value{
		"value": value.Integer(1),
		"name":  value.Null(),
	}, nil)

	if len(node.Assignments) != 2 {
		t.Fatalf("Expected 2 assignments, got %d", len(node.Assignments))
	}
	if node.Assignments[0].Column != "name" || node.Assignments[1].Column != "value" {
		t.Errorf("Assignments not sorted: %+v", node.Assignments)
	}
}

func TestDescribe(t *testing.T) {
	create := &CreateTableNode{Schema: &schema.Schema{Name: "test"}}
	if got := Describe(create); got != "CREATE_TABLE test" {
		t.Errorf("unexpected description %q", got)
	}

	update := NewUpdateNode("test", map[string]value.Value{"name": value.Null()},
		&Predicate{Column: "id", Value: value.Integer(3)})
	if got := Describe(update); got != "UPDATE test set=1 where id = 3" {
		t.Errorf("unexpected description %q", got)
	}
}
