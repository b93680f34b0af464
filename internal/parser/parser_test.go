package parser

import (
	"strings"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/leengari/minidb/internal/domain/schema"
	"github.com/leengari/minidb/internal/domain/value"
	"github.com/leengari/minidb/internal/parser/lexer"
	"github.com/leengari/minidb/internal/plan"
)

func parse(t *testing.T, input string) plan.Node {
	t.Helper()
	tokens, err := lexer.Tokenize(input)
	if err != nil {
		t.Fatalf("Lexer error: %v", err)
	}
	stmt, err := New(tokens).Parse()
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	return stmt
}

func TestParseSelect(t *testing.T) {
	stmt := parse(t, "SELECT id, name FROM users WHERE id = 1;")

	sel, ok := stmt.(*plan.SelectNode)
	if !ok {
		t.Fatalf("Expected SelectNode, got %T", stmt)
	}
	assert.Equal(t, sel.TableName, "users")
	assert.DeepEqual(t, sel.Columns, []string{"id", "name"})
	if sel.Predicate == nil {
		t.Fatal("Expected predicate, got nil")
	}
	assert.Equal(t, sel.Predicate.Column, "id")
	assert.Assert(t, sel.Predicate.Value.Equal(value.Integer(1)))
}

func TestParseIntegerBounds(t *testing.T) {
	ins := parse(t, "INSERT INTO t VALUES (9223372036854775807, -9223372036854775808)").(*plan.InsertNode)
	assert.Assert(t, ins.Rows[0][0].Equal(value.Integer(9223372036854775807)))
	assert.Assert(t, ins.Rows[0][1].Equal(value.Integer(-9223372036854775808)))
}

func TestParseSelectStar(t *testing.T) {
	sel := parse(t, "select * from users").(*plan.SelectNode)
	assert.Assert(t, sel.Columns == nil)
	assert.Assert(t, sel.Predicate == nil)
}

func TestParseIsNull(t *testing.T) {
	sel := parse(t, "SELECT * FROM test WHERE value IS NULL").(*plan.SelectNode)
	assert.Equal(t, sel.Predicate.Column, "value")
	assert.Assert(t, sel.Predicate.Value.IsNull())

	// "= NULL" is the same predicate: Null is an ordinary key
	sel = parse(t, "SELECT * FROM test WHERE value = NULL").(*plan.SelectNode)
	assert.Assert(t, sel.Predicate.Value.IsNull())
}

func TestParseInsert(t *testing.T) {
	ins := parse(t, "INSERT INTO items (id, name) VALUES (1, 'apple'), (-2, NULL);").(*plan.InsertNode)

	assert.Equal(t, ins.TableName, "items")
	assert.DeepEqual(t, ins.Columns, []string{"id", "name"})
	assert.Equal(t, len(ins.Rows), 2)
	assert.Assert(t, ins.Rows[0][0].Equal(value.Integer(1)))
	assert.Assert(t, ins.Rows[0][1].Equal(value.String("apple")))
	assert.Assert(t, ins.Rows[1][0].Equal(value.Integer(-2)))
	assert.Assert(t, ins.Rows[1][1].IsNull())
}

func TestParseInsertWithoutColumns(t *testing.T) {
	ins := parse(t, "INSERT INTO test VALUES (1, 'it''s')").(*plan.InsertNode)
	assert.Assert(t, ins.Columns == nil)
	assert.Assert(t, ins.Rows[0][1].Equal(value.String("it's")))
}

func TestParseUpdate(t *testing.T) {
	upd := parse(t, "UPDATE test SET value = NULL, total = 2 WHERE id = 3").(*plan.UpdateNode)

	assert.Equal(t, upd.TableName, "test")
	assert.Equal(t, len(upd.Assignments), 2)
	assert.Equal(t, upd.Assignments[0].Column, "value")
	assert.Assert(t, upd.Assignments[0].Value.IsNull())
	assert.Equal(t, upd.Assignments[1].Column, "total")
	assert.Assert(t, upd.Assignments[1].Value.Equal(value.Integer(2)))
	assert.Equal(t, upd.Predicate.String(), "id = 3")
}

func TestParseUpdateWithoutWhere(t *testing.T) {
	upd := parse(t, "UPDATE test SET value = 'x'").(*plan.UpdateNode)
	assert.Assert(t, upd.Predicate == nil)
}

func TestParseCreateTable(t *testing.T) {
	stmt := parse(t, `CREATE TABLE test (
		id INTEGER PRIMARY KEY,
		value STRING DEFAULT NULL INDEX,
		count INT NOT NULL DEFAULT -1
	)`)

	ct, ok := stmt.(*plan.CreateTableNode)
	if !ok {
		t.Fatalf("Expected CreateTableNode, got %T", stmt)
	}
	s := ct.Schema
	assert.Equal(t, s.Name, "test")
	assert.Equal(t, len(s.Columns), 3)

	assert.Equal(t, s.Columns[0].Name, "id")
	assert.Equal(t, s.Columns[0].Type, schema.ColumnTypeInteger)
	assert.Assert(t, s.Columns[0].PrimaryKey)

	assert.Equal(t, s.Columns[1].Type, schema.ColumnTypeString)
	assert.Assert(t, s.Columns[1].Indexed)
	assert.Assert(t, s.Columns[1].Default.IsNull())

	assert.Assert(t, s.Columns[2].Default.Equal(value.Integer(-1)))
	assert.NilError(t, s.Validate())
}

func TestParseDropAndDelete(t *testing.T) {
	drop := parse(t, "DROP TABLE test").(*plan.DropTableNode)
	assert.Equal(t, drop.TableName, "test")

	del := parse(t, "DELETE FROM test WHERE id = 2").(*plan.DeleteNode)
	assert.Equal(t, del.TableName, "test")
	assert.Equal(t, del.Predicate.String(), "id = 2")

	del = parse(t, "DELETE FROM test").(*plan.DeleteNode)
	assert.Assert(t, del.Predicate == nil)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"SELECT FROM test", "expected column name"},
		{"SELECT * FROM", "got end of input"},
		{"SELECT * FROM test WHERE id > 1", "illegal token"},
		{"SELECT * FROM test WHERE id", "expected = or IS NULL"},
		{"SELECT * FROM test extra", "expected end of statement"},
		{"INSERT INTO test VALUES (1,)", "expected literal value"},
		{"INSERT INTO test VALUES (- 'a')", "expected number"},
		{"UPDATE test SET a = 1, a = 2", "assigned more than once"},
		{"CREATE TABLE t (id FLOAT)", "unknown column type FLOAT"},
		{"CREATE TABLE t (id INTEGER PRIMARY)", "expected KEY"},
		{"CREATE t (id INTEGER)", "expected TABLE"},
		{"SELECT * FROM key", "expected table name"},
		{"FROM test", "expected CREATE, DROP, INSERT, UPDATE, SELECT or DELETE"},
		{"INSERT INTO t VALUES (99999999999999999999)", "invalid integer"},
		{"INSERT INTO t VALUES (9223372036854775808)", "invalid integer"},
		{"SELECT * FROM t WHERE a = 1 AND b IS NULL", "expected end of statement, got AND"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("Expected error for %q", tt.input)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %q", tt.want, err.Error())
			}
		})
	}
}
