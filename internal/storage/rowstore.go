package storage

import (
	"fmt"
	"iter"

	"github.com/google/btree"

	"github.com/leengari/minidb/internal/domain/data"
	"github.com/leengari/minidb/internal/domain/errors"
	"github.com/leengari/minidb/internal/domain/schema"
	"github.com/leengari/minidb/internal/domain/value"
)

// btreeDegree is the branching factor of the primary key tree
const btreeDegree = 16

// rowItem is one tree entry. Held by pointer so cells can be updated in place.
type rowItem struct {
	key value.Value
	row data.Row
}

func lessRowItem(a, b *rowItem) bool {
	return value.Less(a.key, b.key)
}

// RowStore holds a table's rows ordered by primary key.
// It is not safe for concurrent use; the owning table serializes access.
type RowStore struct {
	schema *schema.Schema
	pkPos  int
	tree   *btree.BTreeG[*rowItem]
}

// New creates an empty store for the schema
func New(s *schema.Schema) (*RowStore, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &RowStore{
		schema: s,
		pkPos:  s.PrimaryKeyIndex(),
		tree:   btree.NewG(btreeDegree, lessRowItem),
	}, nil
}

func (s *RowStore) Schema() *schema.Schema { return s.schema }

// Len returns the number of rows
func (s *RowStore) Len() int { return s.tree.Len() }

// PrimaryKey extracts the primary key cell of a row
func (s *RowStore) PrimaryKey(row data.Row) value.Value {
	return row[s.pkPos]
}

// Normalize pads a short row with column defaults and checks every cell
// against its declared type. The input is not modified.
func (s *RowStore) Normalize(row data.Row) (data.Row, error) {
	cols := s.schema.Columns
	if len(row) > len(cols) {
		return nil, &errors.SchemaError{
			Table:  s.schema.Name,
			Reason: fmt.Sprintf("row has %d values, table has %d columns", len(row), len(cols)),
		}
	}

	out := make(data.Row, len(cols))
	copy(out, row)
	for i := len(row); i < len(cols); i++ {
		out[i] = cols[i].Default
	}

	for i, col := range cols {
		if err := s.checkType(col, out[i]); err != nil {
			return nil, err
		}
	}
	if out[s.pkPos].IsNull() {
		pk := cols[s.pkPos]
		return nil, &errors.TypeMismatchError{
			Table:    s.schema.Name,
			Column:   pk.Name,
			Expected: "non-null " + string(pk.Type),
			Got:      value.KindNull.String(),
		}
	}
	return out, nil
}

// Insert adds a row. Missing trailing values take the column defaults.
func (s *RowStore) Insert(row data.Row) (data.Row, error) {
	full, err := s.Normalize(row)
	if err != nil {
		return nil, err
	}

	key := full[s.pkPos]
	if s.tree.Has(&rowItem{key: key}) {
		return nil, &errors.DuplicateKeyError{
			Table:  s.schema.Name,
			Column: s.schema.Columns[s.pkPos].Name,
			Key:    key,
		}
	}

	s.tree.ReplaceOrInsert(&rowItem{key: key, row: full})
	return full.Copy(), nil
}

// Get returns a copy of the row with the given primary key
func (s *RowStore) Get(pk value.Value) (data.Row, error) {
	item, ok := s.tree.Get(&rowItem{key: pk})
	if !ok {
		return nil, errors.NewRowNotFound(s.schema.Name, pk)
	}
	return item.row.Copy(), nil
}

// Scan yields copies of every row in primary key order. Each call walks the
// current contents; the store must not be mutated while a scan is running.
func (s *RowStore) Scan() iter.Seq[data.Row] {
	return func(yield func(data.Row) bool) {
		s.tree.Ascend(func(item *rowItem) bool {
			return yield(item.row.Copy())
		})
	}
}

// Keys returns every primary key in order
func (s *RowStore) Keys() []value.Value {
	keys := make([]value.Value, 0, s.tree.Len())
	s.tree.Ascend(func(item *rowItem) bool {
		keys = append(keys, item.key)
		return true
	})
	return keys
}

// ResolveColumn returns the position of a column that may be assigned v.
// The primary key column cannot be assigned.
func (s *RowStore) ResolveColumn(name string, v value.Value) (int, error) {
	pos := s.schema.ColumnIndex(name)
	if pos < 0 {
		return -1, &errors.UnknownColumnError{Table: s.schema.Name, Column: name}
	}
	if pos == s.pkPos {
		return -1, &errors.SchemaError{Table: s.schema.Name, Column: name, Reason: "primary key cannot be updated"}
	}
	if err := s.checkType(s.schema.Columns[pos], v); err != nil {
		return -1, err
	}
	return pos, nil
}

// UpdateCell replaces one cell in place and returns the previous value
func (s *RowStore) UpdateCell(pk value.Value, column string, v value.Value) (value.Value, error) {
	item, ok := s.tree.Get(&rowItem{key: pk})
	if !ok {
		return value.Null(), errors.NewRowNotFound(s.schema.Name, pk)
	}
	pos, err := s.ResolveColumn(column, v)
	if err != nil {
		return value.Null(), err
	}

	old := item.row[pos]
	item.row[pos] = v
	return old, nil
}

// Delete removes a row and returns it
func (s *RowStore) Delete(pk value.Value) (data.Row, error) {
	item, ok := s.tree.Delete(&rowItem{key: pk})
	if !ok {
		return nil, errors.NewRowNotFound(s.schema.Name, pk)
	}
	return item.row, nil
}

func (s *RowStore) checkType(col schema.Column, v value.Value) error {
	if col.Type.Accepts(v) {
		return nil
	}
	return &errors.TypeMismatchError{
		Table:    s.schema.Name,
		Column:   col.Name,
		Expected: string(col.Type),
		Got:      v.Kind().String(),
	}
}
