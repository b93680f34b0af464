package table

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/leengari/minidb/internal/domain/data"
	"github.com/leengari/minidb/internal/domain/errors"
	"github.com/leengari/minidb/internal/domain/schema"
	"github.com/leengari/minidb/internal/domain/transaction"
	"github.com/leengari/minidb/internal/domain/value"
	"github.com/leengari/minidb/internal/index"
	"github.com/leengari/minidb/internal/plan"
	"github.com/leengari/minidb/internal/storage"
)

// AccessPath names how a predicate was resolved
type AccessPath string

const (
	AccessAll        AccessPath = "all"
	AccessPrimaryKey AccessPath = "primary_key"
	AccessIndex      AccessPath = "index"
	AccessScan       AccessPath = "scan"
)

// Table represents a database table with its schema, rows, and indexes.
// The row store and every index are changed together under the write lock,
// so readers never see one without the other.
type Table struct {
	mu      sync.RWMutex
	Name    string
	Schema  *schema.Schema
	store   *storage.RowStore
	indexes map[string]*index.Index
	// indexed maps column position to its index, for row-wide maintenance
	indexed map[int]*index.Index
}

// New validates the schema and builds an empty table with one index per
// indexed column. The table keeps its own copy of the schema.
func New(def *schema.Schema) (*Table, error) {
	s := &schema.Schema{
		Name:    def.Name,
		Columns: append([]schema.Column(nil), def.Columns...),
	}
	store, err := storage.New(s)
	if err != nil {
		return nil, err
	}

	t := &Table{
		Name:    s.Name,
		Schema:  s,
		store:   store,
		indexes: make(map[string]*index.Index),
		indexed: make(map[int]*index.Index),
	}
	for pos, col := range s.Columns {
		// the primary key is served by the store's own ordering
		if !col.Indexed || col.PrimaryKey {
			continue
		}
		idx := index.New(col.Name)
		t.indexes[col.Name] = idx
		t.indexed[pos] = idx
	}
	return t, nil
}

// Lock acquires an exclusive lock on the table for write operations
func (t *Table) Lock() { t.mu.Lock() }

// Unlock releases the exclusive lock
func (t *Table) Unlock() { t.mu.Unlock() }

// RLock acquires a read lock on the table for read operations
func (t *Table) RLock() { t.mu.RLock() }

// RUnlock releases the read lock
func (t *Table) RUnlock() { t.mu.RUnlock() }

// Len returns the number of rows
func (t *Table) Len() int {
	t.RLock()
	defer t.RUnlock()
	return t.store.Len()
}

// Insert adds a row. If the store rejects it no index is touched.
func (t *Table) Insert(row data.Row, tx *transaction.Transaction) (data.Row, error) {
	rows, err := t.InsertRows([]data.Row{row}, tx)
	if err != nil {
		return nil, err
	}
	return rows[0], nil
}

// InsertRows adds every row or none of them. All rows are checked against
// the schema and for key collisions, with the store and each other, before
// the first one is written.
func (t *Table) InsertRows(rows []data.Row, tx *transaction.Transaction) ([]data.Row, error) {
	t.Lock()
	defer t.Unlock()

	slog.Debug("Insert operation", "table", t.Name, "tx_id", tx.LogID(), "rows", len(rows))

	pkCol := t.Schema.GetPrimaryKeyColumn()
	batch := make(map[value.Value]bool, len(rows))
	for _, row := range rows {
		full, err := t.store.Normalize(row)
		if err != nil {
			return nil, err
		}
		pk := t.store.PrimaryKey(full)
		if _, err := t.store.Get(pk); err == nil || batch[pk] {
			return nil, &errors.DuplicateKeyError{Table: t.Name, Column: pkCol.Name, Key: pk}
		}
		batch[pk] = true
	}

	inserted := make([]data.Row, 0, len(rows))
	for _, row := range rows {
		full, err := t.store.Insert(row)
		if err != nil {
			panic(fmt.Sprintf("table %s: insert of validated row failed: %v", t.Name, err))
		}

		pk := t.store.PrimaryKey(full)
		for pos, idx := range t.indexed {
			idx.Insert(full[pos], pk)
		}

		tx.Record(transaction.Change{
			Type:  transaction.ChangeTypeInsert,
			Table: t.Name,
			Key:   pk,
			Data:  full.Copy(),
		})
		inserted = append(inserted, full)
	}
	return inserted, nil
}

// Update applies the assignments to every row matching pred and returns the
// number of matched rows. Rows count even when an assignment leaves the
// value unchanged. Nothing is written unless every assignment is valid.
func (t *Table) Update(pred *plan.Predicate, assignments []plan.Assignment, tx *transaction.Transaction) (int, AccessPath, error) {
	t.Lock()
	defer t.Unlock()

	for _, a := range assignments {
		if _, err := t.store.ResolveColumn(a.Column, a.Value); err != nil {
			return 0, "", err
		}
	}

	rows, path, err := t.match(pred)
	if err != nil {
		return 0, "", err
	}

	slog.Debug("Update operation", "table", t.Name, "tx_id", tx.LogID(),
		"matched", len(rows), "access_path", path)

	for _, old := range rows {
		pk := t.store.PrimaryKey(old)
		for _, a := range assignments {
			prev, err := t.store.UpdateCell(pk, a.Column, a.Value)
			if err != nil {
				// inputs were validated above and the lock is held
				panic(fmt.Sprintf("table %s: update of validated row %v failed: %v", t.Name, pk, err))
			}
			if idx, ok := t.indexes[a.Column]; ok {
				idx.Replace(prev, a.Value, pk)
			}
		}

		if tx != nil {
			updated, _ := t.store.Get(pk)
			tx.Record(transaction.Change{
				Type:    transaction.ChangeTypeUpdate,
				Table:   t.Name,
				Key:     pk,
				Data:    updated,
				OldData: old,
			})
		}
	}
	return len(rows), path, nil
}

// Delete removes every row matching pred, index entries first
func (t *Table) Delete(pred *plan.Predicate, tx *transaction.Transaction) (int, AccessPath, error) {
	t.Lock()
	defer t.Unlock()

	rows, path, err := t.match(pred)
	if err != nil {
		return 0, "", err
	}

	slog.Debug("Delete operation", "table", t.Name, "tx_id", tx.LogID(),
		"matched", len(rows), "access_path", path)

	for _, row := range rows {
		pk := t.store.PrimaryKey(row)
		for pos, idx := range t.indexed {
			idx.Remove(row[pos], pk)
		}
		if _, err := t.store.Delete(pk); err != nil {
			panic(fmt.Sprintf("table %s: delete of matched row %v failed: %v", t.Name, pk, err))
		}
		tx.Record(transaction.Change{
			Type:    transaction.ChangeTypeDelete,
			Table:   t.Name,
			Key:     pk,
			OldData: row,
		})
	}
	return len(rows), path, nil
}

// Select returns rows matching pred projected onto columns (every column
// when columns is empty), in primary key order
func (t *Table) Select(pred *plan.Predicate, columns []string, tx *transaction.Transaction) ([]string, []data.Row, AccessPath, error) {
	t.RLock()
	defer t.RUnlock()

	names, positions, err := t.projection(columns)
	if err != nil {
		return nil, nil, "", err
	}

	rows, path, err := t.match(pred)
	if err != nil {
		return nil, nil, "", err
	}

	slog.Debug("Select operation", "table", t.Name, "tx_id", tx.LogID(),
		"matched", len(rows), "access_path", path)

	if positions != nil {
		for i, row := range rows {
			rows[i] = row.Project(positions)
		}
	}
	return names, rows, path, nil
}

// Get returns the row with the given primary key
func (t *Table) Get(pk value.Value) (data.Row, error) {
	t.RLock()
	defer t.RUnlock()
	return t.store.Get(pk)
}

// Index returns the secondary index on column, if there is one
func (t *Table) Index(column string) (*index.Index, bool) {
	idx, ok := t.indexes[column]
	return idx, ok
}

// IndexEntries returns the non-empty buckets of the index on column, in key order
func (t *Table) IndexEntries(column string) ([]index.Entry, error) {
	t.RLock()
	defer t.RUnlock()

	idx, ok := t.indexes[column]
	if !ok {
		if t.Schema.ColumnIndex(column) < 0 {
			return nil, &errors.UnknownColumnError{Table: t.Name, Column: column}
		}
		return nil, &errors.SchemaError{Table: t.Name, Column: column, Reason: "column is not indexed"}
	}

	var entries []index.Entry
	for e := range idx.Entries() {
		entries = append(entries, e)
	}
	return entries, nil
}

// IndexedColumns returns the names of columns with a secondary index, in
// schema order
func (t *Table) IndexedColumns() []string {
	var cols []string
	for _, col := range t.Schema.Columns {
		if _, ok := t.indexes[col.Name]; ok {
			cols = append(cols, col.Name)
		}
	}
	return cols
}

// match resolves pred to the matching rows. An equality on the primary key
// is a point lookup, on an indexed column an index lookup, otherwise a full
// scan. Must be called while holding a lock.
func (t *Table) match(pred *plan.Predicate) ([]data.Row, AccessPath, error) {
	if pred == nil {
		var rows []data.Row
		for row := range t.store.Scan() {
			rows = append(rows, row)
		}
		return rows, AccessAll, nil
	}

	pos := t.Schema.ColumnIndex(pred.Column)
	if pos < 0 {
		return nil, "", &errors.UnknownColumnError{Table: t.Name, Column: pred.Column}
	}
	col := t.Schema.Columns[pos]
	if !col.Type.Accepts(pred.Value) {
		return nil, "", &errors.TypeMismatchError{
			Table:    t.Name,
			Column:   col.Name,
			Expected: string(col.Type),
			Got:      pred.Value.Kind().String(),
		}
	}

	if col.PrimaryKey {
		row, err := t.store.Get(pred.Value)
		if err != nil {
			// absence is an empty match, not an error
			return nil, AccessPrimaryKey, nil
		}
		return []data.Row{row}, AccessPrimaryKey, nil
	}

	if idx, ok := t.indexes[col.Name]; ok {
		var rows []data.Row
		for _, pk := range idx.Lookup(pred.Value) {
			row, err := t.store.Get(pk)
			if err != nil {
				panic(fmt.Sprintf("table %s: index %s references missing row %v", t.Name, col.Name, pk))
			}
			rows = append(rows, row)
		}
		return rows, AccessIndex, nil
	}

	var rows []data.Row
	for row := range t.store.Scan() {
		if row[pos].Equal(pred.Value) {
			rows = append(rows, row)
		}
	}
	return rows, AccessScan, nil
}

// projection resolves column names to positions. A nil positions slice
// means every column.
func (t *Table) projection(columns []string) ([]string, []int, error) {
	if len(columns) == 0 {
		return t.Schema.ColumnNames(), nil, nil
	}
	positions := make([]int, len(columns))
	for i, name := range columns {
		pos := t.Schema.ColumnIndex(name)
		if pos < 0 {
			return nil, nil, &errors.UnknownColumnError{Table: t.Name, Column: name}
		}
		positions[i] = pos
	}
	return columns, positions, nil
}
