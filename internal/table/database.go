package table

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/leengari/minidb/internal/domain/errors"
	"github.com/leengari/minidb/internal/domain/schema"
)

// Database is the in-memory registry of tables
type Database struct {
	mu     sync.RWMutex
	Name   string
	tables map[string]*Table
}

// NewDatabase creates an empty database
func NewDatabase(name string) *Database {
	return &Database{
		Name:   name,
		tables: make(map[string]*Table),
	}
}

// CreateTable validates the schema and installs a new, empty table
func (db *Database) CreateTable(s *schema.Schema) (*Table, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, exists := db.tables[s.Name]; exists {
		return nil, &errors.TableExistsError{Table: s.Name}
	}

	t, err := New(s)
	if err != nil {
		return nil, err
	}
	db.tables[s.Name] = t

	slog.Debug("table created",
		slog.String("database", db.Name),
		slog.String("table", s.Name),
		slog.Int("columns", len(s.Columns)),
		slog.Any("indexed", t.IndexedColumns()))
	return t, nil
}

// Table returns the named table or a NotFoundError
func (db *Database) Table(name string) (*Table, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	t, ok := db.tables[name]
	if !ok {
		return nil, errors.NewTableNotFound(name)
	}
	return t, nil
}

// DropTable removes the named table
func (db *Database) DropTable(name string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.tables[name]; !ok {
		return errors.NewTableNotFound(name)
	}
	delete(db.tables, name)
	slog.Debug("table dropped", slog.String("database", db.Name), slog.String("table", name))
	return nil
}

// TableNames returns the sorted table names
func (db *Database) TableNames() []string {
	db.mu.RLock()
	defer db.mu.RUnlock()

	names := make([]string, 0, len(db.tables))
	for name := range db.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
