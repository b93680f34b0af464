package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/leengari/minidb/internal/domain/transaction"
	"github.com/leengari/minidb/internal/executor"
	"github.com/leengari/minidb/internal/index"
	"github.com/leengari/minidb/internal/parser"
	"github.com/leengari/minidb/internal/parser/lexer"
	"github.com/leengari/minidb/internal/plan"
	"github.com/leengari/minidb/internal/table"
)

// Engine is the main entry point for the database system
type Engine struct {
	db *table.Database

	mu        sync.RWMutex
	observers []Observer // Observers for lifecycle events
}

// New creates a new Engine over db. A nil db starts an empty database.
func New(db *table.Database) *Engine {
	if db == nil {
		db = table.NewDatabase("main")
	}
	return &Engine{
		db:        db,
		observers: make([]Observer, 0),
	}
}

// Database returns the table registry the engine executes against
func (e *Engine) Database() *table.Database {
	return e.db
}

// Execute processes a SQL string and returns the result
func (e *Engine) Execute(sql string) (*executor.Result, error) {
	tx := transaction.NewTransaction()
	defer tx.Close()

	// 1. Tokenize
	e.notify(Event{Type: EventLexStart, TxID: tx.ID, Data: sql})
	tokens, err := lexer.Tokenize(sql)
	if err != nil {
		return nil, fmt.Errorf("lexer error: %w", err)
	}
	e.notify(Event{Type: EventLexEnd, TxID: tx.ID, Data: len(tokens)})

	// 2. Parse
	e.notify(Event{Type: EventParseStart, TxID: tx.ID})
	node, err := parser.New(tokens).Parse()
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	e.notify(Event{Type: EventParseEnd, TxID: tx.ID, Data: node.NodeType()})

	// 3. Execute
	return e.execute(node, tx)
}

// ExecutePlan runs an already parsed statement
func (e *Engine) ExecutePlan(node plan.Node) (*executor.Result, error) {
	tx := transaction.NewTransaction()
	defer tx.Close()
	return e.execute(node, tx)
}

func (e *Engine) execute(node plan.Node, tx *transaction.Transaction) (*executor.Result, error) {
	e.notify(Event{Type: EventExecStart, TxID: tx.ID, Data: plan.Describe(node)})
	result, err := executor.Execute(node, e.db, tx)
	if err != nil {
		return nil, fmt.Errorf("execution error: %w", err)
	}
	e.notify(Event{Type: EventExecEnd, TxID: tx.ID, Data: map[string]interface{}{
		"kind":        result.Kind,
		"count":       result.Count,
		"changes":     len(tx.Changes),
		"access_path": result.AccessPath,
		"elapsed":     time.Since(tx.StartTime),
	}})
	return result, nil
}

// ListTables returns the sorted table names
func (e *Engine) ListTables() []string {
	return e.db.TableNames()
}

// IndexEntries returns the ordered, non-empty buckets of the index on
// tableName.column
func (e *Engine) IndexEntries(tableName, column string) ([]index.Entry, error) {
	t, err := e.db.Table(tableName)
	if err != nil {
		return nil, err
	}
	return t.IndexEntries(column)
}

// VerifyIndexes checks every index of tableName against its rows
func (e *Engine) VerifyIndexes(tableName string) error {
	t, err := e.db.Table(tableName)
	if err != nil {
		return err
	}
	return t.VerifyIndexes()
}

// AddObserver registers an observer to receive lifecycle events
func (e *Engine) AddObserver(observer Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, observer)
}

// RemoveObserver unregisters an observer
func (e *Engine) RemoveObserver(observer Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, o := range e.observers {
		if o == observer {
			e.observers = append(e.observers[:i], e.observers[i+1:]...)
			return
		}
	}
}

// notify sends an event to all registered observers
func (e *Engine) notify(event Event) {
	event.Timestamp = time.Now()
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, observer := range e.observers {
		observer.OnEvent(event)
	}
}
