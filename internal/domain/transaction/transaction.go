package transaction

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/leengari/minidb/internal/domain/data"
	"github.com/leengari/minidb/internal/domain/value"
)

// txIDCounter is an atomic counter for generating sequential statement IDs
var txIDCounter uint64

// ChangeType represents the type of modification
type ChangeType string

const (
	ChangeTypeInsert ChangeType = "INSERT"
	ChangeTypeUpdate ChangeType = "UPDATE"
	ChangeTypeDelete ChangeType = "DELETE"
)

// Change represents a single row modification within a statement
type Change struct {
	Type    ChangeType
	Table   string
	Key     value.Value
	Data    data.Row // new row for INSERT/UPDATE
	OldData data.Row // old row for UPDATE/DELETE
}

// Transaction is the context of a single statement. There are no
// multi-statement transactions; it exists to correlate logs and to collect
// the changes a statement made.
type Transaction struct {
	ID        string    // Unique identifier (UUID)
	TxID      uint64    // Sequential numeric ID
	Active    bool      // Whether the statement is still running
	StartTime time.Time // When the statement began
	Changes   []Change  // Modifications made
}

// NewTransaction creates a new transaction with a unique ID
func NewTransaction() *Transaction {
	return &Transaction{
		ID:        uuid.New().String(),
		TxID:      atomic.AddUint64(&txIDCounter, 1),
		Active:    true,
		StartTime: time.Now(),
		Changes:   make([]Change, 0),
	}
}

// Record appends a change. Safe to call on a nil transaction.
func (tx *Transaction) Record(c Change) {
	if tx == nil {
		return
	}
	tx.Changes = append(tx.Changes, c)
}

// LogID returns the ID for log lines, empty for a nil transaction
func (tx *Transaction) LogID() string {
	if tx == nil {
		return ""
	}
	return tx.ID
}

// Close marks the transaction as inactive
func (tx *Transaction) Close() {
	tx.Active = false
}
