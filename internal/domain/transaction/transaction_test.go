package transaction

import (
	"testing"

	"github.com/google/uuid"
	"gotest.tools/v3/assert"

	"github.com/leengari/minidb/internal/domain/value"
)

func TestNewTransaction(t *testing.T) {
	a := NewTransaction()
	b := NewTransaction()

	_, err := uuid.Parse(a.ID)
	assert.NilError(t, err)
	assert.Assert(t, a.ID != b.ID)
	assert.Assert(t, b.TxID > a.TxID)
	assert.Assert(t, a.Active)

	a.Close()
	assert.Assert(t, !a.Active)
}

func TestRecord(t *testing.T) {
	tx := NewTransaction()
	tx.Record(Change{Type: ChangeTypeInsert, Table: "test", Key: value.Integer(1)})
	assert.Equal(t, len(tx.Changes), 1)

	var nilTx *Transaction
	nilTx.Record(Change{Type: ChangeTypeDelete})
	assert.Equal(t, nilTx.LogID(), "")
}
