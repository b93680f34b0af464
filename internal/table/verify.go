package table

import "fmt"

// VerifyIndexes checks that every index agrees with the row store: each
// row's key sits in exactly the bucket of its cell value, and no bucket
// is empty or points at a row that does not hold that value.
func (t *Table) VerifyIndexes() error {
	t.RLock()
	defer t.RUnlock()

	for pos, idx := range t.indexed {
		expected := 0
		for row := range t.store.Scan() {
			pk := t.store.PrimaryKey(row)
			if !idx.Contains(row[pos], pk) {
				return fmt.Errorf("index %s.%s: key %v missing from bucket %v", t.Name, idx.Column, pk, row[pos])
			}
			expected++
		}

		found := 0
		for e := range idx.Entries() {
			if len(e.PrimaryKeys) == 0 {
				return fmt.Errorf("index %s.%s: empty bucket %v", t.Name, idx.Column, e.Key)
			}
			for _, pk := range e.PrimaryKeys {
				row, err := t.store.Get(pk)
				if err != nil {
					return fmt.Errorf("index %s.%s: bucket %v references missing row %v", t.Name, idx.Column, e.Key, pk)
				}
				if !row[pos].Equal(e.Key) {
					return fmt.Errorf("index %s.%s: key %v in bucket %v but row holds %v", t.Name, idx.Column, pk, e.Key, row[pos])
				}
				found++
			}
		}

		if found != expected {
			return fmt.Errorf("index %s.%s: %d entries for %d rows", t.Name, idx.Column, found, expected)
		}
	}
	return nil
}
