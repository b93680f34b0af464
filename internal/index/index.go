package index

import (
	"fmt"
	"iter"
	"strings"

	"github.com/google/btree"

	"github.com/leengari/minidb/internal/domain/value"
)

const btreeDegree = 8

// bucket holds the primary keys of every row whose indexed cell equals key
type bucket struct {
	key     value.Value
	members *btree.BTreeG[value.Value]
}

func lessBucket(a, b *bucket) bool {
	return value.Less(a.key, b.key)
}

// Entry is one non-empty bucket, as reported by Entries
type Entry struct {
	Key         value.Value
	PrimaryKeys []value.Value
}

// Index is an in-memory secondary index on a single column.
// It maps every value of the column, Null included, to the set of primary
// keys holding it. Empty buckets are removed as soon as they empty out.
type Index struct {
	Column  string
	buckets *btree.BTreeG[*bucket]
}

// New creates an empty index
func New(column string) *Index {
	return &Index{
		Column:  column,
		buckets: btree.NewG(btreeDegree, lessBucket),
	}
}

// Insert adds pk to the set at v. Inserting a pair twice is a no-op.
func (idx *Index) Insert(v value.Value, pk value.Value) {
	b, ok := idx.buckets.Get(&bucket{key: v})
	if !ok {
		b = &bucket{key: v, members: btree.NewG(btreeDegree, value.Less)}
		idx.buckets.ReplaceOrInsert(b)
	}
	b.members.ReplaceOrInsert(pk)
}

// Remove drops pk from the set at v and reports whether it was present
func (idx *Index) Remove(v value.Value, pk value.Value) bool {
	b, ok := idx.buckets.Get(&bucket{key: v})
	if !ok {
		return false
	}
	_, removed := b.members.Delete(pk)
	if b.members.Len() == 0 {
		idx.buckets.Delete(b)
	}
	return removed
}

// Replace moves pk from the set at old to the set at next
func (idx *Index) Replace(old, next value.Value, pk value.Value) {
	if !old.Equal(next) {
		idx.Remove(old, pk)
	}
	idx.Insert(next, pk)
}

// Lookup returns the primary keys at v in key order; empty when v is absent
func (idx *Index) Lookup(v value.Value) []value.Value {
	b, ok := idx.buckets.Get(&bucket{key: v})
	if !ok {
		return []value.Value{}
	}
	return members(b)
}

// Contains reports whether pk is in the set at v
func (idx *Index) Contains(v value.Value, pk value.Value) bool {
	b, ok := idx.buckets.Get(&bucket{key: v})
	return ok && b.members.Has(pk)
}

// Len returns the number of distinct keys
func (idx *Index) Len() int {
	return idx.buckets.Len()
}

// Entries yields the non-empty buckets in key order
func (idx *Index) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		idx.buckets.Ascend(func(b *bucket) bool {
			return yield(Entry{Key: b.key, PrimaryKeys: members(b)})
		})
	}
}

// Dump renders one line per bucket: String("a") => [Integer(1)]
func (idx *Index) Dump() string {
	var sb strings.Builder
	for e := range idx.Entries() {
		keys := make([]string, len(e.PrimaryKeys))
		for i, pk := range e.PrimaryKeys {
			keys[i] = pk.String()
		}
		fmt.Fprintf(&sb, "%v => [%s]\n", e.Key, strings.Join(keys, ", "))
	}
	return sb.String()
}

func members(b *bucket) []value.Value {
	out := make([]value.Value, 0, b.members.Len())
	b.members.Ascend(func(pk value.Value) bool {
		out = append(out, pk)
		return true
	})
	return out
}
