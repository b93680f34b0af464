package value

import (
	"cmp"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind tags which variant a Value holds
type Kind uint8

const (
	KindNull Kind = iota
	KindInteger
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "NULL"
	case KindInteger:
		return "INTEGER"
	case KindString:
		return "STRING"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Value is a cell value and an index key.
// The zero Value is Null.
type Value struct {
	kind Kind
	i    int64
	s    string
}

// Null returns the null value
func Null() Value {
	return Value{}
}

// Integer wraps an int64
func Integer(i int64) Value {
	return Value{kind: KindInteger, i: i}
}

// String wraps a string
func String(s string) Value {
	return Value{kind: KindString, s: s}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

// Int returns the integer payload and whether v is an Integer
func (v Value) Int() (int64, bool) {
	return v.i, v.kind == KindInteger
}

// Str returns the string payload and whether v is a String
func (v Value) Str() (string, bool) {
	return v.s, v.kind == KindString
}

// Equal is structural equality. Null equals Null.
func (v Value) Equal(other Value) bool {
	return Compare(v, other) == 0
}

// Compare orders Null before every non-null value. Values of different
// non-null kinds are ordered by kind so the order stays total, though a
// single column never mixes them.
func Compare(a, b Value) int {
	if a.kind != b.kind {
		return cmp.Compare(a.kind, b.kind)
	}
	switch a.kind {
	case KindInteger:
		return cmp.Compare(a.i, b.i)
	case KindString:
		return strings.Compare(a.s, b.s)
	default:
		return 0
	}
}

// Less reports whether a sorts before b
func Less(a, b Value) bool {
	return Compare(a, b) < 0
}

// String renders the tagged form: Integer(1), String("a"), Null
func (v Value) String() string {
	switch v.kind {
	case KindInteger:
		return fmt.Sprintf("Integer(%d)", v.i)
	case KindString:
		return fmt.Sprintf("String(%q)", v.s)
	default:
		return "Null"
	}
}

// SQL renders the literal form: 1, 'a', NULL
func (v Value) SQL() string {
	switch v.kind {
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindString:
		return "'" + strings.ReplaceAll(v.s, "'", "''") + "'"
	default:
		return "NULL"
	}
}

// MarshalJSON encodes Null as null, Integer as a number and String as a string
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindInteger:
		return []byte(strconv.FormatInt(v.i, 10)), nil
	case KindString:
		return json.Marshal(v.s)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts null, integral numbers and strings
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case nil:
		*v = Null()
	case string:
		*v = String(t)
	case json.Number:
		i, err := t.Int64()
		if err != nil {
			return fmt.Errorf("value: %s is not an integer", t)
		}
		*v = Integer(i)
	default:
		return fmt.Errorf("value: unsupported JSON type %T", raw)
	}
	return nil
}
