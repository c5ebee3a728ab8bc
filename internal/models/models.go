package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Kind identifies which variant of a JSON value a Value holds.
type Kind uint8

const (
	Null Kind = iota
	Boolean
	Number
	String
	Array
	Object
)

// String returns the lowercase JSON type name for the kind.
func (k Kind) String() string {
	switch k {
	case Boolean:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "null"
	}
}

// Member is a single key/value pair inside an object. Objects are stored as
// ordered member slices so key order survives a parse/serialize round trip.
type Member struct {
	Key   string
	Value Value
}

// Value is one node of a parsed JSON document. Exactly one variant field is
// meaningful, selected by Kind: Bool for booleans, Str for strings, Num for
// numbers (the original source text, via json.Number), Elems for arrays and
// Members for objects. A Value is immutable once produced by the parser; a
// re-parse replaces the whole document.
type Value struct {
	Kind    Kind
	Bool    bool
	Str     string
	Num     json.Number
	Elems   []Value
	Members []Member
}

// Convenience constructors, mostly for tests and builders.

func NewNull() Value                { return Value{Kind: Null} }
func NewBool(b bool) Value          { return Value{Kind: Boolean, Bool: b} }
func NewString(s string) Value      { return Value{Kind: String, Str: s} }
func NewNumber(n json.Number) Value { return Value{Kind: Number, Num: n} }
func NewArray(elems ...Value) Value { return Value{Kind: Array, Elems: elems} }

func NewObject(members ...Member) Value {
	return Value{Kind: Object, Members: members}
}

// Get looks up an object member by key. It returns false when the value is
// not an object or the key is absent.
func (v Value) Get(key string) (Value, bool) {
	if v.Kind != Object {
		return Value{}, false
	}
	for _, m := range v.Members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// At returns the array element at index i, or false when the value is not an
// array or the index is out of range.
func (v Value) At(i int) (Value, bool) {
	if v.Kind != Array || i < 0 || i >= len(v.Elems) {
		return Value{}, false
	}
	return v.Elems[i], true
}

// Len is the number of members of an object or elements of an array, and 0
// for every other kind.
func (v Value) Len() int {
	switch v.Kind {
	case Object:
		return len(v.Members)
	case Array:
		return len(v.Elems)
	default:
		return 0
	}
}

// IsContainer reports whether the value is an object or an array.
func (v Value) IsContainer() bool {
	return v.Kind == Object || v.Kind == Array
}

// SetMember inserts or replaces an object member. An existing key keeps its
// original position and receives the new value, which matches how strict
// parsers treat duplicate keys (last value wins, first position kept).
func (v *Value) SetMember(key string, val Value) {
	for i := range v.Members {
		if v.Members[i].Key == key {
			v.Members[i].Value = val
			return
		}
	}
	v.Members = append(v.Members, Member{Key: key, Value: val})
}

/// Scalar returns the canonical text of a primitive value: the raw string for
// strings, the source text for numbers, "true"/"false" and "null" for the
// literals. Containers return the empty string; they are never matched or
// displayed through a stringified dump of themselves.
func (v Value) Scalar() string {
	switch v.Kind {
	case String:
		return v.Str
	case Number:
		return v.Num.String()
	case Boolean:
		return strconv.FormatBool(v.Bool)
	case Null:
		return "null"
	default:
		return ""
	}
}

// MarshalJSON serializes the value back to JSON text, preserving object key
// order and the original number text. HTML-significant characters stay
// unescaped so output matches the source document byte for byte.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	v.encode(&buf)
	return buf.Bytes(), nil
}

// Encode is MarshalJSON as a plain string; the encoder itself cannot fail.
func (v Value) Encode() string {
	var buf bytes.Buffer
	v.encode(&buf)
	return buf.String()
}

func (v Value) encode(buf *bytes.Buffer) {
	switch v.Kind {
	case Boolean:
		buf.WriteString(strconv.FormatBool(v.Bool))
	case Number:
		if v.Num == "" {
			buf.WriteString("0")
		} else {
			buf.WriteString(v.Num.String())
		}
	case String:
		encodeString(buf, v.Str)
	case Array:
		buf.WriteByte('[')
		for i := range v.Elems {
			if i > 0 {
				buf.WriteByte(',')
			}
			v.Elems[i].encode(buf)
		}
		buf.WriteByte(']')
	case Object:
		buf.WriteByte('{')
		for i := range v.Members {
			if i > 0 {
				buf.WriteByte(',')
			}
			encodeString(buf, v.Members[i].Key)
			buf.WriteByte(':')
			v.Members[i].Value.encode(buf)
		}
		buf.WriteByte('}')
	default:
		buf.WriteString("null")
	}
}

const hexDigits = "0123456789abcdef"

// encodeString writes s as a JSON string literal. encoding/json would also
// escape <, > and & for embedding in HTML; this encoder leaves them alone.
// Invalid UTF-8 comes out as the replacement character, same as json.Marshal.
func encodeString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				buf.WriteString(`\u00`)
				buf.WriteByte(hexDigits[r>>4])
				buf.WriteByte(hexDigits[r&0xf])
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
}

// Equal reports deep structural equality: same kinds, same member keys in
// the same order, same element order, numbers compared by source text.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case Boolean:
		return v.Bool == other.Bool
	case Number:
		return v.Num == other.Num
	case String:
		return v.Str == other.Str
	case Array:
		if len(v.Elems) != len(other.Elems) {
			return false
		}
		for i := range v.Elems {
			if !v.Elems[i].Equal(other.Elems[i]) {
				return false
			}
		}
		return true
	case Object:
		if len(v.Members) != len(other.Members) {
			return false
		}
		for i := range v.Members {
			if v.Members[i].Key != other.Members[i].Key {
				return false
			}
			if !v.Members[i].Value.Equal(other.Members[i].Value) {
				return false
			}
		}
		return true
	default:
		return true
	}
}
