package bencode

import (
	"sort"
	"strconv"
	"strings"
)

// Value is a decoded bencode value: Integer, String, List or Dict.
type Value interface {
	// Native converts the value to plain Go types: int64, string, []any and
	// map[string]any.
	Native() any
	String() string

	isValue()
}

type (
	Integer int64
	String  string
	List    []Value
	Dict    map[string]Value
)

func (Integer) isValue() {}
func (String) isValue()  {}
func (List) isValue()    {}
func (Dict) isValue()    {}

func (i Integer) Native() any { return int64(i) }
func (s String) Native() any  { return string(s) }

func (l List) Native() any {
	out := make([]any, len(l))
	for i, v := range l {
		out[i] = v.Native()
	}
	return out
}

func (d Dict) Native() any {
	out := make(map[string]any, len(d))
	for k, v := range d {
		out[k] = v.Native()
	}
	return out
}

func (i Integer) String() string { return strconv.FormatInt(int64(i), 10) }
func (s String) String() string  { return strconv.Quote(string(s)) }

func (l List) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range l {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(v.String())
	}
	b.WriteByte(']')
	return b.String()
}

// String prints keys in sorted order so the output is stable.
func (d Dict) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range d.Keys() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Quote(k))
		b.WriteString(": ")
		b.WriteString(d[k].String())
	}
	b.WriteByte('}')
	return b.String()
}

// Keys returns the dictionary keys in bencode order (raw byte order).
func (d Dict) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal reports whether a and b are structurally identical.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case Integer:
		b, ok := b.(Integer)
		return ok && a == b
	case String:
		b, ok := b.(String)
		return ok && a == b
	case List:
		b, ok := b.(List)
		if !ok || len(a) != len(b) {
			return false
		}
		for i := range a {
			if !Equal(a[i], b[i]) {
				return false
			}
		}
		return true
	case Dict:
		b, ok := b.(Dict)
		if !ok || len(a) != len(b) {
			return false
		}
		for k, av := range a {
			bv, ok := b[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	}
	return a == nil && b == nil
}
