// Package bencode decodes bencoded values.
//
// The decoder works on an in-memory buffer and returns the decoded value
// together with the bytes that follow it, so callers can decode sibling
// values or embed bencode inside a larger framing format.
package bencode

import (
	"bytes"
	"strconv"
)

// DefaultMaxDepth bounds list/dictionary nesting for decoders built without
// WithMaxDepth.
const DefaultMaxDepth = 256

// Decoder decodes bencode from byte slices. It holds no state between calls
// and is safe for concurrent use.
type Decoder struct {
	maxDepth int
	strict   bool
}

type Option func(*Decoder)

// WithMaxDepth limits how deeply lists and dictionaries may nest. n <= 0
// removes the limit.
func WithMaxDepth(n int) Option {
	return func(d *Decoder) { d.maxDepth = n }
}

// WithStrict rejects input that is well-formed but not canonical: unsorted
// or duplicate dictionary keys, and integers or string lengths with leading
// zeros, a plus sign or negative zero.
func WithStrict(strict bool) Option {
	return func(d *Decoder) { d.strict = strict }
}

func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

var defaultDecoder = NewDecoder()

// DecodeOne decodes the value at the start of buf with the default decoder.
func DecodeOne(buf []byte) (Value, []byte, error) { return defaultDecoder.DecodeOne(buf) }

// Decode decodes buf as exactly one value with the default decoder.
func Decode(buf []byte) (Value, error) { return defaultDecoder.Decode(buf) }

// DecodeAll decodes consecutive values with the default decoder.
func DecodeAll(buf []byte) ([]Value, error) { return defaultDecoder.DecodeAll(buf) }

// DecodeOne decodes the value at the start of buf and returns it with the
// unconsumed rest of buf. On error the returned slice is buf itself.
//
// Example:
//   - i1e5:extra -> 1, 5:extra
func (d *Decoder) DecodeOne(buf []byte) (Value, []byte, error) {
	v, next, err := d.decodeValue(buf, 0, 0)
	if err != nil {
		return nil, buf, err
	}
	return v, buf[next:], nil
}

// Decode decodes buf as a single value and fails if anything follows it.
func (d *Decoder) Decode(buf []byte) (Value, error) {
	v, next, err := d.decodeValue(buf, 0, 0)
	if err != nil {
		return nil, err
	}
	if next != len(buf) {
		return nil, errorf(next, ErrTrailingData, "%d bytes after value", len(buf)-next)
	}
	return v, nil
}

// DecodeAll decodes sibling values until buf is exhausted. Error offsets are
// relative to the start of buf.
func (d *Decoder) DecodeAll(buf []byte) ([]Value, error) {
	values := make([]Value, 0, 1)
	for i := 0; i < len(buf); {
		v, next, err := d.decodeValue(buf, i, 0)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		i = next
	}
	return values, nil
}

// decodeValue decodes the value starting at buf[i] and returns the index of
// the first byte after it.
func (d *Decoder) decodeValue(buf []byte, i, depth int) (Value, int, error) {
	if i >= len(buf) {
		return nil, i, errorf(i, ErrTruncatedInput, "expected a value, got end of input")
	}

	switch c := buf[i]; {
	case c == 'i':
		return d.decodeInteger(buf, i)
	case c == 'l':
		return d.decodeList(buf, i, depth+1)
	case c == 'd':
		return d.decodeDict(buf, i, depth+1)
	case isDigit(c):
		return d.decodeString(buf, i)
	default:
		return nil, i, errorf(i, ErrUnrecognizedLeadingByte, "unexpected byte %q", c)
	}
}

// i52e5:hello -> 52, index of '5'
func (d *Decoder) decodeInteger(buf []byte, i int) (Value, int, error) {
	start := i + 1
	end := bytes.IndexByte(buf[start:], 'e')
	if end < 0 {
		return nil, i, errorf(i, ErrInvalidInteger, "missing terminating 'e'")
	}
	end += start

	text := buf[start:end]
	if d.strict && !canonicalInteger(text) {
		return nil, i, errorf(start, ErrInvalidInteger, "non-canonical integer %q", text)
	}
	number, err := strconv.ParseInt(string(text), 10, 64)
	if err != nil {
		return nil, i, errorf(start, ErrInvalidInteger, "%q is not a 64-bit integer", text)
	}

	return Integer(number), end + 1, nil
}

// 5:hello5:world -> hello, index of the second '5'
func (d *Decoder) decodeString(buf []byte, i int) (Value, int, error) {
	colon := bytes.IndexByte(buf[i:], ':')
	if colon < 0 {
		return nil, i, errorf(i, ErrInvalidLength, "missing ':' after string length")
	}
	colon += i

	digits := buf[i:colon]
	if !allDigits(digits) {
		return nil, i, errorf(i, ErrInvalidLength, "length %q is not a decimal number", digits)
	}
	if d.strict && len(digits) > 1 && digits[0] == '0' {
		return nil, i, errorf(i, ErrInvalidLength, "length %q has leading zeros", digits)
	}
	length, err := strconv.ParseUint(string(digits), 10, 63)
	if err != nil {
		return nil, i, errorf(i, ErrInvalidLength, "length %q is out of range", digits)
	}

	start := colon + 1
	if avail := len(buf) - start; length > uint64(avail) {
		return nil, i, errorf(start, ErrTruncatedInput, "string declares %d bytes, %d remain", length, avail)
	}
	end := start + int(length)

	return String(buf[start:end]), end, nil
}

// le -> []
// li52ee5:hello -> [52], index of '5'
func (d *Decoder) decodeList(buf []byte, i, depth int) (Value, int, error) {
	if d.maxDepth > 0 && depth > d.maxDepth {
		return nil, i, errorf(i, ErrNestingTooDeep, "more than %d nested containers", d.maxDepth)
	}

	list := List{}
	for j := i + 1; ; {
		if j >= len(buf) {
			return nil, i, errorf(j, ErrTruncatedInput, "list opened at %d is not terminated", i)
		}
		if buf[j] == 'e' {
			return list, j + 1, nil
		}

		v, next, err := d.decodeValue(buf, j, depth)
		if err != nil {
			return nil, i, err
		}
		list = append(list, v)
		j = next
	}
}

// d3:cow3:mooe -> {"cow": "moo"}
func (d *Decoder) decodeDict(buf []byte, i, depth int) (Value, int, error) {
	if d.maxDepth > 0 && depth > d.maxDepth {
		return nil, i, errorf(i, ErrNestingTooDeep, "more than %d nested containers", d.maxDepth)
	}

	dict := Dict{}
	var prev *string
	for j := i + 1; ; {
		if j >= len(buf) {
			return nil, i, errorf(j, ErrTruncatedInput, "dictionary opened at %d is not terminated", i)
		}
		if buf[j] == 'e' {
			return dict, j + 1, nil
		}

		k, next, err := d.decodeValue(buf, j, depth)
		if err != nil {
			return nil, i, err
		}
		key, ok := k.(String)
		if !ok {
			return nil, i, errorf(j, ErrInvalidDictionaryKey, "key must be a string, got %s", typeName(k))
		}
		if d.strict && prev != nil {
			switch {
			case string(key) == *prev:
				return nil, i, errorf(j, ErrDuplicateKey, "key %q repeated", string(key))
			case string(key) < *prev:
				return nil, i, errorf(j, ErrUnsortedKeys, "key %q follows %q", string(key), *prev)
			}
		}

		j = next
		if j >= len(buf) || buf[j] == 'e' {
			return nil, i, errorf(j, ErrTruncatedInput, "key %q has no value", string(key))
		}
		v, next, err := d.decodeValue(buf, j, depth)
		if err != nil {
			return nil, i, err
		}
		// Later duplicates overwrite earlier ones outside strict mode.
		dict[string(key)] = v
		s := string(key)
		prev = &s
		j = next
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func allDigits(b []byte) bool {
	for _, c := range b {
		if !isDigit(c) {
			return false
		}
	}
	return len(b) > 0
}

// canonicalInteger reports whether b is written as bencode requires:
// optional '-', no leading zeros, and no "-0".
func canonicalInteger(b []byte) bool {
	neg := len(b) > 0 && b[0] == '-'
	if neg {
		b = b[1:]
	}
	if !allDigits(b) {
		return false
	}
	if b[0] == '0' {
		return len(b) == 1 && !neg
	}
	return true
}

func typeName(v Value) string {
	switch v.(type) {
	case Integer:
		return "integer"
	case String:
		return "string"
	case List:
		return "list"
	case Dict:
		return "dictionary"
	}
	return "unknown"
}
