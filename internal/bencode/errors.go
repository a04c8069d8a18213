package bencode

import (
	"errors"
	"fmt"
)

// ErrorKind classifies decoding errors.
type ErrorKind int

const (
	ErrTruncatedInput ErrorKind = iota + 1
	ErrInvalidInteger
	ErrInvalidLength
	ErrInvalidDictionaryKey
	ErrUnrecognizedLeadingByte
	ErrNestingTooDeep
	ErrTrailingData
	ErrUnsortedKeys
	ErrDuplicateKey
)

var kindNames = map[ErrorKind]string{
	ErrTruncatedInput:          "truncated input",
	ErrInvalidInteger:          "invalid integer",
	ErrInvalidLength:           "invalid length",
	ErrInvalidDictionaryKey:    "invalid dictionary key",
	ErrUnrecognizedLeadingByte: "unrecognized leading byte",
	ErrNestingTooDeep:          "nesting too deep",
	ErrTrailingData:            "trailing data",
	ErrUnsortedKeys:            "unsorted dictionary keys",
	ErrDuplicateKey:            "duplicate dictionary key",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error carries the failure kind and the absolute byte offset into the
// buffer handed to the top-level decode call.
type Error struct {
	Offset int
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Detail == "" {
		return fmt.Sprintf("bencode: %v at offset %d", e.Kind, e.Offset)
	}
	return fmt.Sprintf("bencode: %v at offset %d: %s", e.Kind, e.Offset, e.Detail)
}

// Is matches any *Error of the same kind, so the sentinels below work with
// errors.Is regardless of offset.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e != nil && t != nil && e.Kind == t.Kind
}

var (
	ErrTruncated      = &Error{Kind: ErrTruncatedInput}
	ErrBadInteger     = &Error{Kind: ErrInvalidInteger}
	ErrBadLength      = &Error{Kind: ErrInvalidLength}
	ErrBadKey         = &Error{Kind: ErrInvalidDictionaryKey}
	ErrBadLeadingByte = &Error{Kind: ErrUnrecognizedLeadingByte}
	ErrTooDeep        = &Error{Kind: ErrNestingTooDeep}
	ErrTrailing       = &Error{Kind: ErrTrailingData}
)

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func errorf(offset int, kind ErrorKind, format string, args ...any) *Error {
	return &Error{Offset: offset, Kind: kind, Detail: fmt.Sprintf(format, args...)}
}
