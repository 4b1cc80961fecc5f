package qent

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a ParseError.
type ErrorKind uint8

const (
	UnterminatedString ErrorKind = iota + 1
	UnterminatedComment
	InvalidEscapeSequence
	NestedEntity
	UnexpectedCloseBrace
	StringOutsideEntity
	DanglingKey
	UnexpectedEOF
	KeyTooLong
	ValueTooLong
	TooManyEntities
	TooManyKeyValuePairs
)

var errorKindNames = map[ErrorKind]string{
	UnterminatedString:    "unterminated quoted string",
	UnterminatedComment:   "unterminated block comment",
	InvalidEscapeSequence: "invalid escape sequence",
	NestedEntity:          "nested entity",
	UnexpectedCloseBrace:  "unexpected close brace",
	StringOutsideEntity:   "string outside of entity",
	DanglingKey:           "key without value",
	UnexpectedEOF:         "unexpected end of input inside entity",
	KeyTooLong:            "key too long",
	ValueTooLong:          "value too long",
	TooManyEntities:       "too many entities",
	TooManyKeyValuePairs:  "too many key-values in entity",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", uint8(k))
}

// Error lets a kind be used as an errors.Is target:
//
//	if errors.Is(err, qent.DanglingKey) { ... }
func (k ErrorKind) Error() string {
	return k.String()
}

// ParseError is the first structural or limit violation found in the input.
type ParseError struct {
	Kind     ErrorKind
	Location Location
	// Limit is the configured bound for the limit kinds, zero otherwise.
	Limit int
}

func (e *ParseError) Error() string {
	if isLimitKind(e.Kind) {
		return fmt.Sprintf("qent:%d:%d: %s (limit %d)", e.Location.Line, e.Location.Column, e.Kind, e.Limit)
	}
	return fmt.Sprintf("qent:%d:%d: %s", e.Location.Line, e.Location.Column, e.Kind)
}

func (e *ParseError) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == e.Kind
}

// KindOf returns the kind of the ParseError wrapped in err.
func KindOf(err error) (ErrorKind, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return 0, false
}

func isLimitKind(k ErrorKind) bool {
	switch k {
	case KeyTooLong, ValueTooLong, TooManyEntities, TooManyKeyValuePairs:
		return true
	}
	return false
}

func errAt(kind ErrorKind, loc Location) *ParseError {
	return &ParseError{Kind: kind, Location: loc}
}

func limitErrAt(kind ErrorKind, loc Location, l limit) *ParseError {
	return &ParseError{Kind: kind, Location: loc, Limit: l.n}
}

// ErrIndexOutOfRange is returned by the checked accessors of Entities and Entity.
var ErrIndexOutOfRange = errors.New("qent: index out of range")

func indexErr(i, n int) error {
	return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, n)
}
