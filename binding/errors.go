package binding

import (
	"errors"
	"fmt"
)

// ParseError classifies why a region could not be bound to its definitions.
type ParseError uint8

const (
	// NotTerminated: a terminated list ran off the end of the region.
	NotTerminated ParseError = iota + 1
	// NotEnoughData: fewer elements than the definition's minimum.
	NotEnoughData
	// TooMuchData: more elements than the definition's maximum.
	TooMuchData
	// InvalidData: unknown type identification, a length that is not a whole number of elements, or an element of
	// the wrong kind.
	InvalidData
	// BadHeader: the header is shorter than the definitions need or points outside the region.
	BadHeader
	// MultiplePointsForSingular: more than one value written at once to a field declared with exactly one.
	MultiplePointsForSingular
)

func (e ParseError) Error() string {
	switch e {
	case NotTerminated:
		return "list not terminated"
	case NotEnoughData:
		return "not enough data"
	case TooMuchData:
		return "too much data"
	case InvalidData:
		return "invalid data"
	case BadHeader:
		return "bad header"
	case MultiplePointsForSingular:
		return "multiple points for singular field"
	}
	return fmt.Sprintf("parse error %d", uint8(e))
}

// FieldError reports a ParseError for one field. errors.Is matches the kind.
type FieldError struct {
	Field string
	Index int
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("binding %q (#%d): %v", e.Field, e.Index, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func fieldError(d Definition, i int, err error) error {
	return &FieldError{Field: d.Name, Index: i, Err: err}
}

var (
	ErrDefinition       = errors.New("invalid binding definition")
	ErrNoSuchField      = errors.New("no such binding")
	ErrWrongDirection   = errors.New("binding has another direction")
	ErrAbsent           = errors.New("optional binding not supplied")
	ErrIndexOutOfBounds = errors.New("element index out of bounds")
)
