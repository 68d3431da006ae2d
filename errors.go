package micrortu

import "fmt"

// ErrConversion is returned when a value cannot be converted between information element kinds, or when a numeric
// value does not fit the target field.
var ErrConversion error = errConversion{}

type errConversion struct{}

func (e errConversion) Error() string {
	return "information element conversion failed"
}

func IsErrConversion(err error) bool {
	return isErr[errConversion](err)
}

// ErrDeserialization is returned for buffers whose first byte is not a known type identification.
var ErrDeserialization error = errDeserialization{}

type errDeserialization struct{}

func (e errDeserialization) Error() string {
	return "unknown type identification"
}

func IsErrDeserialization(err error) bool {
	return isErr[errDeserialization](err)
}

// ErrBufferTooSmall is returned when a destination slice is shorter than the payload copied into it.
var ErrBufferTooSmall error = errBufferTooSmall{}

type errBufferTooSmall struct{}

func (e errBufferTooSmall) Error() string {
	return "destination buffer too small"
}

func IsErrBufferTooSmall(err error) bool {
	return isErr[errBufferTooSmall](err)
}

// ErrInvalidState is returned when an indeterminate double point is read as a boolean.
var ErrInvalidState error = errInvalidState{}

type errInvalidState struct{}

func (e errInvalidState) Error() string {
	return "indeterminate double point state"
}

func IsErrInvalidState(err error) bool {
	return isErr[errInvalidState](err)
}

// isErr reports whether err is, or wraps, an error of type E.
func isErr[E error](err error) bool {
	for err != nil {
		if _, ok := err.(E); ok {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

func conversionErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrConversion}, args...)...)
}
