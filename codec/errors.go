package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrArity means the state carries more or fewer positions than the schema.
	ErrArity = errors.New("field count mismatch")
	// ErrFieldType means a position holds a value of the wrong type.
	ErrFieldType = errors.New("field type mismatch")
	// ErrMalformed means the payload is not valid JSON/hex or a value is out of range.
	ErrMalformed = errors.New("malformed payload")
)

// DecodeError reports state that could not be mapped onto a variant's
// schema. Position is -1 when the failure is not tied to one field.
type DecodeError struct {
	Variant  string
	Payload  string
	Position int
	Err      error
}

func (e *DecodeError) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("could not parse %s instance state at position %d: %v: %s", e.Variant, e.Position, e.Err, e.Payload)
	}
	return fmt.Sprintf("could not parse %s instance state: %v: %s", e.Variant, e.Err, e.Payload)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func decodeErr(s Schema, payload string, pos int, kind error, format string, args ...any) *DecodeError {
	return &DecodeError{
		Variant:  s.Variant,
		Payload:  payload,
		Position: pos,
		Err:      wrapf(kind, format, args...),
	}
}

func wrapf(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{kind}, args...)...)
}
