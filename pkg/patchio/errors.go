package patchio

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("patchio: source not found")
	ErrExists    = errors.New("patchio: destination already exists")
	ErrMalformed = errors.New("patchio: malformed patch text")
)

// ParseError describes malformed patch text. Offsets count bytes of the
// text after whitespace has been removed.
type ParseError struct {
	Point  int // control point being read, or -1 outside any point
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	if e.Point < 0 {
		return fmt.Sprintf("patchio: offset %d: %s", e.Offset, e.Msg)
	}
	return fmt.Sprintf("patchio: point %d at offset %d: %s", e.Point, e.Offset, e.Msg)
}

func (e *ParseError) Unwrap() error { return ErrMalformed }
