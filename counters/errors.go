package counters

import (
	"fmt"
)

// InputNotFoundError reports a log file that could not be opened or read.
type InputNotFoundError struct {
	Path string
	Err  error
}

func (e *InputNotFoundError) Error() string {
	return fmt.Sprintf("input log %s: %v", e.Path, e.Err)
}

func (e *InputNotFoundError) Unwrap() error {
	return e.Err
}

// MalformedNumberError reports a matched counter value that is not a
// valid unsigned integer.
type MalformedNumberError struct {
	Line  int
	Value string
	Err   error
}

func (e *MalformedNumberError) Error() string {
	return fmt.Sprintf("line %d: malformed counter value %q: %v", e.Line, e.Value, e.Err)
}

func (e *MalformedNumberError) Unwrap() error {
	return e.Err
}
