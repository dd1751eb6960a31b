package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateOperation is returned by Register when the name is taken.
	ErrDuplicateOperation = errors.New("duplicate operation")
	// ErrUnknownOperation is returned by Invoke for names that were never registered.
	ErrUnknownOperation = errors.New("unknown operation")
	// ErrInvalidArgument is returned by Invoke when arguments do not fit the schema.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ArgumentError describes which parameter of which operation was rejected.
// It matches ErrInvalidArgument under errors.Is.
type ArgumentError struct {
	Operation string
	Param     string
	Reason    string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %q for %s: %s", e.Param, e.Operation, e.Reason)
}

func (e *ArgumentError) Unwrap() error { return ErrInvalidArgument }
