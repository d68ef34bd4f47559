package logs

import "fmt"

// ErrTransportFailure represents an error wherein the complete log of a
// finished job could not be fetched.
type ErrTransportFailure struct {
	Err error
}

func (e *ErrTransportFailure) Error() string {
	return fmt.Sprintf("error fetching job log: %s", e.Err)
}

func (e *ErrTransportFailure) Unwrap() error {
	return e.Err
}

// ErrConnection represents an error wherein the live log channel failed for a
// reason other than not existing.
type ErrConnection struct {
	Err error
}

func (e *ErrConnection) Error() string {
	return fmt.Sprintf("error streaming job log: %s", e.Err)
}

func (e *ErrConnection) Unwrap() error {
	return e.Err
}
