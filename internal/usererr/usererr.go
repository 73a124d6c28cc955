// Package usererr has errors that carry a message meant for the person at the
// console in addition to the usual technical description.
package usererr

import (
	"errors"
	"fmt"
)

// userError is an error caused by input that could not be understood or that
// asks for something that is not possible on the current grammar. It includes
// a human-readable message as well as a typical more technical "error message"
// style message.
type userError struct {
	msg   string
	human string
	wrap  error
}

func (e *userError) Error() string {
	return e.msg
}

// Unwrap gives the error that the userError wraps, if it wraps one.
func (e *userError) Unwrap() error {
	return e.wrap
}

// New returns a new error that has both the message to show the user and the
// technical description of the error.
func New(human, technical string) error {
	return Wrap(nil, human, technical)
}

// Newf returns a new error that has a message to show to the user and an
// automatically generated Error() description.
func Newf(humanFormat string, a ...interface{}) error {
	return New(fmt.Sprintf(humanFormat, a...), "")
}

// Wrap returns a new error that has both the message to show the user and the
// technical description of the error, and that wraps e.
func Wrap(e error, human, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("user error: %s", human)
		if e != nil {
			technical += ": " + e.Error()
		}
	}
	return &userError{
		msg:   technical,
		human: human,
		wrap:  e,
	}
}

// Wrapf is Wrap with a formatted human message and an automatically generated
// Error() description.
func Wrapf(e error, humanFormat string, a ...interface{}) error {
	return Wrap(e, fmt.Sprintf(humanFormat, a...), "")
}

// Message gets the message to display to the console for the given error. If
// err is or wraps an error created by this package, its human message is
// returned. Otherwise, err.Error() is returned.
func Message(err error) string {
	var uErr *userError
	if errors.As(err, &uErr) {
		return uErr.human
	}
	return err.Error()
}
