// Package serr holds the error causes shared by the layers of the
// normalization server, and an Error type that carries several of them at
// once so that callers can test for any with errors.Is.
package serr

import (
	"errors"
	"net/http"

	"github.com/dekarrin/chomsky/grammar"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("name already in use")
	ErrDB            = errors.New("grammar store failed")
	ErrBadArgument   = errors.New("invalid argument")
	ErrBodyUnmarshal = errors.New("request body could not be decoded")

	// ErrGrammar is the cause of errors where a grammar was well-formed
	// enough to be read but could not be worked with, such as when its
	// normalization exceeds a limit.
	ErrGrammar = errors.New("grammar could not be normalized")
)

// Error is a message along with the errors that caused it. errors.Is reports
// true for an Error and any of its causes, or anything those wrap.
//
// Create one with New, WrapDB, or Grammar.
type Error struct {
	msg    string
	causes []error
}

// New returns an Error with the given message and causes. Either may be
// empty.
func New(msg string, causes ...error) Error {
	return Error{msg: msg, causes: append([]error(nil), causes...)}
}

// WrapDB returns an Error for a failure of persistence. It has err and ErrDB
// as its causes.
func WrapDB(msg string, err error) Error {
	return New(msg, err, ErrDB)
}

// Grammar returns an Error for a grammar that the grammar package refused.
// Grammars that are malformed or of an unsupported shape are the client's
// fault and get ErrBadArgument as a cause; anything else gets ErrGrammar.
// err is kept as the first cause.
func Grammar(msg string, err error) Error {
	if errors.Is(err, grammar.ErrMalformedGrammar) || errors.Is(err, grammar.ErrUnsupportedShape) {
		return New(msg, err, ErrBadArgument)
	}
	return New(msg, err, ErrGrammar)
}

// Error gives the message followed by the first cause. With no message, only
// the first cause is given.
func (e Error) Error() string {
	if len(e.causes) == 0 {
		return e.msg
	}
	if e.msg == "" {
		return e.causes[0].Error()
	}
	return e.msg + ": " + e.causes[0].Error()
}

// Unwrap gives the causes of e, or nil if there are none. It is used by
// errors.Is starting with Go 1.20.
func (e Error) Unwrap() []error {
	if len(e.causes) == 0 {
		return nil
	}
	return e.causes
}

// Is reports whether target is one of the causes of e or is wrapped by one.
// Go 1.19 does not follow Unwrap() []error, so this walks the causes itself.
func (e Error) Is(target error) bool {
	for _, c := range e.causes {
		if errors.Is(c, target) {
			return true
		}
	}
	return false
}

// Status gives the HTTP status code that best describes err, checking its
// causes from the most to the least specific. Errors with no known cause are
// a server error.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrBadArgument), errors.Is(err, ErrBodyUnmarshal):
		return http.StatusBadRequest
	case errors.Is(err, ErrGrammar):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
