package grammar

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedGrammar is the cause of errors for grammars whose
	// definitions are inconsistent: a start symbol that is not a
	// non-terminal, a production that uses an undeclared symbol, a rule for
	// a symbol that is not a non-terminal, or a symbol declared as both a
	// terminal and a non-terminal.
	ErrMalformedGrammar = errors.New("malformed grammar")

	// ErrUnsupportedShape is the cause of errors for rules whose left side is
	// not a single non-terminal.
	ErrUnsupportedShape = errors.New("left side of rule is not a single non-terminal")

	// ErrNonTermination is the cause of errors returned when a fixpoint
	// computation exceeds its iteration bound.
	ErrNonTermination = errors.New("fixpoint iteration limit exceeded")

	// ErrSizeLimit is the cause of errors returned when a grammar is too large
	// for a transformation to expand. Errors with this cause also have
	// ErrNonTermination as a cause.
	ErrSizeLimit = errors.New("size limit exceeded")

	// ErrInvariant is the cause of errors returned when a transformation
	// produces a grammar that does not satisfy its post-condition.
	ErrInvariant = errors.New("grammar invariant violated")

	// ErrNotCNF is returned by operations that require a grammar already in
	// Chomsky Normal Form.
	ErrNotCNF = errors.New("grammar is not in Chomsky normal form")
)

// Error is a typed error returned by functions in the grammar package. It
// contains a message explaining what happened as well as one or more error
// values it considers to be its causes. Calling errors.Is on an Error with any
// of its causes as the target returns true, so callers can check for
// ErrMalformedGrammar and friends without typecasting.
//
// Error should not be used directly; call newError to create one.
type Error struct {
	msg   string
	cause []error
}

// Error returns the message defined for the Error, concatenated with the
// result of calling Error() on its first cause if one is defined.
func (e Error) Error() string {
	if e.msg == "" && e.cause != nil {
		return e.cause[0].Error()
	}

	if e.cause != nil {
		return e.cause[0].Error() + ": " + e.msg
	}

	return e.msg
}

// Unwrap returns the causes of Error. The return value will be nil if no causes
// were defined for it.
func (e Error) Unwrap() []error {
	if len(e.cause) > 0 {
		return e.cause
	}
	return nil
}

// Is returns whether Error either Is itself the given target error, or one of
// its causes is.
func (e Error) Is(target error) bool {
	if errTarget, ok := target.(Error); ok {
		if e.msg == errTarget.msg && len(e.cause) == len(errTarget.cause) {
			allCausesEqual := true
			for i := range e.cause {
				if e.cause[i] != errTarget.cause[i] {
					allCausesEqual = false
					break
				}
			}
			if allCausesEqual {
				return true
			}
		}
	}

	for i := range e.cause {
		if errors.Is(e.cause[i], target) {
			return true
		}
	}
	return false
}

func newError(msg string, causes ...error) Error {
	err := Error{msg: msg}
	if len(causes) > 0 {
		err.cause = make([]error, len(causes))
		copy(err.cause, causes)
	}
	return err
}

func malformedf(format string, a ...interface{}) error {
	return newError(fmt.Sprintf(format, a...), ErrMalformedGrammar)
}

func unsupportedf(format string, a ...interface{}) error {
	return newError(fmt.Sprintf(format, a...), ErrUnsupportedShape)
}

func nonTerminationf(format string, a ...interface{}) error {
	return newError(fmt.Sprintf(format, a...), ErrNonTermination)
}

func sizeLimitf(format string, a ...interface{}) error {
	return newError(fmt.Sprintf(format, a...), ErrSizeLimit, ErrNonTermination)
}

func invariantf(format string, a ...interface{}) error {
	return newError(fmt.Sprintf(format, a...), ErrInvariant)
}
