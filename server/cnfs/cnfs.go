// Package cnfs has services for interacting with the normalization server
// backend decoupled from the API that accesses it.
package cnfs

import (
	"github.com/dekarrin/chomsky/server/dao"
)

// DefaultMaxStringsLength is the cap on Strings used by a Service that does
// not set its own.
const DefaultMaxStringsLength = 12

// Service normalizes grammars, keeps them in a store, and answers questions
// about the ones it holds.
//
// The zero-value of Service is not ready to be used; assign a valid DAO store
// to DB before attempting to use it.
type Service struct {
	// DB is the persistence store of the service.
	DB dao.Store

	// KeepEmpty is whether CreateGrammar keeps the empty string in the normal
	// form when the caller does not say.
	KeepEmpty bool

	// MaxStringsLength is the longest string length that may be asked of
	// Strings. If less than 1, DefaultMaxStringsLength is used.
	MaxStringsLength int
}

func (svc Service) maxStringsLength() int {
	if svc.MaxStringsLength < 1 {
		return DefaultMaxStringsLength
	}
	return svc.MaxStringsLength
}
