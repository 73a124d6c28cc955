// Package dao provides data access objects for use in the normalization
// server.
package dao

import (
	"context"
	"time"

	"github.com/dekarrin/chomsky/grammar"
	"github.com/google/uuid"
)

// Store holds all the repositories.
type Store interface {
	Grammars() GrammarRepository
	Close() error
}

// GrammarRepository holds grammars submitted to the server along with their
// normal forms.
type GrammarRepository interface {

	// Create creates a new Grammar. All attributes except for auto-generated
	// fields are taken from the provided Grammar.
	Create(ctx context.Context, g Grammar) (Grammar, error)

	// GetAll returns every stored Grammar, ordered by ID.
	GetAll(ctx context.Context) ([]Grammar, error)
	GetByID(ctx context.Context, id uuid.UUID) (Grammar, error)
	GetByName(ctx context.Context, name string) (Grammar, error)
	Delete(ctx context.Context, id uuid.UUID) (Grammar, error)
	Close() error
}

// Grammar is a grammar submitted to the server. Names are unique.
type Grammar struct {
	ID         uuid.UUID
	Name       string
	KeepEmpty  bool
	Source     grammar.Grammar
	Normalized grammar.Grammar
	Created    time.Time
}
