package inmem

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dekarrin/chomsky/server/dao"
	"github.com/google/uuid"
)

func NewGrammarsRepository() *InMemoryGrammarsRepository {
	return &InMemoryGrammarsRepository{
		grammars:    make(map[uuid.UUID]dao.Grammar),
		byNameIndex: make(map[string]uuid.UUID),
	}
}

// InMemoryGrammarsRepository is a dao.GrammarRepository that is safe for
// concurrent use.
type InMemoryGrammarsRepository struct {
	mtx         sync.RWMutex
	grammars    map[uuid.UUID]dao.Grammar
	byNameIndex map[string]uuid.UUID
}

func (imgr *InMemoryGrammarsRepository) Close() error {
	return nil
}

func (imgr *InMemoryGrammarsRepository) Create(ctx context.Context, g dao.Grammar) (dao.Grammar, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Grammar{}, fmt.Errorf("could not generate ID: %w", err)
	}

	imgr.mtx.Lock()
	defer imgr.mtx.Unlock()

	// make sure it's not already in the DB
	if _, ok := imgr.byNameIndex[g.Name]; ok {
		return dao.Grammar{}, dao.ErrConstraintViolation
	}

	g.ID = newUUID
	g.Created = time.Now()
	g.Source = g.Source.Copy()
	g.Normalized = g.Normalized.Copy()

	imgr.grammars[g.ID] = g
	imgr.byNameIndex[g.Name] = g.ID

	return copyGrammar(g), nil
}

func (imgr *InMemoryGrammarsRepository) GetAll(ctx context.Context) ([]dao.Grammar, error) {
	imgr.mtx.RLock()
	defer imgr.mtx.RUnlock()

	all := make([]dao.Grammar, 0, len(imgr.grammars))
	for k := range imgr.grammars {
		all = append(all, copyGrammar(imgr.grammars[k]))
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].ID.String() < all[j].ID.String()
	})

	return all, nil
}

func (imgr *InMemoryGrammarsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	imgr.mtx.RLock()
	defer imgr.mtx.RUnlock()

	g, ok := imgr.grammars[id]
	if !ok {
		return dao.Grammar{}, dao.ErrNotFound
	}

	return copyGrammar(g), nil
}

func (imgr *InMemoryGrammarsRepository) GetByName(ctx context.Context, name string) (dao.Grammar, error) {
	imgr.mtx.RLock()
	defer imgr.mtx.RUnlock()

	id, ok := imgr.byNameIndex[name]
	if !ok {
		return dao.Grammar{}, dao.ErrNotFound
	}

	return copyGrammar(imgr.grammars[id]), nil
}

func (imgr *InMemoryGrammarsRepository) Delete(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	imgr.mtx.Lock()
	defer imgr.mtx.Unlock()

	g, ok := imgr.grammars[id]
	if !ok {
		return dao.Grammar{}, dao.ErrNotFound
	}

	delete(imgr.byNameIndex, g.Name)
	delete(imgr.grammars, g.ID)

	return g, nil
}

// copyGrammar gives a dao.Grammar that shares no rule storage with g, so
// callers cannot change what is stored.
func copyGrammar(g dao.Grammar) dao.Grammar {
	g.Source = g.Source.Copy()
	g.Normalized = g.Normalized.Copy()
	return g
}
