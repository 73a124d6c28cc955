package cnfs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dekarrin/chomsky/grammar"
	"github.com/dekarrin/chomsky/server/dao"
	"github.com/dekarrin/chomsky/server/serr"
	"github.com/google/uuid"
)

// CreateGrammar normalizes src and stores it along with its normal form under
// the given name. If keepEmpty is nil, svc.KeepEmpty is used. Returns the
// newly-created grammar as it exists after creation.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If a grammar with that name is
// already present, it will match serr.ErrAlreadyExists. If src is not a valid
// grammar or the name is blank, it will match serr.ErrBadArgument. If src
// could not be normalized, it will match serr.ErrGrammar. If the error occured
// due to an unexpected problem with the DB, it will match serr.ErrDB.
func (svc Service) CreateGrammar(ctx context.Context, name string, src grammar.Grammar, keepEmpty *bool) (dao.Grammar, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return dao.Grammar{}, serr.New("name cannot be blank", serr.ErrBadArgument)
	}

	if err := src.Validate(); err != nil {
		return dao.Grammar{}, serr.Grammar("", err)
	}

	keep := svc.KeepEmpty
	if keepEmpty != nil {
		keep = *keepEmpty
	}

	cnf, err := src.ToCNF(grammar.Options{KeepEmpty: keep})
	if err != nil {
		return dao.Grammar{}, serr.Grammar("could not normalize grammar", err)
	}

	_, err = svc.DB.Grammars().GetByName(ctx, name)
	if err == nil {
		return dao.Grammar{}, serr.New("a grammar with that name already exists", serr.ErrAlreadyExists)
	} else if !errors.Is(err, dao.ErrNotFound) {
		return dao.Grammar{}, serr.WrapDB("", err)
	}

	newGrammar := dao.Grammar{
		Name:       name,
		KeepEmpty:  keep,
		Source:     src,
		Normalized: cnf,
	}

	created, err := svc.DB.Grammars().Create(ctx, newGrammar)
	if err != nil {
		if errors.Is(err, dao.ErrConstraintViolation) {
			return dao.Grammar{}, serr.New("a grammar with that name already exists", serr.ErrAlreadyExists)
		}
		return dao.Grammar{}, serr.WrapDB("could not create grammar", err)
	}

	return created, nil
}

// GetAllGrammars returns all grammars currently in persistence.
func (svc Service) GetAllGrammars(ctx context.Context) ([]dao.Grammar, error) {
	grammars, err := svc.DB.Grammars().GetAll(ctx)
	if err != nil {
		return nil, serr.WrapDB("", err)
	}

	return grammars, nil
}

// GetGrammar returns the grammar with the given ID.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If no grammar with that ID
// exists, it will match serr.ErrNotFound. If the error occured due to an
// unexpected problem with the DB, it will match serr.ErrDB. Finally, if there
// is an issue with one of the arguments, it will match serr.ErrBadArgument.
func (svc Service) GetGrammar(ctx context.Context, id string) (dao.Grammar, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Grammar{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	g, err := svc.DB.Grammars().GetByID(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Grammar{}, serr.ErrNotFound
		}
		return dao.Grammar{}, serr.WrapDB("could not get grammar", err)
	}

	return g, nil
}

// DeleteGrammar deletes the grammar with the given ID. It returns the deleted
// grammar just after it was deleted.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If no grammar with that ID
// exists, it will match serr.ErrNotFound. If the error occured due to an
// unexpected problem with the DB, it will match serr.ErrDB. Finally, if there
// is an issue with one of the arguments, it will match serr.ErrBadArgument.
func (svc Service) DeleteGrammar(ctx context.Context, id string) (dao.Grammar, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Grammar{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	g, err := svc.DB.Grammars().Delete(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Grammar{}, serr.ErrNotFound
		}
		return dao.Grammar{}, serr.WrapDB("could not delete grammar", err)
	}

	return g, nil
}

// Accepts returns whether the grammar with the given ID generates input, which
// is a sequence of terminals. The normal form is checked with CYK.
//
// The returned error, if non-nil, will match the same errors as GetGrammar
// does, as well as serr.ErrGrammar if the stored normal form cannot be used.
func (svc Service) Accepts(ctx context.Context, id string, input []string) (bool, error) {
	g, err := svc.GetGrammar(ctx, id)
	if err != nil {
		return false, err
	}

	cnf := g.Normalized
	if !g.KeepEmpty && len(input) == 0 {
		// the normal form dropped ε, but whether the grammar made it is still
		// worth answering
		nullables, err := g.Source.Nullables()
		if err != nil {
			return false, serr.New("could not check for the empty string", err, serr.ErrGrammar)
		}
		for _, nt := range nullables {
			if nt == g.Source.StartSymbol() {
				return true, nil
			}
		}
		return false, nil
	}

	accepted, err := cnf.Accepts(input)
	if err != nil {
		return false, serr.New("could not run CYK on stored normal form", err, serr.ErrGrammar)
	}
	return accepted, nil
}

// Strings returns every string of at most maxLen terminals that the grammar
// with the given ID generates, each with its terminals separated by spaces.
//
// The returned error, if non-nil, will match the same errors as GetGrammar
// does. If maxLen is negative or more than the service's max strings length,
// it will match serr.ErrBadArgument.
func (svc Service) Strings(ctx context.Context, id string, maxLen int) ([]string, error) {
	if limit := svc.maxStringsLength(); maxLen < 0 || maxLen > limit {
		return nil, serr.New(fmt.Sprintf("max length must be between 0 and %d", limit), serr.ErrBadArgument)
	}

	g, err := svc.GetGrammar(ctx, id)
	if err != nil {
		return nil, err
	}

	sentences := g.Source.Enumerate(maxLen)
	if sentences == nil {
		sentences = []string{}
	}
	return sentences, nil
}
