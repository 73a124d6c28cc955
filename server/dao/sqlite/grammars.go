package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dekarrin/chomsky/server/dao"
	"github.com/google/uuid"
)

// NewGrammarsDBConn opens a GrammarsDB on its own connection to file.
func NewGrammarsDBConn(file string) (*GrammarsDB, error) {
	repo := &GrammarsDB{}

	var err error
	repo.db, err = sql.Open("sqlite", file)
	if err != nil {
		return nil, wrapDBError(err)
	}

	return repo, repo.init()
}

// GrammarsDB is a dao.GrammarRepository backed by the grammars table.
type GrammarsDB struct {
	db *sql.DB
}

func (repo *GrammarsDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS grammars (
		id TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		keep_empty INTEGER NOT NULL,
		source TEXT NOT NULL,
		normalized TEXT NOT NULL,
		created INTEGER NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}

	return nil
}

func (repo *GrammarsDB) Close() error {
	return repo.db.Close()
}

func (repo *GrammarsDB) Create(ctx context.Context, g dao.Grammar) (dao.Grammar, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Grammar{}, fmt.Errorf("could not generate ID: %w", err)
	}

	source, err := convertToDB_Grammar(g.Source)
	if err != nil {
		return dao.Grammar{}, fmt.Errorf("encode source grammar: %w", err)
	}
	normalized, err := convertToDB_Grammar(g.Normalized)
	if err != nil {
		return dao.Grammar{}, fmt.Errorf("encode normalized grammar: %w", err)
	}

	stmt, err := repo.db.Prepare(`INSERT INTO grammars (id, name, keep_empty, source, normalized, created) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return dao.Grammar{}, wrapDBError(err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(
		ctx,
		convertToDB_UUID(newUUID),
		g.Name,
		convertToDB_Bool(g.KeepEmpty),
		source,
		normalized,
		convertToDB_Time(time.Now()),
	)
	if err != nil {
		return dao.Grammar{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *GrammarsDB) GetAll(ctx context.Context) ([]dao.Grammar, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, name, keep_empty, source, normalized, created FROM grammars ORDER BY id;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Grammar

	for rows.Next() {
		g, err := scanGrammar(rows)
		if err != nil {
			return all, err
		}
		all = append(all, g)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *GrammarsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT id, name, keep_empty, source, normalized, created FROM grammars WHERE id = ?;`,
		convertToDB_UUID(id),
	)
	return scanGrammar(row)
}

func (repo *GrammarsDB) GetByName(ctx context.Context, name string) (dao.Grammar, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT id, name, keep_empty, source, normalized, created FROM grammars WHERE name = ?;`,
		name,
	)
	return scanGrammar(row)
}

func (repo *GrammarsDB) Delete(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM grammars WHERE id = ?`, convertToDB_UUID(id))
	if err != nil {
		return curVal, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return curVal, wrapDBError(err)
	}
	if rowsAff < 1 {
		return curVal, dao.ErrNotFound
	}

	return curVal, nil
}

// scanner is the part of *sql.Row and *sql.Rows that scanGrammar needs.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanGrammar(row scanner) (dao.Grammar, error) {
	var g dao.Grammar
	var id string
	var keepEmpty int
	var source string
	var normalized string
	var created int64

	err := row.Scan(
		&id,
		&g.Name,
		&keepEmpty,
		&source,
		&normalized,
		&created,
	)
	if err != nil {
		return dao.Grammar{}, wrapDBError(err)
	}

	err = convertFromDB_UUID(id, &g.ID)
	if err != nil {
		return dao.Grammar{}, fmt.Errorf("stored UUID %q is invalid: %w", id, err)
	}
	err = convertFromDB_Bool(keepEmpty, &g.KeepEmpty)
	if err != nil {
		return dao.Grammar{}, fmt.Errorf("stored keep_empty %d is invalid: %w", keepEmpty, err)
	}
	err = convertFromDB_Grammar(source, &g.Source)
	if err != nil {
		return dao.Grammar{}, fmt.Errorf("stored source grammar is invalid: %w", err)
	}
	err = convertFromDB_Grammar(normalized, &g.Normalized)
	if err != nil {
		return dao.Grammar{}, fmt.Errorf("stored normalized grammar is invalid: %w", err)
	}
	err = convertFromDB_Time(created, &g.Created)
	if err != nil {
		return dao.Grammar{}, fmt.Errorf("stored created time %d is invalid: %w", created, err)
	}

	return g, nil
}
