// Package sqlite provides a dao.Store kept in a SQLite database file.
package sqlite

import (
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dekarrin/chomsky/grammar"
	"github.com/dekarrin/chomsky/server/dao"
	"github.com/google/uuid"
	"modernc.org/sqlite"
)

type store struct {
	dbFilename string
	db         *sql.DB
	grammars   *GrammarsDB
}

// NewDatastore opens the database in storageDir, creating it and its tables
// if needed.
func NewDatastore(storageDir string) (dao.Store, error) {
	st := &store{
		dbFilename: "grammars.db",
	}

	fileName := filepath.Join(storageDir, st.dbFilename)

	var err error
	st.db, err = sql.Open("sqlite", fileName)
	if err != nil {
		return nil, wrapDBError(err)
	}

	st.grammars = &GrammarsDB{db: st.db}
	if err := st.grammars.init(); err != nil {
		st.db.Close()
		return nil, err
	}

	return st, nil
}

func (s *store) Grammars() dao.GrammarRepository {
	return s.grammars
}

func (s *store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("%s: %w", s.dbFilename, err)
	}
	return nil
}

func wrapDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		// extended codes keep the primary code in the low byte; 19 is
		// SQLITE_CONSTRAINT
		if sqliteErr.Code()&0xff == 19 {
			return dao.ErrConstraintViolation
		}
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return dao.ErrNotFound
	}
	return err
}

func convertToDB_UUID(u uuid.UUID) string {
	return u.String()
}

func convertFromDB_UUID(s string, target *uuid.UUID) error {
	u, err := uuid.Parse(s)
	if err != nil {
		return fmt.Errorf("%w: %s", dao.ErrDecodingFailure, err.Error())
	}
	*target = u
	return nil
}

func convertToDB_Time(t time.Time) int64 {
	return t.Unix()
}

func convertFromDB_Time(i int64, target *time.Time) error {
	*target = time.Unix(i, 0)
	return nil
}

func convertToDB_Bool(b bool) int {
	if b {
		return 1
	}
	return 0
}

func convertFromDB_Bool(i int, target *bool) error {
	*target = i != 0
	return nil
}

// grammars are kept in the REZI binary format, base64-encoded so the column
// stays TEXT.
func convertToDB_Grammar(g grammar.Grammar) (string, error) {
	data, err := g.MarshalBinary()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func convertFromDB_Grammar(s string, target *grammar.Grammar) error {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return fmt.Errorf("%w: %s", dao.ErrDecodingFailure, err.Error())
	}

	var g grammar.Grammar
	if err := g.UnmarshalBinary(data); err != nil {
		return fmt.Errorf("%w: %s", dao.ErrDecodingFailure, err.Error())
	}
	*target = g
	return nil
}
