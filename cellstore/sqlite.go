package cellstore

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/dekarrin/formulaengine/formula"
)

// SQLite is a read-only formula.CellStore backed by a sqlite database with a
// single table:
//
//	CREATE TABLE cells (
//	    row   INTEGER NOT NULL,
//	    col   INTEGER NOT NULL,
//	    kind  TEXT    NOT NULL, -- number|bool|text|error
//	    num   REAL,
//	    text  TEXT,
//	    bool  INTEGER,
//	    ecode INTEGER,
//	    PRIMARY KEY (row, col)
//	);
//
// A row absent from the table reads as not-found, identically to an empty
// cell in the in-memory store.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens the sqlite database at path using the pure-Go
// modernc.org/sqlite driver (no cgo required).
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite cell store: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Get implements formula.CellStore.
func (s *SQLite) Get(row, col int) (formula.Value, bool) {
	var kind string
	var num sql.NullFloat64
	var text sql.NullString
	var boolVal sql.NullInt64
	var ecode sql.NullInt64

	err := s.db.QueryRow(
		`SELECT kind, num, text, bool, ecode FROM cells WHERE row = ? AND col = ?`,
		row, col,
	).Scan(&kind, &num, &text, &boolVal, &ecode)
	if err != nil {
		return formula.Blank, false
	}

	switch kind {
	case "number":
		return formula.NewNumber(num.Float64), true
	case "bool":
		return formula.NewBool(boolVal.Int64 != 0), true
	case "text":
		return formula.NewText(text.String), true
	case "error":
		return formula.NewError(formula.ErrorCode(ecode.Int64)), true
	default:
		return formula.Blank, true
	}
}
