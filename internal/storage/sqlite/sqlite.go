// Package sqlite provides the persisted storage backend for Stallgate.
//
// One SQLite database holds every resource. The schema is embedded and
// applied on open, so a fresh path bootstraps itself. Critical sections
// rely on SQLite itself: conditional UPDATEs for the stock decrement and
// transactions for the multi-row sections (cart replace, feedback pair,
// per-category id allocation).
package sqlite

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/openstall/stallgate/internal/core/domain"
)

//go:embed schema.sql
var schemaSQL string

// Query timeouts, per call.
const (
	readTimeout  = 3 * time.Second
	writeTimeout = 5 * time.Second
)

// Open opens (or creates) the database at path and applies the schema.
// Pass a "file:...?mode=memory&cache=shared" DSN for an in-memory
// database shared across connections.
func Open(path string) (*sql.DB, error) {
	if path == "" {
		path = "stallgate.db"
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, domain.ErrStorage.WithCause(err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, domain.ErrStorage.WithCause(err)
	}

	// journal_mode is not supported for in-memory databases; ignore.
	_, _ = db.Exec(`PRAGMA journal_mode=WAL`)
	for _, pragma := range []string{
		`PRAGMA busy_timeout=5000`,
		`PRAGMA foreign_keys=ON`,
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, domain.ErrStorage.WithCause(fmt.Errorf("%s: %w", pragma, err))
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, domain.ErrStorage.WithCause(fmt.Errorf("apply schema: %w", err))
	}
	return db, nil
}

// isConstraintErr reports whether err is a SQLite constraint violation
// (unique, primary key).
func isConstraintErr(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.Code == sqlite3.ErrConstraint
	}
	return false
}
