// Package dbtest opens migrated in-memory databases for tests.
package dbtest

import (
	"testing"

	"github.com/goalpulse/goalpulse/internal/db"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// New returns a fresh in-memory SQLite database with all migrations applied.
// Callers must not run in parallel: goose keeps its dialect in package state.
func New(t *testing.T) *sqlx.DB {
	t.Helper()

	conn, err := db.Init("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(conn) })

	require.NoError(t, db.RunMigrations(conn.DB, "sqlite"))
	return conn
}
