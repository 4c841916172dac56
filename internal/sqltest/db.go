// Package sqltest opens throwaway SQLite databases whose schema mirrors
// a vocabulary, so tests can hand generated SQL to a real parser.
//
// Statements are only ever prepared, never executed, by the conformance
// suites; preparing is the oracle for the syntactic-validity guarantee.
// The driver registers stddev and variance, which the bundled SQLite
// lacks, so every aggregate the vocabulary names is preparable.
package sqltest

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/pricelens/selectir/vocab"
)

const driverName = "sqlite3_selectir"

var registerOnce sync.Once

func registerDriver() {
	registerOnce.Do(func() {
		sql.Register(driverName, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				if err := conn.RegisterAggregator("stddev", newStdDev, true); err != nil {
					return err
				}
				return conn.RegisterAggregator("variance", newVariance, true)
			},
		})
	})
}

// Open returns an in-memory database holding one empty table per
// vocabulary table. The handle closes itself when the test ends.
func Open(t *testing.T, v *vocab.Vocabulary) *sql.DB {
	t.Helper()
	registerDriver()

	db, err := sql.Open(driverName, ":memory:")
	require.NoError(t, err, "failed to open database")
	t.Cleanup(func() { db.Close() })

	// A second connection would see a fresh empty in-memory database,
	// so pin the pool to one.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	require.NoError(t, db.Ping(), "failed to connect to database")

	for _, stmt := range SchemaSQL(v) {
		_, err := db.Exec(stmt)
		require.NoError(t, err, "failed to execute %q", stmt)
	}
	return db
}

// SchemaSQL renders one CREATE TABLE statement per vocabulary table, in
// sorted order. Columns are left typeless; SQLite does not mind and the
// tables exist only to be named.
func SchemaSQL(v *vocab.Vocabulary) []string {
	tables := v.Tables()
	stmts := make([]string, 0, len(tables))
	for _, table := range tables {
		cols, err := v.Columns(table)
		if err != nil {
			continue
		}
		stmts = append(stmts, fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(cols, ", ")))
	}
	return stmts
}

// Prepare fails the test unless the database accepts stmt as a valid
// statement. Nothing is executed.
func Prepare(t *testing.T, db *sql.DB, stmt string) {
	t.Helper()
	prep, err := db.Prepare(stmt)
	require.NoError(t, err, "statement does not prepare: %s", stmt)
	require.NoError(t, prep.Close())
}
