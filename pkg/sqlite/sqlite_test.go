package sqlite

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open(DriverName, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Ping())
	return db
}

func TestForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var enabled int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&enabled))
	assert.Equal(t, 1, enabled)
}

func TestForeignKeyViolationDetected(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`CREATE TABLE parents (id TEXT PRIMARY KEY)`)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE children (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		parent_id TEXT NOT NULL REFERENCES parents(id) ON DELETE CASCADE
	)`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO children (parent_id) VALUES ('missing')`)
	require.Error(t, err)
	assert.True(t, IsForeignKeyViolation(err))
	assert.False(t, IsUniqueViolation(err))

	// cascade removes dependents
	_, err = db.Exec(`INSERT INTO parents (id) VALUES ('p1')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO children (parent_id) VALUES ('p1')`)
	require.NoError(t, err)
	_, err = db.Exec(`DELETE FROM parents WHERE id = 'p1'`)
	require.NoError(t, err)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM children`).Scan(&count))
	assert.Zero(t, count)
}

func TestUniqueViolationDetected(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`CREATE TABLE items (id TEXT PRIMARY KEY)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO items (id) VALUES ('a')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO items (id) VALUES ('a')`)
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
	assert.False(t, IsForeignKeyViolation(nil))
}
