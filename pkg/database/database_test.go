package database

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_Embedded(t *testing.T) {
	db, err := New(Config{Path: MemoryPath}, nil)
	require.NoError(t, err)
	defer db.Close()

	m := NewMigrator(db, nil)
	require.NoError(t, m.Migrate())
	// applying twice is a no-op
	require.NoError(t, m.Migrate())

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 2, count)

	_, err = db.Exec("INSERT INTO records (form, document) VALUES ('PDC_Digital', '{}')")
	assert.NoError(t, err)
}

func TestRunMigrations_FromDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "002_second.sql"), []byte("CREATE TABLE b (id INTEGER);"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "001_first.sql"), []byte("CREATE TABLE a (id INTEGER);"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0644))

	db, err := New(Config{Path: MemoryPath}, nil)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, NewMigrator(db, nil).RunMigrations(dir))

	rows, err := db.Query("SELECT version, name FROM schema_migrations ORDER BY version")
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var v int
		var name string
		require.NoError(t, rows.Scan(&v, &name))
		names = append(names, name)
	}
	assert.Equal(t, []string{"first", "second"}, names)
}

func TestRunMigrations_BadFilename(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "init.sql"), []byte("SELECT 1;"), 0644))

	db, err := New(Config{Path: MemoryPath}, nil)
	require.NoError(t, err)
	defer db.Close()

	assert.Error(t, NewMigrator(db, nil).RunMigrations(dir))
}

func TestWithTransaction_RollsBack(t *testing.T) {
	db, err := New(Config{Path: MemoryPath}, nil)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec("CREATE TABLE t (v INTEGER)")
	require.NoError(t, err)

	err = db.WithTransaction(func(tx *sql.Tx) error {
		if _, err := tx.Exec("INSERT INTO t VALUES (1)"); err != nil {
			return err
		}
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM t").Scan(&n))
	assert.Zero(t, n)
}
