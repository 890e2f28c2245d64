package migrate

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	"habitlog-service/migrations"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunner_ReadMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"002_second.sql": {Data: []byte("SELECT 2;")},
		"001_first.sql":  {Data: []byte("SELECT 1;")},
		"README.md":      {Data: []byte("ignored")},
	}

	migs, err := NewRunner(nil, fsys, nil).ReadMigrations()
	require.NoError(t, err)
	require.Len(t, migs, 2)
	assert.Equal(t, 1, migs[0].Version)
	assert.Equal(t, "first", migs[0].Name)
	assert.Equal(t, 2, migs[1].Version)
}

func TestRunner_ReadMigrations_Invalid(t *testing.T) {
	tests := map[string]fstest.MapFS{
		"no underscore": {"001.sql": {Data: []byte("x")}},
		"not a number":  {"abc_init.sql": {Data: []byte("x")}},
		"zero version":  {"000_init.sql": {Data: []byte("x")}},
		"duplicate": {
			"001_a.sql":  {Data: []byte("x")},
			"0001_b.sql": {Data: []byte("y")},
		},
	}

	for name, fsys := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewRunner(nil, fsys, nil).ReadMigrations()
			assert.Error(t, err)
		})
	}
}

func TestRunner_UpIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	runner := NewRunner(NewSQLDriver(db), migrations.SQLite(), nil)

	applied, err := runner.Up(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	applied, err = runner.Up(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, applied)

	version, err := NewSQLDriver(db).CurrentVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='habit_logs'`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestRunner_RejectsNewerDatabase(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	driver := NewSQLDriver(db)

	require.NoError(t, driver.EnsureVersionTable(ctx))
	_, err := db.Exec(`INSERT INTO schema_version (version) VALUES (99)`)
	require.NoError(t, err)

	_, err = NewRunner(driver, migrations.SQLite(), nil).Up(ctx)
	assert.ErrorContains(t, err, "newer than supported")
}

func TestRunner_FailedMigrationRollsBack(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	fsys := fstest.MapFS{
		"001_ok.sql":     {Data: []byte("CREATE TABLE a (id INTEGER);")},
		"002_broken.sql": {Data: []byte("CREATE TABLE b (id INTEGER); NOT SQL;")},
	}

	applied, err := NewRunner(NewSQLDriver(db), fsys, nil).Up(ctx)
	require.Error(t, err)
	assert.Equal(t, 1, applied)

	version, err := NewSQLDriver(db).CurrentVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE name='b'`).Scan(&count))
	assert.Equal(t, 0, count)
}
