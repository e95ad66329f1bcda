package database

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeDatabaseIsIdempotent(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "planify.db")

	db, err := InitializeDatabase(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = InitializeDatabase(ctx, dbPath)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&count))
	assert.Equal(t, 2, count)

	for _, table := range []string{"device_tokens", "audit_log"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name = ?", table).Scan(&name)
		assert.NoError(t, err, table)
	}
}

func TestLoadMigrationsSorted(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/010_b.sql": {Data: []byte("SELECT 2;")},
		"migrations/002_a.sql": {Data: []byte("SELECT 1;")},
		"migrations/notes.txt": {Data: []byte("ignored")},
	}

	migrations, err := loadMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, "002_a", migrations[0].Version)
	assert.Equal(t, "010_b", migrations[1].Version)
}

func TestLoadMigrationsEmpty(t *testing.T) {
	_, err := loadMigrations(fstest.MapFS{})
	assert.Error(t, err)
}
