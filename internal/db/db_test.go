package db_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/tanki/internal/db"
	"github.com/vytor/tanki/internal/testutil"
)

func TestMigrations_Ordered(t *testing.T) {
	names, err := db.Migrations()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "0001_review_history.sql", names[0])
	assert.IsIncreasing(t, names)
}

func TestOpen_AppliesMigrationsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	first, err := db.Open(path)
	require.NoError(t, err)
	testutil.MustClose(t, first)

	// Reopening must skip migrations that are already recorded.
	second, err := db.Open(path)
	require.NoError(t, err)
	defer testutil.MustClose(t, second)

	names, err := db.Migrations()
	require.NoError(t, err)

	var applied int
	require.NoError(t, second.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM schema_migrations`).Scan(&applied))
	assert.Equal(t, len(names), applied)

	var table string
	err = second.QueryRowContext(context.Background(),
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'review_history'`).Scan(&table)
	require.NoError(t, err)
	assert.Equal(t, "review_history", table)
}
