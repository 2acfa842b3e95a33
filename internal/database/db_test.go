package database

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryPath() string {
	return "file:" + uuid.NewString() + "?mode=memory&cache=shared"
}

func TestOpenSQLiteAndMigrate(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, Options{Driver: SQLite, Path: memoryPath()})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, Migrate(ctx, db, SQLite))
	// idempotent
	require.NoError(t, Migrate(ctx, db, SQLite))

	for _, table := range []string{"viviendas", "accounts", "profiles", "token_blacklist"} {
		var name string
		err := db.QueryRowContext(ctx,
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, err, table)
	}

	var fk int
	require.NoError(t, db.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestRoleCheckConstraint(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, Options{Driver: SQLite, Path: memoryPath()})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, Migrate(ctx, db, SQLite))

	_, err = db.ExecContext(ctx,
		`INSERT INTO accounts (username,email,password_hash,created_at,updated_at) VALUES ('u','u@x.io','h',CURRENT_TIMESTAMP,CURRENT_TIMESTAMP)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx,
		`INSERT INTO profiles (account_id,rol,created_at,updated_at) VALUES (1,'OWNER',CURRENT_TIMESTAMP,CURRENT_TIMESTAMP)`)
	assert.Error(t, err)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: "postgres"})
	assert.Error(t, err)
	assert.Error(t, Migrate(context.Background(), nil, "postgres"))
}
