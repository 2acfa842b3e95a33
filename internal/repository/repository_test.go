package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/condominio-auth/internal/database"
	"github.com/iliyamo/condominio-auth/internal/model"
)

// setupTestDB creates an in-memory SQLite database with the auth schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(ctx, database.Options{
		Driver: database.SQLite,
		Path:   "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(ctx, db, database.SQLite))
	return db
}

func newAccount(username string) model.Account {
	a := model.Account{
		Username:     username,
		Email:        username + "@condominio.test",
		PasswordHash: "hash",
	}
	a.SetRole(model.DefaultRole)
	a.SetActive(true)
	return a
}

func strPtr(s string) *string { return &s }

func TestAccountRepoCreateAndGet(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewAccountRepo(db, database.SQLite)

	in := newAccount("alice")
	in.FirstName = "Alice"
	in.Profile.Phone = strPtr("555-0100")
	created, err := repo.Create(ctx, in)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.NotZero(t, created.Profile.ID)
	assert.Equal(t, created.ID, created.Profile.AccountID)

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
	assert.Equal(t, model.RoleResidente, byID.Profile.Role)
	require.NotNil(t, byID.Profile.Phone)
	assert.Equal(t, "555-0100", *byID.Profile.Phone)
	assert.Nil(t, byID.Profile.UnitID)
	assert.True(t, byID.Active())
	assert.False(t, byID.CreatedAt.IsZero())

	byName, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	var profiles int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM profiles WHERE account_id=?", created.ID).Scan(&profiles))
	assert.Equal(t, 1, profiles)
}

func TestAccountRepoGetMissing(t *testing.T) {
	repo := NewAccountRepo(setupTestDB(t), database.SQLite)
	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAccountRepoDuplicate(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewAccountRepo(db, database.SQLite)

	_, err := repo.Create(ctx, newAccount("bob"))
	require.NoError(t, err)

	second := newAccount("bob")
	second.Email = "bobby@condominio.test"
	_, err = repo.Create(ctx, second)
	require.ErrorIs(t, err, ErrDuplicate)
	assert.Equal(t, "username", DuplicateField(err))

	other := newAccount("robert")
	other.Email = "BOB@condominio.test"
	_, err = repo.Create(ctx, other)
	require.ErrorIs(t, err, ErrDuplicate)
	assert.Equal(t, "email", DuplicateField(err))

	var n int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM profiles").Scan(&n))
	assert.Equal(t, 1, n, "failed creations must not leave profiles behind")
}

func TestAccountRepoCreateWithMissingUnit(t *testing.T) {
	repo := NewAccountRepo(setupTestDB(t), database.SQLite)
	a := newAccount("carol")
	unit := uint64(404)
	a.Profile.UnitID = &unit
	_, err := repo.Create(context.Background(), a)
	assert.ErrorIs(t, err, ErrInvalidReference)

	_, err = repo.GetByUsername(context.Background(), "carol")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAccountRepoUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepo(setupTestDB(t), database.SQLite)
	created, err := repo.Create(ctx, newAccount("dave"))
	require.NoError(t, err)

	updated, err := repo.Update(ctx, created.ID, func(a *model.Account) error {
		a.LastName = "Jones"
		a.SetRole(model.RoleAdmin)
		a.SetActive(false)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Jones", updated.LastName)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, got.Profile.Role)
	assert.True(t, got.IsStaff)
	assert.False(t, got.IsActive)
	assert.False(t, got.Profile.Active)
}

func TestAccountRepoUpdateIsAtomic(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepo(setupTestDB(t), database.SQLite)
	_, err := repo.Create(ctx, newAccount("erin"))
	require.NoError(t, err)
	frank, err := repo.Create(ctx, newAccount("frank"))
	require.NoError(t, err)

	_, err = repo.Update(ctx, frank.ID, func(a *model.Account) error {
		a.Profile.Phone = strPtr("555-0199")
		a.Email = "erin@condominio.test"
		return nil
	})
	require.ErrorIs(t, err, ErrDuplicate)

	got, err := repo.GetByID(ctx, frank.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Profile.Phone)
	assert.Equal(t, "frank@condominio.test", got.Email)

	boom := errors.New("boom")
	_, err = repo.Update(ctx, frank.ID, func(a *model.Account) error {
		a.FirstName = "Frank"
		return boom
	})
	assert.ErrorIs(t, err, boom)
	got, _ = repo.GetByID(ctx, frank.ID)
	assert.Empty(t, got.FirstName)

	_, err = repo.Update(ctx, 999, func(*model.Account) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAccountRepoDeleteCascadesProfile(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewAccountRepo(db, database.SQLite)
	a, err := repo.Create(ctx, newAccount("gina"))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, a.ID))
	assert.ErrorIs(t, repo.Delete(ctx, a.ID), ErrNotFound)

	var n int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM profiles WHERE account_id=?", a.ID).Scan(&n))
	assert.Zero(t, n)
}

func TestAccountRepoList(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepo(setupTestDB(t), database.SQLite)
	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	for _, u := range []string{"h1", "h2", "h3"} {
		_, err := repo.Create(ctx, newAccount(u))
		require.NoError(t, err)
	}
	all, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "h1", all[0].Username)
	assert.Equal(t, "h3", all[2].Username)
}

func TestUnitDeleteClearsProfileReference(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	units := NewUnitRepo(db)
	accounts := NewAccountRepo(db, database.SQLite)

	u1, err := units.Create(ctx, "A-101")
	require.NoError(t, err)
	u2, err := units.Create(ctx, "A-102")
	require.NoError(t, err)

	a := newAccount("ivan")
	a.Profile.UnitID = &u1.ID
	ivan, err := accounts.Create(ctx, a)
	require.NoError(t, err)
	b := newAccount("judy")
	b.Profile.UnitID = &u2.ID
	judy, err := accounts.Create(ctx, b)
	require.NoError(t, err)

	require.NoError(t, units.Delete(ctx, u1.ID))
	got, err := accounts.GetByID(ctx, ivan.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Profile.UnitID)

	// raw delete relies on ON DELETE SET NULL
	_, err = db.ExecContext(ctx, "DELETE FROM viviendas WHERE id=?", u2.ID)
	require.NoError(t, err)
	got, err = accounts.GetByID(ctx, judy.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Profile.UnitID)

	ok, err := units.Exists(ctx, u1.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.ErrorIs(t, units.Delete(ctx, u1.ID), ErrNotFound)
}

func TestTokenRepoBlacklistIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewTokenRepo(setupTestDB(t))

	ok, err := repo.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, ok)

	rec := model.RevokedToken{JTI: "jti-1", AccountID: 7, ExpiresAt: time.Now().Add(time.Hour)}
	inserted, err := repo.Blacklist(ctx, rec)
	require.NoError(t, err)
	assert.True(t, inserted)
	inserted, err = repo.Blacklist(ctx, rec)
	require.NoError(t, err)
	assert.False(t, inserted)

	ok, err = repo.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, ok)

	var owner uint64
	var rows int
	require.NoError(t, repo.DB.QueryRowContext(ctx,
		"SELECT account_id, COUNT(*) FROM token_blacklist WHERE jti=? GROUP BY account_id", "jti-1").Scan(&owner, &rows))
	assert.Equal(t, uint64(7), owner)
	assert.Equal(t, 1, rows)
}
