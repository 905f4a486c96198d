package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"event-tracker/internal/domain"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newUserRepo(t *testing.T) *UserRepository {
	t.Helper()
	r := &UserRepository{db: setupDB(t)}
	require.NoError(t, r.Init(context.Background()))
	return r
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	r := newUserRepo(t)
	ctx := context.Background()

	u := &domain.User{Username: "alice", PasswordHash: "hash", Salt: "salt"}
	id, err := r.Create(ctx, u)
	require.NoError(t, err)
	assert.Positive(t, id)
	assert.Equal(t, id, u.ID)

	got, err := r.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, *u, *got)
}

func TestUserRepository_CreateDuplicate(t *testing.T) {
	r := newUserRepo(t)
	ctx := context.Background()

	_, err := r.Create(ctx, &domain.User{Username: "bob", PasswordHash: "h1", Salt: "s1"})
	require.NoError(t, err)

	_, err = r.Create(ctx, &domain.User{Username: "bob", PasswordHash: "h2", Salt: "s2"})
	require.ErrorIs(t, err, domain.ErrDuplicateUsername)
	assert.NotErrorIs(t, err, domain.ErrStorage)
}

func TestUserRepository_GetByUsername_NotFound(t *testing.T) {
	r := newUserRepo(t)

	got, err := r.GetByUsername(context.Background(), "ghost")
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, got)
}

func TestUserRepository_UpdateCredentials(t *testing.T) {
	r := newUserRepo(t)
	ctx := context.Background()

	_, err := r.Create(ctx, &domain.User{Username: "carol", PasswordHash: "old", Salt: "old-salt"})
	require.NoError(t, err)

	matched, err := r.UpdateCredentials(ctx, "carol", "new", "new-salt")
	require.NoError(t, err)
	assert.True(t, matched)

	got, err := r.GetByUsername(ctx, "carol")
	require.NoError(t, err)
	assert.Equal(t, "new", got.PasswordHash)
	assert.Equal(t, "new-salt", got.Salt)

	matched, err = r.UpdateCredentials(ctx, "nobody", "x", "y")
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestUserRepository_StorageFailures(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	r := &UserRepository{db: db}
	ctx := context.Background()

	mock.ExpectExec(`(?s)^\s*INSERT\s+INTO\s+users\s*\(username,\s*password_hash,\s*salt\)`).
		WithArgs("alice", "h", "s").
		WillReturnError(errors.New("disk I/O error"))
	_, err = r.Create(ctx, &domain.User{Username: "alice", PasswordHash: "h", Salt: "s"})
	require.ErrorIs(t, err, domain.ErrStorage)
	assert.NotErrorIs(t, err, domain.ErrDuplicateUsername)

	mock.ExpectQuery(`(?s)^\s*SELECT\s+id,\s*username,\s*password_hash,\s*salt\s+FROM\s+users`).
		WithArgs("alice").
		WillReturnError(errors.New("db down"))
	_, err = r.GetByUsername(ctx, "alice")
	require.ErrorIs(t, err, domain.ErrStorage)
	assert.Contains(t, err.Error(), "db down")

	mock.ExpectExec(`(?s)^\s*UPDATE\s+users\s+SET\s+password_hash\s*=\s*\?,\s*salt\s*=\s*\?\s+WHERE\s+username\s*=\s*\?`).
		WithArgs("h2", "s2", "alice").
		WillReturnError(errors.New("locked"))
	_, err = r.UpdateCredentials(ctx, "alice", "h2", "s2")
	require.ErrorIs(t, err, domain.ErrStorage)

	require.NoError(t, mock.ExpectationsWereMet())
}
