package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"event-tracker/internal/domain"
	"event-tracker/internal/repository"
)

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	salt TEXT NOT NULL
);
`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
INSERT INTO users (username, password_hash, salt)
VALUES (?, ?, ?)`,
		user.Username,
		user.PasswordHash,
		user.Salt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("insert user %q: %w", user.Username, domain.ErrDuplicateUsername)
		}
		return 0, storageErr("insert user", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageErr("user last insert id", err)
	}
	user.ID = id
	return id, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, username, password_hash, salt
FROM users
WHERE username = ?`,
		username,
	)

	var user domain.User
	if err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Salt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storageErr("scan user", err)
	}
	return &user, nil
}

func (r *UserRepository) UpdateCredentials(ctx context.Context, username, passwordHash, salt string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE users
SET password_hash = ?, salt = ?
WHERE username = ?`,
		passwordHash,
		salt,
		username,
	)
	if err != nil {
		return false, storageErr("update credentials", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return false, storageErr("credentials rows affected", err)
	}
	return aff > 0, nil
}
