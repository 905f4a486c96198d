package repository

import (
	"context"

	"event-tracker/internal/domain"
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	// UpdateCredentials replaces the hash/salt pair and reports whether a row matched.
	UpdateCredentials(ctx context.Context, username, passwordHash, salt string) (bool, error)
}
