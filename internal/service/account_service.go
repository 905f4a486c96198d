package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"event-tracker/internal/domain"
	"event-tracker/internal/repository"
)

// AccountService describes user credential operations.
type AccountService interface {
	CreateAccount(ctx context.Context, username, password string) error
	// Authenticate reports whether the credentials match. Unknown users yield false.
	Authenticate(ctx context.Context, username, password string) (bool, error)
	// RotateCredential replaces the stored hash and salt. Unknown users are a no-op.
	RotateCredential(ctx context.Context, username, newPassword string) error
}

type accountService struct {
	users  repository.UserRepository
	hasher PasswordHasher
	logger *logrus.Logger
}

func NewAccountService(users repository.UserRepository, hasher PasswordHasher, logger *logrus.Logger) AccountService {
	if hasher == nil {
		hasher = NewPasswordHasher()
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &accountService{
		users:  users,
		hasher: hasher,
		logger: logger,
	}
}

func (s *accountService) CreateAccount(ctx context.Context, username, password string) error {
	if err := validateCredentials(username, password); err != nil {
		return err
	}

	hash, salt, err := s.derive(password)
	if err != nil {
		return err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: hash,
		Salt:         salt,
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			s.logger.WithField("username", username).Warn("duplicate username")
		} else {
			s.logger.WithField("username", username).Errorf("create account: %v", err)
		}
		return err
	}

	s.logger.WithFields(logrus.Fields{"username": username, "user_id": user.ID}).Info("account created")
	return nil
}

func (s *accountService) Authenticate(ctx context.Context, username, password string) (bool, error) {
	if err := validateCredentials(username, password); err != nil {
		return false, err
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.WithField("username", username).Info("login for unknown user")
			return false, nil
		}
		return false, err
	}

	ok, err := s.hasher.Verify(password, user.Salt, user.PasswordHash)
	if err != nil {
		return false, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		s.logger.WithField("username", username).Info("login rejected")
	}
	return ok, nil
}

func (s *accountService) RotateCredential(ctx context.Context, username, newPassword string) error {
	if err := validateCredentials(username, newPassword); err != nil {
		return err
	}

	hash, salt, err := s.derive(newPassword)
	if err != nil {
		return err
	}

	matched, err := s.users.UpdateCredentials(ctx, username, hash, salt)
	if err != nil {
		s.logger.WithField("username", username).Errorf("rotate credential: %v", err)
		return err
	}
	if !matched {
		s.logger.WithField("username", username).Warn("credential rotation matched no user")
		return nil
	}

	s.logger.WithField("username", username).Info("credential rotated")
	return nil
}

func (s *accountService) derive(password string) (hash, salt string, err error) {
	salt, err = s.hasher.NewSalt()
	if err != nil {
		return "", "", err
	}
	hash, err = s.hasher.Hash(password, salt)
	if err != nil {
		return "", "", fmt.Errorf("hash password: %w", err)
	}
	return hash, salt, nil
}

// validateCredentials only rejects empty values. Usernames and passwords are
// stored and compared exactly as given, surrounding whitespace included.
func validateCredentials(username, password string) error {
	if username == "" {
		return fmt.Errorf("username is required: %w", domain.ErrInvalidInput)
	}
	if password == "" {
		return fmt.Errorf("password is required: %w", domain.ErrInvalidInput)
	}
	return nil
}
