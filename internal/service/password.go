package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	saltLength   = 16
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// PasswordHasher derives salted one-way password digests.
type PasswordHasher interface {
	NewSalt() (string, error)
	Hash(password, salt string) (string, error)
	Verify(password, salt, hash string) (bool, error)
}

type argonHasher struct{}

// NewPasswordHasher returns an Argon2id hasher. Salt and hash are base64 encoded.
func NewPasswordHasher() PasswordHasher {
	return argonHasher{}
}

func (argonHasher) NewSalt() (string, error) {
	buf := make([]byte, saltLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return base64.RawStdEncoding.EncodeToString(buf), nil
}

func (argonHasher) Hash(password, salt string) (string, error) {
	rawSalt, err := base64.RawStdEncoding.DecodeString(salt)
	if err != nil {
		return "", fmt.Errorf("decode salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), rawSalt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return base64.RawStdEncoding.EncodeToString(key), nil
}

func (h argonHasher) Verify(password, salt, hash string) (bool, error) {
	candidate, err := h.Hash(password, salt)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(hash)) == 1, nil
}
