package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/saltyorg/fruitstock/internal/config"
)

// BcryptCost is the bcrypt cost factor
const BcryptCost = 12

// ErrAuthFailed is returned by callers when the single login attempt is rejected.
var ErrAuthFailed = errors.New("invalid credentials")

// Credentials is the one expected username/password pair.
// When PasswordHash is set it is used instead of Password.
type Credentials struct {
	Username     string
	Password     string
	PasswordHash string
}

// FromConfig builds the expected credentials from configuration.
func FromConfig(cfg config.Auth) Credentials {
	return Credentials{
		Username:     cfg.Username,
		Password:     cfg.Password,
		PasswordHash: cfg.PasswordHash,
	}
}

// Login reports whether the provided pair matches. Comparison is exact and case-sensitive.
func (c Credentials) Login(username, password string) bool {
	if username != c.Username {
		return false
	}
	if c.PasswordHash != "" {
		return CheckPassword(password, c.PasswordHash)
	}
	if c.Password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(c.Password)) == 1
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", fmt.Errorf("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword verifies a password against a hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
