package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/goliatone/go-errors"
)

// HashPassword will generate a password hash
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost())
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext
// password matches the hashed password
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return err
	}
	return nil
}

// BcryptVerifier is the PasswordVerifier backed by bcrypt
type BcryptVerifier struct{}

var _ PasswordVerifier = BcryptVerifier{}

// Check reports whether password matches hash
func (BcryptVerifier) Check(password, hash string) bool {
	if password == "" || hash == "" {
		return false
	}
	return ComparePasswordAndHash(password, hash) == nil
}
