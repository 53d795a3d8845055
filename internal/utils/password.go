package utils

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrEmptyPassword is returned when an operator password is blank.
var ErrEmptyPassword = errors.New("empty operator password")

// HashPassword turns an operator password into the bcrypt hash stored in
// OPERATOR_PASSWORD_HASH.  Used by the hash-password command and by the
// server when only OPERATOR_PASSWORD is configured.
func HashPassword(plain string, cost int) (string, error) {
	if plain == "" {
		return "", ErrEmptyPassword
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword checks an operator login attempt against the configured
// hash.  A malformed hash never matches.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
