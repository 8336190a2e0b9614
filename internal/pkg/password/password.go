package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmptyPassword = errors.New("password must not be empty")
	ErrHashingFailed = errors.New("password hashing failed")
	ErrMismatch      = errors.New("password does not match")
)

// hashCost matches the cost of hashes already stored in the users table.
const hashCost = 12

func HashPassword(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmptyPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), hashCost)
	if err != nil {
		return "", ErrHashingFailed
	}
	return string(hash), nil
}

func ComparePassword(hash, plain string) error {
	if hash == "" || plain == "" {
		return ErrEmptyPassword
	}

	switch err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)); {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrMismatch
	default:
		return err
	}
}
