package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"resort/internal/app/services/auth"
)

// BcryptHasher implements auth.PasswordHasher. A zero Cost means
// bcrypt.DefaultCost.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	cost := bcrypt.DefaultCost
	if h.Cost >= bcrypt.MinCost {
		cost = h.Cost
	}
	out, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	switch {
	case errors.Is(err, bcrypt.ErrPasswordTooLong):
		return "", fmt.Errorf("%w: %d bytes given", auth.ErrPasswordTooLong, len(password))
	case err != nil:
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(out), nil
}

// Compare returns nil when password matches hash.
func (h BcryptHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

var _ auth.PasswordHasher = BcryptHasher{}
