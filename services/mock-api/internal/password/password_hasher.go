// Package password hashes account passwords with bcrypt.
package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrEmpty is returned for blank passwords.
var ErrEmpty = errors.New("password: empty password")

// Hasher defines password hashing contract.
type Hasher interface {
	Hash(plain string) (string, error)
	Matches(hash, plain string) bool
}

// Bcrypt implements Hasher. Tests use bcrypt.MinCost to stay fast.
type Bcrypt struct {
	cost int
}

// NewBcrypt returns a hasher; cost outside bcrypt's range falls back to bcrypt.DefaultCost.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

func (b *Bcrypt) Hash(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmpty
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), b.cost)
	return string(hash), err
}

func (b *Bcrypt) Matches(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
