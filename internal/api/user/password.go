package user

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
)

const defaultBcryptCost = 10

// PasswordHasher turns a plaintext password into a one-way hash.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

var (
	_ PasswordHasher = BcryptHasher{}
	_ PasswordHasher = Argon2idHasher{}
)

// BcryptHasher hashes with bcrypt at Cost. Costs outside bcrypt's range
// fall back to 10.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) cost() int {
	if h.Cost < bcrypt.MinCost || h.Cost > bcrypt.MaxCost {
		return defaultBcryptCost
	}
	return h.Cost
}

func (h BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost())
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(b), nil
}

// Compare reports whether password matches a hash produced by Hash.
func (h BcryptHasher) Compare(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}

// Argon2idHasher hashes with argon2id using Params, or the library defaults
// when Params is nil.
type Argon2idHasher struct {
	Params *argon2id.Params
}

func (h Argon2idHasher) Hash(password string) (string, error) {
	params := h.Params
	if params == nil {
		params = argon2id.DefaultParams
	}
	hash, err := argon2id.CreateHash(password, params)
	if err != nil {
		return "", fmt.Errorf("argon2id hash: %w", err)
	}
	return hash, nil
}

func (h Argon2idHasher) Compare(password, hash string) (bool, error) {
	return argon2id.ComparePasswordAndHash(password, hash)
}

// NewPasswordHasher picks the hasher named by algorithm ("bcrypt" or
// "argon2id"). Unknown names get bcrypt.
func NewPasswordHasher(algorithm string, cost int) PasswordHasher {
	if strings.EqualFold(strings.TrimSpace(algorithm), "argon2id") {
		return Argon2idHasher{}
	}
	return BcryptHasher{Cost: cost}
}
