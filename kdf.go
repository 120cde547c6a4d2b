package docseal

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// DefaultIterations is the PBKDF2 iteration count baked into the
	// container format. Peers must use the same count; the container does
	// not record it.
	DefaultIterations = 100000

	// KeySize is the derived key size in bytes (AES-256)
	KeySize = 32
)

// KeyDeriver turns a password and salt into fixed-length key material.
// Implementations must be deterministic: the same password and salt always
// yield the same key.
type KeyDeriver interface {
	DeriveKey(password, salt []byte) ([]byte, error)
}

// PBKDF2Deriver implements KeyDeriver using PBKDF2-HMAC-SHA256
type PBKDF2Deriver struct {
	// Iterations overrides the iteration count. Zero means
	// DefaultIterations. Lower counts exist for tests only; production
	// containers are not interoperable across counts.
	Iterations int
}

// DeriveKey derives a 256-bit key from the password and salt
func (d *PBKDF2Deriver) DeriveKey(password, salt []byte) ([]byte, error) {
	if len(password) == 0 {
		return nil, NewWeakInputError("password", ErrEmptyPassword.Error())
	}
	if len(salt) != SaltSize {
		return nil, NewWeakInputError("salt", fmt.Sprintf("salt must be %d bytes, got %d", SaltSize, len(salt)))
	}

	iterations := d.Iterations
	if iterations == 0 {
		iterations = DefaultIterations
	}

	return pbkdf2.Key(password, salt, iterations, KeySize, sha256.New), nil
}
