package docseal

import (
	"crypto/rand"
	"io"
)

// EngineConfig configures a generic encryption engine
type EngineConfig struct {
	// Suite selects the AEAD. Defaults to CipherAES256GCM, the only suite
	// required for container interoperability.
	Suite CipherSuite

	// Deriver supplies key derivation. Defaults to PBKDF2-HMAC-SHA256 with
	// DefaultIterations.
	Deriver KeyDeriver

	// Random is the secure random source for salts and IVs. Defaults to
	// crypto/rand. Overridable so tests can pin salts and IVs; production
	// callers should leave it alone.
	Random io.Reader
}

// Engine performs password-based authenticated encryption of whole byte
// buffers into the sealed container format. An Engine holds no per-call
// state; independent Encrypt and Decrypt calls may run concurrently.
type Engine struct {
	suite   CipherSuite
	deriver KeyDeriver
	random  io.Reader
}

// NewEngine creates an engine from the given configuration. A nil config
// selects all defaults.
func NewEngine(config *EngineConfig) (*Engine, error) {
	if config == nil {
		config = &EngineConfig{}
	}

	suite := config.Suite
	if suite != CipherAES256GCM && suite != CipherChaCha20Poly1305 {
		return nil, ErrUnsupportedCipher
	}

	deriver := config.Deriver
	if deriver == nil {
		deriver = &PBKDF2Deriver{}
	}

	random := config.Random
	if random == nil {
		random = rand.Reader
	}

	return &Engine{suite: suite, deriver: deriver, random: random}, nil
}

// Encrypt seals plaintext under the given password. Every call draws a
// fresh salt and IV, so encrypting the same plaintext twice never yields
// the same container. A zero-length plaintext is valid. The metadata, if
// non-nil, is embedded in the container in the clear.
func (e *Engine) Encrypt(plaintext, password []byte, metadata *FileMetadata) ([]byte, error) {
	if len(password) == 0 {
		return nil, NewWeakInputError("password", ErrEmptyPassword.Error())
	}

	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(e.random, salt); err != nil {
		return nil, NewCryptoBackendError("random", err)
	}
	iv := make([]byte, IVSize)
	if _, err := io.ReadFull(e.random, iv); err != nil {
		return nil, NewCryptoBackendError("random", err)
	}

	key, err := e.deriver.DeriveKey(password, salt)
	if err != nil {
		return nil, err
	}

	aead, err := newAEAD(e.suite, key)
	if err != nil {
		return nil, err
	}

	ciphertext := aead.Seal(nil, iv, plaintext, nil)
	return EncodeContainer(salt, iv, metadata, ciphertext)
}

// Decrypt opens a sealed container with the given password. Structural
// problems surface as MalformedContainerError before any key derivation; a
// failed authentication tag surfaces as IncorrectPasswordError, the only
// signal that distinguishes a wrong password (or tampered ciphertext, by
// design the two look the same) from corruption of the framing.
func (e *Engine) Decrypt(container, password []byte) ([]byte, *FileMetadata, error) {
	if len(password) == 0 {
		return nil, nil, NewWeakInputError("password", ErrEmptyPassword.Error())
	}

	c, err := DecodeContainer(container)
	if err != nil {
		return nil, nil, err
	}

	key, err := e.deriver.DeriveKey(password, c.Salt)
	if err != nil {
		return nil, nil, err
	}

	aead, err := newAEAD(e.suite, key)
	if err != nil {
		return nil, nil, err
	}

	plaintext, err := aead.Open(nil, c.IV, c.Ciphertext, nil)
	if err != nil {
		return nil, nil, &IncorrectPasswordError{}
	}

	return plaintext, c.Metadata, nil
}
