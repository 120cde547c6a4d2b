package docseal

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// newAEAD constructs the AEAD for the given suite and 256-bit key. Both
// suites share the container's geometry: 32-byte key, 12-byte nonce,
// 16-byte tag. Construction failures are crypto backend failures; they do
// not depend on user input.
func newAEAD(suite CipherSuite, key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, NewCryptoBackendError("new-cipher",
			fmt.Errorf("key must be %d bytes, got %d", KeySize, len(key)))
	}

	switch suite {
	case CipherAES256GCM:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, NewCryptoBackendError("new-cipher", err)
		}
		aead, err := cipher.NewGCM(block)
		if err != nil {
			return nil, NewCryptoBackendError("new-cipher", err)
		}
		return aead, nil
	case CipherChaCha20Poly1305:
		aead, err := chacha20poly1305.New(key)
		if err != nil {
			return nil, NewCryptoBackendError("new-cipher", err)
		}
		return aead, nil
	default:
		return nil, NewCryptoBackendError("new-cipher", ErrUnsupportedCipher)
	}
}
