package docseal

import (
	"encoding/binary"
	"fmt"
)

const (
	// MagicString identifies sealed containers ("DSL1", format version 1)
	MagicString = "DSL1"

	// MagicSize is the size of the magic sentinel in bytes
	MagicSize = 4

	// SaltSize is the size of the key derivation salt in bytes
	SaltSize = 16

	// IVSize is the size of the AEAD nonce in bytes
	IVSize = 12

	// TagSize is the size of the AEAD authentication tag in bytes
	TagSize = 16

	// metaLenSize is the size of the metadata length prefix
	metaLenSize = 4

	// MinContainerSize is the smallest well-formed container: magic,
	// metadata length prefix (which may declare zero bytes), salt and IV.
	MinContainerSize = MagicSize + metaLenSize + SaltSize + IVSize
)

// Container is the decoded form of a sealed file. It is produced once per
// decode and never mutated; re-encryption always builds a fresh container.
type Container struct {
	Salt       []byte        // Key derivation salt, SaltSize bytes
	IV         []byte        // AEAD nonce, IVSize bytes
	Metadata   *FileMetadata // Original file metadata, nil if none embedded
	Ciphertext []byte        // AEAD output, authentication tag included
}

// EncodeContainer serializes a container into its byte layout:
//
//	magic (4) | metadata length L, uint32 LE (4) | metadata (L) |
//	salt (16) | IV (12) | ciphertext+tag
//
// The metadata length prefix is always present; a nil metadata encodes as
// L == 0. All length fields are little-endian.
func EncodeContainer(salt, iv []byte, metadata *FileMetadata, ciphertext []byte) ([]byte, error) {
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("salt must be %d bytes, got %d", SaltSize, len(salt))
	}
	if len(iv) != IVSize {
		return nil, fmt.Errorf("iv must be %d bytes, got %d", IVSize, len(iv))
	}

	metaBytes, err := marshalMetadata(metadata)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 0, MinContainerSize+len(metaBytes)+len(ciphertext))
	buf = append(buf, MagicString...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(metaBytes)))
	buf = append(buf, metaBytes...)
	buf = append(buf, salt...)
	buf = append(buf, iv...)
	buf = append(buf, ciphertext...)
	return buf, nil
}

// DecodeContainer parses a container byte sequence, validating the full
// structure before any cryptography happens. Every structural violation is
// reported as a MalformedContainerError; none of them says anything about
// the password.
func DecodeContainer(b []byte) (*Container, error) {
	if len(b) < MinContainerSize {
		return nil, NewMalformedContainerError(
			fmt.Sprintf("need at least %d bytes, got %d", MinContainerSize, len(b)),
			ErrTruncatedContainer)
	}

	if string(b[:MagicSize]) != MagicString {
		return nil, NewMalformedContainerError("not a sealed container", ErrBadMagic)
	}

	metaLen := binary.LittleEndian.Uint32(b[MagicSize : MagicSize+metaLenSize])
	rest := b[MagicSize+metaLenSize:]

	// The declared metadata block must leave room for salt and IV.
	if uint64(metaLen) > uint64(len(rest)-SaltSize-IVSize) {
		return nil, NewMalformedContainerError("declared metadata length exceeds container", ErrTruncatedContainer)
	}

	metadata, err := unmarshalMetadata(rest[:metaLen])
	if err != nil {
		return nil, err
	}
	rest = rest[metaLen:]

	return &Container{
		Salt:       rest[:SaltSize],
		IV:         rest[SaltSize : SaltSize+IVSize],
		Metadata:   metadata,
		Ciphertext: rest[SaltSize+IVSize:],
	}, nil
}
