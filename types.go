package docseal

// CipherSuite represents the AEAD algorithm used for generic encryption
type CipherSuite uint8

const (
	// CipherAES256GCM uses AES-256 with Galois/Counter Mode. This is the
	// default and the only suite other implementations of the container
	// format are required to support.
	CipherAES256GCM CipherSuite = iota
	// CipherChaCha20Poly1305 uses ChaCha20 stream cipher with Poly1305 MAC.
	// Containers written with this suite are only readable by peers
	// configured the same way; the container does not record the suite.
	CipherChaCha20Poly1305
)

// String returns the string representation of the cipher suite
func (c CipherSuite) String() string {
	switch c {
	case CipherAES256GCM:
		return "aes-256-gcm"
	case CipherChaCha20Poly1305:
		return "chacha20-poly1305"
	default:
		return "unknown"
	}
}

// FileClassification is the routing decision for a single file
type FileClassification uint8

const (
	// ClassGeneric routes a file to the in-process encryption engine
	ClassGeneric FileClassification = iota
	// ClassPDF routes a file to the external native PDF protection tool
	ClassPDF
)

// String returns the string representation of the classification
func (c FileClassification) String() string {
	switch c {
	case ClassGeneric:
		return "generic"
	case ClassPDF:
		return "pdf"
	default:
		return "unknown"
	}
}

// KeyLength selects the PDF encryption strength passed to the external tool
type KeyLength uint16

const (
	// KeyLength128 requests 128-bit PDF encryption
	KeyLength128 KeyLength = 128
	// KeyLength256 requests 256-bit PDF encryption (default)
	KeyLength256 KeyLength = 256
)

// Validate checks that the key length is one the external tool accepts
func (k KeyLength) Validate() error {
	switch k {
	case KeyLength128, KeyLength256:
		return nil
	default:
		return ErrUnsupportedKeyLen
	}
}

// FileMetadata describes the original file embedded inside a container.
// All fields are optional; a nil *FileMetadata encodes as an empty block.
type FileMetadata struct {
	Filename string // Original file name, as supplied by the caller
	MIMEType string // Declared MIME type at encryption time
	Size     uint64 // Original plaintext size in bytes
}
