package docseal

import (
	"errors"
	"fmt"
)

// Error types represent the failure categories surfaced by the engine.
// Each category is deliberately narrow so callers can tell a structural
// problem ("this is not a valid container") apart from a password problem
// ("the container is fine, the password is not") apart from an environment
// problem ("the external tool is broken").

// WeakInputError reports a structurally invalid input that is rejected
// before any cryptographic work is attempted, such as an empty password.
type WeakInputError struct {
	Field   string // The input that failed validation
	Message string // Human-readable error message
}

func (e *WeakInputError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("weak input: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("weak input: %s", e.Message)
}

// MalformedContainerError reports a structural violation found while
// decoding a container: truncated buffer, bad magic, or an inconsistent
// metadata length. It says nothing about password correctness.
type MalformedContainerError struct {
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *MalformedContainerError) Error() string {
	return fmt.Sprintf("malformed container: %s", e.Message)
}

func (e *MalformedContainerError) Unwrap() error {
	return e.Err
}

// IncorrectPasswordError reports an AEAD authentication failure during
// decryption. A wrong password and tampered ciphertext are indistinguishable
// here, which is intentional: the message must not reveal which occurred.
type IncorrectPasswordError struct{}

func (e *IncorrectPasswordError) Error() string {
	return "incorrect password or modified data"
}

// CryptoBackendError reports a failure of the underlying cryptographic
// primitives themselves (cipher construction, random source). Fatal and
// non-retryable.
type CryptoBackendError struct {
	Operation string // "derive-key", "new-cipher", "random", ...
	Err       error  // Underlying error
}

func (e *CryptoBackendError) Error() string {
	return fmt.Sprintf("crypto backend failure during %s: %v", e.Operation, e.Err)
}

func (e *CryptoBackendError) Unwrap() error {
	return e.Err
}

// ExternalToolError reports a failure of the external PDF protection tool:
// missing binary, malformed PDF input, nonzero exit. Fatal for the file it
// occurred on; unrelated files are unaffected.
type ExternalToolError struct {
	Tool    string // Tool name or path
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ExternalToolError) Error() string {
	if e.Tool != "" {
		return fmt.Sprintf("external tool %s: %s", e.Tool, e.Message)
	}
	return fmt.Sprintf("external tool: %s", e.Message)
}

func (e *ExternalToolError) Unwrap() error {
	return e.Err
}

// Common sentinel errors
var (
	ErrEmptyPassword      = errors.New("password cannot be empty")
	ErrBadMagic           = errors.New("unrecognized container magic")
	ErrTruncatedContainer = errors.New("container shorter than fixed header")
	ErrNoPDFProtector     = errors.New("no PDF protector configured")
	ErrUnsupportedCipher  = errors.New("unsupported cipher suite")
	ErrUnsupportedKeyLen  = errors.New("unsupported key length")
)

// Helper functions for creating structured errors

// NewWeakInputError creates a new weak input error
func NewWeakInputError(field, message string) error {
	return &WeakInputError{Field: field, Message: message}
}

// NewMalformedContainerError creates a new malformed container error
func NewMalformedContainerError(message string, err error) error {
	return &MalformedContainerError{Message: message, Err: err}
}

// NewCryptoBackendError creates a new crypto backend error
func NewCryptoBackendError(operation string, err error) error {
	return &CryptoBackendError{Operation: operation, Err: err}
}

// NewExternalToolError creates a new external tool error
func NewExternalToolError(tool, message string, err error) error {
	return &ExternalToolError{Tool: tool, Message: message, Err: err}
}

// Error checking helpers

// IsWeakInputError checks if an error is a weak input error
func IsWeakInputError(err error) bool {
	var we *WeakInputError
	return errors.As(err, &we)
}

// IsMalformedContainerError checks if an error is a malformed container error
func IsMalformedContainerError(err error) bool {
	var me *MalformedContainerError
	return errors.As(err, &me)
}

// IsIncorrectPasswordError checks if an error is an incorrect password error
func IsIncorrectPasswordError(err error) bool {
	var pe *IncorrectPasswordError
	return errors.As(err, &pe)
}

// IsCryptoBackendError checks if an error is a crypto backend error
func IsCryptoBackendError(err error) bool {
	var ce *CryptoBackendError
	return errors.As(err, &ce)
}

// IsExternalToolError checks if an error is an external tool error
func IsExternalToolError(err error) bool {
	var te *ExternalToolError
	return errors.As(err, &te)
}
