package docseal

import (
	"context"
	"path/filepath"
	"strings"
)

// SealedExtension is appended to generically encrypted output names
const SealedExtension = ".sealed"

// Classify decides how a file is routed, from its declared MIME type and
// filename alone. A file is a PDF if the MIME type mentions PDF or the
// extension is .pdf, case-insensitively. This is a heuristic, not content
// sniffing: a renamed non-PDF with a .pdf extension is misrouted, and that
// is accepted rather than special-cased.
func Classify(filename, declaredMIME string) FileClassification {
	if strings.Contains(strings.ToLower(declaredMIME), "pdf") {
		return ClassPDF
	}
	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return ClassPDF
	}
	return ClassGeneric
}

// PDFProtector is the boundary to the external native PDF protection tool.
// Implementations receive raw PDF bytes and a password and return the
// protected (or unprotected) PDF bytes. The same password is used as both
// user and owner password. Cancellation and timeouts travel through ctx.
type PDFProtector interface {
	Protect(ctx context.Context, pdf, password []byte, keyLength KeyLength) ([]byte, error)
	Unprotect(ctx context.Context, pdf, password []byte) ([]byte, error)
}

// DispatcherConfig configures a file-type dispatcher
type DispatcherConfig struct {
	// Engine handles generically encrypted files. Defaults to a new engine
	// with default configuration.
	Engine *Engine

	// PDF handles natively protected PDFs. If nil, PDF-classified files
	// fail with ExternalToolError instead of being silently re-routed.
	PDF PDFProtector

	// KeyLength is passed to the PDF protector. Defaults to KeyLength256.
	KeyLength KeyLength
}

// Dispatcher routes each file to native PDF protection or to the generic
// encryption engine based on its classification.
type Dispatcher struct {
	engine    *Engine
	pdf       PDFProtector
	keyLength KeyLength
}

// NewDispatcher creates a dispatcher from the given configuration. A nil
// config selects all defaults (and no PDF protector).
func NewDispatcher(config *DispatcherConfig) (*Dispatcher, error) {
	if config == nil {
		config = &DispatcherConfig{}
	}

	engine := config.Engine
	if engine == nil {
		var err error
		engine, err = NewEngine(nil)
		if err != nil {
			return nil, err
		}
	}

	keyLength := config.KeyLength
	if keyLength == 0 {
		keyLength = KeyLength256
	}
	if err := keyLength.Validate(); err != nil {
		return nil, err
	}

	return &Dispatcher{engine: engine, pdf: config.PDF, keyLength: keyLength}, nil
}

// Result is the outcome of a single protect or unprotect operation
type Result struct {
	Class      FileClassification // How the file was routed
	OutputName string             // Name the output should be stored under
	Data       []byte             // Protected or recovered bytes
}

// Protect encrypts one file. PDFs go to the external protector with bytes
// and password passed through verbatim, and keep their original name;
// generic files are sealed by the engine with the original name, MIME type
// and size embedded as metadata, and get a .sealed suffix.
func (d *Dispatcher) Protect(ctx context.Context, filename, declaredMIME string, data, password []byte) (*Result, error) {
	class := Classify(filename, declaredMIME)
	switch class {
	case ClassPDF:
		if d.pdf == nil {
			return nil, NewExternalToolError("", ErrNoPDFProtector.Error(), ErrNoPDFProtector)
		}
		protected, err := d.pdf.Protect(ctx, data, password, d.keyLength)
		if err != nil {
			return nil, err
		}
		return &Result{Class: class, OutputName: filename, Data: protected}, nil
	case ClassGeneric:
		metadata := &FileMetadata{
			Filename: filename,
			MIMEType: declaredMIME,
			Size:     uint64(len(data)),
		}
		sealed, err := d.engine.Encrypt(data, password, metadata)
		if err != nil {
			return nil, err
		}
		return &Result{Class: class, OutputName: filename + SealedExtension, Data: sealed}, nil
	default:
		return nil, NewWeakInputError("classification", "unhandled file classification")
	}
}

// Unprotect reverses Protect for one file. PDFs are passed to the external
// protector; sealed containers are decrypted by the engine, and the output
// name comes from the embedded metadata when present, otherwise from
// stripping the .sealed suffix.
func (d *Dispatcher) Unprotect(ctx context.Context, filename, declaredMIME string, data, password []byte) (*Result, error) {
	class := Classify(filename, declaredMIME)
	switch class {
	case ClassPDF:
		if d.pdf == nil {
			return nil, NewExternalToolError("", ErrNoPDFProtector.Error(), ErrNoPDFProtector)
		}
		recovered, err := d.pdf.Unprotect(ctx, data, password)
		if err != nil {
			return nil, err
		}
		return &Result{Class: class, OutputName: filename, Data: recovered}, nil
	case ClassGeneric:
		plaintext, metadata, err := d.engine.Decrypt(data, password)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(filename, SealedExtension)
		if metadata != nil && metadata.Filename != "" {
			name = metadata.Filename
		}
		return &Result{Class: class, OutputName: name, Data: plaintext}, nil
	default:
		return nil, NewWeakInputError("classification", "unhandled file classification")
	}
}
