package docseal

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// QPDFProtector implements PDFProtector by shelling out to the qpdf tool.
// Each call runs in a private temp directory that is removed afterwards;
// nothing is shared between calls, so concurrent use is safe.
type QPDFProtector struct {
	// Path is the qpdf binary. Defaults to "qpdf" resolved via PATH.
	Path string

	// Dir is the parent directory for per-call work directories. Defaults
	// to the system temp directory.
	Dir string
}

// NewQPDFProtector creates a protector for the given qpdf binary path. An
// empty path means "qpdf" from PATH.
func NewQPDFProtector(path string) *QPDFProtector {
	return &QPDFProtector{Path: path}
}

func (q *QPDFProtector) tool() string {
	if q.Path != "" {
		return q.Path
	}
	return "qpdf"
}

// Protect applies native password protection to a PDF. The password is
// used as both user and owner password; keyLength selects 128 or 256-bit
// encryption.
func (q *QPDFProtector) Protect(ctx context.Context, pdf, password []byte, keyLength KeyLength) ([]byte, error) {
	if err := keyLength.Validate(); err != nil {
		return nil, NewExternalToolError(q.tool(), err.Error(), err)
	}
	pw := string(password)
	return q.run(ctx, pdf, "--encrypt", pw, pw, strconv.Itoa(int(keyLength)), "--")
}

// Unprotect removes native password protection from a PDF
func (q *QPDFProtector) Unprotect(ctx context.Context, pdf, password []byte) ([]byte, error) {
	return q.run(ctx, pdf, "--decrypt", "--password="+string(password))
}

// run writes the PDF to a work file, invokes qpdf with the given arguments
// followed by the input and output paths, and reads the result back.
func (q *QPDFProtector) run(ctx context.Context, pdf []byte, args ...string) ([]byte, error) {
	workDir, err := os.MkdirTemp(q.Dir, "docseal-qpdf-")
	if err != nil {
		return nil, NewExternalToolError(q.tool(), "cannot create work directory", err)
	}
	defer os.RemoveAll(workDir)

	// Random names so the original filename never reaches the tool.
	inPath := filepath.Join(workDir, uuid.NewString()+".pdf")
	outPath := filepath.Join(workDir, uuid.NewString()+".pdf")

	if err := os.WriteFile(inPath, pdf, 0o600); err != nil {
		return nil, NewExternalToolError(q.tool(), "cannot write work file", err)
	}

	cmd := exec.CommandContext(ctx, q.tool(), append(args, inPath, outPath)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, q.classify(ctx, err, stderr.String())
	}

	out, err := os.ReadFile(outPath)
	if err != nil {
		return nil, NewExternalToolError(q.tool(), "tool produced no output", err)
	}
	return out, nil
}

// classify maps a qpdf failure to the engine's error taxonomy. qpdf has no
// structured error codes, so wrong-password detection falls back to its
// stderr text; everything else, including cancellation and a missing
// binary, is an external tool failure.
func (q *QPDFProtector) classify(ctx context.Context, err error, stderr string) error {
	if ctx.Err() != nil {
		return NewExternalToolError(q.tool(), "call cancelled or timed out", ctx.Err())
	}
	if strings.Contains(strings.ToLower(stderr), "invalid password") {
		return &IncorrectPasswordError{}
	}
	if _, ok := err.(*exec.ExitError); ok {
		return NewExternalToolError(q.tool(), fmt.Sprintf("tool failed: %s", firstLine(stderr)), err)
	}
	return NewExternalToolError(q.tool(), "tool unavailable", err)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return "no diagnostic output"
	}
	return s
}
