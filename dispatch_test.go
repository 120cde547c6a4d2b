package docseal

import (
	"bytes"
	"context"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		filename string
		mime     string
		want     FileClassification
	}{
		{"report.pdf", "application/pdf", ClassPDF},
		{"report.pdf", "", ClassPDF},
		{"REPORT.PDF", "", ClassPDF},
		{"archive.tar.gz", "application/pdf", ClassPDF},
		{"archive.tar.gz", "APPLICATION/PDF", ClassPDF},
		{"notes.txt", "text/plain", ClassGeneric},
		{"notes.txt", "", ClassGeneric},
		{"pdf-guide.txt", "text/plain", ClassGeneric},
		{"", "", ClassGeneric},
		// Renamed non-PDFs are misrouted on purpose; the rule is declared
		// type and extension, never content.
		{"actually-a-png.pdf", "", ClassPDF},
	}

	for _, tt := range tests {
		if got := Classify(tt.filename, tt.mime); got != tt.want {
			t.Errorf("Classify(%q, %q) = %s, want %s", tt.filename, tt.mime, got, tt.want)
		}
	}
}

// fakePDFProtector records its inputs and returns canned output
type fakePDFProtector struct {
	gotPDF      []byte
	gotPassword []byte
	gotKeyLen   KeyLength
	output      []byte
	err         error
}

func (f *fakePDFProtector) Protect(ctx context.Context, pdf, password []byte, keyLength KeyLength) ([]byte, error) {
	f.gotPDF = pdf
	f.gotPassword = password
	f.gotKeyLen = keyLength
	return f.output, f.err
}

func (f *fakePDFProtector) Unprotect(ctx context.Context, pdf, password []byte) ([]byte, error) {
	f.gotPDF = pdf
	f.gotPassword = password
	return f.output, f.err
}

func newTestDispatcher(t *testing.T, pdf PDFProtector) *Dispatcher {
	t.Helper()
	engine := newTestEngine(t, CipherAES256GCM)
	dispatcher, err := NewDispatcher(&DispatcherConfig{Engine: engine, PDF: pdf})
	if err != nil {
		t.Fatalf("NewDispatcher failed: %v", err)
	}
	return dispatcher
}

func TestDispatcherPDFPassThrough(t *testing.T) {
	fake := &fakePDFProtector{output: []byte("protected pdf bytes")}
	dispatcher := newTestDispatcher(t, fake)

	pdf := []byte("%PDF-1.7 original")
	password := []byte("hunter2")

	result, err := dispatcher.Protect(context.Background(), "contract.pdf", "application/pdf", pdf, password)
	if err != nil {
		t.Fatalf("Protect failed: %v", err)
	}

	if result.Class != ClassPDF {
		t.Errorf("class: got %s, want pdf", result.Class)
	}
	// Bytes and password reach the collaborator verbatim, and its output
	// is passed straight through without re-wrapping.
	if !bytes.Equal(fake.gotPDF, pdf) {
		t.Error("PDF bytes were modified before reaching the protector")
	}
	if !bytes.Equal(fake.gotPassword, password) {
		t.Error("password was modified before reaching the protector")
	}
	if fake.gotKeyLen != KeyLength256 {
		t.Errorf("key length: got %d, want %d", fake.gotKeyLen, KeyLength256)
	}
	if !bytes.Equal(result.Data, fake.output) {
		t.Error("protector output was modified on the way back")
	}
	if result.OutputName != "contract.pdf" {
		t.Errorf("output name: got %q, want %q", result.OutputName, "contract.pdf")
	}
}

func TestDispatcherGenericRoundTrip(t *testing.T) {
	dispatcher := newTestDispatcher(t, nil)
	data := []byte("spreadsheet bytes")
	password := []byte("hunter2")

	sealed, err := dispatcher.Protect(context.Background(), "budget.xlsx", "application/vnd.ms-excel", data, password)
	if err != nil {
		t.Fatalf("Protect failed: %v", err)
	}

	if sealed.Class != ClassGeneric {
		t.Errorf("class: got %s, want generic", sealed.Class)
	}
	if sealed.OutputName != "budget.xlsx.sealed" {
		t.Errorf("output name: got %q, want %q", sealed.OutputName, "budget.xlsx.sealed")
	}

	recovered, err := dispatcher.Unprotect(context.Background(), sealed.OutputName, "", sealed.Data, password)
	if err != nil {
		t.Fatalf("Unprotect failed: %v", err)
	}
	if !bytes.Equal(recovered.Data, data) {
		t.Error("round trip mismatch")
	}
	// Name restored from the embedded metadata.
	if recovered.OutputName != "budget.xlsx" {
		t.Errorf("restored name: got %q, want %q", recovered.OutputName, "budget.xlsx")
	}
}

func TestDispatcherUnprotectNameWithoutMetadata(t *testing.T) {
	// A container sealed without metadata falls back to suffix stripping.
	engine := newTestEngine(t, CipherAES256GCM)
	dispatcher := newTestDispatcher(t, nil)

	sealed, err := engine.Encrypt([]byte("data"), []byte("hunter2"), nil)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	result, err := dispatcher.Unprotect(context.Background(), "data.bin.sealed", "", sealed, []byte("hunter2"))
	if err != nil {
		t.Fatalf("Unprotect failed: %v", err)
	}
	if result.OutputName != "data.bin" {
		t.Errorf("output name: got %q, want %q", result.OutputName, "data.bin")
	}
}

func TestDispatcherNoPDFProtector(t *testing.T) {
	dispatcher := newTestDispatcher(t, nil)

	_, err := dispatcher.Protect(context.Background(), "contract.pdf", "", []byte("%PDF-"), []byte("hunter2"))
	if !IsExternalToolError(err) {
		t.Fatalf("got %v, want ExternalToolError", err)
	}

	_, err = dispatcher.Unprotect(context.Background(), "contract.pdf", "", []byte("%PDF-"), []byte("hunter2"))
	if !IsExternalToolError(err) {
		t.Fatalf("got %v, want ExternalToolError", err)
	}
}

func TestDispatcherPDFErrorsNotConflated(t *testing.T) {
	fake := &fakePDFProtector{err: NewExternalToolError("qpdf", "tool unavailable", nil)}
	dispatcher := newTestDispatcher(t, fake)

	_, err := dispatcher.Protect(context.Background(), "contract.pdf", "", []byte("%PDF-"), []byte("hunter2"))
	if !IsExternalToolError(err) {
		t.Errorf("got %v, want ExternalToolError", err)
	}
	if IsIncorrectPasswordError(err) {
		t.Error("tool failure must not look like a password failure")
	}
}

func TestNewDispatcherRejectsBadKeyLength(t *testing.T) {
	_, err := NewDispatcher(&DispatcherConfig{KeyLength: 192})
	if err == nil {
		t.Error("expected error for unsupported key length")
	}
}
