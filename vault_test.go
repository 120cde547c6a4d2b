package docseal

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/absfs/absfs"
	"github.com/absfs/memfs"
)

func newTestVault(t *testing.T) (*Vault, absfs.FileSystem) {
	t.Helper()

	base, err := memfs.NewFS()
	if err != nil {
		t.Fatalf("failed to create memfs: %v", err)
	}

	engine := newTestEngine(t, CipherAES256GCM)
	dispatcher, err := NewDispatcher(&DispatcherConfig{Engine: engine})
	if err != nil {
		t.Fatalf("NewDispatcher failed: %v", err)
	}

	vault, err := NewVault(&VaultConfig{FS: base, Dispatcher: dispatcher})
	if err != nil {
		t.Fatalf("NewVault failed: %v", err)
	}
	return vault, base
}

func writeTestFile(t *testing.T, fs absfs.FileSystem, path string, data []byte) {
	t.Helper()

	f, err := fs.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	if _, err := f.Write(data); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("failed to close %s: %v", path, err)
	}
}

func readTestFile(t *testing.T, fs absfs.FileSystem, path string) []byte {
	t.Helper()

	f, err := fs.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(f); err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return buf.Bytes()
}

func TestVaultProtectFileRoundTrip(t *testing.T) {
	vault, fs := newTestVault(t)
	ctx := context.Background()
	password := []byte("hunter2")
	data := []byte("notes about the offsite")

	writeTestFile(t, fs, "/notes.txt", data)

	outPath, err := vault.ProtectFile(ctx, "/notes.txt", "text/plain", password)
	if err != nil {
		t.Fatalf("ProtectFile failed: %v", err)
	}
	if outPath != "/notes.txt.sealed" {
		t.Errorf("output path: got %q, want %q", outPath, "/notes.txt.sealed")
	}

	sealed := readTestFile(t, fs, outPath)
	if bytes.Contains(sealed, data) {
		t.Error("sealed file contains plaintext")
	}

	recoveredPath, err := vault.UnprotectFile(ctx, outPath, "", password)
	if err != nil {
		t.Fatalf("UnprotectFile failed: %v", err)
	}
	if recoveredPath != "/notes.txt" {
		t.Errorf("recovered path: got %q, want %q", recoveredPath, "/notes.txt")
	}
	if got := readTestFile(t, fs, recoveredPath); !bytes.Equal(got, data) {
		t.Errorf("round trip mismatch: got %q, want %q", got, data)
	}
}

func TestVaultProtectFileMissingInput(t *testing.T) {
	vault, _ := newTestVault(t)

	_, err := vault.ProtectFile(context.Background(), "/does-not-exist.txt", "", []byte("hunter2"))
	if err == nil {
		t.Fatal("expected error for missing input file")
	}
}

func TestVaultBatchIsolation(t *testing.T) {
	vault, fs := newTestVault(t)
	ctx := context.Background()
	password := []byte("hunter2")

	writeTestFile(t, fs, "/a.txt", []byte("file a"))
	writeTestFile(t, fs, "/c.txt", []byte("file c"))

	items := []BatchItem{
		{Path: "/a.txt", DeclaredMIME: "text/plain"},
		{Path: "/b.txt", DeclaredMIME: "text/plain"}, // missing on purpose
		{Path: "/c.txt", DeclaredMIME: "text/plain"},
	}

	results := vault.ProtectBatch(ctx, items, password)
	if len(results) != len(items) {
		t.Fatalf("got %d results, want %d", len(results), len(items))
	}

	// One failing file must not drag down its siblings.
	if results[0].Err != nil {
		t.Errorf("item 0 failed: %v", results[0].Err)
	}
	if results[1].Err == nil {
		t.Error("item 1 should have failed")
	}
	if results[2].Err != nil {
		t.Errorf("item 2 failed: %v", results[2].Err)
	}

	for i, r := range results {
		if r.Path != items[i].Path {
			t.Errorf("result %d out of order: got %q, want %q", i, r.Path, items[i].Path)
		}
		if r.ID == "" {
			t.Errorf("result %d has no id", i)
		}
	}

	if got := readTestFile(t, fs, results[0].OutputPath); len(got) == 0 {
		t.Error("item 0 produced no output")
	}
}

func TestVaultBatchWrongPasswordIsolation(t *testing.T) {
	vault, fs := newTestVault(t)
	ctx := context.Background()

	writeTestFile(t, fs, "/a.txt", []byte("file a"))
	writeTestFile(t, fs, "/b.txt", []byte("file b"))

	sealAll := vault.ProtectBatch(ctx, []BatchItem{{Path: "/a.txt"}, {Path: "/b.txt"}}, []byte("correct"))
	for i, r := range sealAll {
		if r.Err != nil {
			t.Fatalf("seal item %d failed: %v", i, r.Err)
		}
	}

	// Re-seal one input under another password, then unseal everything
	// with the first one: only the mismatched file fails, and it fails as
	// a password error.
	writeTestFile(t, fs, "/c.txt", []byte("file c"))
	other := vault.ProtectBatch(ctx, []BatchItem{{Path: "/c.txt"}}, []byte("different"))
	if other[0].Err != nil {
		t.Fatalf("seal of /c.txt failed: %v", other[0].Err)
	}

	results := vault.UnprotectBatch(ctx, []BatchItem{
		{Path: sealAll[0].OutputPath},
		{Path: other[0].OutputPath},
		{Path: sealAll[1].OutputPath},
	}, []byte("correct"))

	if results[0].Err != nil {
		t.Errorf("item 0 failed: %v", results[0].Err)
	}
	if !IsIncorrectPasswordError(results[1].Err) {
		t.Errorf("item 1: got %v, want IncorrectPasswordError", results[1].Err)
	}
	if results[2].Err != nil {
		t.Errorf("item 2 failed: %v", results[2].Err)
	}
}

func TestVaultBatchEmpty(t *testing.T) {
	vault, _ := newTestVault(t)

	results := vault.ProtectBatch(context.Background(), nil, []byte("hunter2"))
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}

func TestVaultBatchCancelledContext(t *testing.T) {
	vault, fs := newTestVault(t)
	writeTestFile(t, fs, "/a.txt", []byte("file a"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := vault.ProtectBatch(ctx, []BatchItem{{Path: "/a.txt"}}, []byte("hunter2"))
	if results[0].Err == nil {
		t.Error("expected context error for cancelled batch")
	}
}

func TestNewVaultRequiresFS(t *testing.T) {
	if _, err := NewVault(nil); err == nil {
		t.Error("expected error for nil config")
	}
	if _, err := NewVault(&VaultConfig{}); err == nil {
		t.Error("expected error for nil filesystem")
	}
}
