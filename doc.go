// Package docseal provides password-based protection for files, with a
// format-aware split: PDFs are handed to an external native PDF encryption
// tool, everything else is sealed in-process into an authenticated,
// self-describing container.
//
// # Overview
//
// The package has four parts. Classify decides whether a file is a PDF or
// generic, from its declared MIME type and filename only. Engine performs
// password-based authenticated encryption of whole byte buffers into the
// sealed container format. Dispatcher ties the two together, routing each
// file to the Engine or to a PDFProtector collaborator. Vault applies the
// dispatcher to files on an absfs filesystem, one at a time or in batches
// with per-file failure isolation.
//
// # Basic Usage
//
//	engine, _ := docseal.NewEngine(nil)
//
//	sealed, err := engine.Encrypt(data, []byte("password"), &docseal.FileMetadata{
//	    Filename: "report.xlsx",
//	    MIMEType: "application/vnd.ms-excel",
//	    Size:     uint64(len(data)),
//	})
//	if err != nil {
//	    // handle
//	}
//
//	plaintext, meta, err := engine.Decrypt(sealed, []byte("password"))
//
// PDF-aware routing goes through a Dispatcher:
//
//	dispatcher, _ := docseal.NewDispatcher(&docseal.DispatcherConfig{
//	    PDF: docseal.NewQPDFProtector(""),
//	})
//	result, err := dispatcher.Protect(ctx, "contract.pdf", "application/pdf", data, password)
//
// # Container Format
//
// Sealed files use the following layout (length fields little-endian):
//   - Magic (4 bytes): "DSL1"
//   - Metadata length (4 bytes): size L of the metadata block, 0 if none
//   - Metadata (L bytes): TLV entries for original filename, MIME type, size
//   - Salt (16 bytes): random salt for key derivation
//   - IV (12 bytes): random AEAD nonce
//   - Ciphertext (variable): AEAD output + 16-byte authentication tag
//
// Salt and IV are freshly random for every encryption, so sealing the same
// bytes twice never produces the same container. Keys are derived with
// PBKDF2-HMAC-SHA256 at 100,000 iterations; the iteration count and the
// default AES-256-GCM suite are fixed properties of the format, not
// recorded in the container.
//
// # Error Semantics
//
// Decryption failures are classified, and the distinction is load-bearing:
//
//   - MalformedContainerError: the bytes are not a valid container
//     (truncation, bad magic, inconsistent metadata length). Raised before
//     any key derivation.
//   - IncorrectPasswordError: the container is well-formed but the AEAD tag
//     did not verify. A wrong password and tampered ciphertext are
//     indistinguishable here, deliberately.
//   - CryptoBackendError: the primitives themselves failed. Fatal.
//   - ExternalToolError: the PDF tool failed or is unavailable. Never
//     conflated with a password failure.
//
// Nothing is retried internally: retrying does not change whether a
// password is correct.
package docseal
