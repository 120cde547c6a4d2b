package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/docseal/docseal"
)

const version = "1.0.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Optional .env for DOCSEAL_PASSWORD in dev setups; absence is fine.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		return fmt.Errorf("no command specified")
	}

	switch os.Args[1] {
	case "seal":
		return runFiles(os.Args[2:], true)
	case "unseal":
		return runFiles(os.Args[2:], false)
	case "help", "--help", "-h":
		printUsage()
		return nil
	case "version", "--version", "-v":
		fmt.Fprintf(os.Stderr, "docseal version %s\n", version)
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", os.Args[1])
	}
}

func runFiles(args []string, seal bool) error {
	name := "unseal"
	if seal {
		name = "seal"
	}

	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	mime := flags.String("mime", "", "declared MIME type used for file classification")
	outDir := flags.String("out", "", "output directory (default: next to each input)")
	keyLength := flags.Int("key-length", 256, "PDF encryption key length (128 or 256)")
	qpdfPath := flags.String("qpdf", "", "path to the qpdf binary (default: qpdf from PATH)")
	timeout := flags.Duration("timeout", 2*time.Minute, "per-file timeout for the external PDF tool")
	if err := flags.Parse(args); err != nil {
		return err
	}

	files := flags.Args()
	if len(files) == 0 {
		return fmt.Errorf("no input files")
	}

	dispatcher, err := docseal.NewDispatcher(&docseal.DispatcherConfig{
		PDF:       docseal.NewQPDFProtector(*qpdfPath),
		KeyLength: docseal.KeyLength(*keyLength),
	})
	if err != nil {
		return err
	}

	password, err := getPassword(seal)
	if err != nil {
		return err
	}
	defer zeroBytes(password)

	failed := 0
	for _, file := range files {
		if err := processOne(dispatcher, file, *mime, *outDir, password, *timeout, seal); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", file, err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}

func processOne(dispatcher *docseal.Dispatcher, file, mime, outDir string, password []byte, timeout time.Duration, seal bool) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var result *docseal.Result
	if seal {
		result, err = dispatcher.Protect(ctx, filepath.Base(file), mime, data, password)
	} else {
		result, err = dispatcher.Unprotect(ctx, filepath.Base(file), mime, data, password)
	}
	if err != nil {
		return err
	}

	dir := outDir
	if dir == "" {
		dir = filepath.Dir(file)
	}
	outPath := filepath.Join(dir, result.OutputName)

	if err := os.WriteFile(outPath, result.Data, 0o600); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "%s -> %s (%s)\n", file, outPath, result.Class)
	return nil
}

func printUsage() {
	usage := `docseal - password protection for documents

USAGE:
    docseal <command> [options] <file>...

COMMANDS:
    seal        Protect files with a password
    unseal      Remove protection from files
    help        Show this help message
    version     Show version information

OPTIONS:
    --mime=TYPE       Declared MIME type used for classification
    --out=DIR         Output directory (default: next to each input)
    --key-length=N    PDF encryption key length, 128 or 256 (default: 256)
    --qpdf=PATH       Path to the qpdf binary (default: qpdf from PATH)
    --timeout=D       Per-file timeout for the external PDF tool (default: 2m)

PASSWORD:
    Set DOCSEAL_PASSWORD (also read from a local .env file), or enter it
    interactively. Sealing prompts twice to confirm.

ROUTING:
    Files with a PDF MIME type or a .pdf extension are protected natively
    via qpdf and keep their name. Everything else is sealed into an
    encrypted container with a .sealed suffix; unsealing restores the
    original name from the embedded metadata.

`
	fmt.Fprint(os.Stderr, usage)
}
