package docseal

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/absfs/absfs"
	"github.com/google/uuid"
)

// VaultConfig configures a Vault
type VaultConfig struct {
	// FS is the filesystem files are read from and written to. Required.
	FS absfs.FileSystem

	// Dispatcher routes files by type. Defaults to a dispatcher with a
	// default engine and no PDF protector.
	Dispatcher *Dispatcher

	// MaxWorkers bounds batch concurrency. Zero means runtime.NumCPU().
	MaxWorkers int
}

// Vault applies password protection to files on a filesystem, one file or
// a batch at a time. Batch processing isolates failures: one file's error
// never aborts its siblings.
type Vault struct {
	fs         absfs.FileSystem
	dispatcher *Dispatcher
	maxWorkers int
}

// NewVault creates a vault from the given configuration
func NewVault(config *VaultConfig) (*Vault, error) {
	if config == nil || config.FS == nil {
		return nil, fmt.Errorf("vault filesystem cannot be nil")
	}

	dispatcher := config.Dispatcher
	if dispatcher == nil {
		var err error
		dispatcher, err = NewDispatcher(nil)
		if err != nil {
			return nil, err
		}
	}

	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}

	return &Vault{fs: config.FS, dispatcher: dispatcher, maxWorkers: maxWorkers}, nil
}

// BatchItem names one file in a batch
type BatchItem struct {
	Path         string // Path on the vault filesystem
	DeclaredMIME string // Declared MIME type, may be empty
}

// BatchResult is the per-file outcome of a batch operation
type BatchResult struct {
	ID         string             // Unique id for reporting
	Path       string             // Input path
	OutputPath string             // Path the result was written to, if Err is nil
	Class      FileClassification // How the file was routed, if Err is nil
	Err        error              // Per-file failure, nil on success
}

// ProtectFile protects a single file and writes the result next to the
// input under the dispatcher's naming policy. It returns the output path.
func (v *Vault) ProtectFile(ctx context.Context, path, declaredMIME string, password []byte) (string, error) {
	out, _, err := v.processFile(ctx, path, declaredMIME, password, v.dispatcher.Protect)
	return out, err
}

// UnprotectFile reverses ProtectFile for a single file
func (v *Vault) UnprotectFile(ctx context.Context, path, declaredMIME string, password []byte) (string, error) {
	out, _, err := v.processFile(ctx, path, declaredMIME, password, v.dispatcher.Unprotect)
	return out, err
}

// ProtectBatch protects every file in the batch, running items on a
// bounded worker pool. The returned slice has one result per item, in
// input order.
func (v *Vault) ProtectBatch(ctx context.Context, items []BatchItem, password []byte) []BatchResult {
	return v.processBatch(ctx, items, password, v.dispatcher.Protect)
}

// UnprotectBatch reverses ProtectBatch
func (v *Vault) UnprotectBatch(ctx context.Context, items []BatchItem, password []byte) []BatchResult {
	return v.processBatch(ctx, items, password, v.dispatcher.Unprotect)
}

type dispatchFunc func(ctx context.Context, filename, declaredMIME string, data, password []byte) (*Result, error)

func (v *Vault) processFile(ctx context.Context, path, declaredMIME string, password []byte, op dispatchFunc) (string, FileClassification, error) {
	data, err := v.readFile(path)
	if err != nil {
		return "", ClassGeneric, err
	}

	result, err := op(ctx, filepath.Base(path), declaredMIME, data, password)
	if err != nil {
		return "", ClassGeneric, err
	}

	outPath := filepath.Join(filepath.Dir(path), result.OutputName)
	if err := v.writeFile(outPath, result.Data); err != nil {
		return "", result.Class, err
	}
	return outPath, result.Class, nil
}

func (v *Vault) processBatch(ctx context.Context, items []BatchItem, password []byte, op dispatchFunc) []BatchResult {
	results := make([]BatchResult, len(items))
	for i, item := range items {
		results[i] = BatchResult{ID: uuid.NewString(), Path: item.Path}
	}
	if len(items) == 0 {
		return results
	}

	numWorkers := v.maxWorkers
	if numWorkers > len(items) {
		numWorkers = len(items)
	}

	var wg sync.WaitGroup
	jobChan := make(chan int, len(items))

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				v.runJob(ctx, items[idx], password, op, &results[idx])
			}
		}()
	}

	for i := range items {
		jobChan <- i
	}
	close(jobChan)
	wg.Wait()

	return results
}

// runJob processes one batch item, converting panics to per-item errors so
// a single bad file cannot take down the whole batch.
func (v *Vault) runJob(ctx context.Context, item BatchItem, password []byte, op dispatchFunc, result *BatchResult) {
	defer func() {
		if r := recover(); r != nil {
			result.Err = fmt.Errorf("panic while processing %s: %v", item.Path, r)
		}
	}()

	if err := ctx.Err(); err != nil {
		result.Err = err
		return
	}

	outPath, class, err := v.processFile(ctx, item.Path, item.DeclaredMIME, password, op)
	if err != nil {
		result.Err = err
		return
	}
	result.OutputPath = outPath
	result.Class = class
}

func (v *Vault) readFile(path string) ([]byte, error) {
	f, err := v.fs.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (v *Vault) writeFile(path string, data []byte) error {
	f, err := v.fs.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
