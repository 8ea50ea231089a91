package encryption

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ninja-atmos/pixlock/internal/fileutil"
	"github.com/ninja-atmos/pixlock/internal/keystore"
)

// EncryptFile reads src fully into memory, seals it with key, and writes
// the ciphertext record to dst. The source file is never modified.
func EncryptFile(src, dst string, key keystore.Key) error {
	engine, err := NewEngine(key)
	if err != nil {
		return err
	}

	_, err = engine.encryptFile(src, dst, false)

	return err
}

// DecryptFile reads the ciphertext record at src, opens it with key, and
// writes the recovered plaintext to dst. On ErrFormat or ErrAuthentication
// no output file is left behind.
func DecryptFile(src, dst string, key keystore.Key) error {
	engine, err := NewEngine(key)
	if err != nil {
		return err
	}

	_, err = engine.decryptFile(src, dst, false)

	return err
}

const ownerReadWrite = os.FileMode(0o600)

// checkDistinct refuses transforms whose output would replace the input.
// The input file is never modified; a same-path write would atomically
// rename over it.
func checkDistinct(src, dst string) error {
	if filepath.Clean(dst) == filepath.Clean(src) {
		return fmt.Errorf("output %q would overwrite the input; choose a distinct suffix or path", dst)
	}

	return nil
}

// encryptFile performs one whole-file encrypt with an atomic write,
// returning the output size.
func (e *Engine) encryptFile(src, dst string, preserveTimestamps bool) (size int64, err error) {
	if err := checkDistinct(src, dst); err != nil {
		return 0, err
	}

	staged, err := fileutil.Stage(src, dst)
	if err != nil {
		return 0, fmt.Errorf("staging output: %w", err)
	}

	defer staged.Discard(&err)

	plaintext, err := os.ReadFile(filepath.Clean(src))
	if err != nil {
		return 0, fmt.Errorf("reading input: %w", err)
	}

	record, err := e.Seal(plaintext, staged.IsExec)
	if err != nil {
		return 0, err
	}

	if _, err = staged.File.Write(record); err != nil {
		return 0, fmt.Errorf("writing record: %w", err)
	}

	if err = staged.Commit(dst, ownerReadWrite); err != nil {
		return 0, err
	}

	return fileutil.Finalize(dst, preserveTimestamps, staged.SrcInfo.ModTime())
}

// decryptFile mirrors encryptFile; the staged temp file is discarded on any
// failure, including authentication failure, so a corrupt output is never
// left on disk.
func (e *Engine) decryptFile(src, dst string, preserveTimestamps bool) (size int64, err error) {
	if err := checkDistinct(src, dst); err != nil {
		return 0, err
	}

	staged, err := fileutil.Stage(src, dst)
	if err != nil {
		return 0, fmt.Errorf("staging output: %w", err)
	}

	defer staged.Discard(&err)

	record, err := os.ReadFile(filepath.Clean(src))
	if err != nil {
		return 0, fmt.Errorf("reading input: %w", err)
	}

	plaintext, executable, err := e.Open(record)
	if err != nil {
		return 0, err
	}

	if _, err = staged.File.Write(plaintext); err != nil {
		return 0, fmt.Errorf("writing plaintext: %w", err)
	}

	perm := ownerReadWrite

	if executable {
		perm |= 0o111
	}

	if err = staged.Commit(dst, perm); err != nil {
		return 0, err
	}

	return fileutil.Finalize(dst, preserveTimestamps, staged.SrcInfo.ModTime())
}
