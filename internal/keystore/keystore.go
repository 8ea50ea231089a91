// Package keystore owns the lifecycle of the single symmetric key:
// generate it once, persist it, and load it on every later run.
package keystore

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// KeySize is the required size of the raw key file in bytes.
const KeySize = 32

// DefaultPath is the key file created next to the binary when no
// explicit path is given.
const DefaultPath = "secret.key"

// ErrKeyStore indicates a missing, corrupt, or unreadable key file.
var ErrKeyStore = errors.New("keystore error")

// Key holds the raw symmetric key material. It is immutable after
// creation and safe to share read-only across goroutines.
type Key []byte

// LoadOrCreate returns the key stored at path, generating and persisting
// a fresh one if the file does not exist yet.
//
// An existing file must contain exactly KeySize raw bytes; anything else
// fails with ErrKeyStore rather than silently generating a replacement,
// since a replacement key would orphan every previously encrypted file.
func LoadOrCreate(path string) (Key, error) {
	data, err := os.ReadFile(filepath.Clean(path))

	switch {
	case err == nil:
		if len(data) != KeySize {
			return nil, fmt.Errorf("%w: key file %q holds %d bytes, want %d",
				ErrKeyStore, path, len(data), KeySize)
		}

		return Key(data), nil

	case errors.Is(err, fs.ErrNotExist):
		return create(path)

	default:
		return nil, fmt.Errorf("%w: reading key file %q: %w", ErrKeyStore, path, err)
	}
}

// create generates a new key and writes it to path with owner-only
// permissions. O_EXCL guards against a concurrent first run: if another
// process won the race, its key is loaded instead.
func create(path string) (Key, error) {
	key := make(Key, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("%w: generating key: %w", ErrKeyStore, err)
	}

	const ownerReadWrite = 0o600

	file, err := os.OpenFile(filepath.Clean(path), os.O_WRONLY|os.O_CREATE|os.O_EXCL, ownerReadWrite)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return LoadOrCreate(path)
		}

		return nil, fmt.Errorf("%w: creating key file %q: %w", ErrKeyStore, path, err)
	}

	if _, err := file.Write(key); err != nil {
		file.Close()
		os.Remove(path)

		return nil, fmt.Errorf("%w: writing key file %q: %w", ErrKeyStore, path, err)
	}

	if err := file.Close(); err != nil {
		os.Remove(path)

		return nil, fmt.Errorf("%w: closing key file %q: %w", ErrKeyStore, path, err)
	}

	return key, nil
}
