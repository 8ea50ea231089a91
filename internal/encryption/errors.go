package encryption

import "errors"

var (
	// ErrFormat is returned when a ciphertext record is truncated, carries
	// the wrong magic, or an unknown version or flag set.
	ErrFormat = errors.New("malformed ciphertext record")
	// ErrAuthentication is returned when tag verification fails: the key is
	// wrong, or the record was tampered with or corrupted.
	ErrAuthentication = errors.New("authentication failed")
)
