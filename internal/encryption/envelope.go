package encryption

import (
	"bytes"
	"fmt"
)

const (
	envelopeMagic   = "PXLK"
	envelopeVersion = byte(1)

	// Sizes fixed by AES-256-GCM.
	envelopeNonceSize = 12
	envelopeTagSize   = 16

	envelopeFlagExec = 0x01
)

// Header layout: magic ‖ version ‖ flags. The header is passed to the AEAD
// as associated data, so the tag also covers it.
const envelopeHeaderSize = len(envelopeMagic) + 2

// envelopeMinSize is the smallest valid record: header, nonce, and tag
// around an empty payload.
const envelopeMinSize = envelopeHeaderSize + envelopeNonceSize + envelopeTagSize

func newEnvelopeHeader(executable bool) []byte {
	header := make([]byte, envelopeHeaderSize)
	copy(header, envelopeMagic)

	header[len(envelopeMagic)] = envelopeVersion

	var flags byte

	if executable {
		flags |= envelopeFlagExec
	}

	header[len(envelopeMagic)+1] = flags

	return header
}

// parseEnvelopeHeader validates the record header and returns whether the
// original file was executable. All failures wrap ErrFormat.
func parseEnvelopeHeader(header []byte) (bool, error) {
	if len(header) != envelopeHeaderSize {
		return false, fmt.Errorf("%w: header too short", ErrFormat)
	}

	if !bytes.Equal(header[:len(envelopeMagic)], []byte(envelopeMagic)) {
		return false, fmt.Errorf("%w: invalid magic", ErrFormat)
	}

	if version := header[len(envelopeMagic)]; version != envelopeVersion {
		return false, fmt.Errorf("%w: unsupported version %d", ErrFormat, version)
	}

	flags := header[len(envelopeMagic)+1]
	if flags&^byte(envelopeFlagExec) != 0 {
		return false, fmt.Errorf("%w: unknown flags 0x%02x", ErrFormat, flags)
	}

	return flags&envelopeFlagExec != 0, nil
}
