package encryption

import "time"

// Operation labels for Result.Op.
const (
	OpEncrypt = "encrypt"
	OpDecrypt = "decrypt"
)

// Result describes the outcome of transforming a single file.
type Result struct {
	// Op is OpEncrypt or OpDecrypt.
	Op string

	// Input and Output are the source and destination paths.
	Input  string
	Output string

	// Size is the number of bytes written on success.
	Size int64

	// Took is how long the transform ran.
	Took time.Duration

	// Err is the failure, if any.
	Err error
}
