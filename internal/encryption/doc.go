// Package encryption seals files into authenticated ciphertext records and
// opens them again. Records use AES-256-GCM under a versioned envelope
// header; decryption fails closed on any truncation, tampering, or wrong
// key. Batch processing is concurrent with atomic per-file writes.
package encryption
