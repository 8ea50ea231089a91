package encryption

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/tink-crypto/tink-go/v2/aead"
	"github.com/tink-crypto/tink-go/v2/insecurecleartextkeyset"
	"github.com/tink-crypto/tink-go/v2/keyset"
	aes_gcmpb "github.com/tink-crypto/tink-go/v2/proto/aes_gcm_go_proto"
	tinkpb "github.com/tink-crypto/tink-go/v2/proto/tink_go_proto"
	"github.com/tink-crypto/tink-go/v2/tink"

	"golang.org/x/crypto/hkdf"
	"google.golang.org/protobuf/proto"

	"github.com/ninja-atmos/pixlock/internal/keystore"
)

// Engine seals plaintexts into authenticated ciphertext records and opens
// them again. It is stateless apart from the derived cipher key and may be
// shared across goroutines.
type Engine struct {
	aead tink.AEAD
}

// NewEngine derives the record cipher key from the stored key and builds
// the AES-256-GCM primitive.
func NewEngine(key keystore.Key) (*Engine, error) {
	if len(key) != keystore.KeySize {
		return nil, fmt.Errorf("key must be %d bytes, got %d", keystore.KeySize, len(key))
	}

	cipherKey, err := deriveCipherKey(key)
	if err != nil {
		return nil, err
	}

	handle, err := newAEADKeyHandle(cipherKey)
	if err != nil {
		return nil, fmt.Errorf("creating keyset handle: %w", err)
	}

	primitive, err := aead.New(handle)
	if err != nil {
		return nil, fmt.Errorf("creating AEAD: %w", err)
	}

	return &Engine{aead: primitive}, nil
}

// Seal encrypts plaintext into a complete ciphertext record:
// magic ‖ version ‖ flags ‖ nonce ‖ ciphertext ‖ tag. The nonce is
// generated internally per call, so sealing the same plaintext twice
// yields different records.
func (e *Engine) Seal(plaintext []byte, executable bool) ([]byte, error) {
	header := newEnvelopeHeader(executable)

	body, err := e.aead.Encrypt(plaintext, header)
	if err != nil {
		return nil, fmt.Errorf("sealing record: %w", err)
	}

	return append(header, body...), nil
}

// Open verifies and decrypts a record produced by Seal, returning the
// plaintext and the recorded executable bit. Truncated or unrecognized
// records fail with ErrFormat; any tag mismatch (wrong key, bit flip)
// fails with ErrAuthentication and never yields partial plaintext.
func (e *Engine) Open(record []byte) ([]byte, bool, error) {
	if len(record) < envelopeHeaderSize {
		return nil, false, fmt.Errorf("%w: record truncated", ErrFormat)
	}

	header := record[:envelopeHeaderSize]

	executable, err := parseEnvelopeHeader(header)
	if err != nil {
		return nil, false, err
	}

	if len(record) < envelopeMinSize {
		return nil, false, fmt.Errorf("%w: record truncated", ErrFormat)
	}

	plaintext, err := e.aead.Decrypt(record[envelopeHeaderSize:], header)
	if err != nil {
		return nil, false, ErrAuthentication
	}

	return plaintext, executable, nil
}

// deriveCipherKey expands the stored key into the AES-GCM key with
// HKDF-SHA256. The info string domain-separates record encryption from any
// future use of the same key material.
func deriveCipherKey(key keystore.Key) ([]byte, error) {
	reader := hkdf.New(sha256.New, key, nil, []byte("pixlock/record/v1"))

	derived := make([]byte, keystore.KeySize)
	if _, err := io.ReadFull(reader, derived); err != nil {
		return nil, fmt.Errorf("deriving cipher key: %w", err)
	}

	return derived, nil
}

// newAEADKeyHandle creates a Tink keyset handle for AES-GCM from raw key
// bytes. RAW output prefix keeps the wire format at nonce ‖ ciphertext ‖ tag
// with nothing Tink-specific prepended.
func newAEADKeyHandle(key []byte) (*keyset.Handle, error) {
	aesGcmKey := &aes_gcmpb.AesGcmKey{
		Version:  0,
		KeyValue: key,
	}

	serializedKey, err := proto.Marshal(aesGcmKey)
	if err != nil {
		return nil, fmt.Errorf("serializing AesGcmKey: %w", err)
	}

	keyData := &tinkpb.KeyData{
		TypeUrl:         "type.googleapis.com/google.crypto.tink.AesGcmKey",
		Value:           serializedKey,
		KeyMaterialType: tinkpb.KeyData_SYMMETRIC,
	}

	keySet := &tinkpb.Keyset{
		PrimaryKeyId: 1,
		Key: []*tinkpb.Keyset_Key{
			{
				KeyData:          keyData,
				Status:           tinkpb.KeyStatusType_ENABLED,
				KeyId:            1,
				OutputPrefixType: tinkpb.OutputPrefixType_RAW,
			},
		},
	}

	serializedKeyset, err := proto.Marshal(keySet)
	if err != nil {
		return nil, fmt.Errorf("serializing keyset: %w", err)
	}

	handle, err := insecurecleartextkeyset.Read(
		keyset.NewBinaryReader(bytes.NewReader(serializedKeyset)))
	if err != nil {
		return nil, fmt.Errorf("reading keyset: %w", err)
	}

	return handle, nil
}
