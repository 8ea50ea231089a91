package encryption

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ninja-atmos/pixlock/internal/keystore"
)

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()

	key, err := keystore.LoadOrCreate(filepath.Join(dir, "secret.key"))
	require.NoError(t, err)

	src := filepath.Join(dir, "img.png")
	enc := filepath.Join(dir, "img.png.enc")
	dec := filepath.Join(dir, "img-restored.png")

	payload := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	require.NoError(t, os.WriteFile(src, payload, 0o600))

	require.NoError(t, EncryptFile(src, enc, key))

	record, err := os.ReadFile(enc)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(record), envelopeMagic))
	assert.NotContains(t, string(record), string(payload), "record must not embed the plaintext")

	// Source must be untouched.
	original, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, payload, original)

	require.NoError(t, DecryptFile(enc, dec, key))

	restored, err := os.ReadFile(dec)
	require.NoError(t, err)
	assert.Equal(t, payload, restored)
}

func TestFileRoundTripEmptyFile(t *testing.T) {
	dir := t.TempDir()

	key, err := keystore.LoadOrCreate(filepath.Join(dir, "secret.key"))
	require.NoError(t, err)

	src := filepath.Join(dir, "empty.bin")
	enc := filepath.Join(dir, "empty.bin.enc")
	dec := filepath.Join(dir, "empty-out.bin")

	require.NoError(t, os.WriteFile(src, nil, 0o600))
	require.NoError(t, EncryptFile(src, enc, key))
	require.NoError(t, DecryptFile(enc, dec, key))

	restored, err := os.ReadFile(dec)
	require.NoError(t, err)
	assert.Empty(t, restored)
}

func TestDecryptFileFailsClosedOnTampering(t *testing.T) {
	dir := t.TempDir()

	key, err := keystore.LoadOrCreate(filepath.Join(dir, "secret.key"))
	require.NoError(t, err)

	src := filepath.Join(dir, "img.png")
	enc := filepath.Join(dir, "img.png.enc")
	dec := filepath.Join(dir, "img-out.png")

	require.NoError(t, os.WriteFile(src, []byte("image bytes"), 0o600))
	require.NoError(t, EncryptFile(src, enc, key))

	record, err := os.ReadFile(enc)
	require.NoError(t, err)
	record[len(record)-1] ^= 0xff
	require.NoError(t, os.WriteFile(enc, record, 0o600))

	err = DecryptFile(enc, dec, key)
	require.ErrorIs(t, err, ErrAuthentication)

	_, statErr := os.Stat(dec)
	assert.True(t, os.IsNotExist(statErr), "no output may be left after a failed decrypt")

	leftovers, err := filepath.Glob(filepath.Join(dir, ".tmp-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers, "temp files must be cleaned up")
}

func TestDecryptFileRejectsShortInput(t *testing.T) {
	dir := t.TempDir()

	key, err := keystore.LoadOrCreate(filepath.Join(dir, "secret.key"))
	require.NoError(t, err)

	enc := filepath.Join(dir, "stub.enc")
	require.NoError(t, os.WriteFile(enc, []byte{1, 2, 3}, 0o600))

	err = DecryptFile(enc, filepath.Join(dir, "out.bin"), key)
	require.ErrorIs(t, err, ErrFormat)
}

func TestDecryptFileRejectsWrongKey(t *testing.T) {
	dir := t.TempDir()

	key, err := keystore.LoadOrCreate(filepath.Join(dir, "one.key"))
	require.NoError(t, err)

	other, err := keystore.LoadOrCreate(filepath.Join(dir, "two.key"))
	require.NoError(t, err)

	src := filepath.Join(dir, "img.png")
	enc := filepath.Join(dir, "img.png.enc")

	require.NoError(t, os.WriteFile(src, []byte("locked to one.key"), 0o600))
	require.NoError(t, EncryptFile(src, enc, key))

	err = DecryptFile(enc, filepath.Join(dir, "out.png"), other)
	require.ErrorIs(t, err, ErrAuthentication)
}

func TestRoundTripPreservesExecutableBit(t *testing.T) {
	dir := t.TempDir()

	key, err := keystore.LoadOrCreate(filepath.Join(dir, "secret.key"))
	require.NoError(t, err)

	src := filepath.Join(dir, "script.sh")
	enc := filepath.Join(dir, "script.sh.enc")
	dec := filepath.Join(dir, "script-out.sh")

	require.NoError(t, os.WriteFile(src, []byte("#!/bin/sh\n"), 0o755))
	require.NoError(t, EncryptFile(src, enc, key))
	require.NoError(t, DecryptFile(enc, dec, key))

	info, err := os.Stat(dec)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0o111, "executable bit must survive the round trip")
}

func TestTransformRefusesInPlaceOverwrite(t *testing.T) {
	dir := t.TempDir()

	key, err := keystore.LoadOrCreate(filepath.Join(dir, "secret.key"))
	require.NoError(t, err)

	src := filepath.Join(dir, "img.png")
	payload := []byte("must survive")
	require.NoError(t, os.WriteFile(src, payload, 0o600))

	require.Error(t, EncryptFile(src, src, key))
	require.Error(t, DecryptFile(src, src, key))

	data, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, payload, data, "input must never be modified")
}

func TestEncryptFileMissingInput(t *testing.T) {
	dir := t.TempDir()

	key, err := keystore.LoadOrCreate(filepath.Join(dir, "secret.key"))
	require.NoError(t, err)

	err = EncryptFile(filepath.Join(dir, "nope.png"), filepath.Join(dir, "nope.enc"), key)
	require.ErrorIs(t, err, os.ErrNotExist)
}
