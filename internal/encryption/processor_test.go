package encryption

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ninja-atmos/pixlock/internal/config"
	"github.com/ninja-atmos/pixlock/internal/keystore"
)

func batchConfig(files []string) *config.Config {
	return &config.Config{
		KeyFile:       "unused",
		Parallel:      2,
		EncryptSuffix: ".enc",
		Files:         files,
	}
}

func TestProcessorBatchRoundTrip(t *testing.T) {
	dir := t.TempDir()

	key, err := keystore.LoadOrCreate(filepath.Join(dir, "secret.key"))
	require.NoError(t, err)

	contents := map[string][]byte{
		"a.png": []byte("first image"),
		"b.jpg": []byte("second image"),
		"c.gif": {},
	}

	var files []string

	for name, data := range contents {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, data, 0o600))
		files = append(files, path)
	}

	cfg := batchConfig(files)

	proc, err := NewProcessor(cfg, key, zerolog.Nop())
	require.NoError(t, err)

	processed, errored, totalSize, err := proc.ProcessFiles()
	require.NoError(t, err)
	assert.Equal(t, len(contents), processed)
	assert.Zero(t, errored)
	assert.Positive(t, totalSize)

	// Decrypt into fresh names by removing the originals first.
	var encrypted []string

	for name := range contents {
		require.NoError(t, os.Remove(filepath.Join(dir, name)))
		encrypted = append(encrypted, filepath.Join(dir, name+".enc"))
	}

	decCfg := batchConfig(encrypted)
	decCfg.Decrypt = true

	proc, err = NewProcessor(decCfg, key, zerolog.Nop())
	require.NoError(t, err)

	processed, errored, _, err = proc.ProcessFiles()
	require.NoError(t, err)
	assert.Equal(t, len(contents), processed)
	assert.Zero(t, errored)

	for name, data := range contents {
		restored, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Equal(t, data, restored, name)
	}
}

func TestProcessorCountsPerFileErrors(t *testing.T) {
	dir := t.TempDir()

	key, err := keystore.LoadOrCreate(filepath.Join(dir, "secret.key"))
	require.NoError(t, err)

	good := filepath.Join(dir, "ok.png")
	require.NoError(t, os.WriteFile(good, []byte("fine"), 0o600))

	cfg := batchConfig([]string{good, filepath.Join(dir, "missing.png")})

	proc, err := NewProcessor(cfg, key, zerolog.Nop())
	require.NoError(t, err)

	processed, errored, _, err := proc.ProcessFiles()
	require.Error(t, err, "a failed file must fail the batch")
	assert.Equal(t, 1, processed, "remaining files still process")
	assert.Equal(t, 1, errored)

	_, statErr := os.Stat(good + ".enc")
	assert.NoError(t, statErr)
}

func TestProcessorDeletesSourcesWhenAsked(t *testing.T) {
	dir := t.TempDir()

	key, err := keystore.LoadOrCreate(filepath.Join(dir, "secret.key"))
	require.NoError(t, err)

	src := filepath.Join(dir, "gone.png")
	require.NoError(t, os.WriteFile(src, []byte("to be deleted"), 0o600))

	cfg := batchConfig([]string{src})
	cfg.Delete = true

	proc, err := NewProcessor(cfg, key, zerolog.Nop())
	require.NoError(t, err)

	_, _, _, err = proc.ProcessFiles()
	require.NoError(t, err)

	_, statErr := os.Stat(src)
	assert.True(t, os.IsNotExist(statErr), "source must be deleted after success")

	_, statErr = os.Stat(src + ".enc")
	assert.NoError(t, statErr)
}

func TestProcessorDecryptWithoutSuffixKeepsInput(t *testing.T) {
	dir := t.TempDir()

	key, err := keystore.LoadOrCreate(filepath.Join(dir, "secret.key"))
	require.NoError(t, err)

	// No encrypt suffix to strip and an empty decrypt suffix: the output
	// path collapses onto the input, which must be refused, not replaced.
	src := filepath.Join(dir, "cat.bin")
	record := []byte("pretend ciphertext")
	require.NoError(t, os.WriteFile(src, record, 0o600))

	cfg := batchConfig([]string{src})
	cfg.Decrypt = true

	proc, err := NewProcessor(cfg, key, zerolog.Nop())
	require.NoError(t, err)

	processed, errored, _, err := proc.ProcessFiles()
	require.Error(t, err)
	assert.Zero(t, processed)
	assert.Equal(t, 1, errored)

	data, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, record, data, "input must be left untouched")
}

func TestProcessorOutputPathSuffixes(t *testing.T) {
	encCfg := batchConfig(nil)
	proc := &Processor{cfg: encCfg}

	assert.Equal(t, filepath.Join("pics", "cat.png.enc"), proc.outputPath(filepath.Join("pics", "cat.png")))

	decCfg := batchConfig(nil)
	decCfg.Decrypt = true
	decCfg.DecryptSuffix = ".out"
	proc = &Processor{cfg: decCfg}

	assert.Equal(t, filepath.Join("pics", "cat.png.out"), proc.outputPath(filepath.Join("pics", "cat.png.enc")))
}
