package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ninja-atmos/pixlock/internal/commands"
	"github.com/ninja-atmos/pixlock/internal/keystore"
)

func runKeygen(t *testing.T, args ...string) string {
	t.Helper()

	root := commands.NewRootCommand("test")

	var out bytes.Buffer

	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"keygen"}, args...))

	require.NoError(t, root.Execute())

	return out.String()
}

func TestKeygenCreatesKeyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret.key")

	out := runKeygen(t, "--key-file", path)
	assert.Contains(t, out, "Generated new key file")
	assert.NotContains(t, out, "exists")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, data, keystore.KeySize)
	assert.NotContains(t, out, string(data), "key material must never be printed")
}

func TestKeygenKeepsExistingKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret.key")

	runKeygen(t, "--key-file", path)

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	out := runKeygen(t, "--key-file", path)
	assert.Contains(t, out, "already exists")

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestKeygenQuietSuppressesOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret.key")

	out := runKeygen(t, "--key-file", path, "--quiet")
	assert.Empty(t, out)

	_, err := os.Stat(path)
	require.NoError(t, err, "quiet mode still creates the key")
}
