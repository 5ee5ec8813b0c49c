package main

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iov-one/tokenescrow/crypto"
	"github.com/iov-one/tokenescrow/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeysNewAndShow(t *testing.T) {
	dir, err := ioutil.TempDir("", "escrowd-keys")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	home := filepath.Join(dir, "home")
	keyPath := filepath.Join(dir, "key.priv")
	seed := strings.Repeat("ab", 32)

	out := runRoot(t, "--home", home, "keys", "new", "--key", keyPath, "--seed", seed)

	want, err := crypto.DeriveEd25519(bytes.Repeat([]byte{0xab}, 32), crypto.DefaultHDPath)
	require.NoError(t, err)
	addr := want.PublicKey().Address()
	assert.Contains(t, out, addr.String())
	assert.Contains(t, out, addr.Bech32())

	key, err := readKey(keyPath)
	require.NoError(t, err)
	assert.Equal(t, want.GetEd25519(), key.GetEd25519())

	out = runRoot(t, "--home", home, "keys", "show", "--key", keyPath)
	assert.Contains(t, out, addr.String())

	// an existing key is never replaced silently
	root := rootCmd()
	root.SetArgs([]string{"--home", home, "keys", "new", "--key", keyPath})
	root.SetOut(ioutil.Discard)
	root.SetErr(ioutil.Discard)
	err = root.Execute()
	assert.True(t, errors.ErrDuplicate.Is(err))
}

func TestReadKeyErrors(t *testing.T) {
	dir, err := ioutil.TempDir("", "escrowd-keys")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	_, err = readKey(filepath.Join(dir, "missing"))
	assert.True(t, errors.ErrNotFound.Is(err))

	short := filepath.Join(dir, "short")
	require.NoError(t, ioutil.WriteFile(short, []byte("abcd"), 0600))
	_, err = readKey(short)
	assert.True(t, errors.ErrInput.Is(err))

	garbage := filepath.Join(dir, "garbage")
	require.NoError(t, ioutil.WriteFile(garbage, []byte("not hex"), 0600))
	_, err = readKey(garbage)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestVersion(t *testing.T) {
	dir, err := ioutil.TempDir("", "escrowd-home")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	runRoot(t, "--home", dir, "version")
	// the first run writes the default configuration
	_, err = os.Stat(filepath.Join(dir, "escrowd.toml"))
	assert.NoError(t, err)
}

func runRoot(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := rootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	require.NoError(t, root.Execute())
	return out.String()
}
