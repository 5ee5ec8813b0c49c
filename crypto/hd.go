package crypto

import (
	"github.com/iov-one/tokenescrow/errors"
	"github.com/stellar/go/exp/crypto/derivation"
)

// DefaultHDPath is the SLIP-0010 path used by the command line tools when
// none is given.
const DefaultHDPath = "m/44'/234'/0'"

// DeriveEd25519 derives a private key from a master seed following the
// SLIP-0010 ed25519 scheme for the given hardened path.
func DeriveEd25519(seed []byte, path string) (*PrivateKey, error) {
	k, err := derivation.DeriveForPath(path, seed)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "derive path %q: %s", path, err)
	}
	return PrivKeyEd25519FromSeed(k.Key), nil
}
