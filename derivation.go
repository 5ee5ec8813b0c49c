package tokenescrow

import (
	"crypto/sha256"

	"filippo.io/edwards25519"
	"github.com/iov-one/tokenescrow/errors"
)

const (
	// MaxSeeds is the maximum number of seeds a derived condition can be
	// built from.
	MaxSeeds = 16

	// MaxSeedLength is the maximum length of a single seed.
	MaxSeedLength = 32
)

// DeriveCondition deterministically computes a condition owned by the
// extension ext, for the purpose typ, from the given seeds.
//
// The search starts with bump 255 and goes down. The first bump for which
// the digest of the condition is not a valid ed25519 public key is
// returned together with the condition. No private key can exist for such
// a digest, so the only way to act on behalf of the derived address is to
// present the condition itself, which only the owning extension does.
//
// The same input always produces the same result.
func DeriveCondition(ext, typ string, seeds ...[]byte) (Condition, uint8, error) {
	data, err := joinSeeds(seeds)
	if err != nil {
		return nil, 0, err
	}
	for bump := 255; bump >= 0; bump-- {
		cond := NewCondition(ext, typ, append(data, byte(bump)))
		if !onCurve(cond) {
			return cond, uint8(bump), nil
		}
	}
	return nil, 0, errors.Wrap(errors.ErrInput, "no viable bump for seeds")
}

// DerivedCondition rebuilds a condition previously returned by
// DeriveCondition from its seeds and bump. It fails if the bump does not
// produce an off curve digest. It does not require the bump to be the
// canonical one, use DeriveCondition to compare.
func DerivedCondition(ext, typ string, bump uint8, seeds ...[]byte) (Condition, error) {
	data, err := joinSeeds(seeds)
	if err != nil {
		return nil, err
	}
	cond := NewCondition(ext, typ, append(data, bump))
	if onCurve(cond) {
		return nil, errors.Wrapf(errors.ErrInput, "bump %d produces a key on the curve", bump)
	}
	return cond, nil
}

// joinSeeds prefixes every seed with its length so that different seed
// splits never produce the same data.
func joinSeeds(seeds [][]byte) ([]byte, error) {
	if len(seeds) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "seeds")
	}
	if len(seeds) > MaxSeeds {
		return nil, errors.Wrapf(errors.ErrInput, "too many seeds: %d", len(seeds))
	}
	var data []byte
	for i, s := range seeds {
		if len(s) > MaxSeedLength {
			return nil, errors.Wrapf(errors.ErrInput, "seed %d too long: %d", i, len(s))
		}
		data = append(data, byte(len(s)))
		data = append(data, s...)
	}
	return data, nil
}

// onCurve returns true if the sha256 digest of the condition decodes to a
// valid ed25519 point.
func onCurve(c Condition) bool {
	h := sha256.Sum256(c)
	_, err := new(edwards25519.Point).SetBytes(h[:])
	return err == nil
}
