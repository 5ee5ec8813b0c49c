package orm

import (
	"encoding/binary"

	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/errors"
)

// Sequence maintains a counter, and generates a
// series of keys. Each key is greater than the last,
// both NextInt() as well as bytes.Compare() on NextVal().
type Sequence struct {
	id []byte
}

// NewSequence returns a sequence counter stored under
//    _s.<bucket>:<name>
func NewSequence(bucket, name string) Sequence {
	return Sequence{
		id: []byte("_s." + bucket + ":" + name),
	}
}

// NextVal increments the sequence and returns its state as 8 bytes.
func (s Sequence) NextVal(db tokenescrow.KVStore) ([]byte, error) {
	val, err := s.NextInt(db)
	if err != nil {
		return nil, err
	}
	return EncodeSequence(val), nil
}

// NextInt increments the sequence and returns its state.
func (s Sequence) NextInt(db tokenescrow.KVStore) (uint64, error) {
	val, err := s.Latest(db)
	if err != nil {
		return 0, err
	}
	val++
	if val == 0 {
		return 0, errors.Wrap(errors.ErrOverflow, "sequence")
	}
	if err := db.Set(s.id, EncodeSequence(val)); err != nil {
		return 0, errors.Wrap(err, "save sequence")
	}
	return val, nil
}

// Latest returns the recently returned value of the sequence without
// modifying it.
func (s Sequence) Latest(db tokenescrow.ReadOnlyKVStore) (uint64, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, err
	}
	return DecodeSequence(raw)
}

// DecodeSequence reads a value produced by EncodeSequence. Nil is zero.
func DecodeSequence(bz []byte) (uint64, error) {
	if bz == nil {
		return 0, nil
	}
	if len(bz) != 8 {
		return 0, errors.Wrapf(errors.ErrInput, "sequence of %d bytes", len(bz))
	}
	return binary.BigEndian.Uint64(bz), nil
}

// EncodeSequence returns the big endian representation of val, so that the
// byte order matches the numeric order.
func EncodeSequence(val uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, val)
	return bz
}
