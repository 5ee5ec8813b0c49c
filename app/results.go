package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/errors"
)

// ResultSet is the serialized form of query results. Keys and values of a
// query are returned as two result sets of the same length.
type ResultSet struct {
	Results [][]byte `protobuf:"bytes,1,rep,name=results,proto3" json:"results,omitempty"`
}

func (m *ResultSet) Reset()         { *m = ResultSet{} }
func (m *ResultSet) String() string { return proto.CompactTextString(m) }
func (*ResultSet) ProtoMessage()    {}

// resultsTag is the key of field 1 with the length delimited wire type.
const resultsTag = 1<<3 | 2

// Marshal serializes the result set. The encoding is the protobuf one of
// a single repeated bytes field, written directly since proto.Marshal
// dispatches back to this method.
func (m *ResultSet) Marshal() ([]byte, error) {
	var size int
	for _, r := range m.Results {
		size += 2 + len(r)
	}
	bz := make([]byte, 0, size)
	for _, r := range m.Results {
		bz = append(bz, resultsTag)
		bz = append(bz, proto.EncodeVarint(uint64(len(r)))...)
		bz = append(bz, r...)
	}
	return bz, nil
}

// Unmarshal parses a serialized result set.
func (m *ResultSet) Unmarshal(bz []byte) error {
	m.Reset()
	for len(bz) > 0 {
		tag, n := proto.DecodeVarint(bz)
		if n == 0 {
			return errors.Wrap(errors.ErrInput, "malformed field key")
		}
		if tag != resultsTag {
			return errors.Wrapf(errors.ErrInput, "unexpected field key %d", tag)
		}
		bz = bz[n:]
		size, n := proto.DecodeVarint(bz)
		if n == 0 || size > uint64(len(bz)-n) {
			return errors.Wrap(errors.ErrInput, "malformed result length")
		}
		bz = bz[n:]
		r := make([]byte, size)
		copy(r, bz[:size])
		m.Results = append(m.Results, r)
		bz = bz[size:]
	}
	return nil
}

// ResultsFromKeys returns a ResultSet of all keys
// given a set of models
func ResultsFromKeys(models []tokenescrow.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values
// given a set of models
func ResultsFromValues(models []tokenescrow.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues
// and makes then a consistent whole again
func JoinResults(keys, values *ResultSet) ([]tokenescrow.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrapf(errors.ErrInput, "%d keys and %d values", len(kref), len(vref))
	}
	mods := make([]tokenescrow.Model, len(kref))
	for i := range mods {
		mods[i] = tokenescrow.Pair(kref[i], vref[i])
	}
	return mods, nil
}

// UnmarshalOneResult will parse a resultset, and
// it if is not empty, unmarshal the first result into o
func UnmarshalOneResult(bz []byte, o proto.Message) error {
	var res ResultSet
	if err := res.Unmarshal(bz); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	if len(res.Results) == 0 {
		return nil
	}
	if err := proto.Unmarshal(res.Results[0], o); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return nil
}
