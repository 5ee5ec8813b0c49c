package orm

import (
	"bytes"
	"regexp"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/errors"
)

const compactIdxPrefix = "_i."

var isIndexName = regexp.MustCompile(`^[a-z_]{3,20}$`).MatchString

// Indexer calculates the secondary index key for a given model. A nil key
// means the model is not indexed.
type Indexer func(Model) ([]byte, error)

// compactIndex is an index implementation that stores all indexed entities as
// a set, serialized and stored under single key. It is indexed by an
// arbitrary key returned by Indexer. The value is one primary key (unique),
// or a MultiRef of primary keys (!unique).
type compactIndex struct {
	name   string
	id     []byte
	unique bool
	index  Indexer
	refKey func([]byte) []byte
}

var _ tokenescrow.QueryHandler = compactIndex{}

func newCompactIndex(name string, indexer Indexer, unique bool, refKey func([]byte) []byte) compactIndex {
	return compactIndex{
		name:   name,
		id:     append([]byte(compactIdxPrefix), []byte(name+":")...),
		index:  indexer,
		unique: unique,
		refKey: refKey,
	}
}

// indexKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (i compactIndex) indexKey(key []byte) []byte {
	l := len(i.id)
	out := make([]byte, l+len(key))
	copy(out, i.id)
	copy(out[l:], key)
	return out
}

// Update handles updating the reference to the object in
// the secondary index.
//
// prev == nil means insert
// save == nil means delete
// both == nil is error
//
// Otherwise, it will check indexer(prev) and indexer(save)
// and make sure the key is now stored in the right location
func (i compactIndex) Update(db tokenescrow.KVStore, pk []byte, prev, save Model) error {
	type s struct{ a, b bool }
	switch (s{prev == nil, save == nil}) {
	case s{true, true}:
		return errors.Wrap(errors.ErrHuman, "update requires at least one non-nil object")
	case s{true, false}:
		key, err := i.index(save)
		if err != nil || key == nil {
			return err
		}
		return i.insert(db, key, pk)
	case s{false, true}:
		key, err := i.index(prev)
		if err != nil || key == nil {
			return err
		}
		return i.remove(db, key, pk)
	default:
		return i.move(db, pk, prev, save)
	}
}

func (i compactIndex) move(db tokenescrow.KVStore, pk []byte, prev, save Model) error {
	oldKey, err := i.index(prev)
	if err != nil {
		return err
	}
	newKey, err := i.index(save)
	if err != nil {
		return err
	}
	if bytes.Equal(oldKey, newKey) {
		return nil
	}
	if oldKey != nil {
		if err := i.remove(db, oldKey, pk); err != nil {
			return err
		}
	}
	if newKey != nil {
		return i.insert(db, newKey, pk)
	}
	return nil
}

func (i compactIndex) insert(db tokenescrow.KVStore, index []byte, pk []byte) error {
	key := i.indexKey(index)
	cur, err := db.Get(key)
	if err != nil {
		return err
	}
	if i.unique {
		if cur != nil {
			return errors.Wrapf(errors.ErrDuplicate, "index %s %X", i.name, index)
		}
		return db.Set(key, pk)
	}

	var refs MultiRef
	if cur != nil {
		if err := proto.Unmarshal(cur, &refs); err != nil {
			return errors.Wrap(errors.ErrModel, err.Error())
		}
	}
	if err := refs.Add(pk); err != nil {
		return err
	}
	bz, err := proto.Marshal(&refs)
	if err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return db.Set(key, bz)
}

func (i compactIndex) remove(db tokenescrow.KVStore, index []byte, pk []byte) error {
	key := i.indexKey(index)
	cur, err := db.Get(key)
	if err != nil {
		return err
	}
	if cur == nil {
		return errors.Wrapf(errors.ErrNotFound, "index %s %X", i.name, index)
	}
	if i.unique {
		if !bytes.Equal(cur, pk) {
			return errors.Wrapf(errors.ErrState, "index %s %X points to another key", i.name, index)
		}
		return db.Delete(key)
	}

	var refs MultiRef
	if err := proto.Unmarshal(cur, &refs); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	if err := refs.Remove(pk); err != nil {
		return err
	}
	if len(refs.Refs) == 0 {
		return db.Delete(key)
	}
	bz, err := proto.Marshal(&refs)
	if err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return db.Set(key, bz)
}

// Keys returns all primary keys indexed under given value.
func (i compactIndex) Keys(db tokenescrow.ReadOnlyKVStore, index []byte) ([][]byte, error) {
	val, err := db.Get(i.indexKey(index))
	if err != nil || val == nil {
		return nil, err
	}
	if i.unique {
		return [][]byte{val}, nil
	}
	var refs MultiRef
	if err := proto.Unmarshal(val, &refs); err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return refs.GetRefs(), nil
}

// Query handles queries from the QueryRouter. Results are the indexed
// models, not the index entries.
func (i compactIndex) Query(db tokenescrow.ReadOnlyKVStore, mod string, data []byte) ([]tokenescrow.Model, error) {
	switch mod {
	case tokenescrow.KeyQueryMod:
		return i.load(db, data)
	case tokenescrow.PrefixQueryMod:
		start, end := prefixRange(i.indexKey(data))
		itr, err := db.Iterator(start, end)
		if err != nil {
			return nil, err
		}
		var res []tokenescrow.Model
		for _, m := range ConsumeIterator(itr) {
			found, err := i.load(db, m.Key[len(i.id):])
			if err != nil {
				return nil, err
			}
			res = append(res, found...)
		}
		return res, nil
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
}

func (i compactIndex) load(db tokenescrow.ReadOnlyKVStore, index []byte) ([]tokenescrow.Model, error) {
	refs, err := i.Keys(db, index)
	if err != nil {
		return nil, err
	}
	res := make([]tokenescrow.Model, 0, len(refs))
	for _, ref := range refs {
		key := i.refKey(ref)
		val, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		if val == nil {
			return nil, errors.Wrapf(errors.ErrState, "index %s refers to missing %X", i.name, ref)
		}
		res = append(res, tokenescrow.Pair(key, val))
	}
	return res, nil
}
