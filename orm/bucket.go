package orm

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// ModelBucket is a prefixed subspace of the DB holding models of a single
// type.
type ModelBucket struct {
	name    string
	prefix  []byte
	model   reflect.Type
	indexes map[string]compactIndex
}

var _ tokenescrow.QueryHandler = ModelBucket{}

// NewModelBucket creates a bucket to store models of the same type as
// example.
func NewModelBucket(name string, example Model) ModelBucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}
	tp := reflect.TypeOf(example)
	if tp.Kind() != reflect.Ptr {
		panic(fmt.Sprintf("model must be a pointer, got %T", example))
	}
	return ModelBucket{
		name:   name,
		prefix: append([]byte(name), ':'),
		model:  tp.Elem(),
	}
}

// Name returns the bucket name.
func (b ModelBucket) Name() string {
	return b.name
}

// WithIndex returns a copy of this bucket with given index,
// panics if it an index with that name is already registered.
//
// Designed to be chained.
func (b ModelBucket) WithIndex(name string, indexer Indexer, unique bool) ModelBucket {
	if !isIndexName(name) {
		panic(fmt.Sprintf("Illegal index: %s", name))
	}
	if _, ok := b.indexes[name]; ok {
		panic(fmt.Sprintf("Index %s registered twice", name))
	}

	indexes := make(map[string]compactIndex, len(b.indexes)+1)
	for n, i := range b.indexes {
		indexes[n] = i
	}
	indexes[name] = newCompactIndex(b.name+"_"+name, indexer, unique, b.DBKey)
	b.indexes = indexes
	return b
}

// Register registers this bucket and all indexes.
// You can define a name here for queries, which is
// different than the bucket name used to prefix the data
func (b ModelBucket) Register(name string, r tokenescrow.QueryRouter) {
	if name == "" {
		name = b.name
	}
	root := "/" + name
	r.Register(root, b)
	for name, idx := range b.indexes {
		r.Register(root+"/"+name, idx)
	}
}

// Query handles queries from the QueryRouter
func (b ModelBucket) Query(db tokenescrow.ReadOnlyKVStore, mod string, data []byte) ([]tokenescrow.Model, error) {
	switch mod {
	case tokenescrow.KeyQueryMod:
		key := b.DBKey(data)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		// return nothing on miss
		if value == nil {
			return nil, nil
		}
		return []tokenescrow.Model{tokenescrow.Pair(key, value)}, nil
	case tokenescrow.PrefixQueryMod:
		return queryPrefix(db, b.DBKey(data))
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
}

// DBKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (b ModelBucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// One query the database for a single model instance. Lookup is done by the
// primary key. Result is loaded into given destination model.
// This method returns ErrNotFound if the entity does not exist in the
// database. If given model type cannot be used to contain stored entity,
// ErrType is returned.
func (b ModelBucket) One(db tokenescrow.ReadOnlyKVStore, key []byte, dest Model) error {
	if err := b.checkType(dest); err != nil {
		return err
	}
	bz, err := db.Get(b.DBKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot read from the database")
	}
	if bz == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T %X not in the store", dest, key)
	}
	if err := proto.Unmarshal(bz, dest); err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot unmarshal %T: %s", dest, err)
	}
	return nil
}

// Has returns true if an entity with given key exists.
func (b ModelBucket) Has(db tokenescrow.ReadOnlyKVStore, key []byte) (bool, error) {
	return db.Has(b.DBKey(key))
}

// Put saves given model in the database, overwriting any previous value.
func (b ModelBucket) Put(db tokenescrow.KVStore, key []byte, m Model) error {
	if err := b.checkType(m); err != nil {
		return err
	}
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	bz, err := proto.Marshal(m)
	if err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot marshal %T: %s", m, err)
	}
	if err := b.updateIndexes(db, key, m); err != nil {
		return err
	}
	if err := db.Set(b.DBKey(key), bz); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

// Create saves given model only if no entity under given key exists yet.
// It returns ErrDuplicate otherwise.
func (b ModelBucket) Create(db tokenescrow.KVStore, key []byte, m Model) error {
	exists, err := b.Has(db, key)
	if err != nil {
		return err
	}
	if exists {
		return errors.Wrapf(errors.ErrDuplicate, "%s %X", b.name, key)
	}
	return b.Put(db, key, m)
}

// Delete removes an entity with given primary key from the database.
// It returns ErrNotFound if an entity with given key does not exist.
func (b ModelBucket) Delete(db tokenescrow.KVStore, key []byte) error {
	exists, err := b.Has(db, key)
	if err != nil {
		return err
	}
	if !exists {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", b.name, key)
	}
	if err := b.updateIndexes(db, key, nil); err != nil {
		return err
	}
	return db.Delete(b.DBKey(key))
}

// Iterate calls fn for every stored model in primary key order, until fn
// returns an error or all models were visited. The key passed to fn is the
// primary key, without the bucket prefix.
func (b ModelBucket) Iterate(db tokenescrow.ReadOnlyKVStore, fn func(key []byte, m Model) error) error {
	start, end := prefixRange(b.prefix)
	itr, err := db.Iterator(start, end)
	if err != nil {
		return err
	}
	defer itr.Close()

	for ; itr.Valid(); itr.Next() {
		m := b.newModel()
		if err := proto.Unmarshal(itr.Value(), m); err != nil {
			return errors.Wrapf(errors.ErrModel, "cannot unmarshal %T: %s", m, err)
		}
		if err := fn(itr.Key()[len(b.prefix):], m); err != nil {
			return err
		}
	}
	return nil
}

// IndexKeys returns the primary keys of all models indexed under value by the
// named index.
func (b ModelBucket) IndexKeys(db tokenescrow.ReadOnlyKVStore, name string, value []byte) ([][]byte, error) {
	idx, ok := b.indexes[name]
	if !ok {
		return nil, errors.Wrap(ErrInvalidIndex, name)
	}
	return idx.Keys(db, value)
}

func (b ModelBucket) updateIndexes(db tokenescrow.KVStore, key []byte, save Model) error {
	if len(b.indexes) == 0 {
		return nil
	}
	var prev Model
	bz, err := db.Get(b.DBKey(key))
	if err != nil {
		return err
	}
	if bz != nil {
		prev = b.newModel()
		if err := proto.Unmarshal(bz, prev); err != nil {
			return errors.Wrapf(errors.ErrModel, "cannot unmarshal %T: %s", prev, err)
		}
	}
	if prev == nil && save == nil {
		return nil
	}
	for _, idx := range b.indexes {
		if err := idx.Update(db, key, prev, save); err != nil {
			return errors.Wrapf(err, "index %s", idx.name)
		}
	}
	return nil
}

func (b ModelBucket) newModel() Model {
	return reflect.New(b.model).Interface().(Model)
}

func (b ModelBucket) checkType(m Model) error {
	if reflect.TypeOf(m) != reflect.PtrTo(b.model) {
		return errors.Wrapf(errors.ErrType, "%T cannot be represented as %s", m, b.model)
	}
	return nil
}
