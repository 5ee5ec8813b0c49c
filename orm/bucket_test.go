package orm

import (
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/errors"
	"github.com/iov-one/tokenescrow/store"
	"github.com/iov-one/tokenescrow/tokenescrowtest/assert"
)

// Counter is a model used only in tests.
type Counter struct {
	Owner []byte `protobuf:"bytes,1,opt,name=owner,proto3" json:"owner,omitempty"`
	Count int64  `protobuf:"varint,2,opt,name=count,proto3" json:"count,omitempty"`
}

func (m *Counter) Reset()         { *m = Counter{} }
func (m *Counter) String() string { return proto.CompactTextString(m) }
func (*Counter) ProtoMessage()    {}

func (m *Counter) Validate() error {
	if m.Count < 0 {
		return errors.Wrap(errors.ErrModel, "negative count")
	}
	return nil
}

func counterOwner(m Model) ([]byte, error) {
	c, ok := m.(*Counter)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return c.Owner, nil
}

func TestModelBucketPutOneDelete(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &Counter{})

	var c Counter
	assert.IsErr(t, errors.ErrNotFound, b.One(db, []byte("a"), &c))

	assert.Nil(t, b.Put(db, []byte("a"), &Counter{Owner: []byte("alice"), Count: 5}))
	assert.Nil(t, b.One(db, []byte("a"), &c))
	assert.Equal(t, int64(5), c.Count)

	assert.IsErr(t, errors.ErrModel, b.Put(db, []byte("a"), &Counter{Count: -1}))
	assert.IsErr(t, errors.ErrEmpty, b.Put(db, nil, &Counter{}))
	assert.IsErr(t, errors.ErrType, b.One(db, []byte("a"), &MultiRef{}))

	assert.IsErr(t, errors.ErrDuplicate, b.Create(db, []byte("a"), &Counter{Count: 1}))
	assert.Nil(t, b.Create(db, []byte("b"), &Counter{Count: 1}))

	assert.Nil(t, b.Delete(db, []byte("a")))
	assert.IsErr(t, errors.ErrNotFound, b.Delete(db, []byte("a")))
	has, err := b.Has(db, []byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, false, has)
}

func TestModelBucketIterate(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &Counter{})
	other := NewModelBucket("cntsx", &Counter{})

	assert.Nil(t, b.Put(db, []byte("b"), &Counter{Count: 2}))
	assert.Nil(t, b.Put(db, []byte("a"), &Counter{Count: 1}))
	assert.Nil(t, other.Put(db, []byte("a"), &Counter{Count: 100}))

	var keys []string
	var total int64
	err := b.Iterate(db, func(key []byte, m Model) error {
		keys = append(keys, string(key))
		total += m.(*Counter).Count
		return nil
	})
	assert.Nil(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)
	assert.Equal(t, int64(3), total)

	err = b.Iterate(db, func([]byte, Model) error { return errors.ErrHuman })
	assert.IsErr(t, errors.ErrHuman, err)
}

func TestModelBucketIndex(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &Counter{}).WithIndex("owner", counterOwner, false)

	assert.Nil(t, b.Put(db, []byte("a"), &Counter{Owner: []byte("alice")}))
	assert.Nil(t, b.Put(db, []byte("b"), &Counter{Owner: []byte("alice")}))
	assert.Nil(t, b.Put(db, []byte("c"), &Counter{Owner: []byte("bob")}))

	keys, err := b.IndexKeys(db, "owner", []byte("alice"))
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{[]byte("a"), []byte("b")}, keys)

	// moving the owner updates both index entries
	assert.Nil(t, b.Put(db, []byte("a"), &Counter{Owner: []byte("bob")}))
	keys, err = b.IndexKeys(db, "owner", []byte("bob"))
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{[]byte("a"), []byte("c")}, keys)

	assert.Nil(t, b.Delete(db, []byte("b")))
	keys, err = b.IndexKeys(db, "owner", []byte("alice"))
	assert.Nil(t, err)
	assert.Equal(t, 0, len(keys))

	_, err = b.IndexKeys(db, "missing", nil)
	assert.IsErr(t, ErrInvalidIndex, err)
}

func TestModelBucketUniqueIndex(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &Counter{}).WithIndex("owner", counterOwner, true)

	assert.Nil(t, b.Put(db, []byte("a"), &Counter{Owner: []byte("alice")}))
	assert.IsErr(t, errors.ErrDuplicate, b.Put(db, []byte("b"), &Counter{Owner: []byte("alice")}))
	// re-saving the same model keeps the index
	assert.Nil(t, b.Put(db, []byte("a"), &Counter{Owner: []byte("alice"), Count: 3}))
}

func TestModelBucketQuery(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &Counter{}).WithIndex("owner", counterOwner, false)
	assert.Nil(t, b.Put(db, []byte("a1"), &Counter{Owner: []byte("alice")}))
	assert.Nil(t, b.Put(db, []byte("a2"), &Counter{Owner: []byte("alice")}))
	assert.Nil(t, b.Put(db, []byte("b1"), &Counter{Owner: []byte("bob")}))

	qr := tokenescrow.NewQueryRouter()
	b.Register("counters", qr)

	h := qr.Handler("/counters")
	res, err := h.Query(db, tokenescrow.KeyQueryMod, []byte("a1"))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))
	assert.Equal(t, b.DBKey([]byte("a1")), res[0].Key)

	res, err = h.Query(db, tokenescrow.KeyQueryMod, []byte("zz"))
	assert.Nil(t, err)
	assert.Equal(t, 0, len(res))

	res, err = h.Query(db, tokenescrow.PrefixQueryMod, []byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, 2, len(res))

	idx := qr.Handler("/counters/owner")
	res, err = idx.Query(db, tokenescrow.KeyQueryMod, []byte("alice"))
	assert.Nil(t, err)
	assert.Equal(t, 2, len(res))
	var c Counter
	assert.Nil(t, proto.Unmarshal(res[0].Value, &c))
	assert.Equal(t, []byte("alice"), c.Owner)

	_, err = h.Query(db, "unknown", nil)
	assert.IsErr(t, errors.ErrInput, err)
}
