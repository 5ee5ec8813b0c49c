package orm

import (
	"testing"

	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/errors"
	"github.com/iov-one/tokenescrow/store"
	"github.com/iov-one/tokenescrow/tokenescrowtest/assert"
)

func TestRawQuery(t *testing.T) {
	db := store.MemStore()
	assert.Nil(t, db.Set([]byte("escrow:a"), []byte{1}))
	assert.Nil(t, db.Set([]byte("escrow:b"), []byte{2}))
	assert.Nil(t, db.Set([]byte("wallet:a"), []byte{3}))

	qr := tokenescrow.NewQueryRouter()
	RegisterQuery(qr)
	h := qr.Handler("/")
	if h == nil {
		t.Fatal("raw query handler not registered")
	}

	res, err := h.Query(db, tokenescrow.KeyQueryMod, []byte("wallet:a"))
	assert.Nil(t, err)
	assert.Equal(t, []tokenescrow.Model{tokenescrow.Pair([]byte("wallet:a"), []byte{3})}, res)

	res, err = h.Query(db, tokenescrow.KeyQueryMod, []byte("wallet:z"))
	assert.Nil(t, err)
	assert.Equal(t, 0, len(res))

	res, err = h.Query(db, tokenescrow.PrefixQueryMod, []byte("escrow:"))
	assert.Nil(t, err)
	assert.Equal(t, 2, len(res))
	assert.Equal(t, []byte("escrow:a"), res[0].Key)

	_, err = h.Query(db, "range", nil)
	assert.IsErr(t, errors.ErrInput, err)
}
