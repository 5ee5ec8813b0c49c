package app

import (
	"context"
	"testing"

	"github.com/iov-one/tokenescrow/errors"
	"github.com/iov-one/tokenescrow/store"
	"github.com/iov-one/tokenescrow/tokenescrowtest"
	"github.com/iov-one/tokenescrow/tokenescrowtest/assert"
)

func TestRouter(t *testing.T) {
	var (
		ctx = context.Background()
		db  = store.MemStore()

		r   = NewRouter()
		msg = &tokenescrowtest.Msg{RoutePath: "test/1"}
		tx  = &tokenescrowtest.Tx{Msg: msg}
		h   tokenescrowtest.Handler
	)

	r.Handle(msg, &h)

	// make sure invalid registrations panic
	assert.Panics(t, func() { r.Handle(msg, &h) })
	assert.Panics(t, func() { r.Handle(&tokenescrowtest.Msg{RoutePath: "l:7"}, &h) })

	_, err := r.Check(ctx, db, tx)
	assert.Nil(t, err)
	_, err = r.Deliver(ctx, db, tx)
	assert.Nil(t, err)
	assert.Equal(t, 2, h.CallCount())

	missing := &tokenescrowtest.Tx{Msg: &tokenescrowtest.Msg{RoutePath: "test/missing"}}
	_, err = r.Check(ctx, db, missing)
	assert.IsErr(t, errors.ErrNotFound, err)
	_, err = r.Deliver(ctx, db, missing)
	assert.IsErr(t, errors.ErrNotFound, err)
	assert.Equal(t, 2, h.CallCount())

	_, err = r.Deliver(ctx, db, &tokenescrowtest.Tx{})
	assert.IsErr(t, errors.ErrMsg, err)
	_, err = r.Deliver(ctx, db, &tokenescrowtest.Tx{Err: errors.ErrType})
	assert.IsErr(t, errors.ErrType, err)
}
