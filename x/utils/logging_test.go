package utils

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/errors"
	"github.com/iov-one/tokenescrow/store"
	"github.com/iov-one/tokenescrow/tokenescrowtest"
	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	ctx := tokenescrow.WithLogger(context.Background(), log.NewTMLogger(log.NewSyncWriter(&buf)))
	db := store.MemStore()
	tx := &tokenescrowtest.Tx{Msg: &tokenescrowtest.Msg{RoutePath: "escrow/settle"}}
	l := NewLogging()

	_, err := l.Deliver(ctx, db, tx, &tokenescrowtest.Handler{DeliverResult: tokenescrow.DeliverResult{Log: "all good"}})
	assert.NoError(t, err)
	out := buf.String()
	assert.True(t, strings.Contains(out, "all good"), out)
	assert.True(t, strings.Contains(out, "path=escrow/settle"), out)

	buf.Reset()
	_, err = l.Check(ctx, db, tx, &tokenescrowtest.Handler{CheckErr: errors.ErrUnauthorized})
	assert.True(t, errors.ErrUnauthorized.Is(err))
	out = buf.String()
	assert.True(t, strings.HasPrefix(out, "E"), out)
	assert.True(t, strings.Contains(out, "unauthorized"), out)

	// Successful checks are logged at debug level.
	buf.Reset()
	filtered := tokenescrow.WithLogger(context.Background(),
		log.NewFilter(log.NewTMLogger(log.NewSyncWriter(&buf)), log.AllowInfo()))
	_, err = l.Check(filtered, db, tx, &tokenescrowtest.Handler{})
	assert.NoError(t, err)
	assert.Equal(t, "", buf.String())
}
