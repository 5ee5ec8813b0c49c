package tokenescrow_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/errors"
	pkerr "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	cmn "github.com/tendermint/tendermint/libs/common"
)

func TestCreateErrorResult(t *testing.T) {
	cases := map[string]struct {
		err  error
		msg  string
		code uint32
	}{
		"stdlib error": {
			err:  fmt.Errorf("base"),
			msg:  "internal error",
			code: 1,
		},
		"pkg error": {
			err:  pkerr.New("dave"),
			msg:  "internal error",
			code: 1,
		},
		"registered error": {
			err:  errors.ErrUnauthorized.New("nonce"),
			msg:  "nonce: unauthorized",
			code: errors.ErrUnauthorized.ABCICode(),
		},
		"wrapped registered error": {
			err:  errors.Wrap(errors.ErrInsufficientAmount.New("payment"), "settle"),
			msg:  "settle: payment: insufficient amount",
			code: errors.ErrInsufficientAmount.ABCICode(),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			dres := tokenescrow.DeliverTxError(tc.err, false)
			assert.True(t, dres.IsErr())
			assert.True(t, strings.HasSuffix(dres.Log, tc.msg), dres.Log)
			assert.Equal(t, tc.code, dres.Code)

			cres := tokenescrow.CheckTxError(tc.err, false)
			assert.True(t, cres.IsErr())
			assert.True(t, strings.HasSuffix(cres.Log, tc.msg), cres.Log)
			assert.Equal(t, tc.code, cres.Code)
		})
	}
}

func TestCreateResults(t *testing.T) {
	d, msg := []byte{1, 3, 4}, "got it"
	tags := []cmn.KVPair{{Key: []byte("action"), Value: []byte("escrow/open")}}
	dres := tokenescrow.DeliverResult{Data: d, Log: msg, Tags: tags}
	ad := dres.ToABCI()
	assert.EqualValues(t, d, ad.Data)
	assert.Equal(t, msg, ad.Log)
	assert.Equal(t, tags, ad.Tags)

	c, gas := "aok", int64(12345)
	cres := tokenescrow.CheckResult{Log: c, GasAllocated: gas}
	ac := cres.ToABCI()
	assert.Equal(t, c, ac.Log)
	assert.Equal(t, gas, ac.GasWanted)
	assert.Empty(t, ac.Data)

	ok := tokenescrow.DeliverOrError(&dres, nil, false)
	assert.False(t, ok.IsErr())
	bad := tokenescrow.CheckOrError(nil, errors.ErrState, false)
	assert.Equal(t, errors.ErrState.ABCICode(), bad.Code)
}
