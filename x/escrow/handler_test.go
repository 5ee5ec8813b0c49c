package escrow

import (
	"context"
	"testing"

	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/app"
	"github.com/iov-one/tokenescrow/errors"
	"github.com/iov-one/tokenescrow/tokenescrowtest"
	"github.com/iov-one/tokenescrow/tokenescrowtest/assert"
)

func TestHandlers(t *testing.T) {
	f := newFixture(t)
	rt := app.NewRouter()
	RegisterRoutes(rt, f.auth, f.tokens, f.cash)

	check := func(signer tokenescrow.Condition, msg tokenescrow.Msg) error {
		cache := f.db.CacheWrap()
		defer cache.Discard()
		_, err := rt.Check(f.as(signer), cache, &tokenescrowtest.Tx{Msg: msg})
		return err
	}
	deliver := func(signer tokenescrow.Condition, msg tokenescrow.Msg) (*tokenescrow.DeliverResult, error) {
		if err := check(signer, msg); err != nil {
			return nil, err
		}
		return rt.Deliver(f.as(signer), f.db, &tokenescrowtest.Tx{Msg: msg})
	}

	_, err := deliver(f.seller, &OpenMsg{SellerAssetAccount: f.sellerX, AssetType: f.mintX})
	assert.IsErr(t, errors.ErrAmount, err)

	// The seller cannot be somebody who did not sign.
	err = check(f.buyer, &OpenMsg{Seller: f.seller.Address(), SellerAssetAccount: f.sellerX, AssetType: f.mintX, OfferedAmount: 1, RequestedAmount: 1})
	assert.IsErr(t, errors.ErrUnauthorized, err)

	res, err := deliver(f.seller, &OpenMsg{
		SellerAssetAccount: f.sellerX,
		AssetType:          f.mintX,
		OfferedAmount:      1000,
		RequestedAmount:    5,
	})
	assert.Nil(t, err)
	escrowAddr := tokenescrow.Address(res.Data)
	want, _, err := EscrowAddress(f.seller.Address())
	assert.Nil(t, err)
	assert.Equal(t, want, escrowAddr)
	assert.Equal(t, "escrow", string(res.Tags[0].Key))
	assert.Equal(t, escrowAddr.String(), string(res.Tags[0].Value))

	err = check(f.buyer, &CancelMsg{Escrow: escrowAddr})
	assert.IsErr(t, errors.ErrUnauthorized, err)

	err = check(f.seller, &CloseMsg{Escrow: escrowAddr})
	assert.Nil(t, err)
	_, err = deliver(f.seller, &CloseMsg{Escrow: escrowAddr})
	assert.IsErr(t, errors.ErrState, err)

	_, err = deliver(f.buyer, &SettleMsg{Escrow: escrowAddr, BuyerAssetAccount: f.buyerX})
	assert.Nil(t, err)
	assert.Equal(t, uint64(1000), f.tokenBalance(t, f.buyerX))
	assert.Equal(t, uint64(5), f.coins(t, f.seller.Address()))

	err = check(f.buyer, &SettleMsg{Escrow: escrowAddr, BuyerAssetAccount: f.buyerX})
	assert.IsErr(t, ErrAlreadyCompleted, err)
	err = check(f.seller, &CancelMsg{Escrow: escrowAddr})
	assert.IsErr(t, ErrAlreadyCompleted, err)

	_, err = deliver(f.seller, &CloseMsg{Escrow: escrowAddr})
	assert.Nil(t, err)
	err = check(f.buyer, &SettleMsg{Escrow: escrowAddr, BuyerAssetAccount: f.buyerX})
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestUpdateConfiguration(t *testing.T) {
	f := newFixture(t)
	owner := tokenescrowtest.NewCondition()
	rt := app.NewRouter()
	RegisterRoutes(rt, f.auth, f.tokens, f.cash)
	ctx := func(c tokenescrow.Condition) tokenescrow.Context {
		return f.auth.SetConditions(context.Background(), c)
	}

	msg := &UpdateConfigurationMsg{Patch: &Configuration{RecordDeposit: 3}}

	// Without a genesis configuration nobody can set it.
	_, err := rt.Deliver(ctx(owner), f.db, &tokenescrowtest.Tx{Msg: msg})
	assert.IsErr(t, errors.ErrUnauthorized, err)

	opts := tokenescrow.Options{
		"conf": []byte(`{"escrow": {"owner": "` + owner.Address().String() + `"}}`),
	}
	assert.Nil(t, Initializer{}.FromGenesis(opts, f.db))

	_, err = rt.Deliver(ctx(f.seller), f.db, &tokenescrowtest.Tx{Msg: msg})
	assert.IsErr(t, errors.ErrUnauthorized, err)

	_, err = rt.Deliver(ctx(owner), f.db, &tokenescrowtest.Tx{Msg: msg})
	assert.Nil(t, err)

	conf, err := f.manager.Config(f.db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(3), conf.RecordDeposit)
	assert.Equal(t, owner.Address(), conf.Owner)
	assert.Equal(t, false, conf.AllowZeroAmounts)
}
