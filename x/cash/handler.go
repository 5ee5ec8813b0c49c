package cash

import (
	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/errors"
	"github.com/iov-one/tokenescrow/x"
	cmn "github.com/tendermint/tendermint/libs/common"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r tokenescrow.Registry, auth x.Authenticator, control Controller) {
	r.Handle(&SendMsg{}, NewSendHandler(auth, control))
}

// RegisterQuery will register this bucket as "/wallets"
func RegisterQuery(qr tokenescrow.QueryRouter) {
	NewBucket().Register("wallets", qr)
}

// SendHandler will handle sending coins
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ tokenescrow.Handler = SendHandler{}

// NewSendHandler creates a handler for SendMsg
func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{
		auth:    auth,
		control: control,
	}
}

// Check just verifies it is properly formed and returns
// the cost of executing it
func (h SendHandler) Check(ctx tokenescrow.Context, store tokenescrow.KVStore, tx tokenescrow.Tx) (*tokenescrow.CheckResult, error) {
	if _, _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &tokenescrow.CheckResult{GasAllocated: sendTxCost}, nil
}

// Deliver moves the tokens from source to receiver if
// all preconditions are met
func (h SendHandler) Deliver(ctx tokenescrow.Context, store tokenescrow.KVStore, tx tokenescrow.Tx) (*tokenescrow.DeliverResult, error) {
	msg, src, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.MoveCoins(store, src, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	tags := []cmn.KVPair{
		{Key: []byte(src.String()), Value: []byte("s")},
		{Key: []byte(msg.Destination.String()), Value: []byte("s")},
	}
	return &tokenescrow.DeliverResult{Tags: tags}, nil
}

func (h SendHandler) validate(ctx tokenescrow.Context, tx tokenescrow.Tx) (*SendMsg, tokenescrow.Address, error) {
	var msg SendMsg
	if err := tokenescrow.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	src, err := x.AnySigner(ctx, h.auth, msg.Source)
	if err != nil {
		return nil, nil, errors.Wrap(err, "source")
	}
	return &msg, src, nil
}
