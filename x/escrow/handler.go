package escrow

import (
	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/errors"
	"github.com/iov-one/tokenescrow/gconf"
	"github.com/iov-one/tokenescrow/x"
	"github.com/iov-one/tokenescrow/x/cash"
	"github.com/iov-one/tokenescrow/x/token"
	cmn "github.com/tendermint/tendermint/libs/common"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r tokenescrow.Registry, auth x.Authenticator, tokens token.Controller, cashctrl cash.Controller) {
	m := NewManager(tokens, cashctrl, auth)
	r.Handle(&OpenMsg{}, OpenHandler{auth: auth, manager: m})
	r.Handle(&SettleMsg{}, SettleHandler{auth: auth, manager: m})
	r.Handle(&CancelMsg{}, CancelHandler{auth: auth, manager: m})
	r.Handle(&CloseMsg{}, CloseHandler{auth: auth, manager: m})
	r.Handle(&UpdateConfigurationMsg{}, gconf.NewUpdateConfigurationHandler(extensionName, &Configuration{}, auth, nil))
}

// RegisterQuery will register this bucket as "/escrows"
func RegisterQuery(qr tokenescrow.QueryRouter) {
	NewBucket().Register("escrows", qr)
}

func escrowTags(escrowAddr tokenescrow.Address, parties ...tokenescrow.Address) []cmn.KVPair {
	tags := []cmn.KVPair{
		{Key: []byte("escrow"), Value: []byte(escrowAddr.String())},
	}
	for _, p := range parties {
		tags = append(tags, cmn.KVPair{Key: []byte(p.String()), Value: []byte("s")})
	}
	return tags
}

// OpenHandler creates escrows.
type OpenHandler struct {
	auth    x.Authenticator
	manager *Manager
}

var _ tokenescrow.Handler = OpenHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h OpenHandler) Check(ctx tokenescrow.Context, db tokenescrow.KVStore, tx tokenescrow.Tx) (*tokenescrow.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &tokenescrow.CheckResult{GasAllocated: openEscrowCost}, nil
}

// Deliver opens the escrow and returns its address as the result data.
func (h OpenHandler) Deliver(ctx tokenescrow.Context, db tokenescrow.KVStore, tx tokenescrow.Tx) (*tokenescrow.DeliverResult, error) {
	p, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	e, err := h.manager.Open(ctx, db, *p)
	if err != nil {
		return nil, err
	}
	escrowAddr, _, err := EscrowAddress(e.Seller)
	if err != nil {
		return nil, err
	}
	return &tokenescrow.DeliverResult{
		Data: escrowAddr,
		Tags: escrowTags(escrowAddr, e.Seller),
	}, nil
}

func (h OpenHandler) validate(ctx tokenescrow.Context, tx tokenescrow.Tx) (*OpenParams, error) {
	var msg OpenMsg
	if err := tokenescrow.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	seller, err := x.AnySigner(ctx, h.auth, msg.Seller)
	if err != nil {
		return nil, errors.Wrap(err, "seller")
	}
	return &OpenParams{
		Seller:             seller,
		SellerAssetAccount: msg.SellerAssetAccount,
		AssetType:          msg.AssetType,
		OfferedAmount:      msg.OfferedAmount,
		RequestedAmount:    msg.RequestedAmount,
	}, nil
}

// SettleHandler completes the swap of an open escrow.
type SettleHandler struct {
	auth    x.Authenticator
	manager *Manager
}

var _ tokenescrow.Handler = SettleHandler{}

func (h SettleHandler) Check(ctx tokenescrow.Context, db tokenescrow.KVStore, tx tokenescrow.Tx) (*tokenescrow.CheckResult, error) {
	msg, _, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	e, err := h.manager.Get(db, msg.Escrow)
	if err != nil {
		return nil, err
	}
	if e.Status != StatusOpen {
		return nil, errors.Wrapf(ErrAlreadyCompleted, "escrow is %s", e.Status)
	}
	return &tokenescrow.CheckResult{GasAllocated: settleEscrowCost}, nil
}

func (h SettleHandler) Deliver(ctx tokenescrow.Context, db tokenescrow.KVStore, tx tokenescrow.Tx) (*tokenescrow.DeliverResult, error) {
	msg, buyer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	e, err := h.manager.Settle(ctx, db, buyer, msg.BuyerAssetAccount, msg.Escrow)
	if err != nil {
		return nil, err
	}
	return &tokenescrow.DeliverResult{Tags: escrowTags(msg.Escrow, e.Seller, buyer)}, nil
}

func (h SettleHandler) validate(ctx tokenescrow.Context, db tokenescrow.KVStore, tx tokenescrow.Tx) (*SettleMsg, tokenescrow.Address, error) {
	var msg SettleMsg
	if err := tokenescrow.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	buyer, err := x.AnySigner(ctx, h.auth, msg.Buyer)
	if err != nil {
		return nil, nil, errors.Wrap(err, "buyer")
	}
	return &msg, buyer, nil
}

// CancelHandler returns the locked tokens to the seller.
type CancelHandler struct {
	auth    x.Authenticator
	manager *Manager
}

var _ tokenescrow.Handler = CancelHandler{}

func (h CancelHandler) Check(ctx tokenescrow.Context, db tokenescrow.KVStore, tx tokenescrow.Tx) (*tokenescrow.CheckResult, error) {
	msg, caller, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	e, err := h.manager.Get(db, msg.Escrow)
	if err != nil {
		return nil, err
	}
	if e.Status != StatusOpen {
		return nil, errors.Wrapf(ErrAlreadyCompleted, "escrow is %s", e.Status)
	}
	if !caller.Equals(e.Seller) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "caller is not the seller")
	}
	return &tokenescrow.CheckResult{GasAllocated: cancelEscrowCost}, nil
}

func (h CancelHandler) Deliver(ctx tokenescrow.Context, db tokenescrow.KVStore, tx tokenescrow.Tx) (*tokenescrow.DeliverResult, error) {
	msg, caller, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	e, err := h.manager.Cancel(ctx, db, caller, msg.Escrow)
	if err != nil {
		return nil, err
	}
	return &tokenescrow.DeliverResult{Tags: escrowTags(msg.Escrow, e.Seller)}, nil
}

func (h CancelHandler) validate(ctx tokenescrow.Context, tx tokenescrow.Tx) (*CancelMsg, tokenescrow.Address, error) {
	var msg CancelMsg
	if err := tokenescrow.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	caller, err := x.AnySigner(ctx, h.auth, msg.Caller)
	if err != nil {
		return nil, nil, errors.Wrap(err, "caller")
	}
	return &msg, caller, nil
}

// CloseHandler removes settled escrows.
type CloseHandler struct {
	auth    x.Authenticator
	manager *Manager
}

var _ tokenescrow.Handler = CloseHandler{}

func (h CloseHandler) Check(ctx tokenescrow.Context, db tokenescrow.KVStore, tx tokenescrow.Tx) (*tokenescrow.CheckResult, error) {
	if _, _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &tokenescrow.CheckResult{GasAllocated: closeEscrowCost}, nil
}

func (h CloseHandler) Deliver(ctx tokenescrow.Context, db tokenescrow.KVStore, tx tokenescrow.Tx) (*tokenescrow.DeliverResult, error) {
	msg, caller, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.manager.Close(ctx, db, caller, msg.Escrow); err != nil {
		return nil, err
	}
	return &tokenescrow.DeliverResult{Tags: escrowTags(msg.Escrow, caller)}, nil
}

func (h CloseHandler) validate(ctx tokenescrow.Context, tx tokenescrow.Tx) (*CloseMsg, tokenescrow.Address, error) {
	var msg CloseMsg
	if err := tokenescrow.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	caller, err := x.AnySigner(ctx, h.auth, msg.Caller)
	if err != nil {
		return nil, nil, errors.Wrap(err, "caller")
	}
	return &msg, caller, nil
}
