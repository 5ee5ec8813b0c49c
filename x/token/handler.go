package token

import (
	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/errors"
	"github.com/iov-one/tokenescrow/x"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r tokenescrow.Registry, auth x.Authenticator, control Controller) {
	r.Handle(&CreateAccountMsg{}, CreateAccountHandler{auth: auth, control: control})
	r.Handle(&TransferMsg{}, TransferHandler{auth: auth, control: control})
	r.Handle(&CloseAccountMsg{}, CloseAccountHandler{auth: auth, control: control})
}

// RegisterQuery will register the accounts as "/tokens" and the mints as
// "/mints"
func RegisterQuery(qr tokenescrow.QueryRouter) {
	NewAccountBucket().Register("tokens", qr)
	NewMintBucket().Register("mints", qr)
}

// CreateAccountHandler creates empty token accounts.
type CreateAccountHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ tokenescrow.Handler = CreateAccountHandler{}

func (h CreateAccountHandler) Check(ctx tokenescrow.Context, db tokenescrow.KVStore, tx tokenescrow.Tx) (*tokenescrow.CheckResult, error) {
	if _, _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &tokenescrow.CheckResult{GasAllocated: createAccountCost}, nil
}

// Deliver creates the account and returns its address as the result data.
func (h CreateAccountHandler) Deliver(ctx tokenescrow.Context, db tokenescrow.KVStore, tx tokenescrow.Tx) (*tokenescrow.DeliverResult, error) {
	msg, owner, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	addr, _, err := h.control.NewAccount(db, owner, msg.Mint)
	if err != nil {
		return nil, err
	}
	return &tokenescrow.DeliverResult{Data: addr}, nil
}

func (h CreateAccountHandler) validate(ctx tokenescrow.Context, tx tokenescrow.Tx) (*CreateAccountMsg, tokenescrow.Address, error) {
	var msg CreateAccountMsg
	if err := tokenescrow.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	// Anyone can create an account for someone else, but there must be
	// somebody to pay for it.
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	owner := msg.Owner
	if len(owner) == 0 {
		owner = signer.Address()
	}
	return &msg, owner, nil
}

// TransferHandler moves tokens between accounts.
type TransferHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ tokenescrow.Handler = TransferHandler{}

func (h TransferHandler) Check(ctx tokenescrow.Context, db tokenescrow.KVStore, tx tokenescrow.Tx) (*tokenescrow.CheckResult, error) {
	var msg TransferMsg
	if err := tokenescrow.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &tokenescrow.CheckResult{GasAllocated: transferCost}, nil
}

func (h TransferHandler) Deliver(ctx tokenescrow.Context, db tokenescrow.KVStore, tx tokenescrow.Tx) (*tokenescrow.DeliverResult, error) {
	var msg TransferMsg
	if err := tokenescrow.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.control.Transfer(ctx, db, h.auth, msg.Source, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	return &tokenescrow.DeliverResult{}, nil
}

// CloseAccountHandler removes empty accounts.
type CloseAccountHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ tokenescrow.Handler = CloseAccountHandler{}

func (h CloseAccountHandler) Check(ctx tokenescrow.Context, db tokenescrow.KVStore, tx tokenescrow.Tx) (*tokenescrow.CheckResult, error) {
	var msg CloseAccountMsg
	if err := tokenescrow.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &tokenescrow.CheckResult{}, nil
}

func (h CloseAccountHandler) Deliver(ctx tokenescrow.Context, db tokenescrow.KVStore, tx tokenescrow.Tx) (*tokenescrow.DeliverResult, error) {
	var msg CloseAccountMsg
	if err := tokenescrow.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.control.CloseAccount(ctx, db, h.auth, msg.Account); err != nil {
		return nil, err
	}
	return &tokenescrow.DeliverResult{}, nil
}
