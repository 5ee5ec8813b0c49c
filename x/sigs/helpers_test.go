package sigs

import (
	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/tokenescrowtest"
)

// StdTx is a signed transaction used only in tests.
type StdTx struct {
	tokenescrowtest.Tx
	Payload    []byte
	Signatures []*StdSignature
}

var _ SignedTx = (*StdTx)(nil)
var _ tokenescrow.Tx = (*StdTx)(nil)

func NewStdTx(payload []byte) *StdTx {
	return &StdTx{
		Tx:      tokenescrowtest.Tx{Msg: &tokenescrowtest.Msg{RoutePath: "test/sigs"}},
		Payload: payload,
	}
}

func (tx *StdTx) GetSignBytes() ([]byte, error) {
	return tx.Payload, nil
}

func (tx *StdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

// SigCheckHandler stores the conditions that were authenticated when it was
// last called.
type SigCheckHandler struct {
	Signers []tokenescrow.Condition
}

var _ tokenescrow.Handler = (*SigCheckHandler)(nil)

func (s *SigCheckHandler) Check(ctx tokenescrow.Context, store tokenescrow.KVStore, tx tokenescrow.Tx) (*tokenescrow.CheckResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &tokenescrow.CheckResult{}, nil
}

func (s *SigCheckHandler) Deliver(ctx tokenescrow.Context, store tokenescrow.KVStore, tx tokenescrow.Tx) (*tokenescrow.DeliverResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &tokenescrow.DeliverResult{}, nil
}
