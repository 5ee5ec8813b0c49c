package app

import (
	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/crypto"
	"github.com/iov-one/tokenescrow/errors"
	"github.com/iov-one/tokenescrow/x/cash"
	"github.com/iov-one/tokenescrow/x/escrow"
	"github.com/iov-one/tokenescrow/x/sigs"
	"github.com/iov-one/tokenescrow/x/token"
	amino "github.com/tendermint/go-amino"
)

// Codec serializes transactions. Every message the router handles has a
// registered concrete type.
var Codec = amino.NewCodec()

func init() {
	RegisterAmino(Codec)
}

// RegisterAmino registers the transaction message types on the codec.
func RegisterAmino(cdc *amino.Codec) {
	cdc.RegisterInterface((*tokenescrow.Msg)(nil), nil)
	cdc.RegisterConcrete(&cash.SendMsg{}, "cash/send", nil)
	cdc.RegisterConcrete(&token.CreateAccountMsg{}, "token/create", nil)
	cdc.RegisterConcrete(&token.TransferMsg{}, "token/transfer", nil)
	cdc.RegisterConcrete(&token.CloseAccountMsg{}, "token/close", nil)
	cdc.RegisterConcrete(&escrow.OpenMsg{}, "escrow/open", nil)
	cdc.RegisterConcrete(&escrow.SettleMsg{}, "escrow/settle", nil)
	cdc.RegisterConcrete(&escrow.CancelMsg{}, "escrow/cancel", nil)
	cdc.RegisterConcrete(&escrow.CloseMsg{}, "escrow/close", nil)
	cdc.RegisterConcrete(&escrow.UpdateConfigurationMsg{}, "escrow/update_config", nil)
}

// Tx is the transaction format of the escrow chain. It carries exactly one
// message and the signatures authorizing it.
type Tx struct {
	Msg        tokenescrow.Msg      `json:"msg"`
	Signatures []*sigs.StdSignature `json:"signatures"`
}

// make sure tx fulfills all interfaces
var _ tokenescrow.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// NewTx wraps a message in an unsigned transaction.
func NewTx(msg tokenescrow.Msg) *Tx {
	return &Tx{Msg: msg}
}

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (tokenescrow.Tx, error) {
	tx := new(Tx)
	if err := Codec.UnmarshalBinaryBare(bz, tx); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return tx, nil
}

// Marshal serializes the transaction with its signatures.
func (tx *Tx) Marshal() ([]byte, error) {
	bz, err := Codec.MarshalBinaryBare(tx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return bz, nil
}

// GetMsg returns the single message of the transaction.
func (tx *Tx) GetMsg() (tokenescrow.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "transaction without a message")
	}
	return tx.Msg, nil
}

// GetSignatures returns the signatures of the transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign. Signatures are not part of them.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := Tx{Msg: tx.Msg}
	return unsigned.Marshal()
}

// Sign appends a signature of the given signer.
func (tx *Tx) Sign(signer crypto.Signer, chainID string, seq int64) error {
	sig, err := sigs.SignTx(signer, tx, chainID, seq)
	if err != nil {
		return err
	}
	tx.Signatures = append(tx.Signatures, sig)
	return nil
}
