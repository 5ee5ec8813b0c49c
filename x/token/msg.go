package token

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/errors"
)

const (
	pathCreateAccountMsg = "token/create"
	pathTransferMsg      = "token/transfer"
	pathCloseAccountMsg  = "token/close"

	createAccountCost int64 = 200
	transferCost      int64 = 100
)

// CreateAccountMsg creates an empty account of the given mint. When Owner is
// empty the main signer owns the account.
type CreateAccountMsg struct {
	Owner tokenescrow.Address `protobuf:"bytes,1,opt,name=owner,proto3,casttype=github.com/iov-one/tokenescrow.Address" json:"owner,omitempty"`
	Mint  tokenescrow.Address `protobuf:"bytes,2,opt,name=mint,proto3,casttype=github.com/iov-one/tokenescrow.Address" json:"mint,omitempty"`
}

func (m *CreateAccountMsg) Reset()         { *m = CreateAccountMsg{} }
func (m *CreateAccountMsg) String() string { return proto.CompactTextString(m) }
func (*CreateAccountMsg) ProtoMessage()    {}

var _ tokenescrow.Msg = (*CreateAccountMsg)(nil)

func (CreateAccountMsg) Path() string {
	return pathCreateAccountMsg
}

func (m *CreateAccountMsg) Validate() error {
	if len(m.Owner) != 0 {
		if err := m.Owner.Validate(); err != nil {
			return errors.Wrap(err, "owner")
		}
	}
	if err := m.Mint.Validate(); err != nil {
		return errors.Wrap(err, "mint")
	}
	return nil
}

// TransferMsg moves tokens between two accounts of the same mint.
type TransferMsg struct {
	Source      tokenescrow.Address `protobuf:"bytes,1,opt,name=source,proto3,casttype=github.com/iov-one/tokenescrow.Address" json:"source,omitempty"`
	Destination tokenescrow.Address `protobuf:"bytes,2,opt,name=destination,proto3,casttype=github.com/iov-one/tokenescrow.Address" json:"destination,omitempty"`
	Amount      uint64              `protobuf:"varint,3,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (m *TransferMsg) Reset()         { *m = TransferMsg{} }
func (m *TransferMsg) String() string { return proto.CompactTextString(m) }
func (*TransferMsg) ProtoMessage()    {}

var _ tokenescrow.Msg = (*TransferMsg)(nil)

func (TransferMsg) Path() string {
	return pathTransferMsg
}

func (m *TransferMsg) Validate() error {
	if m.Amount == 0 {
		return errors.Wrap(errors.ErrAmount, "non-positive transfer")
	}
	if err := m.Source.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	return nil
}

// CloseAccountMsg removes an empty account.
type CloseAccountMsg struct {
	Account tokenescrow.Address `protobuf:"bytes,1,opt,name=account,proto3,casttype=github.com/iov-one/tokenescrow.Address" json:"account,omitempty"`
}

func (m *CloseAccountMsg) Reset()         { *m = CloseAccountMsg{} }
func (m *CloseAccountMsg) String() string { return proto.CompactTextString(m) }
func (*CloseAccountMsg) ProtoMessage()    {}

var _ tokenescrow.Msg = (*CloseAccountMsg)(nil)

func (CloseAccountMsg) Path() string {
	return pathCloseAccountMsg
}

func (m *CloseAccountMsg) Validate() error {
	return errors.Wrap(m.Account.Validate(), "account")
}
