package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/errors"
)

const (
	pathSendMsg = "cash/send"

	sendTxCost int64 = 100

	maxMemoSize int = 128
)

// SendMsg moves the native currency from Source to Destination.
// When Source is empty, the main signer pays.
type SendMsg struct {
	Source      tokenescrow.Address `protobuf:"bytes,1,opt,name=source,proto3,casttype=github.com/iov-one/tokenescrow.Address" json:"source,omitempty"`
	Destination tokenescrow.Address `protobuf:"bytes,2,opt,name=destination,proto3,casttype=github.com/iov-one/tokenescrow.Address" json:"destination,omitempty"`
	Amount      uint64              `protobuf:"varint,3,opt,name=amount,proto3" json:"amount,omitempty"`
	Memo        string              `protobuf:"bytes,4,opt,name=memo,proto3" json:"memo,omitempty"`
}

func (m *SendMsg) Reset()         { *m = SendMsg{} }
func (m *SendMsg) String() string { return proto.CompactTextString(m) }
func (*SendMsg) ProtoMessage()    {}

var _ tokenescrow.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return pathSendMsg
}

// Validate makes sure that this is sensible
func (m *SendMsg) Validate() error {
	if m.Amount == 0 {
		return errors.Wrap(errors.ErrAmount, "non-positive SendMsg")
	}
	if len(m.Source) != 0 {
		if err := m.Source.Validate(); err != nil {
			return errors.Wrap(err, "source")
		}
	}
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if len(m.Memo) > maxMemoSize {
		return errors.Wrap(errors.ErrState, "memo too long")
	}
	return nil
}
