package token

import (
	"regexp"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/errors"
	"github.com/iov-one/tokenescrow/orm"
)

var isTicker = regexp.MustCompile(`^[A-Z0-9]{3,8}$`).MatchString

// Mint describes a single fungible asset. It is stored under the mint
// address.
type Mint struct {
	Ticker string `protobuf:"bytes,1,opt,name=ticker,proto3" json:"ticker,omitempty"`
	// Supply is the total amount issued.
	Supply uint64 `protobuf:"varint,2,opt,name=supply,proto3" json:"supply,omitempty"`
}

func (m *Mint) Reset()         { *m = Mint{} }
func (m *Mint) String() string { return proto.CompactTextString(m) }
func (*Mint) ProtoMessage()    {}

func (m *Mint) Validate() error {
	if !isTicker(m.Ticker) {
		return errors.Wrapf(errors.ErrModel, "invalid ticker %q", m.Ticker)
	}
	return nil
}

// Account holds an amount of tokens of a single mint.
type Account struct {
	Owner  tokenescrow.Address `protobuf:"bytes,1,opt,name=owner,proto3,casttype=github.com/iov-one/tokenescrow.Address" json:"owner,omitempty"`
	Mint   tokenescrow.Address `protobuf:"bytes,2,opt,name=mint,proto3,casttype=github.com/iov-one/tokenescrow.Address" json:"mint,omitempty"`
	Amount uint64              `protobuf:"varint,3,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (m *Account) Reset()         { *m = Account{} }
func (m *Account) String() string { return proto.CompactTextString(m) }
func (*Account) ProtoMessage()    {}

func (m *Account) Validate() error {
	if err := m.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if err := m.Mint.Validate(); err != nil {
		return errors.Wrap(err, "mint")
	}
	return nil
}

// NewMintBucket returns a bucket storing mints under their address.
func NewMintBucket() orm.ModelBucket {
	return orm.NewModelBucket("mint", &Mint{})
}

// NewAccountBucket returns a bucket storing accounts under their address,
// indexed by the owner.
func NewAccountBucket() orm.ModelBucket {
	return orm.NewModelBucket("tokens", &Account{}).
		WithIndex("owner", accountOwner, false)
}

func accountOwner(m orm.Model) ([]byte, error) {
	a, ok := m.(*Account)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return a.Owner, nil
}

// accountSeq generates the addresses of accounts created by a message.
var accountSeq = orm.NewSequence("tokens", "id")

// AccountCondition returns the condition whose address is used for the
// account created with given sequence value.
func AccountCondition(seq []byte) tokenescrow.Condition {
	return tokenescrow.NewCondition("token", "account", seq)
}
