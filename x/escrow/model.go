package escrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/errors"
	"github.com/iov-one/tokenescrow/orm"
)

// Status of an escrow. Only open and settled escrows are ever stored.
type Status int32

const (
	StatusOpen      Status = 1
	StatusSettled   Status = 2
	StatusCancelled Status = 3
)

func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusSettled:
		return "settled"
	case StatusCancelled:
		return "cancelled"
	default:
		return "invalid"
	}
}

// Escrow is the record of a single swap offer. It is stored under the
// escrow address derived from the seller.
type Escrow struct {
	// Schema is the version of this record layout.
	Schema             uint32              `protobuf:"varint,1,opt,name=schema,proto3" json:"schema,omitempty"`
	Seller             tokenescrow.Address `protobuf:"bytes,2,opt,name=seller,proto3,casttype=github.com/iov-one/tokenescrow.Address" json:"seller,omitempty"`
	SellerAssetAccount tokenescrow.Address `protobuf:"bytes,3,opt,name=seller_asset_account,json=sellerAssetAccount,proto3,casttype=github.com/iov-one/tokenescrow.Address" json:"seller_asset_account,omitempty"`
	// AssetType is the address of the token mint.
	AssetType       tokenescrow.Address `protobuf:"bytes,4,opt,name=asset_type,json=assetType,proto3,casttype=github.com/iov-one/tokenescrow.Address" json:"asset_type,omitempty"`
	OfferedAmount   uint64              `protobuf:"varint,5,opt,name=offered_amount,json=offeredAmount,proto3" json:"offered_amount,omitempty"`
	RequestedAmount uint64              `protobuf:"varint,6,opt,name=requested_amount,json=requestedAmount,proto3" json:"requested_amount,omitempty"`
	EscrowBump      uint32              `protobuf:"varint,7,opt,name=escrow_bump,json=escrowBump,proto3" json:"escrow_bump,omitempty"`
	VaultBump       uint32              `protobuf:"varint,8,opt,name=vault_bump,json=vaultBump,proto3" json:"vault_bump,omitempty"`
	Vault           tokenescrow.Address `protobuf:"bytes,9,opt,name=vault,proto3,casttype=github.com/iov-one/tokenescrow.Address" json:"vault,omitempty"`
	Status          Status              `protobuf:"varint,10,opt,name=status,proto3" json:"status,omitempty"`
	// Deposit is the amount of native currency paid by the seller when
	// opening and refunded when the record is removed.
	Deposit uint64 `protobuf:"varint,11,opt,name=deposit,proto3" json:"deposit,omitempty"`
}

func (m *Escrow) Reset()         { *m = Escrow{} }
func (m *Escrow) String() string { return proto.CompactTextString(m) }
func (*Escrow) ProtoMessage()    {}

func (m *Escrow) Validate() error {
	if m.Schema == 0 {
		return errors.Wrap(errors.ErrModel, "missing schema")
	}
	if err := m.Seller.Validate(); err != nil {
		return errors.Wrap(err, "seller")
	}
	if err := m.SellerAssetAccount.Validate(); err != nil {
		return errors.Wrap(err, "seller asset account")
	}
	if err := m.AssetType.Validate(); err != nil {
		return errors.Wrap(err, "asset type")
	}
	if err := m.Vault.Validate(); err != nil {
		return errors.Wrap(err, "vault")
	}
	if m.EscrowBump > 255 || m.VaultBump > 255 {
		return errors.Wrap(errors.ErrModel, "bump out of range")
	}
	switch m.Status {
	case StatusOpen, StatusSettled:
	default:
		return errors.Wrapf(errors.ErrModel, "status %s cannot be stored", m.Status)
	}
	return nil
}

// NewBucket returns a bucket storing escrows under their address. Escrows
// can be queried by seller and by asset type.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket("escrow", &Escrow{}).
		WithIndex("seller", escrowSeller, true).
		WithIndex("asset", escrowAsset, false)
}

func escrowSeller(m orm.Model) ([]byte, error) {
	e, ok := m.(*Escrow)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return e.Seller, nil
}

func escrowAsset(m orm.Model) ([]byte, error) {
	e, ok := m.(*Escrow)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return e.AssetType, nil
}

// Configuration of the escrow extension.
type Configuration struct {
	// Owner is allowed to update the configuration.
	Owner tokenescrow.Address `protobuf:"bytes,1,opt,name=owner,proto3,casttype=github.com/iov-one/tokenescrow.Address" json:"owner,omitempty"`
	// RecordDeposit is paid by the seller on open and refunded when the
	// escrow record is removed.
	RecordDeposit uint64 `protobuf:"varint,2,opt,name=record_deposit,json=recordDeposit,proto3" json:"record_deposit,omitempty"`
	// AllowZeroAmounts accepts escrows offering or requesting nothing.
	AllowZeroAmounts bool `protobuf:"varint,3,opt,name=allow_zero_amounts,json=allowZeroAmounts,proto3" json:"allow_zero_amounts,omitempty"`
}

func (m *Configuration) Reset()         { *m = Configuration{} }
func (m *Configuration) String() string { return proto.CompactTextString(m) }
func (*Configuration) ProtoMessage()    {}

func (m *Configuration) GetOwner() tokenescrow.Address {
	if m == nil {
		return nil
	}
	return m.Owner
}

func (m *Configuration) Validate() error {
	if err := m.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	return nil
}
