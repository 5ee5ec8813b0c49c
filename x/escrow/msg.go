package escrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/errors"
)

const (
	pathOpenMsg         = "escrow/open"
	pathSettleMsg       = "escrow/settle"
	pathCancelMsg       = "escrow/cancel"
	pathCloseMsg        = "escrow/close"
	pathUpdateConfigMsg = "escrow/update_config"

	// pay for the record up-front
	openEscrowCost   int64 = 300
	settleEscrowCost int64 = 100
	cancelEscrowCost int64 = 0
	closeEscrowCost  int64 = 0
)

// OpenMsg locks OfferedAmount tokens of SellerAssetAccount in exchange for
// RequestedAmount of the native currency. When Seller is empty the main
// signer is the seller.
type OpenMsg struct {
	Seller             tokenescrow.Address `protobuf:"bytes,1,opt,name=seller,proto3,casttype=github.com/iov-one/tokenescrow.Address" json:"seller,omitempty"`
	SellerAssetAccount tokenescrow.Address `protobuf:"bytes,2,opt,name=seller_asset_account,json=sellerAssetAccount,proto3,casttype=github.com/iov-one/tokenescrow.Address" json:"seller_asset_account,omitempty"`
	AssetType          tokenescrow.Address `protobuf:"bytes,3,opt,name=asset_type,json=assetType,proto3,casttype=github.com/iov-one/tokenescrow.Address" json:"asset_type,omitempty"`
	OfferedAmount      uint64              `protobuf:"varint,4,opt,name=offered_amount,json=offeredAmount,proto3" json:"offered_amount,omitempty"`
	RequestedAmount    uint64              `protobuf:"varint,5,opt,name=requested_amount,json=requestedAmount,proto3" json:"requested_amount,omitempty"`
}

func (m *OpenMsg) Reset()         { *m = OpenMsg{} }
func (m *OpenMsg) String() string { return proto.CompactTextString(m) }
func (*OpenMsg) ProtoMessage()    {}

var _ tokenescrow.Msg = (*OpenMsg)(nil)

func (OpenMsg) Path() string {
	return pathOpenMsg
}

// Validate checks the addresses. Amounts are checked against the
// configuration by the manager.
func (m *OpenMsg) Validate() error {
	if len(m.Seller) != 0 {
		if err := m.Seller.Validate(); err != nil {
			return errors.Wrap(err, "seller")
		}
	}
	if err := m.SellerAssetAccount.Validate(); err != nil {
		return errors.Wrap(err, "seller asset account")
	}
	if err := m.AssetType.Validate(); err != nil {
		return errors.Wrap(err, "asset type")
	}
	return nil
}

// SettleMsg pays for an open escrow and receives the locked tokens in
// BuyerAssetAccount. When Buyer is empty the main signer is the buyer.
type SettleMsg struct {
	Escrow            tokenescrow.Address `protobuf:"bytes,1,opt,name=escrow,proto3,casttype=github.com/iov-one/tokenescrow.Address" json:"escrow,omitempty"`
	Buyer             tokenescrow.Address `protobuf:"bytes,2,opt,name=buyer,proto3,casttype=github.com/iov-one/tokenescrow.Address" json:"buyer,omitempty"`
	BuyerAssetAccount tokenescrow.Address `protobuf:"bytes,3,opt,name=buyer_asset_account,json=buyerAssetAccount,proto3,casttype=github.com/iov-one/tokenescrow.Address" json:"buyer_asset_account,omitempty"`
}

func (m *SettleMsg) Reset()         { *m = SettleMsg{} }
func (m *SettleMsg) String() string { return proto.CompactTextString(m) }
func (*SettleMsg) ProtoMessage()    {}

var _ tokenescrow.Msg = (*SettleMsg)(nil)

func (SettleMsg) Path() string {
	return pathSettleMsg
}

func (m *SettleMsg) Validate() error {
	if err := m.Escrow.Validate(); err != nil {
		return errors.Wrap(err, "escrow")
	}
	if len(m.Buyer) != 0 {
		if err := m.Buyer.Validate(); err != nil {
			return errors.Wrap(err, "buyer")
		}
	}
	if err := m.BuyerAssetAccount.Validate(); err != nil {
		return errors.Wrap(err, "buyer asset account")
	}
	return nil
}

// CancelMsg returns the locked tokens of an open escrow to the seller.
type CancelMsg struct {
	Escrow tokenescrow.Address `protobuf:"bytes,1,opt,name=escrow,proto3,casttype=github.com/iov-one/tokenescrow.Address" json:"escrow,omitempty"`
	// Caller defaults to the main signer.
	Caller tokenescrow.Address `protobuf:"bytes,2,opt,name=caller,proto3,casttype=github.com/iov-one/tokenescrow.Address" json:"caller,omitempty"`
}

func (m *CancelMsg) Reset()         { *m = CancelMsg{} }
func (m *CancelMsg) String() string { return proto.CompactTextString(m) }
func (*CancelMsg) ProtoMessage()    {}

var _ tokenescrow.Msg = (*CancelMsg)(nil)

func (CancelMsg) Path() string {
	return pathCancelMsg
}

func (m *CancelMsg) Validate() error {
	if err := m.Escrow.Validate(); err != nil {
		return errors.Wrap(err, "escrow")
	}
	if len(m.Caller) != 0 {
		if err := m.Caller.Validate(); err != nil {
			return errors.Wrap(err, "caller")
		}
	}
	return nil
}

// CloseMsg removes a settled escrow.
type CloseMsg struct {
	Escrow tokenescrow.Address `protobuf:"bytes,1,opt,name=escrow,proto3,casttype=github.com/iov-one/tokenescrow.Address" json:"escrow,omitempty"`
	// Caller defaults to the main signer.
	Caller tokenescrow.Address `protobuf:"bytes,2,opt,name=caller,proto3,casttype=github.com/iov-one/tokenescrow.Address" json:"caller,omitempty"`
}

func (m *CloseMsg) Reset()         { *m = CloseMsg{} }
func (m *CloseMsg) String() string { return proto.CompactTextString(m) }
func (*CloseMsg) ProtoMessage()    {}

var _ tokenescrow.Msg = (*CloseMsg)(nil)

func (CloseMsg) Path() string {
	return pathCloseMsg
}

func (m *CloseMsg) Validate() error {
	if err := m.Escrow.Validate(); err != nil {
		return errors.Wrap(err, "escrow")
	}
	if len(m.Caller) != 0 {
		if err := m.Caller.Validate(); err != nil {
			return errors.Wrap(err, "caller")
		}
	}
	return nil
}

// UpdateConfigurationMsg patches the escrow configuration. Only non zero
// fields of Patch are applied.
type UpdateConfigurationMsg struct {
	Patch *Configuration `protobuf:"bytes,1,opt,name=patch,proto3" json:"patch,omitempty"`
}

func (m *UpdateConfigurationMsg) Reset()         { *m = UpdateConfigurationMsg{} }
func (m *UpdateConfigurationMsg) String() string { return proto.CompactTextString(m) }
func (*UpdateConfigurationMsg) ProtoMessage()    {}

var _ tokenescrow.Msg = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string {
	return pathUpdateConfigMsg
}

func (m *UpdateConfigurationMsg) Validate() error {
	if m.Patch == nil {
		return errors.Wrap(errors.ErrEmpty, "patch")
	}
	if len(m.Patch.Owner) != 0 {
		if err := m.Patch.Owner.Validate(); err != nil {
			return errors.Wrap(err, "owner")
		}
	}
	return nil
}
