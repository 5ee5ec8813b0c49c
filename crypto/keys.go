package crypto

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/tokenescrow"
)

// ExtensionName is used for the conditions we get from signatures
const ExtensionName = "sigs"

// PubKey represents a crypto public key we use
type PubKey interface {
	Verify(message []byte, sig *Signature) bool
	Condition() tokenescrow.Condition
}

// Signer is the functionality we use from a private key
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

// PublicKey holds the raw ed25519 public key bytes.
type PublicKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

func (m *PublicKey) Reset()         { *m = PublicKey{} }
func (m *PublicKey) String() string { return proto.CompactTextString(m) }
func (*PublicKey) ProtoMessage()    {}

// GetEd25519 returns the raw key bytes, or nil.
func (m *PublicKey) GetEd25519() []byte {
	if m != nil {
		return m.Ed25519
	}
	return nil
}

// PrivateKey holds the raw ed25519 private key bytes, seed followed by the
// public key.
type PrivateKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

func (m *PrivateKey) Reset()         { *m = PrivateKey{} }
func (m *PrivateKey) String() string { return proto.CompactTextString(m) }
func (*PrivateKey) ProtoMessage()    {}

// GetEd25519 returns the raw key bytes, or nil.
func (m *PrivateKey) GetEd25519() []byte {
	if m != nil {
		return m.Ed25519
	}
	return nil
}

// Signature holds a raw ed25519 signature.
type Signature struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

func (m *Signature) Reset()         { *m = Signature{} }
func (m *Signature) String() string { return proto.CompactTextString(m) }
func (*Signature) ProtoMessage()    {}

// GetEd25519 returns the raw signature bytes, or nil.
func (m *Signature) GetEd25519() []byte {
	if m != nil {
		return m.Ed25519
	}
	return nil
}

// Address is a helper returning the address of the key condition, or nil.
func (m *PublicKey) Address() tokenescrow.Address {
	c := m.Condition()
	if c == nil {
		return nil
	}
	return c.Address()
}
