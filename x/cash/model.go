package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/errors"
	"github.com/iov-one/tokenescrow/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Wallet holds the balance of the native currency owned by a single
// address. The address is the key.
type Wallet struct {
	Balance uint64 `protobuf:"varint,1,opt,name=balance,proto3" json:"balance,omitempty"`
}

func (m *Wallet) Reset()         { *m = Wallet{} }
func (m *Wallet) String() string { return proto.CompactTextString(m) }
func (*Wallet) ProtoMessage()    {}

// Validate always passes, every balance is valid.
func (m *Wallet) Validate() error {
	return nil
}

// Add increases the balance, failing on overflow.
func (m *Wallet) Add(amount uint64) error {
	sum := m.Balance + amount
	if sum < m.Balance {
		return errors.Wrapf(errors.ErrOverflow, "%d + %d", m.Balance, amount)
	}
	m.Balance = sum
	return nil
}

// Subtract decreases the balance, failing if the wallet does not hold
// enough.
func (m *Wallet) Subtract(amount uint64) error {
	if m.Balance < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "balance %d, want %d", m.Balance, amount)
	}
	m.Balance -= amount
	return nil
}

// WalletBucket stores wallets under the owner address.
type WalletBucket struct {
	orm.ModelBucket
}

// NewBucket returns a bucket for managing wallets
func NewBucket() WalletBucket {
	return WalletBucket{
		ModelBucket: orm.NewModelBucket(BucketName, &Wallet{}),
	}
}

// GetOrCreate returns the wallet stored under addr, or an empty one.
func (b WalletBucket) GetOrCreate(db tokenescrow.ReadOnlyKVStore, addr tokenescrow.Address) (*Wallet, error) {
	var w Wallet
	switch err := b.One(db, addr, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{}, nil
	default:
		return nil, err
	}
}
