package token

import (
	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/errors"
	"github.com/iov-one/tokenescrow/orm"
	"github.com/iov-one/tokenescrow/x"
)

// Controller is the asset transfer primitive used by the handlers of this
// package and by other extensions.
type Controller interface {
	// Account returns the account stored under addr.
	Account(db tokenescrow.ReadOnlyKVStore, addr tokenescrow.Address) (*Account, error)
	// CreateAccount creates an empty account under given address. It fails
	// with ErrDuplicate if the address is taken.
	CreateAccount(db tokenescrow.KVStore, addr, owner, mint tokenescrow.Address) (*Account, error)
	// NewAccount creates an empty account under a new address.
	NewAccount(db tokenescrow.KVStore, owner, mint tokenescrow.Address) (tokenescrow.Address, *Account, error)
	// CloseAccount removes an empty account. The owner must be
	// authenticated.
	CloseAccount(ctx tokenescrow.Context, db tokenescrow.KVStore, auth x.Authenticator, addr tokenescrow.Address) error
	// Transfer moves amount of tokens between two accounts of the same
	// mint. The owner of the source account must be authenticated.
	Transfer(ctx tokenescrow.Context, db tokenescrow.KVStore, auth x.Authenticator, from, to tokenescrow.Address, amount uint64) error
	// MintTo issues new tokens into an existing account.
	MintTo(db tokenescrow.KVStore, to tokenescrow.Address, amount uint64) error
}

// BaseController is the default Controller implementation.
type BaseController struct {
	mints    orm.ModelBucket
	accounts orm.ModelBucket
	seq      orm.Sequence
}

var _ Controller = BaseController{}

// NewController returns a controller using the default buckets.
func NewController() BaseController {
	return BaseController{
		mints:    NewMintBucket(),
		accounts: NewAccountBucket(),
		seq:      accountSeq,
	}
}

// Account returns the account stored under addr, or ErrNotFound.
func (c BaseController) Account(db tokenescrow.ReadOnlyKVStore, addr tokenescrow.Address) (*Account, error) {
	var a Account
	if err := c.accounts.One(db, addr, &a); err != nil {
		return nil, errors.Wrapf(err, "account %s", addr)
	}
	return &a, nil
}

// Mint returns the mint stored under addr, or ErrNotFound.
func (c BaseController) Mint(db tokenescrow.ReadOnlyKVStore, addr tokenescrow.Address) (*Mint, error) {
	var m Mint
	if err := c.mints.One(db, addr, &m); err != nil {
		return nil, errors.Wrapf(err, "mint %s", addr)
	}
	return &m, nil
}

// CreateMint registers a new asset under given address.
func (c BaseController) CreateMint(db tokenescrow.KVStore, addr tokenescrow.Address, ticker string) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "mint address")
	}
	return c.mints.Create(db, addr, &Mint{Ticker: ticker})
}

func (c BaseController) CreateAccount(db tokenescrow.KVStore, addr, owner, mint tokenescrow.Address) (*Account, error) {
	if err := addr.Validate(); err != nil {
		return nil, errors.Wrap(err, "account address")
	}
	if _, err := c.Mint(db, mint); err != nil {
		return nil, err
	}
	a := &Account{Owner: owner, Mint: mint}
	if err := c.accounts.Create(db, addr, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (c BaseController) NewAccount(db tokenescrow.KVStore, owner, mint tokenescrow.Address) (tokenescrow.Address, *Account, error) {
	seq, err := c.seq.NextVal(db)
	if err != nil {
		return nil, nil, errors.Wrap(err, "account sequence")
	}
	addr := AccountCondition(seq).Address()
	a, err := c.CreateAccount(db, addr, owner, mint)
	if err != nil {
		return nil, nil, err
	}
	return addr, a, nil
}

func (c BaseController) CloseAccount(ctx tokenescrow.Context, db tokenescrow.KVStore, auth x.Authenticator, addr tokenescrow.Address) error {
	a, err := c.Account(db, addr)
	if err != nil {
		return err
	}
	if !auth.HasAddress(ctx, a.Owner) {
		return errors.Wrap(errors.ErrUnauthorized, "account owner signature missing")
	}
	if a.Amount != 0 {
		return errors.Wrapf(errors.ErrState, "account holds %d tokens", a.Amount)
	}
	return c.accounts.Delete(db, addr)
}

func (c BaseController) Transfer(ctx tokenescrow.Context, db tokenescrow.KVStore, auth x.Authenticator, from, to tokenescrow.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero value")
	}
	src, err := c.Account(db, from)
	if err != nil {
		return errors.Wrap(err, "source")
	}
	dst, err := c.Account(db, to)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if !auth.HasAddress(ctx, src.Owner) {
		return errors.Wrap(errors.ErrUnauthorized, "account owner signature missing")
	}
	if !src.Mint.Equals(dst.Mint) {
		return errors.Wrapf(errors.ErrUnauthorized, "mint mismatch: %s != %s", src.Mint, dst.Mint)
	}
	if src.Amount < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "balance %d, want %d", src.Amount, amount)
	}
	if from.Equals(to) {
		return nil
	}
	if dst.Amount+amount < dst.Amount {
		return errors.Wrap(errors.ErrOverflow, "destination balance")
	}

	src.Amount -= amount
	dst.Amount += amount
	if err := c.accounts.Put(db, from, src); err != nil {
		return errors.Wrap(err, "save source")
	}
	if err := c.accounts.Put(db, to, dst); err != nil {
		return errors.Wrap(err, "save destination")
	}
	return nil
}

func (c BaseController) MintTo(db tokenescrow.KVStore, to tokenescrow.Address, amount uint64) error {
	a, err := c.Account(db, to)
	if err != nil {
		return err
	}
	m, err := c.Mint(db, a.Mint)
	if err != nil {
		return err
	}
	if m.Supply+amount < m.Supply || a.Amount+amount < a.Amount {
		return errors.Wrap(errors.ErrOverflow, "supply")
	}
	m.Supply += amount
	a.Amount += amount
	if err := c.mints.Put(db, a.Mint, m); err != nil {
		return errors.Wrap(err, "save mint")
	}
	return c.accounts.Put(db, to, a)
}
