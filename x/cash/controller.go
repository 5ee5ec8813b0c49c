package cash

import (
	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/errors"
)

// Controller is the functionality needed by cash.Handler and other
// extensions that need to move the native currency.
type Controller interface {
	Balance(tokenescrow.ReadOnlyKVStore, tokenescrow.Address) (uint64, error)
	MoveCoins(tokenescrow.KVStore, tokenescrow.Address, tokenescrow.Address, uint64) error
	IssueCoins(tokenescrow.KVStore, tokenescrow.Address, uint64) error
}

// BaseController is a simple implementation of Controller.
type BaseController struct {
	bucket WalletBucket
}

var _ Controller = BaseController{}

// NewController returns a controller operating on given bucket.
func NewController(bucket WalletBucket) BaseController {
	return BaseController{bucket: bucket}
}

// Balance returns the amount held by given address. Missing wallets hold
// zero.
func (c BaseController) Balance(db tokenescrow.ReadOnlyKVStore, addr tokenescrow.Address) (uint64, error) {
	if err := addr.Validate(); err != nil {
		return 0, errors.Wrap(err, "address")
	}
	w, err := c.bucket.GetOrCreate(db, addr)
	if err != nil {
		return 0, err
	}
	return w.Balance, nil
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't exist, or doesn't have sufficient
// coins, it fails with ErrInsufficientAmount.
func (c BaseController) MoveCoins(db tokenescrow.KVStore, src, dest tokenescrow.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero value")
	}
	if err := src.Validate(); err != nil {
		return errors.Wrap(err, "src")
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "dest")
	}

	var sender Wallet
	switch err := c.bucket.One(db, src, &sender); {
	case err == nil:
	case errors.ErrNotFound.Is(err):
		return errors.Wrapf(errors.ErrInsufficientAmount, "empty wallet %s", src)
	default:
		return err
	}
	if err := sender.Subtract(amount); err != nil {
		return err
	}
	if err := c.bucket.Put(db, src, &sender); err != nil {
		return errors.Wrap(err, "save sender")
	}

	// Load the recipient only after the sender was saved, in case both
	// are the same wallet.
	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return err
	}
	if err := recipient.Add(amount); err != nil {
		return err
	}
	if err := c.bucket.Put(db, dest, recipient); err != nil {
		return errors.Wrap(err, "save recipient")
	}
	return nil
}

// IssueCoins attempts to add the given amount of coins to
// the destination address. Fails if it overflows the wallet.
func (c BaseController) IssueCoins(db tokenescrow.KVStore, dest tokenescrow.Address, amount uint64) error {
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "dest")
	}
	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return err
	}
	if err := recipient.Add(amount); err != nil {
		return err
	}
	return c.bucket.Put(db, dest, recipient)
}
