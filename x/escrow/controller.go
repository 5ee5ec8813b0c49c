package escrow

import (
	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/errors"
	"github.com/iov-one/tokenescrow/gconf"
	"github.com/iov-one/tokenescrow/orm"
	"github.com/iov-one/tokenescrow/x"
	"github.com/iov-one/tokenescrow/x/cash"
	"github.com/iov-one/tokenescrow/x/token"
)

// escrowSchema is the layout version of newly created records.
const escrowSchema = 1

// OpenParams describes a new escrow.
type OpenParams struct {
	Seller             tokenescrow.Address
	SellerAssetAccount tokenescrow.Address
	AssetType          tokenescrow.Address
	OfferedAmount      uint64
	RequestedAmount    uint64
}

// Manager runs the escrow state machine. All changes made by an operation
// are written together or not at all.
type Manager struct {
	tokens token.Controller
	cash   cash.Controller
	auth   x.Authenticator
	bucket orm.ModelBucket
}

// NewManager returns a manager moving tokens with tokens and the native
// currency with payments. Sellers, buyers and callers must be authenticated by
// auth.
func NewManager(tokens token.Controller, payments cash.Controller, auth x.Authenticator) *Manager {
	return &Manager{
		tokens: tokens,
		cash:   payments,
		auth:   auth,
		bucket: NewBucket(),
	}
}

// Config returns the current configuration, or the default one if none was
// stored.
func (m *Manager) Config(db tokenescrow.ReadOnlyKVStore) (*Configuration, error) {
	var conf Configuration
	switch err := gconf.Load(db, extensionName, &conf); {
	case err == nil:
		return &conf, nil
	case errors.ErrNotFound.Is(err):
		return &Configuration{}, nil
	default:
		return nil, errors.Wrap(err, "escrow configuration")
	}
}

// Get returns the escrow stored under given address.
func (m *Manager) Get(db tokenescrow.ReadOnlyKVStore, escrowAddr tokenescrow.Address) (*Escrow, error) {
	var e Escrow
	if err := m.bucket.One(db, escrowAddr, &e); err != nil {
		return nil, errors.Wrapf(err, "escrow %s", escrowAddr)
	}
	return &e, nil
}

// Iterate calls fn for every stored escrow with given status. A zero status
// matches all escrows.
func (m *Manager) Iterate(db tokenescrow.ReadOnlyKVStore, status Status, fn func(tokenescrow.Address, *Escrow) error) error {
	return m.bucket.Iterate(db, func(key []byte, obj orm.Model) error {
		e, ok := obj.(*Escrow)
		if !ok {
			return errors.Wrapf(errors.ErrType, "%T", obj)
		}
		if status != 0 && e.Status != status {
			return nil
		}
		return fn(tokenescrow.Address(key), e)
	})
}

// Open creates an escrow together with its vault and moves the offered
// tokens from the seller account into the vault.
func (m *Manager) Open(ctx tokenescrow.Context, db tokenescrow.KVStore, p OpenParams) (*Escrow, error) {
	conf, err := m.Config(db)
	if err != nil {
		return nil, err
	}
	if !conf.AllowZeroAmounts && (p.OfferedAmount == 0 || p.RequestedAmount == 0) {
		return nil, errors.Wrap(errors.ErrAmount, "zero amount not allowed")
	}
	if err := p.Seller.Validate(); err != nil {
		return nil, errors.Wrap(err, "seller")
	}

	escrowAddr, escrowBump, err := EscrowAddress(p.Seller)
	if err != nil {
		return nil, err
	}
	vaultAddr, vaultBump, err := VaultAddress(p.Seller)
	if err != nil {
		return nil, err
	}
	switch has, err := m.bucket.Has(db, escrowAddr); {
	case err != nil:
		return nil, err
	case has:
		return nil, errors.Wrapf(ErrAddressCollision, "escrow %s exists", escrowAddr)
	}
	switch _, err := m.tokens.Account(db, vaultAddr); {
	case err == nil:
		return nil, errors.Wrapf(ErrAddressCollision, "vault %s exists", vaultAddr)
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}

	if !m.auth.HasAddress(ctx, p.Seller) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "seller signature missing")
	}
	src, err := m.tokens.Account(db, p.SellerAssetAccount)
	if err != nil {
		return nil, errors.Wrap(err, "seller asset account")
	}
	if !src.Owner.Equals(p.Seller) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "seller asset account not owned by seller")
	}
	if !src.Mint.Equals(p.AssetType) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "seller asset account holds %s", src.Mint)
	}

	e := &Escrow{
		Schema:             escrowSchema,
		Seller:             p.Seller,
		SellerAssetAccount: p.SellerAssetAccount,
		AssetType:          p.AssetType,
		OfferedAmount:      p.OfferedAmount,
		RequestedAmount:    p.RequestedAmount,
		EscrowBump:         uint32(escrowBump),
		VaultBump:          uint32(vaultBump),
		Vault:              vaultAddr,
		Status:             StatusOpen,
		Deposit:            conf.RecordDeposit,
	}
	err = savepoint(db, func(db tokenescrow.KVStore) error {
		if err := m.bucket.Create(db, escrowAddr, e); err != nil {
			if errors.ErrDuplicate.Is(err) {
				return errors.Wrap(ErrAddressCollision, err.Error())
			}
			return errors.Wrap(err, "create escrow")
		}
		if _, err := m.tokens.CreateAccount(db, vaultAddr, vaultAddr, p.AssetType); err != nil {
			if errors.ErrDuplicate.Is(err) {
				return errors.Wrap(ErrAddressCollision, err.Error())
			}
			return errors.Wrap(err, "create vault")
		}
		if e.OfferedAmount > 0 {
			if err := m.tokens.Transfer(ctx, db, m.auth, p.SellerAssetAccount, vaultAddr, e.OfferedAmount); err != nil {
				return errors.Wrap(err, "fund vault")
			}
		}
		if e.Deposit > 0 {
			if err := m.cash.MoveCoins(db, p.Seller, escrowAddr, e.Deposit); err != nil {
				return errors.Wrap(err, "record deposit")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	tokenescrow.GetLogger(ctx).Info("escrow opened",
		"escrow", escrowAddr,
		"seller", e.Seller,
		"offered", e.OfferedAmount,
		"requested", e.RequestedAmount)
	return e, nil
}

// Settle pays the requested amount to the seller and releases the vault to
// the buyer asset account.
func (m *Manager) Settle(ctx tokenescrow.Context, db tokenescrow.KVStore, buyer, buyerAssetAccount, escrowAddr tokenescrow.Address) (*Escrow, error) {
	e, err := m.Get(db, escrowAddr)
	if err != nil {
		return nil, err
	}
	if e.Status != StatusOpen {
		return nil, errors.Wrapf(ErrAlreadyCompleted, "escrow is %s", e.Status)
	}
	if !m.auth.HasAddress(ctx, buyer) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "buyer signature missing")
	}
	dst, err := m.tokens.Account(db, buyerAssetAccount)
	if err != nil {
		return nil, errors.Wrap(err, "buyer asset account")
	}
	if !dst.Owner.Equals(buyer) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "buyer asset account not owned by buyer")
	}
	if !dst.Mint.Equals(e.AssetType) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "buyer asset account holds %s", dst.Mint)
	}
	vault, err := vaultAuthority(e)
	if err != nil {
		return nil, err
	}

	err = savepoint(db, func(db tokenescrow.KVStore) error {
		if e.RequestedAmount > 0 {
			if err := m.cash.MoveCoins(db, buyer, e.Seller, e.RequestedAmount); err != nil {
				return errors.Wrap(err, "payment")
			}
		}
		if e.OfferedAmount > 0 {
			if err := m.tokens.Transfer(ctx, db, vault, e.Vault, buyerAssetAccount, e.OfferedAmount); err != nil {
				return errors.Wrap(err, "release vault")
			}
		}
		e.Status = StatusSettled
		return m.bucket.Put(db, escrowAddr, e)
	})
	if err != nil {
		return nil, err
	}

	tokenescrow.GetLogger(ctx).Info("escrow settled",
		"escrow", escrowAddr,
		"seller", e.Seller,
		"buyer", buyer,
		"offered", e.OfferedAmount,
		"requested", e.RequestedAmount)
	return e, nil
}

// Cancel returns the vault content to the seller asset account and removes
// the escrow. Only the seller can cancel an open escrow.
func (m *Manager) Cancel(ctx tokenescrow.Context, db tokenescrow.KVStore, caller, escrowAddr tokenescrow.Address) (*Escrow, error) {
	e, err := m.Get(db, escrowAddr)
	if err != nil {
		return nil, err
	}
	if e.Status != StatusOpen {
		return nil, errors.Wrapf(ErrAlreadyCompleted, "escrow is %s", e.Status)
	}
	if err := m.authorizeSeller(ctx, e, caller); err != nil {
		return nil, err
	}
	vault, err := vaultAuthority(e)
	if err != nil {
		return nil, err
	}

	err = savepoint(db, func(db tokenescrow.KVStore) error {
		if e.OfferedAmount > 0 {
			if err := m.tokens.Transfer(ctx, db, vault, e.Vault, e.SellerAssetAccount, e.OfferedAmount); err != nil {
				return errors.Wrap(err, "release vault")
			}
		}
		return m.retire(ctx, db, vault, escrowAddr, e)
	})
	if err != nil {
		return nil, err
	}

	e.Status = StatusCancelled
	tokenescrow.GetLogger(ctx).Info("escrow cancelled",
		"escrow", escrowAddr,
		"seller", e.Seller,
		"offered", e.OfferedAmount)
	return e, nil
}

// Close removes a settled escrow, so that the seller can open a new one.
// Only the seller can close an escrow.
func (m *Manager) Close(ctx tokenescrow.Context, db tokenescrow.KVStore, caller, escrowAddr tokenescrow.Address) error {
	e, err := m.Get(db, escrowAddr)
	if err != nil {
		return err
	}
	if e.Status != StatusSettled {
		return errors.Wrapf(errors.ErrState, "escrow is %s", e.Status)
	}
	if err := m.authorizeSeller(ctx, e, caller); err != nil {
		return err
	}
	vault, err := vaultAuthority(e)
	if err != nil {
		return err
	}
	err = savepoint(db, func(db tokenescrow.KVStore) error {
		return m.retire(ctx, db, vault, escrowAddr, e)
	})
	if err != nil {
		return err
	}

	tokenescrow.GetLogger(ctx).Info("escrow closed",
		"escrow", escrowAddr,
		"seller", e.Seller)
	return nil
}

func (m *Manager) authorizeSeller(ctx tokenescrow.Context, e *Escrow, caller tokenescrow.Address) error {
	if !caller.Equals(e.Seller) {
		return errors.Wrap(errors.ErrUnauthorized, "caller is not the seller")
	}
	if !m.auth.HasAddress(ctx, caller) {
		return errors.Wrap(errors.ErrUnauthorized, "seller signature missing")
	}
	return nil
}

// retire closes the empty vault, refunds the deposit and deletes the
// record.
func (m *Manager) retire(ctx tokenescrow.Context, db tokenescrow.KVStore, vault vaultAuth, escrowAddr tokenescrow.Address, e *Escrow) error {
	if err := m.tokens.CloseAccount(ctx, db, vault, e.Vault); err != nil {
		return errors.Wrap(err, "close vault")
	}
	if e.Deposit > 0 {
		if err := m.cash.MoveCoins(db, escrowAddr, e.Seller, e.Deposit); err != nil {
			return errors.Wrap(err, "refund deposit")
		}
	}
	return m.bucket.Delete(db, escrowAddr)
}

// savepoint runs fn on a cache of db and writes the cache only if fn
// succeeds.
func savepoint(db tokenescrow.KVStore, fn func(tokenescrow.KVStore) error) error {
	cstore, ok := db.(tokenescrow.CacheableKVStore)
	if !ok {
		return fn(db)
	}
	cache := cstore.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "writing savepoint")
	}
	return nil
}
