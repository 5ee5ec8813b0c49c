package token

import (
	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/errors"
)

const optKey = "token"

// GenesisMint declares an asset in the genesis file.
type GenesisMint struct {
	Address tokenescrow.Address `json:"address"`
	Ticker  string              `json:"ticker"`
}

// GenesisAccount declares a funded account in the genesis file.
type GenesisAccount struct {
	Address tokenescrow.Address `json:"address"`
	Owner   tokenescrow.Address `json:"owner"`
	Mint    tokenescrow.Address `json:"mint"`
	Amount  uint64              `json:"amount"`
}

// Genesis is the "token" section of the genesis file.
type Genesis struct {
	Mints    []GenesisMint    `json:"mints"`
	Accounts []GenesisAccount `json:"accounts"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ tokenescrow.Initializer = Initializer{}

// FromGenesis creates the mints first and then the funded accounts.
func (Initializer) FromGenesis(opts tokenescrow.Options, db tokenescrow.KVStore) error {
	var gen Genesis
	if err := opts.ReadOptions(optKey, &gen); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	control := NewController()
	for i, m := range gen.Mints {
		if err := control.CreateMint(db, m.Address, m.Ticker); err != nil {
			return errors.Wrapf(err, "mint %d", i)
		}
	}
	for i, a := range gen.Accounts {
		if _, err := control.CreateAccount(db, a.Address, a.Owner, a.Mint); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		if a.Amount == 0 {
			continue
		}
		if err := control.MintTo(db, a.Address, a.Amount); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}
	return nil
}
