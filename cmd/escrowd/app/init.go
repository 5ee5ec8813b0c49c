package app

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/crypto"
	"github.com/iov-one/tokenescrow/errors"
	"github.com/iov-one/tokenescrow/x/cash"
	"github.com/iov-one/tokenescrow/x/token"
	"github.com/prometheus/client_golang/prometheus"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	// DefaultTicker is the asset created by GenInitOptions.
	DefaultTicker = "ESC"

	genesisBalance uint64 = 1000000000
	genesisTokens  uint64 = 1000000
)

// MintAddress returns the address of the mint created for the given ticker
// by GenInitOptions.
func MintAddress(ticker string) tokenescrow.Address {
	return tokenescrow.NewCondition("token", "mint", []byte(ticker)).Address()
}

// OwnerAccountAddress returns the address of the token account that
// GenInitOptions funds for the owner.
func OwnerAccountAddress(owner tokenescrow.Address) tokenescrow.Address {
	return tokenescrow.NewCondition("token", "genesis", owner).Address()
}

// GenInitOptions will produce some basic options for one rich
// account, to use for dev mode.
//
// The first argument is the owner address, which also owns the escrow
// configuration. A new key is generated and printed when it is missing.
// The second argument is the ticker of the created asset.
func GenInitOptions(args []string) (json.RawMessage, error) {
	var owner tokenescrow.Address
	if len(args) > 0 {
		addr, err := tokenescrow.ParseAddress(args[0])
		if err != nil {
			return nil, errors.Wrap(err, "owner")
		}
		owner = addr
	} else {
		key := crypto.GenPrivKeyEd25519()
		owner = key.PublicKey().Address()
		fmt.Printf("Generated owner key %s\n", hex.EncodeToString(key.GetEd25519()))
	}
	ticker := DefaultTicker
	if len(args) > 1 {
		ticker = args[1]
	}

	mint := MintAddress(ticker)
	state := map[string]interface{}{
		"cash": []cash.GenesisAccount{
			{Address: owner, Balance: genesisBalance},
		},
		"token": token.Genesis{
			Mints: []token.GenesisMint{
				{Address: mint, Ticker: ticker},
			},
			Accounts: []token.GenesisAccount{
				{Address: OwnerAccountAddress(owner), Owner: owner, Mint: mint, Amount: genesisTokens},
			},
		},
		"conf": map[string]interface{}{
			"escrow": map[string]interface{}{
				"owner":          owner,
				"record_deposit": 0,
			},
		},
	}
	bz, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return bz, nil
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "escrow.db")
	}

	application, err := Application(Name, TxDecoder, dbPath, prometheus.DefaultRegisterer, debug)
	if err != nil {
		return nil, err
	}
	application.WithLogger(logger)
	return application, nil
}
