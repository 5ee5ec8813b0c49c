/*
Package app links together all the various components
to construct the escrowd app.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/app"
	"github.com/iov-one/tokenescrow/errors"
	"github.com/iov-one/tokenescrow/orm"
	"github.com/iov-one/tokenescrow/store/iavl"
	"github.com/iov-one/tokenescrow/x"
	"github.com/iov-one/tokenescrow/x/cash"
	"github.com/iov-one/tokenescrow/x/escrow"
	"github.com/iov-one/tokenescrow/x/sigs"
	"github.com/iov-one/tokenescrow/x/token"
	"github.com/iov-one/tokenescrow/x/utils"
	"github.com/prometheus/client_golang/prometheus"
)

// Name is returned by the abci Info call.
const Name = "escrowd"

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, metrics and recovery. Metrics are optional.
func Chain(metrics *utils.Metrics) app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		// outside of Recovery, so that panics are counted as ErrPanic
		metrics,
		utils.NewRecovery(),
		utils.NewActionTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, bad tx will increment nonce
		// even if the message fails
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router dispatching to the payment, asset and escrow
// handlers.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	payments := cash.NewController(cash.NewBucket())
	tokens := token.NewController()
	cash.RegisterRoutes(r, authFn, payments)
	token.RegisterRoutes(r, authFn, tokens)
	escrow.RegisterRoutes(r, authFn, tokens, payments)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/wallets", "/auth", "/tokens", "/mints", "/escrows"
// and "/"
func QueryRouter() tokenescrow.QueryRouter {
	r := tokenescrow.NewQueryRouter()
	r.RegisterAll(
		cash.RegisterQuery,
		token.RegisterQuery,
		escrow.RegisterQuery,
		sigs.RegisterQuery,
		orm.RegisterQuery,
	)
	return r
}

// Initializers returns the genesis initializers of all extensions. Mints
// must exist before the accounts using them.
func Initializers() tokenescrow.Initializer {
	return tokenescrow.ChainInitializers{
		cash.Initializer{},
		token.Initializer{},
		escrow.Initializer{},
	}
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack(metrics *utils.Metrics) tokenescrow.Handler {
	authFn := Authenticator()
	return Chain(metrics).WithHandler(Router(authFn))
}

// Application constructs a basic ABCI application with
// the given arguments. Metrics are registered with reg when it is not nil.
func Application(name string, tx tokenescrow.TxDecoder, dbPath string, reg prometheus.Registerer, debug bool) (app.BaseApp, error) {
	var metrics *utils.Metrics
	if reg != nil {
		m, err := utils.NewMetrics(name, reg)
		if err != nil {
			return app.BaseApp{}, err
		}
		metrics = m
	}

	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store := app.NewStoreApp(name, kv, QueryRouter(), context.Background()).
		WithInit(Initializers())
	return app.NewBaseApp(store, tx, Stack(metrics), debug), nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (tokenescrow.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// Some external calls accidentally add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name)
}
