package app

import (
	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp adds DeliverTx and CheckTx handlers to the storage and query
// functionality of StoreApp
type BaseApp struct {
	*StoreApp
	decoder tokenescrow.TxDecoder
	handler tokenescrow.Handler
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp constructs a basic abci application
func NewBaseApp(
	store *StoreApp,
	decoder tokenescrow.TxDecoder,
	handler tokenescrow.Handler,
	debug bool,
) BaseApp {
	return BaseApp{
		StoreApp: store,
		decoder:  decoder,
		handler:  handler,
		debug:    debug,
	}
}

// DeliverTx - ABCI - dispatches to the handler
func (b BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return tokenescrow.DeliverTxError(err, b.debug)
	}

	ctx := tokenescrow.WithLogInfo(b.BlockContext(),
		"call", "deliver_tx",
		"path", tokenescrow.GetPath(tx))

	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	return tokenescrow.DeliverOrError(res, err, b.debug)
}

// CheckTx - ABCI - dispatches to the handler
func (b BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return tokenescrow.CheckTxError(err, b.debug)
	}

	ctx := tokenescrow.WithLogInfo(b.BlockContext(),
		"call", "check_tx",
		"path", tokenescrow.GetPath(tx))

	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return tokenescrow.CheckOrError(res, err, b.debug)
}

// loadTx calls the decoder, and capture any panics
func (b BaseApp) loadTx(txBytes []byte) (tx tokenescrow.Tx, err error) {
	defer errors.Recover(&err)
	tx, err = b.decoder(txBytes)
	return
}
