package client

import (
	"testing"

	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/app"
	escrowd "github.com/iov-one/tokenescrow/cmd/escrowd/app"
	"github.com/iov-one/tokenescrow/crypto"
	"github.com/iov-one/tokenescrow/errors"
	"github.com/iov-one/tokenescrow/x/cash"
	"github.com/iov-one/tokenescrow/x/escrow"
	"github.com/iov-one/tokenescrow/x/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
	tmtypes "github.com/tendermint/tendermint/types"
)

const testChainID = "client-test"

// localNode executes every broadcast transaction in its own block.
type localNode struct {
	app    app.BaseApp
	height int64
}

var _ Conn = (*localNode)(nil)

func newLocalNode(t *testing.T, owner string) *localNode {
	t.Helper()
	base, err := escrowd.Application(escrowd.Name, escrowd.TxDecoder, "", nil, false)
	require.NoError(t, err)
	state, err := escrowd.GenInitOptions([]string{owner})
	require.NoError(t, err)
	base.InitChain(abci.RequestInitChain{ChainId: testChainID, AppStateBytes: state})
	base.Commit()
	return &localNode{app: base}
}

func (n *localNode) ABCIQuery(path string, data cmn.HexBytes) (*ctypes.ResultABCIQuery, error) {
	res := n.app.Query(abci.RequestQuery{Path: path, Data: data})
	return &ctypes.ResultABCIQuery{Response: res}, nil
}

func (n *localNode) BroadcastTxCommit(tx tmtypes.Tx) (*ctypes.ResultBroadcastTxCommit, error) {
	check := n.app.CheckTx(tx)
	if check.IsErr() {
		return &ctypes.ResultBroadcastTxCommit{CheckTx: check}, nil
	}
	n.height++
	n.app.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: n.height, ChainID: testChainID}})
	deliver := n.app.DeliverTx(tx)
	n.app.EndBlock(abci.RequestEndBlock{Height: n.height})
	n.app.Commit()
	return &ctypes.ResultBroadcastTxCommit{
		CheckTx:   check,
		DeliverTx: deliver,
		Hash:      tx.Hash(),
		Height:    n.height,
	}, nil
}

func (n *localNode) Genesis() (*ctypes.ResultGenesis, error) {
	return &ctypes.ResultGenesis{Genesis: &tmtypes.GenesisDoc{ChainID: testChainID}}, nil
}

func TestClientEscrowFlow(t *testing.T) {
	seller := crypto.GenPrivKeyEd25519()
	buyer := crypto.GenPrivKeyEd25519()
	sellerAddr := seller.PublicKey().Address()
	buyerAddr := buyer.PublicKey().Address()
	mint := escrowd.MintAddress(escrowd.DefaultTicker)

	c := NewClient(newLocalNode(t, sellerAddr.String()))

	chainID, err := c.ChainID()
	require.NoError(t, err)
	assert.Equal(t, testChainID, chainID)

	seq, err := c.NextSequence(buyer.PublicKey())
	require.NoError(t, err)
	assert.Equal(t, int64(0), seq)

	submit := func(msg tokenescrow.Msg, signer crypto.Signer) ([]byte, error) {
		tx := escrowd.NewTx(msg)
		require.NoError(t, c.SignTx(tx, signer))
		return c.BroadcastTx(tx)
	}

	_, err = submit(&cash.SendMsg{Destination: buyerAddr, Amount: 700}, seller)
	require.NoError(t, err)

	seq, err = c.NextSequence(seller.PublicKey())
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)

	data, err := submit(&token.CreateAccountMsg{Mint: mint}, buyer)
	require.NoError(t, err)
	buyerAcct := data

	escrowAddr, err := submit(&escrow.OpenMsg{
		SellerAssetAccount: escrowd.OwnerAccountAddress(sellerAddr),
		AssetType:          mint,
		OfferedAmount:      40,
		RequestedAmount:    500,
	}, seller)
	require.NoError(t, err)

	e, err := c.GetEscrow(escrowAddr)
	require.NoError(t, err)
	assert.Equal(t, escrow.StatusOpen, e.Status)
	assert.Equal(t, sellerAddr, e.Seller)

	bySeller, err := c.GetEscrowBySeller(sellerAddr)
	require.NoError(t, err)
	assert.Equal(t, e.Vault, bySeller.Vault)

	open, err := c.ListEscrows(escrow.StatusOpen)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, tokenescrow.Address(escrowAddr), open[0].Address)
	assert.Equal(t, uint64(40), open[0].Escrow.OfferedAmount)

	conf, err := c.GetConfiguration()
	require.NoError(t, err)
	assert.Equal(t, sellerAddr, conf.Owner)

	// an empty account cannot back an offer
	_, err = submit(&escrow.OpenMsg{
		SellerAssetAccount: buyerAcct,
		AssetType:          mint,
		OfferedAmount:      1,
		RequestedAmount:    1,
	}, buyer)
	assert.True(t, errors.ErrState.Is(err))

	_, err = submit(&escrow.SettleMsg{Escrow: escrowAddr, BuyerAssetAccount: buyerAcct}, buyer)
	require.NoError(t, err)

	acct, err := c.GetAccount(buyerAcct)
	require.NoError(t, err)
	assert.Equal(t, uint64(40), acct.Amount)

	w, err := c.GetWallet(buyerAddr)
	require.NoError(t, err)
	assert.Equal(t, uint64(200), w.Balance)

	open, err = c.ListEscrows(escrow.StatusOpen)
	require.NoError(t, err)
	assert.Empty(t, open)
	all, err := c.ListEscrows(0)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, escrow.StatusSettled, all[0].Escrow.Status)

	_, err = submit(&escrow.CloseMsg{Escrow: escrowAddr}, seller)
	require.NoError(t, err)

	_, err = c.GetEscrow(escrowAddr)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestClientQueryErrors(t *testing.T) {
	owner := crypto.GenPrivKeyEd25519().PublicKey().Address()
	c := NewClient(newLocalNode(t, owner.String()))

	_, err := c.AbciQuery("/unknown", nil)
	assert.True(t, errors.ErrDatabase.Is(err))

	_, err = c.GetWallet(escrowd.MintAddress("NONE"))
	assert.True(t, errors.ErrNotFound.Is(err))

	w, err := c.GetWallet(owner)
	require.NoError(t, err)
	assert.NotZero(t, w.Balance)
}
