/*
Package client talks to a running escrowd node through the tendermint RPC.
*/
package client

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/app"
	escrowd "github.com/iov-one/tokenescrow/cmd/escrowd/app"
	"github.com/iov-one/tokenescrow/crypto"
	"github.com/iov-one/tokenescrow/errors"
	"github.com/iov-one/tokenescrow/gconf"
	"github.com/iov-one/tokenescrow/orm"
	"github.com/iov-one/tokenescrow/x/cash"
	"github.com/iov-one/tokenescrow/x/escrow"
	"github.com/iov-one/tokenescrow/x/sigs"
	"github.com/iov-one/tokenescrow/x/token"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/rpc/client"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
	tmtypes "github.com/tendermint/tendermint/types"
)

// Conn is the part of the tendermint RPC client used by Client.
type Conn interface {
	ABCIQuery(path string, data cmn.HexBytes) (*ctypes.ResultABCIQuery, error)
	BroadcastTxCommit(tx tmtypes.Tx) (*ctypes.ResultBroadcastTxCommit, error)
	Genesis() (*ctypes.ResultGenesis, error)
}

var _ Conn = (*client.HTTP)(nil)

// Client reads state and submits transactions.
type Client struct {
	conn Conn
}

// NewClient returns a client using given connection.
func NewClient(conn Conn) *Client {
	return &Client{conn: conn}
}

// NewHTTPClient connects to the RPC address of a node, for example
// "tcp://localhost:26657".
func NewHTTPClient(remote string) *Client {
	return NewClient(client.NewHTTP(remote, "/websocket"))
}

// ChainID returns the chain id from the node genesis.
func (c *Client) ChainID() (string, error) {
	gen, err := c.conn.Genesis()
	if err != nil {
		return "", errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return gen.Genesis.ChainID, nil
}

// AbciResponse is the decoded result of a query.
type AbciResponse struct {
	Models []tokenescrow.Model
	Height int64
}

// AbciQuery runs a query and decodes the returned result sets.
func (c *Client) AbciQuery(path string, data []byte) (AbciResponse, error) {
	var out AbciResponse

	q, err := c.conn.ABCIQuery(path, data)
	if err != nil {
		return out, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	resp := q.Response
	if resp.IsErr() {
		return out, errors.Wrapf(errors.ErrDatabase, "query (%d): %s", resp.Code, resp.Log)
	}
	out.Height = resp.Height
	if len(resp.Key) == 0 {
		return out, nil
	}

	var keys, vals app.ResultSet
	if err := keys.Unmarshal(resp.Key); err != nil {
		return out, errors.Wrap(errors.ErrModel, err.Error())
	}
	if err := vals.Unmarshal(resp.Value); err != nil {
		return out, errors.Wrap(errors.ErrModel, err.Error())
	}
	out.Models, err = app.JoinResults(&keys, &vals)
	return out, err
}

// one loads the single model stored under key. ErrNotFound is returned
// when nothing is stored.
func (c *Client) one(path string, key []byte, dest proto.Message) error {
	res, err := c.AbciQuery(path, key)
	if err != nil {
		return err
	}
	if len(res.Models) == 0 {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", path, key)
	}
	if err := proto.Unmarshal(res.Models[0].Value, dest); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return nil
}

// GetEscrow returns the escrow record stored at given escrow address.
func (c *Client) GetEscrow(addr tokenescrow.Address) (*escrow.Escrow, error) {
	var e escrow.Escrow
	if err := c.one("/escrows", addr, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// GetEscrowBySeller returns the open or settled escrow of a seller.
func (c *Client) GetEscrowBySeller(seller tokenescrow.Address) (*escrow.Escrow, error) {
	var e escrow.Escrow
	if err := c.one("/escrows/seller", seller, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// GetWallet returns the native currency wallet of an address.
func (c *Client) GetWallet(addr tokenescrow.Address) (*cash.Wallet, error) {
	var w cash.Wallet
	if err := c.one("/wallets", addr, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// GetAccount returns the token account stored at given address.
func (c *Client) GetAccount(addr tokenescrow.Address) (*token.Account, error) {
	var a token.Account
	if err := c.one("/tokens", addr, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// querier runs abci queries through the RPC connection.
type querier struct {
	conn Conn
}

var _ app.Querier = querier{}

func (q querier) Query(req abci.RequestQuery) abci.ResponseQuery {
	res, err := q.conn.ABCIQuery(req.Path, req.Data)
	if err != nil {
		return abci.ResponseQuery{Code: errors.ErrDatabase.ABCICode(), Log: err.Error()}
	}
	return res.Response
}

// Store returns a read only view of the committed node state. Buckets
// can read from it as from a local store.
func (c *Client) Store() tokenescrow.ReadOnlyKVStore {
	return app.NewABCIStore(querier{conn: c.conn})
}

// GetConfiguration returns the escrow configuration of the chain.
func (c *Client) GetConfiguration() (*escrow.Configuration, error) {
	var conf escrow.Configuration
	if err := gconf.Load(c.Store(), "escrow", &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

// EscrowEntry is an escrow together with its address.
type EscrowEntry struct {
	Address tokenescrow.Address
	Escrow  *escrow.Escrow
}

// ListEscrows returns all stored escrows with given status, or all of them
// for a zero status.
func (c *Client) ListEscrows(status escrow.Status) ([]EscrowEntry, error) {
	var out []EscrowEntry
	err := escrow.NewBucket().Iterate(c.Store(), func(key []byte, obj orm.Model) error {
		e, ok := obj.(*escrow.Escrow)
		if !ok {
			return errors.Wrapf(errors.ErrType, "%T", obj)
		}
		if status == 0 || e.Status == status {
			out = append(out, EscrowEntry{Address: tokenescrow.Address(key), Escrow: e})
		}
		return nil
	})
	return out, err
}

// NextSequence returns the sequence the next signature of given key must
// use.
func (c *Client) NextSequence(pubkey *crypto.PublicKey) (int64, error) {
	var user sigs.UserData
	switch err := c.one("/auth", pubkey.Address(), &user); {
	case err == nil:
		return user.Sequence, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}

// SignTx signs the transaction with the next sequence of the signer.
func (c *Client) SignTx(tx *escrowd.Tx, signer crypto.Signer) error {
	chainID, err := c.ChainID()
	if err != nil {
		return err
	}
	seq, err := c.NextSequence(signer.PublicKey())
	if err != nil {
		return err
	}
	return tx.Sign(signer, chainID, seq)
}

// BroadcastTx submits the transaction and waits until it is included in a
// block. The deliver result data is returned.
func (c *Client) BroadcastTx(tx *escrowd.Tx) ([]byte, error) {
	bz, err := tx.Marshal()
	if err != nil {
		return nil, err
	}
	res, err := c.conn.BroadcastTxCommit(bz)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if res.CheckTx.IsErr() {
		return nil, errors.Wrapf(errors.ErrState, "check tx (%d): %s", res.CheckTx.Code, res.CheckTx.Log)
	}
	if res.DeliverTx.IsErr() {
		return nil, errors.Wrapf(errors.ErrState, "deliver tx (%d): %s", res.DeliverTx.Code, res.DeliverTx.Log)
	}
	return res.DeliverTx.Data, nil
}
