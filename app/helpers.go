package app

import (
	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/errors"
	"github.com/iov-one/tokenescrow/store"
	abci "github.com/tendermint/tendermint/abci/types"
)

// Querier is the query part of abci.Application. A remote node can
// implement it on top of an RPC client.
type Querier interface {
	Query(abci.RequestQuery) abci.ResponseQuery
}

// ABCIStore exposes the abci.Query interface as a ReadOnlyKVStore. It
// requires the raw store query handler to be registered under "/".
type ABCIStore struct {
	app Querier
}

var _ tokenescrow.ReadOnlyKVStore = (*ABCIStore)(nil)

// NewABCIStore returns a read only store that queries given application.
func NewABCIStore(app Querier) *ABCIStore {
	return &ABCIStore{app: app}
}

// Get will query for exactly one value over the abci store.
// This can be wrapped with a bucket to reuse key/index/parse logic
func (a *ABCIStore) Get(key []byte) ([]byte, error) {
	query := a.app.Query(abci.RequestQuery{
		Path: "/",
		Data: key,
	})
	if query.Code != 0 {
		return nil, errors.Wrapf(errors.ErrDatabase, "query code %d: %s", query.Code, query.Log)
	}
	var value ResultSet
	if err := value.Unmarshal(query.Value); err != nil {
		return nil, errors.Wrap(errors.ErrModel, "unmarshal result set")
	}
	switch len(value.Results) {
	case 0:
		return nil, nil
	case 1:
		return value.Results[0], nil
	default:
		return nil, errors.Wrapf(errors.ErrDatabase, "%d results for a single key", len(value.Results))
	}
}

// Has returns true if the given key in in the abci app store
func (a *ABCIStore) Has(key []byte) (bool, error) {
	v, err := a.Get(key)
	if err != nil {
		return false, err
	}
	return len(v) > 0, nil
}

// Iterator attempts to do a range iteration over the store. Only prefix
// queries are supported by the query handler, so a range must either be
// unbounded or describe a prefix.
func (a *ABCIStore) Iterator(start, end []byte) (tokenescrow.Iterator, error) {
	models, err := a.queryRange(start, end)
	if err != nil {
		return nil, err
	}
	return store.NewSliceIterator(models), nil
}

// ReverseIterator returns the same content as Iterator, in descending key
// order.
func (a *ABCIStore) ReverseIterator(start, end []byte) (tokenescrow.Iterator, error) {
	models, err := a.queryRange(start, end)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return store.NewSliceIterator(models), nil
}

func (a *ABCIStore) queryRange(start, end []byte) ([]tokenescrow.Model, error) {
	if end != nil && !isPrefixRange(start, end) {
		return nil, errors.Wrap(errors.ErrInput, "only prefix ranges are supported")
	}
	query := a.app.Query(abci.RequestQuery{
		Path: "/?" + tokenescrow.PrefixQueryMod,
		Data: start,
	})
	if query.Code != 0 {
		return nil, errors.Wrapf(errors.ErrDatabase, "query code %d: %s", query.Code, query.Log)
	}
	return toModels(query.Key, query.Value)
}

// isPrefixRange returns true if end is the smallest key greater than all
// keys that start with start.
func isPrefixRange(start, end []byte) bool {
	if len(start) == 0 || len(start) != len(end) {
		return false
	}
	next := make([]byte, len(start))
	copy(next, start)
	for i := len(next) - 1; i >= 0; i-- {
		next[i]++
		if next[i] != 0 {
			break
		}
	}
	return string(next) == string(end)
}

func toModels(keys, values []byte) ([]tokenescrow.Model, error) {
	var k, v ResultSet
	if err := k.Unmarshal(keys); err != nil {
		return nil, errors.Wrap(errors.ErrModel, "cannot unmarshal keys")
	}
	if err := v.Unmarshal(values); err != nil {
		return nil, errors.Wrap(errors.ErrModel, "cannot unmarshal values")
	}
	return JoinResults(&k, &v)
}
