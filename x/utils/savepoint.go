package utils

import (
	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/errors"
)

// Savepoint isolates all writes done by the wrapped handler. They are
// written to the parent store only if the handler succeeds.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ tokenescrow.Decorator = Savepoint{}

// NewSavepoint creates a Savepoint decorator,
// but you must call OnCheck/OnDeliver so it will be triggered
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck returns a savepoint that will trigger on CheckTx
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver returns a savepoint that will trigger on DeliverTx
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

// Check will optionally set a checkpoint
func (s Savepoint) Check(ctx tokenescrow.Context, store tokenescrow.KVStore, tx tokenescrow.Tx, next tokenescrow.Checker) (*tokenescrow.CheckResult, error) {
	if !s.onCheck {
		return next.Check(ctx, store, tx)
	}
	var res *tokenescrow.CheckResult
	err := withCache(store, func(db tokenescrow.KVStore) error {
		var err error
		res, err = next.Check(ctx, db, tx)
		return err
	})
	return res, err
}

// Deliver will optionally set a checkpoint
func (s Savepoint) Deliver(ctx tokenescrow.Context, store tokenescrow.KVStore, tx tokenescrow.Tx, next tokenescrow.Deliverer) (*tokenescrow.DeliverResult, error) {
	if !s.onDeliver {
		return next.Deliver(ctx, store, tx)
	}
	var res *tokenescrow.DeliverResult
	err := withCache(store, func(db tokenescrow.KVStore) error {
		var err error
		res, err = next.Deliver(ctx, db, tx)
		return err
	})
	return res, err
}

// withCache runs fn on a cache wrap of store. Stores that cannot be
// wrapped are used directly.
func withCache(store tokenescrow.KVStore, fn func(tokenescrow.KVStore) error) error {
	cstore, ok := store.(tokenescrow.CacheableKVStore)
	if !ok {
		return fn(store)
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
