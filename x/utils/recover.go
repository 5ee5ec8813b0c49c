package utils

import (
	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/errors"
)

// Recovery is a decorator to recover from panics in transactions,
// so we can log them as errors
type Recovery struct{}

var _ tokenescrow.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors
func (Recovery) Check(ctx tokenescrow.Context, store tokenescrow.KVStore, tx tokenescrow.Tx, next tokenescrow.Checker) (_ *tokenescrow.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, store, tx)
}

// Deliver turns panics into normal errors
func (Recovery) Deliver(ctx tokenescrow.Context, store tokenescrow.KVStore, tx tokenescrow.Tx, next tokenescrow.Deliverer) (_ *tokenescrow.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, store, tx)
}
