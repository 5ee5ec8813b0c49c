package sigs

import (
	"context"

	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/x"
)

type contextKey int // local to the sigs module

const (
	contextKeySigners contextKey = iota
)

// withSigners is a private method, as only this module
// can add a signer
func withSigners(ctx tokenescrow.Context, signers []tokenescrow.Condition) tokenescrow.Context {
	return context.WithValue(ctx, contextKeySigners, signers)
}

// Authenticate gives access to the conditions of the verified signatures.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns who signed the current Context.
// May be empty
func (a Authenticate) GetConditions(ctx tokenescrow.Context) []tokenescrow.Condition {
	// (val, ok) form to return nil instead of panic if unset
	val, _ := ctx.Value(contextKeySigners).([]tokenescrow.Condition)
	return val
}

// HasAddress returns true if the given address signed the current Context.
func (a Authenticate) HasAddress(ctx tokenescrow.Context, addr tokenescrow.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
