package x

import (
	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/errors"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of
// handlers, so we can plug in another authentication system,
// rather than hard-coding x/sigs for all extensions.
type Authenticator interface {
	// GetConditions reveals all Conditions fulfilled,
	// you may want GetAddresses helper
	GetConditions(tokenescrow.Context) []tokenescrow.Condition
	// HasAddress checks if any condition matches this address
	HasAddress(tokenescrow.Context, tokenescrow.Address) bool
}

// MultiAuth chains together many Authenticators into one
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetConditions combines all Conditions from all Authenticators
func (m MultiAuth) GetConditions(ctx tokenescrow.Context) []tokenescrow.Condition {
	var res []tokenescrow.Condition
	for _, impl := range m.impls {
		add := impl.GetConditions(ctx)
		if len(add) > 0 {
			res = append(res, add...)
		}
	}
	return res
}

// HasAddress returns true iff any Authenticator support this
func (m MultiAuth) HasAddress(ctx tokenescrow.Context, addr tokenescrow.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// GetAddresses wraps the GetConditions method of any Authenticator
func GetAddresses(ctx tokenescrow.Context, auth Authenticator) []tokenescrow.Address {
	perms := auth.GetConditions(ctx)
	addrs := make([]tokenescrow.Address, len(perms))
	for i, p := range perms {
		addrs[i] = p.Address()
	}
	return addrs
}

// MainSigner returns the first permission if any, otherwise nil
func MainSigner(ctx tokenescrow.Context, auth Authenticator) tokenescrow.Condition {
	signers := auth.GetConditions(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

// AnySigner returns the address given, after checking it is
// authenticated. When given address is empty the main signer address is
// returned. Returns ErrUnauthorized when nothing authenticated matches.
func AnySigner(ctx tokenescrow.Context, auth Authenticator, addr tokenescrow.Address) (tokenescrow.Address, error) {
	if len(addr) == 0 {
		signer := MainSigner(ctx, auth)
		if signer == nil {
			return nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
		}
		return signer.Address(), nil
	}
	if !auth.HasAddress(ctx, addr) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "%s did not sign", addr)
	}
	return addr, nil
}

// HasAllAddresses returns true if all elements in required are
// also in context.
func HasAllAddresses(ctx tokenescrow.Context, auth Authenticator, required []tokenescrow.Address) bool {
	for _, r := range required {
		if !auth.HasAddress(ctx, r) {
			return false
		}
	}
	return true
}

// HasAllConditions returns true if all elements in required are
// also in context.
func HasAllConditions(ctx tokenescrow.Context, auth Authenticator, required []tokenescrow.Condition) bool {
	return HasNConditions(ctx, auth, required, len(required))
}

// HasNConditions returns true if at least n elements in requested are
// also in context.
func HasNConditions(ctx tokenescrow.Context, auth Authenticator, requested []tokenescrow.Condition, n int) bool {
	if n <= 0 {
		return true
	}
	perms := auth.GetConditions(ctx)
	for _, perm := range requested {
		if hasPerm(perms, perm) {
			n--
			if n == 0 {
				return true
			}
		}
	}
	return false
}

func hasPerm(perms []tokenescrow.Condition, perm tokenescrow.Condition) bool {
	for _, p := range perms {
		if p.Equals(perm) {
			return true
		}
	}
	return false
}
