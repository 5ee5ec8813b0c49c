package escrow

import (
	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/errors"
	"github.com/iov-one/tokenescrow/x"
)

const (
	extensionName = "escrow"
	escrowTag     = "escrow"
	vaultTag      = "vault"
)

// EscrowAddress returns the address of the escrow record of given seller
// together with the bump used to derive it.
func EscrowAddress(seller tokenescrow.Address) (tokenescrow.Address, uint8, error) {
	cond, bump, err := tokenescrow.DeriveCondition(extensionName, escrowTag, seller)
	if err != nil {
		return nil, 0, errors.Wrap(err, "escrow address")
	}
	return cond.Address(), bump, nil
}

// VaultAddress returns the address of the vault account of given seller
// together with the bump used to derive it.
func VaultAddress(seller tokenescrow.Address) (tokenescrow.Address, uint8, error) {
	cond, bump, err := tokenescrow.DeriveCondition(extensionName, vaultTag, seller)
	if err != nil {
		return nil, 0, errors.Wrap(err, "vault address")
	}
	return cond.Address(), bump, nil
}

// vaultAuth authorizes transfers out of a single vault. It can only be
// built from a stored escrow and is never handed out of this package.
type vaultAuth struct {
	cond tokenescrow.Condition
}

var _ x.Authenticator = vaultAuth{}

// vaultAuthority rebuilds the vault condition from the seller and the
// recorded bump. The result must match the recorded vault address.
func vaultAuthority(e *Escrow) (vaultAuth, error) {
	if e.VaultBump > 255 {
		return vaultAuth{}, errors.Wrapf(errors.ErrState, "vault bump %d", e.VaultBump)
	}
	cond, err := tokenescrow.DerivedCondition(extensionName, vaultTag, uint8(e.VaultBump), e.Seller)
	if err != nil {
		return vaultAuth{}, errors.Wrap(errors.ErrState, err.Error())
	}
	if !cond.Address().Equals(e.Vault) {
		return vaultAuth{}, errors.Wrap(errors.ErrState, "vault address mismatch")
	}
	return vaultAuth{cond: cond}, nil
}

func (a vaultAuth) GetConditions(tokenescrow.Context) []tokenescrow.Condition {
	return []tokenescrow.Condition{a.cond}
}

func (a vaultAuth) HasAddress(_ tokenescrow.Context, addr tokenescrow.Address) bool {
	return a.cond.Address().Equals(addr)
}
