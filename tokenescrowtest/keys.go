package tokenescrowtest

import (
	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/crypto"
)

func NewKey() crypto.Signer {
	return crypto.GenPrivKeyEd25519()
}

func NewCondition() tokenescrow.Condition {
	return NewKey().PublicKey().Condition()
}
