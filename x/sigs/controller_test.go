package sigs

import (
	"testing"

	"github.com/iov-one/tokenescrow/crypto"
	"github.com/iov-one/tokenescrow/errors"
	"github.com/iov-one/tokenescrow/store"
	"github.com/iov-one/tokenescrow/tokenescrowtest/assert"
)

func TestBuildSignBytes(t *testing.T) {
	a, err := BuildSignBytes([]byte("foo"), "chain-one", 1)
	assert.Nil(t, err)
	assert.Equal(t, 64, len(a))

	b, err := BuildSignBytes([]byte("foo"), "chain-two", 1)
	assert.Nil(t, err)
	c, err := BuildSignBytes([]byte("foo"), "chain-one", 2)
	assert.Nil(t, err)
	if string(a) == string(b) || string(a) == string(c) {
		t.Fatal("chain id and sequence must change the sign bytes")
	}

	_, err = BuildSignBytes([]byte("foo"), "chain-one", -1)
	assert.IsErr(t, ErrInvalidSequence, err)
	_, err = BuildSignBytes([]byte("foo"), "bad", 1)
	assert.IsErr(t, errors.ErrInput, err)
}

func TestVerifySignature(t *testing.T) {
	db := store.MemStore()
	chainID := "test-chain"
	priv := crypto.GenPrivKeyEd25519()
	other := crypto.GenPrivKeyEd25519()

	tx := NewStdTx([]byte("payload"))

	seq, err := NextSequence(db, priv.PublicKey())
	assert.Nil(t, err)
	assert.Equal(t, int64(0), seq)

	sig, err := SignTx(priv, tx, chainID, 0)
	assert.Nil(t, err)

	cond, err := VerifySignature(db, sig, tx.Payload, chainID)
	assert.Nil(t, err)
	assert.Equal(t, priv.PublicKey().Condition(), cond)

	seq, err = NextSequence(db, priv.PublicKey())
	assert.Nil(t, err)
	assert.Equal(t, int64(1), seq)

	// replay is rejected
	_, err = VerifySignature(db, sig, tx.Payload, chainID)
	assert.IsErr(t, ErrInvalidSequence, err)

	// signature made for another chain
	sig, err = SignTx(priv, tx, "other-chain", 1)
	assert.Nil(t, err)
	_, err = VerifySignature(db, sig, tx.Payload, chainID)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	// public key does not match the signature
	sig, err = SignTx(other, tx, chainID, 1)
	assert.Nil(t, err)
	sig.Pubkey = priv.PublicKey()
	_, err = VerifySignature(db, sig, tx.Payload, chainID)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	// missing fields
	_, err = VerifySignature(db, &StdSignature{Pubkey: priv.PublicKey()}, tx.Payload, chainID)
	assert.IsErr(t, errors.ErrUnauthorized, err)
}

func TestVerifyTxSignatures(t *testing.T) {
	db := store.MemStore()
	chainID := "test-chain"
	a := crypto.GenPrivKeyEd25519()
	b := crypto.GenPrivKeyEd25519()

	tx := NewStdTx([]byte("multi"))
	sa, err := SignTx(a, tx, chainID, 0)
	assert.Nil(t, err)
	sb, err := SignTx(b, tx, chainID, 0)
	assert.Nil(t, err)
	tx.Signatures = []*StdSignature{sa, sb}

	conds, err := VerifyTxSignatures(db, tx, chainID)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(conds))
	assert.Equal(t, a.PublicKey().Condition(), conds[0])
	assert.Equal(t, b.PublicKey().Condition(), conds[1])
}

func TestUserDataSequence(t *testing.T) {
	u := UserData{Pubkey: crypto.GenPrivKeyEd25519().PublicKey()}
	assert.IsErr(t, ErrInvalidSequence, u.CheckAndIncrementSequence(1))
	assert.Nil(t, u.CheckAndIncrementSequence(0))
	assert.Equal(t, int64(1), u.Sequence)

	u.Sequence = (1 << 53) - 1
	assert.IsErr(t, errors.ErrOverflow, u.CheckAndIncrementSequence((1<<53)-1))

	assert.IsErr(t, ErrInvalidSequence, (&UserData{Sequence: 3}).Validate())
	assert.IsErr(t, ErrInvalidSequence, (&UserData{Sequence: -1}).Validate())
	assert.Nil(t, (&UserData{}).Validate())
}
