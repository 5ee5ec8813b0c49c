package crypto

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/tokenescrow/tokenescrowtest/assert"
)

func TestEd25519Signing(t *testing.T) {
	private := GenPrivKeyEd25519()
	public := private.PublicKey()

	msg := []byte("foobar")
	msg2 := []byte("dingbooms")

	sig, err := private.Sign(msg)
	assert.Nil(t, err)
	sig2, err := private.Sign(msg2)
	assert.Nil(t, err)

	bz, err := proto.Marshal(sig)
	assert.Nil(t, err)
	bz2, err := proto.Marshal(sig2)
	assert.Nil(t, err)

	if bytes.Equal(bz, bz2) {
		t.Fatal("marshaling different signatures produce the same binary representation")
	}

	if !public.Verify(msg, sig) {
		t.Fatal("cannot verify a message signed with this public key")
	}
	if !public.Verify(msg2, sig2) {
		t.Fatal("cannot verify a message signed with this public key")
	}

	if public.Verify(msg, sig2) {
		t.Fatal("verified message signature of the wrong message")
	}
	if public.Verify(msg, &Signature{}) {
		t.Fatal("verified an empty signature of a message")
	}
	if public.Verify(msg, nil) {
		t.Fatal("verified a nil signature of a message")
	}
}

func TestEd25519Address(t *testing.T) {
	pub := GenPrivKeyEd25519().PublicKey()
	pub2 := GenPrivKeyEd25519().PublicKey()
	empty := PublicKey{}

	assert.Nil(t, pub.Condition().Validate())
	assert.Nil(t, pub2.Condition().Validate())
	if bytes.Equal(pub.Condition(), pub2.Condition()) {
		t.Fatal("different public keys produce the same condition")
	}
	assert.Nil(t, empty.Condition())
	assert.Nil(t, empty.Address())

	bz, err := proto.Marshal(pub)
	assert.Nil(t, err)
	var read PublicKey
	assert.Nil(t, proto.Unmarshal(bz, &read))
	assert.Equal(t, read.Condition(), pub.Condition())
}

func TestPrivKeyEd25519FromSeed(t *testing.T) {
	seed := make([]byte, 32)
	key := PrivKeyEd25519FromSeed(seed)
	want := []byte{59, 106, 39, 188, 206, 182, 164, 45, 98, 163, 168, 208, 42, 111, 13, 115, 101, 50, 21, 119, 29, 226, 67, 166, 58, 192, 72, 161, 139, 89, 218, 41}
	assert.Equal(t, want, []byte(key.PublicKey().Ed25519))

	assert.Panics(t, func() { PrivKeyEd25519FromSeed([]byte{0}) })
}

func TestDeriveEd25519(t *testing.T) {
	// SLIP-0010 test vector 1 for ed25519
	seed, err := hex.DecodeString("000102030405060708090a0b0c0d0e0f")
	assert.Nil(t, err)

	key, err := DeriveEd25519(seed, "m/0'")
	assert.Nil(t, err)
	wantPub, err := hex.DecodeString("8c8a13df77a28f3445213a0f432fde644acaa215fc72dcdf300d5efaa85d350c")
	assert.Nil(t, err)
	assert.Equal(t, wantPub, []byte(key.PublicKey().Ed25519))

	again, err := DeriveEd25519(seed, "m/0'")
	assert.Nil(t, err)
	assert.Equal(t, key, again)

	if _, err := DeriveEd25519(seed, "m/0"); err == nil {
		t.Fatal("non hardened path accepted")
	}
}
