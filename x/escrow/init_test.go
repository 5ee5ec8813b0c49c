package escrow

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/errors"
	"github.com/iov-one/tokenescrow/store"
	"github.com/iov-one/tokenescrow/tokenescrowtest/assert"
)

func TestGenesis(t *testing.T) {
	const genesis = `{
		"conf": {
			"escrow": {
				"owner": "E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0",
				"record_deposit": 7,
				"allow_zero_amounts": true
			}
		}
	}`
	var opts tokenescrow.Options
	assert.Nil(t, json.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	assert.Nil(t, Initializer{}.FromGenesis(opts, db))

	conf, err := NewManager(nil, nil, nil).Config(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(7), conf.RecordDeposit)
	assert.Equal(t, true, conf.AllowZeroAmounts)
	assert.Equal(t, "E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0", conf.Owner.String())
}

func TestGenesisWithoutConfiguration(t *testing.T) {
	db := store.MemStore()
	assert.Nil(t, Initializer{}.FromGenesis(tokenescrow.Options{}, db))

	conf, err := NewManager(nil, nil, nil).Config(db)
	assert.Nil(t, err)
	assert.Equal(t, &Configuration{}, conf)
}

func TestGenesisInvalidConfiguration(t *testing.T) {
	opts := tokenescrow.Options{
		"conf": []byte(`{"escrow": {"record_deposit": 1}}`),
	}
	err := Initializer{}.FromGenesis(opts, store.MemStore())
	assert.IsErr(t, errors.ErrInput, err)
}
