package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/errors"
)

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

// LoadGenesis reads a tendermint genesis file.
func LoadGenesis(filename string) (GenesisDoc, error) {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "genesis %s: %s", filename, err)
	}
	return doc, nil
}

// ChainID returns the chain id declared by the genesis.
func (g GenesisDoc) ChainID() (string, error) {
	var id string
	if raw, ok := g["chain_id"]; ok {
		if err := json.Unmarshal(raw, &id); err != nil {
			return "", errors.Wrap(errors.ErrInput, "chain_id")
		}
	}
	if !tokenescrow.IsValidChainID(id) {
		return "", errors.Wrapf(errors.ErrInput, "chain id: %q", id)
	}
	return id, nil
}

// AppState returns the application options stored in the genesis.
func (g GenesisDoc) AppState() (tokenescrow.Options, error) {
	raw, ok := g["app_state"]
	if !ok || len(raw) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "app_state not set")
	}
	var opts tokenescrow.Options
	if err := json.Unmarshal(raw, &opts); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return opts, nil
}

// AddAppState sets app_state in the genesis file, leaving the rest of its
// content untouched.
func AddAppState(filename string, state json.RawMessage) error {
	doc, err := LoadGenesis(filename)
	if err != nil {
		return err
	}
	doc["app_state"] = state
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return ioutil.WriteFile(filename, out, 0600)
}
