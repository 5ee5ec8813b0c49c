package escrow

import (
	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/errors"
	"github.com/iov-one/tokenescrow/gconf"
)

// Initializer fulfils the Initializer interface to load data from the
// genesis file. The escrow configuration is read from conf.escrow and is
// optional.
type Initializer struct{}

var _ tokenescrow.Initializer = Initializer{}

// FromGenesis stores the escrow configuration.
func (Initializer) FromGenesis(opts tokenescrow.Options, db tokenescrow.KVStore) error {
	var conf Configuration
	switch err := gconf.InitConfig(db, opts, extensionName, &conf); {
	case err == nil, errors.ErrNotFound.Is(err):
		return nil
	default:
		return errors.Wrap(err, "escrow configuration")
	}
}
