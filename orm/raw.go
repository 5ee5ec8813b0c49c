package orm

import (
	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/errors"
)

// RegisterQuery exposes the whole key value store under the "/" path. Keys
// are full database keys, including any bucket prefix.
func RegisterQuery(qr tokenescrow.QueryRouter) {
	qr.Register("/", rawQuery{})
}

type rawQuery struct{}

var _ tokenescrow.QueryHandler = rawQuery{}

func (rawQuery) Query(db tokenescrow.ReadOnlyKVStore, mod string, data []byte) ([]tokenescrow.Model, error) {
	switch mod {
	case tokenescrow.KeyQueryMod:
		value, err := db.Get(data)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		return []tokenescrow.Model{tokenescrow.Pair(data, value)}, nil
	case tokenescrow.PrefixQueryMod:
		return queryPrefix(db, data)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
}
