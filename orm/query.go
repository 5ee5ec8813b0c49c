package orm

import (
	"github.com/iov-one/tokenescrow"
)

// ConsumeIterator will read all remaining data into an
// array and close the iterator
func ConsumeIterator(itr tokenescrow.Iterator) []tokenescrow.Model {
	defer itr.Close()

	var res []tokenescrow.Model
	for ; itr.Valid(); itr.Next() {
		mod := tokenescrow.Model{
			Key:   itr.Key(),
			Value: itr.Value(),
		}
		res = append(res, mod)
	}
	return res
}

// queryPrefix returns all models whose keys start with the prefix, in
// ascending key order.
func queryPrefix(db tokenescrow.ReadOnlyKVStore, prefix []byte) ([]tokenescrow.Model, error) {
	start, end := prefixRange(prefix)
	itr, err := db.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return ConsumeIterator(itr), nil
}

// prefixRange turns a prefix into (start, end) to create
// and iterator
func prefixRange(prefix []byte) ([]byte, []byte) {
	// special case: no prefix is whole range
	if len(prefix) == 0 {
		return nil, nil
	}

	// copy the prefix and update last byte
	end := make([]byte, len(prefix))
	copy(end, prefix)
	l := len(end) - 1
	end[l]++

	// wait, what if that overflowed?....
	for end[l] == 0 && l > 0 {
		l--
		end[l]++
	}

	// okay, funny guy, you gave us FFF, no end to this range...
	if l == 0 && end[0] == 0 {
		end = nil
	}
	return prefix, end
}
