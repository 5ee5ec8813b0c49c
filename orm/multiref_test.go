package orm

import (
	"testing"

	"github.com/iov-one/tokenescrow/errors"
	"github.com/iov-one/tokenescrow/tokenescrowtest/assert"
)

func TestMultiRefKeepsSortedSet(t *testing.T) {
	m, err := NewMultiRef([]byte("c"), []byte("a"), []byte("b"))
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{[]byte("a"), []byte("b"), []byte("c")}, m.Refs)

	assert.IsErr(t, errors.ErrDuplicate, m.Add([]byte("b")))
	assert.Nil(t, m.Remove([]byte("b")))
	assert.IsErr(t, errors.ErrNotFound, m.Remove([]byte("b")))
	assert.Equal(t, [][]byte{[]byte("a"), []byte("c")}, m.Refs)

	empty, err := NewMultiRef()
	assert.Nil(t, err)
	assert.IsErr(t, errors.ErrEmpty, empty.Validate())
}
