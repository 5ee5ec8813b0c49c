package store

import (
	"bytes"

	"github.com/google/btree"
)

// ascendBtree collects all cached items within [start, end) in
// ascending order.
func ascendBtree(bt *btree.BTree, start, end []byte) []keyer {
	var items []keyer
	collect := func(item btree.Item) bool {
		items = append(items, item.(keyer))
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(bkey{end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, collect)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, collect)
	}
	return items
}

// descendBtree collects all cached items within [start, end) in
// descending order.
func descendBtree(bt *btree.BTree, start, end []byte) []keyer {
	items := ascendBtree(bt, start, end)
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items
}

// source marks where the current item comes from
type source int32

const (
	us source = iota
	parent
	both
	none
)

// itemIter combines the cached items with an iterator over the parent,
// taking into consideration overwrites and deletes.
type itemIter struct {
	items   []keyer
	idx     int
	parent  Iterator
	reverse bool
}

var _ Iterator = (*itemIter)(nil)

func newItemIter(items []keyer, parent Iterator, reverse bool) *itemIter {
	iter := &itemIter{
		items:   items,
		parent:  parent,
		reverse: reverse,
	}
	iter.skipAllDeleted()
	return iter
}

// Valid implements Iterator and returns true iff it can be read
func (i *itemIter) Valid() bool {
	return i.usValid() || i.parentValid()
}

// Next moves the iterator to the next sequential key in the database, as
// defined by order of iteration.
//
// If Valid returns false, this method will panic.
func (i *itemIter) Next() {
	switch i.firstKey() {
	case us:
		i.idx++
	case both:
		i.idx++
		i.parent.Next()
	case parent:
		i.parent.Next()
	default:
		panic("Advanced past the end!")
	}
	i.skipAllDeleted()
}

// Key returns the key of the cursor.
func (i *itemIter) Key() []byte {
	switch i.firstKey() {
	case us, both:
		return i.items[i.idx].Key()
	case parent:
		return i.parent.Key()
	default:
		panic("Advanced past the end!")
	}
}

// Value returns the value of the cursor.
func (i *itemIter) Value() []byte {
	switch i.firstKey() {
	case us, both:
		return i.items[i.idx].(setItem).value
	case parent:
		return i.parent.Value()
	default:
		panic("Advanced past the end!")
	}
}

// Close releases the Iterator.
func (i *itemIter) Close() {
	if i.parent != nil {
		i.parent.Close()
	}
	i.items = nil
}

// skipAllDeleted jumps over all deleted entries, together with the parent
// entries they shadow.
func (i *itemIter) skipAllDeleted() {
	for {
		src := i.firstKey()
		if src != us && src != both {
			return
		}
		if _, ok := i.items[i.idx].(deletedItem); !ok {
			return
		}
		i.idx++
		if src == both {
			i.parent.Next()
		}
	}
}

// firstKey selects the iterator with the lowest key (or highest when
// reversed), if any
func (i *itemIter) firstKey() source {
	if !i.parentValid() {
		if !i.usValid() {
			return none
		}
		return us
	} else if !i.usValid() {
		return parent
	}

	cmp := bytes.Compare(i.parent.Key(), i.items[i.idx].Key())
	if i.reverse {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return parent
	case cmp > 0:
		return us
	default:
		return both
	}
}

func (i *itemIter) usValid() bool {
	return i.idx < len(i.items)
}

// makes sure the parent is non-nil before checking if it is valid
func (i *itemIter) parentValid() bool {
	return (i.parent != nil) && i.parent.Valid()
}
