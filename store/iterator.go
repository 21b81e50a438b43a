package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/swap/errors"
)

// collectRange returns all btree items within [start, end) in ascending
// order. Nil bounds are open.
func collectRange(bt *btree.BTree, start, end []byte) []btree.Item {
	var items []btree.Item
	collect := func(i btree.Item) bool {
		items = append(items, i)
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

// mergeIterator joins our results with those of the parent,
// taking into consideration overwrites and deletes.
type mergeIterator struct {
	items   []btree.Item
	idx     int
	reverse bool
	started bool

	parent      Iterator
	parentKey   []byte
	parentValue []byte
	parentValid bool
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(items []btree.Item, parent Iterator, reverse bool) *mergeIterator {
	return &mergeIterator{
		items:   items,
		reverse: reverse,
		parent:  parent,
	}
}

// Next returns the next visible key value pair, skipping over entries
// deleted in this cache layer.
func (m *mergeIterator) Next() (key, value []byte, err error) {
	if !m.started {
		m.started = true
		if err := m.advanceParent(); err != nil {
			return nil, nil, err
		}
	}

	for {
		hasOurs := m.idx < len(m.items)
		if !hasOurs && !m.parentValid {
			return nil, nil, errors.Wrap(errors.ErrIteratorDone, "cache iterator")
		}

		if hasOurs {
			ours := m.items[m.idx].(keyer)
			cmp := -1
			if m.parentValid {
				cmp = bytes.Compare(ours.Key(), m.parentKey)
				if m.reverse {
					cmp = -cmp
				}
			}
			if cmp <= 0 {
				m.idx++
				if cmp == 0 {
					// overwritten or deleted in the cache
					if err := m.advanceParent(); err != nil {
						return nil, nil, err
					}
				}
				if item, ok := ours.(setItem); ok {
					return item.key, item.value, nil
				}
				continue
			}
		}

		key, value = m.parentKey, m.parentValue
		if err := m.advanceParent(); err != nil {
			return nil, nil, err
		}
		return key, value, nil
	}
}

func (m *mergeIterator) advanceParent() error {
	if m.parent == nil {
		m.parentValid = false
		return nil
	}
	k, v, err := m.parent.Next()
	if err != nil {
		if errors.ErrIteratorDone.Is(err) {
			m.parentKey, m.parentValue, m.parentValid = nil, nil, false
			m.parent.Release()
			m.parent = nil
			return nil
		}
		return err
	}
	m.parentKey, m.parentValue, m.parentValid = k, v, true
	return nil
}

// Release releases the Iterator.
func (m *mergeIterator) Release() {
	if m.parent != nil {
		m.parent.Release()
		m.parent = nil
	}
	m.items = nil
}
