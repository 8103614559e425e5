package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/signet-io/vault/errors"
)

// cacheIter merges the cached writes of a BTreeCacheWrap with the iterator
// of the backing store. Cached entries shadow the parent entries with the
// same key; deleted items suppress them.
type cacheIter struct {
	items   []btree.Item
	idx     int
	parent  Iterator
	pKey    []byte
	pValue  []byte
	pLoaded bool
	pDone   bool
	reverse bool
}

var _ Iterator = (*cacheIter)(nil)

func newCacheIter(items []btree.Item, parent Iterator) *cacheIter {
	return &cacheIter{
		items:  items,
		parent: parent,
	}
}

// Next returns the next merged key-value pair or ErrIteratorDone.
func (c *cacheIter) Next() ([]byte, []byte, error) {
	for {
		if err := c.loadParent(); err != nil {
			return nil, nil, err
		}

		cached, hasCached := c.peekCached()

		switch {
		case !hasCached && c.pDone:
			return nil, nil, errors.Wrap(errors.ErrIteratorDone, "cache iterator")
		case !hasCached:
			return c.takeParent()
		case c.pDone:
			c.idx++
			if value, ok := cachedValue(cached); ok {
				return cached.(keyer).Key(), value, nil
			}
			// Deleted in cache and absent in parent, skip.
			continue
		}

		cKey := cached.(keyer).Key()
		cmp := bytes.Compare(cKey, c.pKey)
		if c.reverse {
			cmp = -cmp
		}
		switch {
		case cmp < 0:
			c.idx++
			if value, ok := cachedValue(cached); ok {
				return cKey, value, nil
			}
			continue
		case cmp > 0:
			return c.takeParent()
		default:
			// Same key, the cache layer shadows the parent.
			c.idx++
			c.pLoaded = false
			if value, ok := cachedValue(cached); ok {
				return cKey, value, nil
			}
			continue
		}
	}
}

// Release frees both the cached slice and the parent iterator.
func (c *cacheIter) Release() {
	c.items = nil
	c.parent.Release()
}

// loadParent buffers the next parent pair if none is pending.
func (c *cacheIter) loadParent() error {
	if c.pLoaded || c.pDone {
		return nil
	}
	key, value, err := c.parent.Next()
	switch {
	case err == nil:
		c.pKey, c.pValue, c.pLoaded = key, value, true
		return nil
	case errors.ErrIteratorDone.Is(err):
		c.pDone = true
		return nil
	default:
		return err
	}
}

func (c *cacheIter) peekCached() (btree.Item, bool) {
	if c.idx >= len(c.items) {
		return nil, false
	}
	return c.items[c.idx], true
}

func (c *cacheIter) takeParent() ([]byte, []byte, error) {
	c.pLoaded = false
	return c.pKey, c.pValue, nil
}

// cachedValue returns the value of a cached item and whether the item
// represents live data (false for a deletion marker).
func cachedValue(item btree.Item) ([]byte, bool) {
	switch t := item.(type) {
	case setItem:
		return t.value, true
	default:
		return nil, false
	}
}
