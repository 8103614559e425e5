package vault

// This file defines all public interfaces for interacting with stores.
// KVStore and Iterator are the basic objects to use in all code.

// ReadOnlyKVStore is a simple interface to read data.
type ReadOnlyKVStore interface {
	// Get returns nil iff key doesn't exist. Errors on nil key.
	Get(key []byte) ([]byte, error)

	// Has checks if a key exists. Errors on nil key.
	Has(key []byte) (bool, error)

	// Iterator over a domain of keys in ascending order. End is
	// exclusive. Start must be less than end, or the Iterator is
	// invalid. A nil start iterates from the first key, a nil end
	// iterates through the last one.
	// CONTRACT: no writes may happen within a domain while an iterator
	// exists over it.
	Iterator(start, end []byte) (Iterator, error)

	// ReverseIterator iterates over the same domain as Iterator but in
	// descending order.
	ReverseIterator(start, end []byte) (Iterator, error)
}

// SetDeleter is a minimal interface for writing, inspired by the batch
// wrappers of most backing stores.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// KVStore is a simple interface to get/set data.
type KVStore interface {
	ReadOnlyKVStore
	SetDeleter

	// NewBatch returns a batch that can write multiple ops atomically.
	NewBatch() Batch
}

// Batch can write multiple ops atomically to an underlying KVStore.
type Batch interface {
	SetDeleter
	Write() error
}

// Iterator allows iteration over a domain of keys. These may all be
// preloaded, or loaded on demand.
//
//   var iter Iterator = ...
//   defer iter.Release()
//
//   for {
//     key, value, err := iter.Next()
//     if err != nil {
//       break  // ErrIteratorDone signals a clean end
//     }
//     ...
//   }
type Iterator interface {
	// Next moves the iterator to the next sequential key in the
	// database, as defined by order of iteration. It returns an
	// ErrIteratorDone wrapping error when the end of the domain is
	// reached.
	Next() (key, value []byte, err error)

	// Release frees all resources tied to this iterator. It must always
	// be called when the iterator is no longer used.
	Release()
}

// CacheableKVStore is a KVStore that supports CacheWrap, the grouping of
// temporary writes which may be committed or discarded together. Like
// Postgresql SAVEPOINT / ROLLBACK TO SAVEPOINT. Every state transition of
// the proposal engine runs inside such a savepoint so that a failure late
// in the execution cannot leave partial effects behind.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap is a scratch-pad of uncommitted data visible to all reads
// through it. At the end, call Write to flush it to the parent store, or
// Discard to drop it all.
type KVCacheWrap interface {
	// CacheableKVStore allows cache wrapping recursively.
	CacheableKVStore

	// Write syncs with the underlying store.
	Write() error

	// Discard invalidates this CacheWrap and releases all data.
	Discard()
}

// CommitKVStore is a store that can persist state to disk, load it on
// start up, and maintain version history.
type CommitKVStore interface {
	// Get returns the value at the last committed state. Returns nil iff
	// the key doesn't exist.
	Get(key []byte) ([]byte, error)

	// CacheWrap gives a savepoint to perform actions on top of the last
	// committed state.
	CacheWrap() KVCacheWrap

	// Commit writes the next version to disk and returns its info.
	Commit() (CommitID, error)

	// LoadLatestVersion loads the latest persisted version. If there was
	// a crash during the last commit, it is guaranteed to return a
	// stable state, even if older.
	LoadLatestVersion() error

	// LatestVersion returns info on the latest version saved to disk.
	LatestVersion() (CommitID, error)
}

// CommitID contains the tree version number and its merkle root.
type CommitID struct {
	Version int64
	Hash    []byte
}
