package iavl

import (
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"

	"github.com/signet-io/vault/store"
)

// the number of tree nodes kept in memory before the tree starts reading
// from disk
const cacheSize = 10000

// CommitStore manages a iavl committed state. It persists the full state
// layout - signer registry, proposal table with approval sets, id counters
// and wallet balances - as versioned merkle tree snapshots.
type CommitStore struct {
	tree *iavl.MutableTree
}

var _ store.CommitKVStore = CommitStore{}

// NewCommitStore creates a new store with disk backing under the given
// directory. The name is used for the database file names.
func NewCommitStore(path, name string) CommitStore {
	db, err := dbm.NewGoLevelDB(name, path)
	if err != nil {
		panic(err)
	}
	tree := iavl.NewMutableTree(db, cacheSize)
	return CommitStore{tree: tree}
}

// MockCommitStore returns a db backed by an in-memory engine, useful in
// tests that need commit semantics without a filesystem.
func MockCommitStore() CommitStore {
	tree := iavl.NewMutableTree(dbm.NewMemDB(), cacheSize)
	return CommitStore{tree: tree}
}

// Get returns the value at the last committed state.
func (s CommitStore) Get(key []byte) ([]byte, error) {
	_, value := s.tree.Get(key)
	return value, nil
}

// CacheWrap gives a savepoint to perform a group of writes that are
// flushed into the working tree only on Write.
func (s CommitStore) CacheWrap() store.KVCacheWrap {
	ts := treeStore{tree: s.tree}
	return store.NewBTreeCacheWrap(ts, ts.NewBatch(), nil)
}

// Commit saves the next version to disk and returns its info.
func (s CommitStore) Commit() (store.CommitID, error) {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return store.CommitID{}, err
	}
	return store.CommitID{
		Version: version,
		Hash:    hash,
	}, nil
}

// LoadLatestVersion loads the latest persisted version. If there was a
// crash during the last commit, it is guaranteed to return a stable
// state, even if older.
func (s CommitStore) LoadLatestVersion() error {
	_, err := s.tree.Load()
	return err
}

// LatestVersion returns info on the latest version saved to disk.
func (s CommitStore) LatestVersion() (store.CommitID, error) {
	return store.CommitID{
		Version: s.tree.Version(),
		Hash:    s.tree.Hash(),
	}, nil
}

// treeStore exposes the mutable working tree through the KVStore
// interface, so that the generic btree cache wrap can layer on top of it.
type treeStore struct {
	tree *iavl.MutableTree
}

var _ store.KVStore = treeStore{}

func (t treeStore) Get(key []byte) ([]byte, error) {
	_, value := t.tree.Get(key)
	return value, nil
}

func (t treeStore) Has(key []byte) (bool, error) {
	return t.tree.Has(key), nil
}

func (t treeStore) Set(key, value []byte) error {
	t.tree.Set(key, value)
	return nil
}

func (t treeStore) Delete(key []byte) error {
	t.tree.Remove(key)
	return nil
}

func (t treeStore) Iterator(start, end []byte) (store.Iterator, error) {
	return t.iterate(start, end, true), nil
}

func (t treeStore) ReverseIterator(start, end []byte) (store.Iterator, error) {
	return t.iterate(start, end, false), nil
}

func (t treeStore) NewBatch() store.Batch {
	return store.NewNonAtomicBatch(t)
}

// iterate preloads the result set. The iterated domains are small (a
// bucket prefix), so the simplicity wins over a streaming cursor.
func (t treeStore) iterate(start, end []byte, ascending bool) store.Iterator {
	var models []store.Model
	t.tree.IterateRange(start, end, ascending, func(key, value []byte) bool {
		models = append(models, store.Model{Key: key, Value: value})
		return false
	})
	return store.NewSliceIterator(models)
}
