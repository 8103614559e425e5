package store

import "github.com/signet-io/vault"

// Move references for all storage types into this package
// for shorter names everywhere.

type ReadOnlyKVStore = vault.ReadOnlyKVStore
type KVStore = vault.KVStore
type SetDeleter = vault.SetDeleter
type Batch = vault.Batch
type Iterator = vault.Iterator
type CacheableKVStore = vault.CacheableKVStore
type KVCacheWrap = vault.KVCacheWrap
type CommitKVStore = vault.CommitKVStore
type CommitID = vault.CommitID
