package vaulttest

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/signet-io/vault"
	"github.com/signet-io/vault/store/iavl"
)

// CommitKVStore returns a store instance that is using a filesystem
// backend engine to store the data. This implementation should be used
// instead of MemStore when you want the exact same storage implementation
// as a production instance is using.
func CommitKVStore(t testing.TB) (db vault.CommitKVStore, cleanup func()) {
	t.Helper()

	dbpath, err := ioutil.TempDir("", "vaulttest")
	if err != nil {
		t.Fatalf("cannot create a temporary directory: %s", err)
	}

	db = iavl.NewCommitStore(dbpath, "db")
	return db, func() { os.RemoveAll(dbpath) }
}
