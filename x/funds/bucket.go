package funds

import (
	"github.com/signet-io/vault"
	"github.com/signet-io/vault/errors"
	"github.com/signet-io/vault/orm"
)

const (
	// BucketName is where we store the wallets.
	BucketName = "wallet"
)

// Bucket is a type-safe wrapper around orm.Bucket keyed by account
// address.
type Bucket struct {
	orm.Bucket
}

// NewBucket initializes a wallet bucket with the default name.
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, orm.NewSimpleObj(nil, new(Wallet))),
	}
}

// GetWallet returns the wallet of the given account. A missing wallet is
// not an error, it returns an empty one.
func (b Bucket) GetWallet(db vault.ReadOnlyKVStore, addr vault.Address) (*Wallet, error) {
	obj, err := b.Get(db, addr)
	if err != nil {
		return nil, errors.Wrap(err, "bucket lookup")
	}
	if obj == nil || obj.Value() == nil {
		return &Wallet{}, nil
	}
	w, ok := obj.Value().(*Wallet)
	if !ok {
		return nil, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
	}
	return w, nil
}

// Save persists the wallet under the account address, deleting the record
// when the wallet is empty.
func (b Bucket) SaveWallet(db vault.KVStore, addr vault.Address, w *Wallet) error {
	if w.Balance == 0 && len(w.Tokens) == 0 {
		return b.Delete(db, addr)
	}
	return b.Save(db, orm.NewSimpleObj(addr, w))
}
