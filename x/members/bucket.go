package members

import (
	"github.com/signet-io/vault"
	"github.com/signet-io/vault/errors"
	"github.com/signet-io/vault/orm"
)

const (
	// BucketName is where we store the registry.
	BucketName = "registry"
)

// registryKey is the fixed key of the singleton registry record.
var registryKey = []byte("quorum")

// Bucket is a type-safe wrapper around orm.Bucket holding the singleton
// registry record.
type Bucket struct {
	orm.Bucket
}

// NewBucket initializes a registry bucket with the default name.
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, orm.NewSimpleObj(nil, new(Registry))),
	}
}

// Initialize persists a freshly constructed registry. Duplicates in the
// input collapse to a single membership. It fails with
// ErrInvalidConfiguration if the signer set is empty, the threshold is
// zero, or the threshold exceeds the distinct signer count. Initializing
// twice fails, the signer list and threshold can be amended only through
// proposal execution.
func (b Bucket) Initialize(db vault.KVStore, signers []vault.Address, threshold uint32) error {
	switch existing, err := b.Get(db, registryKey); {
	case err != nil:
		return errors.Wrap(err, "bucket lookup")
	case existing != nil:
		return errors.Wrap(errors.ErrImmutable, "registry is already initialized")
	}

	reg := Registry{Threshold: threshold}
	for _, s := range signers {
		reg.add(s)
	}
	obj := orm.NewSimpleObj(registryKey, &reg)
	return b.Save(db, obj)
}

// GetRegistry returns the registry record. It fails with ErrNotFound when
// the registry was never initialized.
func (b Bucket) GetRegistry(db vault.ReadOnlyKVStore) (*Registry, error) {
	obj, err := b.Get(db, registryKey)
	if err != nil {
		return nil, errors.Wrap(err, "bucket lookup")
	}
	if obj == nil || obj.Value() == nil {
		return nil, errors.Wrap(errors.ErrNotFound, "registry not initialized")
	}
	reg, ok := obj.Value().(*Registry)
	if !ok {
		return nil, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
	}
	return reg, nil
}

// IsMember returns whether the given address currently holds membership.
// A pure lookup, no side effects.
func (b Bucket) IsMember(db vault.ReadOnlyKVStore, a vault.Address) (bool, error) {
	reg, err := b.GetRegistry(db)
	if err != nil {
		return false, err
	}
	return reg.Has(a), nil
}

// Signers returns a copy of the current member list.
func (b Bucket) Signers(db vault.ReadOnlyKVStore) ([]vault.Address, error) {
	reg, err := b.GetRegistry(db)
	if err != nil {
		return nil, err
	}
	signers := make([]vault.Address, 0, len(reg.Signers))
	for _, s := range reg.Signers {
		signers = append(signers, vault.Address(s).Clone())
	}
	return signers, nil
}

// Count returns the number of current members.
func (b Bucket) Count(db vault.ReadOnlyKVStore) (int, error) {
	reg, err := b.GetRegistry(db)
	if err != nil {
		return 0, err
	}
	return len(reg.Signers), nil
}

// Threshold returns the immutable approval threshold.
func (b Bucket) Threshold(db vault.ReadOnlyKVStore) (uint32, error) {
	reg, err := b.GetRegistry(db)
	if err != nil {
		return 0, err
	}
	return reg.Threshold, nil
}

// Add grants membership to the given address. It is a no-op reporting
// false if the address is a member already. It never fails on a valid
// registry.
func (b Bucket) Add(db vault.KVStore, a vault.Address) (bool, error) {
	reg, err := b.GetRegistry(db)
	if err != nil {
		return false, err
	}
	if !reg.add(a) {
		return false, nil
	}
	return true, b.Save(db, orm.NewSimpleObj(registryKey, reg))
}

// Remove revokes membership of the given address. It is a no-op reporting
// false if the address is not a member. It fails with ErrQuorumViolation
// if the removal would leave fewer members than the threshold requires.
func (b Bucket) Remove(db vault.KVStore, a vault.Address) (bool, error) {
	reg, err := b.GetRegistry(db)
	if err != nil {
		return false, err
	}
	removed, err := reg.remove(a)
	if err != nil {
		return false, err
	}
	if !removed {
		return false, nil
	}
	return true, b.Save(db, orm.NewSimpleObj(registryKey, reg))
}
