/*
Package orm provides an easy to use db wrapper.

It breaks the state space into prefixed sections called Buckets. Each
bucket contains only one type of object and has a primary index. Easy
queries for one object and iteration over a key domain are supported.
*/
package orm

import (
	"fmt"
	"regexp"

	"github.com/signet-io/vault"
	"github.com/signet-io/vault/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Bucket is a generic holder that stores data as well as references to
// the id sequences used to generate keys.
//
// This is a generic building block that should generally be embedded in a
// type-safe wrapper to ensure all data is of the same type.
// Bucket is a prefixed subspace of the db, proto defines the default
// Model, all elements of this type.
type Bucket struct {
	name   string
	prefix []byte
	proto  Cloneable
}

// NewBucket creates a bucket to store data.
func NewBucket(name string, proto Cloneable) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("illegal bucket: %s", name))
	}

	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
		proto:  proto,
	}
}

// Name returns the name of the bucket.
func (b Bucket) Name() string {
	return b.name
}

// DBKey is the full key we store in the db, including the prefix. We copy
// into a new array rather than use append, as we don't want consecutive
// calls to overwrite the same byte array.
func (b Bucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// Get one element.
func (b Bucket) Get(db vault.ReadOnlyKVStore, key []byte) (Object, error) {
	dbkey := b.DBKey(key)
	bz, err := db.Get(dbkey)
	if err != nil {
		return nil, err
	}
	if bz == nil {
		return nil, nil
	}
	return b.Parse(key, bz)
}

// Parse takes a key and value data and reconstructs the data this bucket
// would return. Used internally as part of Get, exposed mainly as a test
// helper.
func (b Bucket) Parse(key, value []byte) (Object, error) {
	obj := b.proto.Clone()
	if err := obj.Value().Unmarshal(value); err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "parsing %s: %s", b.name, err)
	}
	obj.SetKey(key)
	return obj, nil
}

// Save will write the model, it must be of the same type as proto.
func (b Bucket) Save(db vault.KVStore, model Object) error {
	if err := model.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}

	bz, err := model.Value().Marshal()
	if err != nil {
		return err
	}
	return db.Set(b.DBKey(model.Key()), bz)
}

// Delete will remove the value at a key.
func (b Bucket) Delete(db vault.KVStore, key []byte) error {
	dbkey := b.DBKey(key)
	return db.Delete(dbkey)
}

// Sequence returns a Sequence by name.
func (b Bucket) Sequence(name string) Sequence {
	return NewSequence(b.name, name)
}

// Iterate walks through all objects of the bucket in ascending key order,
// calling fn for each one. Returning an error from fn aborts the walk and
// the error is propagated.
func (b Bucket) Iterate(db vault.ReadOnlyKVStore, fn func(Object) error) error {
	start, end := prefixRange(b.prefix)
	it, err := db.Iterator(start, end)
	if err != nil {
		return errors.Wrap(err, "bucket iterator")
	}
	defer it.Release()

	for {
		key, value, err := it.Next()
		switch {
		case err == nil:
			obj, err := b.Parse(key[len(b.prefix):], value)
			if err != nil {
				return err
			}
			if err := fn(obj); err != nil {
				return err
			}
		case errors.ErrIteratorDone.Is(err):
			return nil
		default:
			return errors.Wrap(err, "bucket iteration")
		}
	}
}

// prefixRange turns a prefix into (start, end) to create a domain covering
// all keys starting with the prefix.
//
// In case of prefix, start is the prefix and end is the next following
// byte sequence: for []byte{1, 3, 4} it is []byte{1, 3, 5}.
func prefixRange(prefix []byte) ([]byte, []byte) {
	if len(prefix) == 0 {
		return nil, nil
	}

	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return prefix, end[:i+1]
		}
	}
	// Prefix is all 0xff bytes, no upper bound.
	return prefix, nil
}
