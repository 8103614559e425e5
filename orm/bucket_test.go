package orm

import (
	"encoding/binary"
	"testing"

	"github.com/signet-io/vault/errors"
	"github.com/signet-io/vault/store"
)

// counter is a minimal model to exercise the bucket.
type counter struct {
	Count int64
}

var _ CloneableData = (*counter)(nil)

func (c *counter) Marshal() ([]byte, error) {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, uint64(c.Count))
	return bz, nil
}

func (c *counter) Unmarshal(raw []byte) error {
	if len(raw) != 8 {
		return errors.Wrap(errors.ErrModel, "invalid length")
	}
	c.Count = int64(binary.BigEndian.Uint64(raw))
	return nil
}

func (c *counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrModel, "negative count")
	}
	return nil
}

func (c *counter) Copy() CloneableData {
	return &counter{Count: c.Count}
}

func newCounterBucket() Bucket {
	return NewBucket("cnts", NewSimpleObj(nil, &counter{}))
}

func TestBucketSaveGetRoundTrip(t *testing.T) {
	db := store.MemStore()
	b := newCounterBucket()

	obj := NewSimpleObj([]byte("alice"), &counter{Count: 7})
	if err := b.Save(db, obj); err != nil {
		t.Fatalf("cannot save: %s", err)
	}

	got, err := b.Get(db, []byte("alice"))
	if err != nil {
		t.Fatalf("cannot get: %s", err)
	}
	if got == nil {
		t.Fatal("expected stored object")
	}
	if c := got.Value().(*counter); c.Count != 7 {
		t.Fatalf("want 7, got %d", c.Count)
	}

	miss, err := b.Get(db, []byte("bob"))
	if err != nil {
		t.Fatalf("miss must not error: %s", err)
	}
	if miss != nil {
		t.Fatalf("want no object, got %v", miss)
	}
}

func TestBucketSaveRejectsInvalidModel(t *testing.T) {
	db := store.MemStore()
	b := newCounterBucket()

	obj := NewSimpleObj([]byte("alice"), &counter{Count: -1})
	if err := b.Save(db, obj); !errors.ErrModel.Is(err) {
		t.Fatalf("want a model error, got %+v", err)
	}

	// A missing key is just as invalid.
	obj = NewSimpleObj(nil, &counter{Count: 1})
	if err := b.Save(db, obj); !errors.ErrEmpty.Is(err) {
		t.Fatalf("want an empty error, got %+v", err)
	}
}

func TestBucketDelete(t *testing.T) {
	db := store.MemStore()
	b := newCounterBucket()

	obj := NewSimpleObj([]byte("alice"), &counter{Count: 1})
	if err := b.Save(db, obj); err != nil {
		t.Fatalf("cannot save: %s", err)
	}
	if err := b.Delete(db, []byte("alice")); err != nil {
		t.Fatalf("cannot delete: %s", err)
	}
	got, err := b.Get(db, []byte("alice"))
	if err != nil {
		t.Fatalf("cannot get: %s", err)
	}
	if got != nil {
		t.Fatalf("want no object after delete, got %v", got)
	}
}

func TestBucketIterateIsPrefixScoped(t *testing.T) {
	db := store.MemStore()
	b := newCounterBucket()
	other := NewBucket("wallets", NewSimpleObj(nil, &counter{}))

	for i, key := range []string{"alice", "bob", "carol"} {
		obj := NewSimpleObj([]byte(key), &counter{Count: int64(i)})
		if err := b.Save(db, obj); err != nil {
			t.Fatalf("cannot save %q: %s", key, err)
		}
	}
	// Another bucket must not leak into the iteration.
	if err := other.Save(db, NewSimpleObj([]byte("dave"), &counter{Count: 9})); err != nil {
		t.Fatalf("cannot save: %s", err)
	}

	var keys []string
	err := b.Iterate(db, func(obj Object) error {
		keys = append(keys, string(obj.Key()))
		return nil
	})
	if err != nil {
		t.Fatalf("cannot iterate: %s", err)
	}
	want := []string{"alice", "bob", "carol"}
	if len(keys) != len(want) {
		t.Fatalf("want %v, got %v", want, keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("want %v, got %v", want, keys)
		}
	}
}
