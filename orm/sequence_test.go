package orm

import (
	"bytes"
	"testing"

	"github.com/signet-io/vault/store"
)

func TestSequenceIsZeroBased(t *testing.T) {
	db := store.MemStore()
	seq := NewSequence("proposal", "id")

	latest, err := seq.Latest(db)
	if err != nil {
		t.Fatalf("cannot read latest: %s", err)
	}
	if latest != -1 {
		t.Fatalf("unused sequence must report -1, got %d", latest)
	}

	for want := int64(0); want < 5; want++ {
		got, err := seq.NextInt(db)
		if err != nil {
			t.Fatalf("cannot get next value: %s", err)
		}
		if got != want {
			t.Fatalf("want %d, got %d", want, got)
		}
	}

	latest, err = seq.Latest(db)
	if err != nil {
		t.Fatalf("cannot read latest: %s", err)
	}
	if latest != 4 {
		t.Fatalf("want latest 4, got %d", latest)
	}
}

func TestSequenceValuesAreByteOrdered(t *testing.T) {
	db := store.MemStore()
	seq := NewSequence("proposal", "id")

	prev, err := seq.NextVal(db)
	if err != nil {
		t.Fatalf("cannot get next value: %s", err)
	}
	for i := 0; i < 300; i++ {
		next, err := seq.NextVal(db)
		if err != nil {
			t.Fatalf("cannot get next value: %s", err)
		}
		if bytes.Compare(prev, next) >= 0 {
			t.Fatalf("sequence values must be strictly increasing: %x then %x", prev, next)
		}
		prev = next
	}
}

func TestSequencesAreIndependent(t *testing.T) {
	db := store.MemStore()
	a := NewSequence("proposal", "id")
	b := NewSequence("wallet", "id")

	if _, err := a.NextInt(db); err != nil {
		t.Fatalf("cannot advance: %s", err)
	}
	got, err := b.NextInt(db)
	if err != nil {
		t.Fatalf("cannot advance: %s", err)
	}
	if got != 0 {
		t.Fatalf("sequences must not share state, got %d", got)
	}
}
