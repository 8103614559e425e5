package orm

import (
	"encoding/binary"

	"github.com/signet-io/vault"
)

// Sequence maintains a counter and generates a series of keys. Each key is
// greater than the last, both NextInt() as well as bytes.Compare() on
// NextVal().
//
// The sequence is zero based: the very first value handed out is 0. Record
// identifiers produced from a sequence are therefore strictly increasing
// integers starting at zero.
type Sequence struct {
	id []byte
}

// NewSequence returns a sequence counter. Sequence is using the following
// pattern to construct a key:
//    _s.<bucket>:<name>
func NewSequence(bucket, name string) Sequence {
	id := "_s." + bucket + ":" + name
	return Sequence{
		id: []byte(id),
	}
}

// NextVal returns the next value of the sequence as 8 bytes and advances
// the counter.
func (s *Sequence) NextVal(db vault.KVStore) ([]byte, error) {
	_, bz, err := s.increment(db, 1)
	return bz, err
}

// NextInt returns the next value of the sequence as an int and advances
// the counter.
func (s *Sequence) NextInt(db vault.KVStore) (int64, error) {
	val, _, err := s.increment(db, 1)
	return val, err
}

// Latest returns the most recently returned value of the sequence. This
// method does not modify the sequence state. Use NextVal or NextInt to
// acquire a value that was not given to anyone else. If the sequence was
// never used, -1 is returned.
func (s *Sequence) Latest(db vault.ReadOnlyKVStore) (int64, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, err
	}
	if raw == nil {
		return -1, nil
	}
	return DecodeSequence(raw) - 1, nil
}

func (s *Sequence) increment(db vault.KVStore, inc int64) (int64, []byte, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, nil, err
	}
	val := DecodeSequence(raw)
	next := val + inc
	if err := db.Set(s.id, EncodeSequence(next)); err != nil {
		return 0, nil, err
	}
	// The stored state is the count of values handed out, the value
	// returned is the zero based current one.
	return val, EncodeSequence(val), nil
}

// DecodeSequence interprets raw sequence bytes as an integer. Nil decodes
// to zero.
func DecodeSequence(bz []byte) int64 {
	if bz == nil {
		return 0
	}
	val := binary.BigEndian.Uint64(bz)
	return int64(val)
}

// EncodeSequence encodes an integer as big-endian raw sequence bytes, so
// that the byte order matches the numeric order.
func EncodeSequence(val int64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, uint64(val))
	return bz
}
