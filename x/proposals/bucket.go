package proposals

import (
	"github.com/signet-io/vault"
	"github.com/signet-io/vault/errors"
	"github.com/signet-io/vault/orm"
)

const (
	// BucketName is where we store the proposals.
	BucketName = "proposal"
	// SequenceName is the id counter for proposals.
	SequenceName = "id"
)

// Bucket is a type-safe wrapper around orm.Bucket keyed by sequential,
// zero based proposal ids.
type Bucket struct {
	orm.Bucket
	idSeq orm.Sequence
}

// NewBucket initializes a proposal bucket with the default name.
func NewBucket() Bucket {
	b := orm.NewBucket(BucketName, orm.NewSimpleObj(nil, new(Proposal)))
	return Bucket{
		Bucket: b,
		idSeq:  b.Sequence(SequenceName),
	}
}

// Create assigns the next sequential id to the given proposal and stores
// it. It returns the assigned id.
func (b Bucket) Create(db vault.KVStore, p *Proposal) (int64, error) {
	id, err := b.idSeq.NextInt(db)
	if err != nil {
		return 0, errors.Wrap(err, "id sequence")
	}
	obj := orm.NewSimpleObj(orm.EncodeSequence(id), p)
	if err := b.Save(db, obj); err != nil {
		return 0, err
	}
	return id, nil
}

// GetProposal returns the proposal with the given id. It fails with
// ErrNotFound for any id that was never assigned.
func (b Bucket) GetProposal(db vault.ReadOnlyKVStore, id int64) (*Proposal, error) {
	if id < 0 {
		return nil, errors.Wrapf(errors.ErrNotFound, "proposal %d", id)
	}
	obj, err := b.Get(db, orm.EncodeSequence(id))
	if err != nil {
		return nil, errors.Wrap(err, "bucket lookup")
	}
	if obj == nil || obj.Value() == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "proposal %d", id)
	}
	p, ok := obj.Value().(*Proposal)
	if !ok {
		return nil, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
	}
	return p, nil
}

// Update persists a changed proposal under an existing id.
func (b Bucket) Update(db vault.KVStore, id int64, p *Proposal) error {
	return b.Save(db, orm.NewSimpleObj(orm.EncodeSequence(id), p))
}

// IterateProposals walks all proposals in id order.
func (b Bucket) IterateProposals(db vault.ReadOnlyKVStore, fn func(id int64, p *Proposal) error) error {
	return b.Iterate(db, func(obj orm.Object) error {
		p, ok := obj.Value().(*Proposal)
		if !ok {
			return errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
		}
		return fn(orm.DecodeSequence(obj.Key()), p)
	})
}
