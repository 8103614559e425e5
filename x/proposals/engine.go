package proposals

import (
	"sync"

	"github.com/signet-io/vault"
	"github.com/signet-io/vault/errors"
	"github.com/signet-io/vault/x/members"
)

// Engine drives the proposal lifecycle against a signer registry. Every
// state changing operation runs inside its own cache wrap on top of the
// backing store, so a failing execution leaves no trace, not even the
// executed flag. Events are queued during the transaction and emitted in
// order only after it was written.
//
// The engine serializes all operations with a mutex. Adapters receive the
// in-transaction store handle and must not call back into the engine.
type Engine struct {
	mu        sync.Mutex
	db        vault.CacheableKVStore
	addr      vault.Address
	proposals Bucket
	members   members.Bucket
	value     ValueMover
	tokens    TokenMover
	oracle    Oracle
	emitter   vault.Emitter
}

// NewEngine returns an engine bound to the given store and pool address.
// A nil emitter silently drops events.
func NewEngine(db vault.CacheableKVStore, addr vault.Address, value ValueMover, tokens TokenMover, oracle Oracle, emitter vault.Emitter) (*Engine, error) {
	if err := addr.Validate(); err != nil {
		return nil, errors.Wrap(err, "pool address")
	}
	if value == nil || tokens == nil || oracle == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "nil adapter")
	}
	if emitter == nil {
		emitter = vault.NopEmitter()
	}
	return &Engine{
		db:        db,
		addr:      addr.Clone(),
		proposals: NewBucket(),
		members:   members.NewBucket(),
		value:     value,
		tokens:    tokens,
		oracle:    oracle,
		emitter:   emitter,
	}, nil
}

// Initialize seeds the signer registry. It must be called exactly once
// before any proposal operation and fails if the registry exists already.
func (e *Engine) Initialize(signers []vault.Address, threshold uint32) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cache := e.db.CacheWrap()
	if err := e.members.Initialize(cache, signers, threshold); err != nil {
		cache.Discard()
		return err
	}
	return cache.Write()
}

// Address returns the pool address funds are moved from.
func (e *Engine) Address() vault.Address {
	return e.addr.Clone()
}

// CreateProposal stores a new proposal for the given action and returns
// its id. Ids are sequential starting at zero. Only current signers may
// create proposals. The action content is stored verbatim, any problem
// with it surfaces at execution time.
func (e *Engine) CreateProposal(requester vault.Address, action Action) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cache := e.db.CacheWrap()
	if err := e.requireSigner(cache, requester); err != nil {
		cache.Discard()
		return 0, err
	}
	p, err := newProposal(action)
	if err != nil {
		cache.Discard()
		return 0, err
	}
	id, err := e.proposals.Create(cache, p)
	if err != nil {
		cache.Discard()
		return 0, err
	}
	if err := cache.Write(); err != nil {
		return 0, err
	}
	e.emitter.Emit(ProposalCreated{ProposalID: id, Creator: requester.Clone(), Action: action})
	return id, nil
}

// ApproveProposal records the signer's approval on a pending proposal.
// Approving twice is a silent no-op. Only current signers may approve,
// and an executed proposal accepts no further approvals.
func (e *Engine) ApproveProposal(signer vault.Address, id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cache := e.db.CacheWrap()
	if err := e.requireSigner(cache, signer); err != nil {
		cache.Discard()
		return err
	}
	p, err := e.proposals.GetProposal(cache, id)
	if err != nil {
		cache.Discard()
		return err
	}
	if p.Executed {
		cache.Discard()
		return errors.Wrapf(ErrAlreadyExecuted, "proposal %d", id)
	}
	if !p.approve(signer) {
		cache.Discard()
		return nil
	}
	if err := e.proposals.Update(cache, id, p); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return err
	}
	e.emitter.Emit(ProposalApproved{ProposalID: id, Signer: signer.Clone()})
	return nil
}

// ExecuteProposal applies the action of a proposal that collected enough
// approvals. Anyone may trigger execution, there is no signer gate here.
// On any failure the whole transaction is discarded and the proposal
// stays pending.
func (e *Engine) ExecuteProposal(id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cache := e.db.CacheWrap()
	p, err := e.executable(cache, id)
	if err != nil {
		cache.Discard()
		return err
	}

	// Mark executed before running the action so the action observes the
	// terminal state, then let a failure discard the whole wrap.
	p.Executed = true
	if err := e.proposals.Update(cache, id, p); err != nil {
		cache.Discard()
		return err
	}

	var queue []vault.Event
	switch p.Kind {
	case ActionKind_TRANSFER:
		dest := vault.Address(p.Destination)
		if err := dest.Validate(); err != nil {
			cache.Discard()
			return errors.Wrap(err, "destination")
		}
		balance, err := e.oracle.NativeBalance(cache, e.addr)
		if err != nil {
			cache.Discard()
			return errors.Wrap(err, "balance lookup")
		}
		if balance < p.Amount {
			cache.Discard()
			return errors.Wrapf(ErrInsufficientBalance, "have %d, need %d", balance, p.Amount)
		}
		if err := e.value.MoveValue(cache, e.addr, dest, p.Amount, p.Payload); err != nil {
			cache.Discard()
			return errors.Wrapf(ErrExecutionFailed, "value transfer: %s", err)
		}
	case ActionKind_ADD_SIGNER:
		signer := vault.Address(p.Signer)
		if err := signer.Validate(); err != nil {
			cache.Discard()
			return errors.Wrap(err, "signer")
		}
		added, err := e.members.Add(cache, signer)
		if err != nil {
			cache.Discard()
			return err
		}
		if added {
			queue = append(queue, SignerAdded{Signer: signer.Clone()})
		}
	case ActionKind_REMOVE_SIGNER:
		signer := vault.Address(p.Signer)
		if err := signer.Validate(); err != nil {
			cache.Discard()
			return errors.Wrap(err, "signer")
		}
		removed, err := e.members.Remove(cache, signer)
		if err != nil {
			cache.Discard()
			if members.ErrQuorumViolation.Is(err) {
				return errors.Wrapf(ErrCannotRemoveSigner, "proposal %d: %s", id, err)
			}
			return err
		}
		if removed {
			queue = append(queue, SignerRemoved{Signer: signer.Clone()})
		}
	default:
		cache.Discard()
		return errors.Wrapf(errors.ErrModel, "unknown action kind %d", p.Kind)
	}

	if err := cache.Write(); err != nil {
		return err
	}
	action, err := p.Action()
	if err != nil {
		return err
	}
	queue = append(queue, ProposalExecuted{ProposalID: id, Action: action})
	for _, ev := range queue {
		e.emitter.Emit(ev)
	}
	return nil
}

// ExecuteTokenTransfer executes a transfer proposal through a token
// contract instead of moving native value. The proposal's payload is
// interpreted as the token identity and the amount as token units. Only
// transfer proposals qualify, any other kind fails with ErrInvalidType.
// There is no balance pre-check; a failure reported by the token adapter
// is passed through untouched and discards the transaction.
func (e *Engine) ExecuteTokenTransfer(id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cache := e.db.CacheWrap()
	p, err := e.executable(cache, id)
	if err != nil {
		cache.Discard()
		return err
	}
	if p.Kind != ActionKind_TRANSFER {
		cache.Discard()
		return errors.Wrapf(ErrInvalidType, "proposal %d is %s", id, p.Kind)
	}
	token := vault.Address(p.Payload)
	if err := token.Validate(); err != nil {
		cache.Discard()
		return errors.Wrap(err, "token")
	}
	dest := vault.Address(p.Destination)
	if err := dest.Validate(); err != nil {
		cache.Discard()
		return errors.Wrap(err, "destination")
	}

	p.Executed = true
	if err := e.proposals.Update(cache, id, p); err != nil {
		cache.Discard()
		return err
	}
	if err := e.tokens.MoveToken(cache, token, e.addr, dest, p.Amount); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return err
	}
	action, err := p.Action()
	if err != nil {
		return err
	}
	e.emitter.Emit(ProposalExecuted{ProposalID: id, Action: action})
	return nil
}

// GetProposal returns an independent copy of the stored proposal.
func (e *Engine) GetProposal(id int64) (*Proposal, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.proposals.GetProposal(e.db, id)
	if err != nil {
		return nil, err
	}
	return p.Copy().(*Proposal), nil
}

// HasApproved returns whether the given address approved the proposal.
func (e *Engine) HasApproved(a vault.Address, id int64) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.proposals.GetProposal(e.db, id)
	if err != nil {
		return false, err
	}
	return p.HasApproved(a), nil
}

// Proposals returns copies of all proposals in creation order. Ids are
// dense and zero based, so the slice index is the proposal id.
func (e *Engine) Proposals() ([]*Proposal, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var all []*Proposal
	err := e.proposals.IterateProposals(e.db, func(id int64, p *Proposal) error {
		all = append(all, p.Copy().(*Proposal))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}

// IterateProposals walks all proposals in id order, passing copies to fn.
func (e *Engine) IterateProposals(fn func(id int64, p *Proposal) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.proposals.IterateProposals(e.db, func(id int64, p *Proposal) error {
		return fn(id, p.Copy().(*Proposal))
	})
}

// Signers returns the current member list.
func (e *Engine) Signers() ([]vault.Address, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.members.Signers(e.db)
}

// IsSigner returns whether the address currently holds membership.
func (e *Engine) IsSigner(a vault.Address) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.members.IsMember(e.db, a)
}

// Threshold returns the approval threshold the registry was created with.
func (e *Engine) Threshold() (uint32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.members.Threshold(e.db)
}

func (e *Engine) requireSigner(db vault.ReadOnlyKVStore, a vault.Address) error {
	ok, err := e.members.IsMember(db, a)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(errors.ErrUnauthorized, "%s is not a signer", a)
	}
	return nil
}

// executable loads a proposal and checks the gates shared by both
// execution paths: it must exist, must not be executed yet and must have
// reached the quorum threshold.
func (e *Engine) executable(db vault.ReadOnlyKVStore, id int64) (*Proposal, error) {
	p, err := e.proposals.GetProposal(db, id)
	if err != nil {
		return nil, err
	}
	if p.Executed {
		return nil, errors.Wrapf(ErrAlreadyExecuted, "proposal %d", id)
	}
	threshold, err := e.members.Threshold(db)
	if err != nil {
		return nil, err
	}
	if uint32(p.ApprovalCount()) < threshold {
		return nil, errors.Wrapf(ErrInsufficientApprovals, "have %d, need %d", p.ApprovalCount(), threshold)
	}
	return p, nil
}
