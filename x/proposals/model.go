package proposals

import (
	"github.com/signet-io/vault"
	"github.com/signet-io/vault/errors"
	"github.com/signet-io/vault/orm"
)

// Action describes the effect a proposal applies when executed. It is a
// closed set: TransferAction, AddSignerAction and RemoveSignerAction are
// the only implementations.
type Action interface {
	// Kind returns the storage tag of this action.
	Kind() ActionKind
}

// TransferAction moves native value out of the pool to the destination,
// forwarding an opaque payload to it. When executed through the token
// path the payload is interpreted as the token contract identity and the
// amount as token units.
type TransferAction struct {
	Destination vault.Address
	Amount      int64
	Payload     []byte
}

// AddSignerAction grants registry membership to a signer.
type AddSignerAction struct {
	Signer vault.Address
}

// RemoveSignerAction revokes registry membership of a signer.
type RemoveSignerAction struct {
	Signer vault.Address
}

func (TransferAction) Kind() ActionKind     { return ActionKind_TRANSFER }
func (AddSignerAction) Kind() ActionKind    { return ActionKind_ADD_SIGNER }
func (RemoveSignerAction) Kind() ActionKind { return ActionKind_REMOVE_SIGNER }

// newProposal flattens an action into a fresh storage record. Beside the
// action kind no field content is validated here; validation of the
// destination, amount and payload is deferred to execution time.
func newProposal(action Action) (*Proposal, error) {
	switch a := action.(type) {
	case TransferAction:
		return &Proposal{
			Kind:        ActionKind_TRANSFER,
			Destination: a.Destination.Clone(),
			Amount:      a.Amount,
			Payload:     append([]byte(nil), a.Payload...),
		}, nil
	case AddSignerAction:
		return &Proposal{
			Kind:   ActionKind_ADD_SIGNER,
			Signer: a.Signer.Clone(),
		}, nil
	case RemoveSignerAction:
		return &Proposal{
			Kind:   ActionKind_REMOVE_SIGNER,
			Signer: a.Signer.Clone(),
		}, nil
	case nil:
		return nil, errors.Wrap(errors.ErrEmpty, "no action")
	default:
		return nil, errors.Wrapf(errors.ErrType, "unsupported action: %T", action)
	}
}

// Action rebuilds the tagged variant this proposal was created from.
func (p *Proposal) Action() (Action, error) {
	switch p.Kind {
	case ActionKind_TRANSFER:
		return TransferAction{
			Destination: vault.Address(p.Destination).Clone(),
			Amount:      p.Amount,
			Payload:     append([]byte(nil), p.Payload...),
		}, nil
	case ActionKind_ADD_SIGNER:
		return AddSignerAction{Signer: vault.Address(p.Signer).Clone()}, nil
	case ActionKind_REMOVE_SIGNER:
		return RemoveSignerAction{Signer: vault.Address(p.Signer).Clone()}, nil
	default:
		return nil, errors.Wrapf(errors.ErrModel, "unknown action kind %d", p.Kind)
	}
}

var _ orm.CloneableData = (*Proposal)(nil)

// Validate ensures the stored record is structurally sound. The proposal
// fields themselves are stored verbatim and checked only at execution.
func (p *Proposal) Validate() error {
	switch p.Kind {
	case ActionKind_TRANSFER, ActionKind_ADD_SIGNER, ActionKind_REMOVE_SIGNER:
	default:
		return errors.Wrapf(errors.ErrModel, "unknown action kind %d", p.Kind)
	}
	if p.Amount < 0 {
		return errors.Wrap(errors.ErrAmount, "negative amount")
	}
	index := make(map[string]struct{}, len(p.Approvals))
	for _, a := range p.Approvals {
		if _, ok := index[string(a)]; ok {
			return errors.Wrap(errors.ErrModel, "duplicate approval entry")
		}
		index[string(a)] = struct{}{}
	}
	return nil
}

// Copy provides an independent instance of the proposal.
func (p *Proposal) Copy() orm.CloneableData {
	approvals := make([][]byte, 0, len(p.Approvals))
	for _, a := range p.Approvals {
		approvals = append(approvals, append([]byte(nil), a...))
	}
	return &Proposal{
		Kind:        p.Kind,
		Destination: append([]byte(nil), p.Destination...),
		Amount:      p.Amount,
		Payload:     append([]byte(nil), p.Payload...),
		Signer:      append([]byte(nil), p.Signer...),
		Approvals:   approvals,
		Executed:    p.Executed,
	}
}

// HasApproved returns true if the given address already approved this
// proposal. It returns false for any identity that never approved,
// including non-signers.
func (p *Proposal) HasApproved(a vault.Address) bool {
	for _, approval := range p.Approvals {
		if a.Equals(vault.Address(approval)) {
			return true
		}
	}
	return false
}

// ApprovalCount returns the number of distinct signers that approved.
func (p *Proposal) ApprovalCount() int {
	return len(p.Approvals)
}

// approve records an approval. It reports false without changing anything
// if the address approved before, making a repeated approval idempotent.
func (p *Proposal) approve(a vault.Address) bool {
	if p.HasApproved(a) {
		return false
	}
	p.Approvals = append(p.Approvals, a.Clone())
	return true
}
