package proposals

import (
	"strconv"

	"github.com/tendermint/tendermint/libs/common"

	"github.com/signet-io/vault"
)

// Tag keys shared by all proposal events.
const (
	TagProposalID = "proposal-id"
	TagAction     = "action"
	TagSigner     = "signer"
	TagCreator    = "creator"
)

// ProposalCreated is emitted once a new proposal has been persisted.
type ProposalCreated struct {
	ProposalID int64
	Creator    vault.Address
	Action     Action
}

var _ vault.Event = ProposalCreated{}

func (e ProposalCreated) Tags() []common.KVPair {
	return []common.KVPair{
		{Key: []byte(TagProposalID), Value: []byte(strconv.FormatInt(e.ProposalID, 10))},
		{Key: []byte(TagAction), Value: []byte(e.Action.Kind().String())},
		{Key: []byte(TagCreator), Value: []byte(e.Creator.String())},
	}
}

// ProposalApproved is emitted when a signer registers a new approval.
// Repeated approvals by the same signer do not produce an event.
type ProposalApproved struct {
	ProposalID int64
	Signer     vault.Address
}

var _ vault.Event = ProposalApproved{}

func (e ProposalApproved) Tags() []common.KVPair {
	return []common.KVPair{
		{Key: []byte(TagProposalID), Value: []byte(strconv.FormatInt(e.ProposalID, 10))},
		{Key: []byte(TagSigner), Value: []byte(e.Signer.String())},
	}
}

// ProposalExecuted is emitted after a proposal's action completed and the
// execution transaction was written.
type ProposalExecuted struct {
	ProposalID int64
	Action     Action
}

var _ vault.Event = ProposalExecuted{}

func (e ProposalExecuted) Tags() []common.KVPair {
	return []common.KVPair{
		{Key: []byte(TagProposalID), Value: []byte(strconv.FormatInt(e.ProposalID, 10))},
		{Key: []byte(TagAction), Value: []byte(e.Action.Kind().String())},
	}
}

// SignerAdded is emitted when an executed proposal extends the registry.
type SignerAdded struct {
	Signer vault.Address
}

var _ vault.Event = SignerAdded{}

func (e SignerAdded) Tags() []common.KVPair {
	return []common.KVPair{
		{Key: []byte(TagSigner), Value: []byte(e.Signer.String())},
	}
}

// SignerRemoved is emitted when an executed proposal shrinks the registry.
type SignerRemoved struct {
	Signer vault.Address
}

var _ vault.Event = SignerRemoved{}

func (e SignerRemoved) Tags() []common.KVPair {
	return []common.KVPair{
		{Key: []byte(TagSigner), Value: []byte(e.Signer.String())},
	}
}
