package proposals

import (
	"testing"

	"github.com/signet-io/vault/errors"
	"github.com/signet-io/vault/vaulttest"
	"github.com/signet-io/vault/vaulttest/assert"
)

func TestNewProposalRoundTrip(t *testing.T) {
	dest := vaulttest.NewAddress()
	signer := vaulttest.NewAddress()

	cases := map[string]struct {
		action   Action
		wantKind ActionKind
	}{
		"transfer": {
			action:   TransferAction{Destination: dest, Amount: 42, Payload: []byte("hi")},
			wantKind: ActionKind_TRANSFER,
		},
		"add signer": {
			action:   AddSignerAction{Signer: signer},
			wantKind: ActionKind_ADD_SIGNER,
		},
		"remove signer": {
			action:   RemoveSignerAction{Signer: signer},
			wantKind: ActionKind_REMOVE_SIGNER,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			p, err := newProposal(tc.action)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantKind, p.Kind)
			assert.Equal(t, 0, p.ApprovalCount())
			assert.Equal(t, false, p.Executed)

			got, err := p.Action()
			assert.Nil(t, err)
			assert.Equal(t, tc.action, got)
		})
	}
}

func TestNewProposalInvalidAction(t *testing.T) {
	if _, err := newProposal(nil); !errors.ErrEmpty.Is(err) {
		t.Fatalf("want ErrEmpty, got %+v", err)
	}
}

func TestProposalActionUnknownKind(t *testing.T) {
	p := Proposal{Kind: ActionKind_INVALID}
	if _, err := p.Action(); !errors.ErrModel.Is(err) {
		t.Fatalf("want ErrModel, got %+v", err)
	}
}

func TestProposalValidate(t *testing.T) {
	a := vaulttest.NewAddress()

	cases := map[string]struct {
		proposal Proposal
		wantErr  *errors.Error
	}{
		"valid transfer": {
			proposal: Proposal{Kind: ActionKind_TRANSFER, Destination: a, Amount: 5},
		},
		"unknown kind": {
			proposal: Proposal{Kind: ActionKind_INVALID},
			wantErr:  errors.ErrModel,
		},
		"negative amount": {
			proposal: Proposal{Kind: ActionKind_TRANSFER, Destination: a, Amount: -1},
			wantErr:  errors.ErrAmount,
		},
		"duplicate approvals": {
			proposal: Proposal{Kind: ActionKind_ADD_SIGNER, Signer: a, Approvals: [][]byte{a, a}},
			wantErr:  errors.ErrModel,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.proposal.Validate()
			if tc.wantErr == nil {
				assert.Nil(t, err)
			} else if !tc.wantErr.Is(err) {
				t.Fatalf("want %q, got %+v", tc.wantErr, err)
			}
		})
	}
}

func TestProposalApproveIdempotent(t *testing.T) {
	signers := vaulttest.NewAddresses(2)
	p := Proposal{Kind: ActionKind_TRANSFER, Destination: vaulttest.NewAddress()}

	assert.Equal(t, true, p.approve(signers[0]))
	assert.Equal(t, false, p.approve(signers[0]))
	assert.Equal(t, true, p.approve(signers[1]))
	assert.Equal(t, 2, p.ApprovalCount())

	assert.Equal(t, true, p.HasApproved(signers[0]))
	assert.Equal(t, true, p.HasApproved(signers[1]))
	assert.Equal(t, false, p.HasApproved(vaulttest.NewAddress()))
}

func TestProposalCopyIsIndependent(t *testing.T) {
	p := Proposal{
		Kind:        ActionKind_TRANSFER,
		Destination: vaulttest.NewAddress(),
		Amount:      11,
		Payload:     []byte("data"),
		Approvals:   [][]byte{vaulttest.NewAddress()},
	}
	cpy := p.Copy().(*Proposal)
	assert.Equal(t, &p, cpy)

	cpy.approve(vaulttest.NewAddress())
	cpy.Payload[0] = 'x'
	assert.Equal(t, 1, p.ApprovalCount())
	assert.Equal(t, byte('d'), p.Payload[0])
}
