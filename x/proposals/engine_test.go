package proposals_test

import (
	"testing"

	"github.com/signet-io/vault"
	"github.com/signet-io/vault/errors"
	"github.com/signet-io/vault/store"
	"github.com/signet-io/vault/vaulttest"
	"github.com/signet-io/vault/vaulttest/assert"
	"github.com/signet-io/vault/x/funds"
	"github.com/signet-io/vault/x/proposals"
)

type testVault struct {
	engine  *proposals.Engine
	ledger  *funds.Ledger
	events  *vaulttest.EventRecorder
	db      vault.CacheableKVStore
	signers []vault.Address
}

func newTestVault(t testing.TB, signerCount int, threshold uint32) *testVault {
	t.Helper()

	db := store.MemStore()
	ledger := funds.NewLedger()
	events := &vaulttest.EventRecorder{}
	engine, err := proposals.NewEngine(db, vault.NewAddress([]byte("pool")), ledger, ledger, ledger, events)
	assert.Nil(t, err)

	signers := vaulttest.NewAddresses(signerCount)
	assert.Nil(t, engine.Initialize(signers, threshold))
	events.Reset()

	return &testVault{
		engine:  engine,
		ledger:  ledger,
		events:  events,
		db:      db,
		signers: signers,
	}
}

func (v *testVault) deposit(t testing.TB, amount int64) {
	t.Helper()
	assert.Nil(t, v.ledger.Deposit(v.db, v.engine.Address(), amount))
}

func (v *testVault) balance(t testing.TB, addr vault.Address) int64 {
	t.Helper()
	b, err := v.ledger.NativeBalance(v.db, addr)
	assert.Nil(t, err)
	return b
}

func TestValueTransferLifecycle(t *testing.T) {
	v := newTestVault(t, 3, 2)
	v.deposit(t, 1000)

	dest := vaulttest.NewAddress()
	id, err := v.engine.CreateProposal(v.signers[0], proposals.TransferAction{
		Destination: dest,
		Amount:      400,
		Payload:     []byte("invoice 7"),
	})
	assert.Nil(t, err)
	assert.Equal(t, int64(0), id)

	assert.Nil(t, v.engine.ApproveProposal(v.signers[0], id))
	assert.Nil(t, v.engine.ApproveProposal(v.signers[1], id))

	// Execution is permissionless, anyone may trigger it once the quorum
	// is reached.
	assert.Nil(t, v.engine.ExecuteProposal(id))

	assert.Equal(t, int64(600), v.balance(t, v.engine.Address()))
	assert.Equal(t, int64(400), v.balance(t, dest))

	p, err := v.engine.GetProposal(id)
	assert.Nil(t, err)
	assert.Equal(t, true, p.Executed)
	assert.Equal(t, 2, p.ApprovalCount())

	evs := v.events.Events()
	assert.Equal(t, 4, len(evs))
	created := evs[0].(proposals.ProposalCreated)
	assert.Equal(t, id, created.ProposalID)
	assert.Equal(t, v.signers[0], created.Creator)
	assert.Equal(t, id, evs[1].(proposals.ProposalApproved).ProposalID)
	assert.Equal(t, v.signers[1], evs[2].(proposals.ProposalApproved).Signer)
	executed := evs[3].(proposals.ProposalExecuted)
	assert.Equal(t, id, executed.ProposalID)
}

func TestProposalIdsAreSequentialFromZero(t *testing.T) {
	v := newTestVault(t, 2, 1)

	for want := int64(0); want < 3; want++ {
		id, err := v.engine.CreateProposal(v.signers[0], proposals.AddSignerAction{
			Signer: vaulttest.NewAddress(),
		})
		assert.Nil(t, err)
		assert.Equal(t, want, id)
	}
}

func TestOnlySignersCreateAndApprove(t *testing.T) {
	v := newTestVault(t, 2, 2)

	outsider := vaulttest.NewAddress()
	if _, err := v.engine.CreateProposal(outsider, proposals.AddSignerAction{Signer: outsider}); !errors.ErrUnauthorized.Is(err) {
		t.Fatalf("want ErrUnauthorized, got %+v", err)
	}

	id, err := v.engine.CreateProposal(v.signers[0], proposals.AddSignerAction{Signer: outsider})
	assert.Nil(t, err)
	if err := v.engine.ApproveProposal(outsider, id); !errors.ErrUnauthorized.Is(err) {
		t.Fatalf("want ErrUnauthorized, got %+v", err)
	}
}

func TestApproveIsIdempotent(t *testing.T) {
	v := newTestVault(t, 3, 2)

	id, err := v.engine.CreateProposal(v.signers[0], proposals.AddSignerAction{
		Signer: vaulttest.NewAddress(),
	})
	assert.Nil(t, err)
	v.events.Reset()

	assert.Nil(t, v.engine.ApproveProposal(v.signers[0], id))
	assert.Nil(t, v.engine.ApproveProposal(v.signers[0], id))

	p, err := v.engine.GetProposal(id)
	assert.Nil(t, err)
	assert.Equal(t, 1, p.ApprovalCount())

	// The repeated approval is a silent no-op and emits nothing.
	assert.Equal(t, 1, len(v.events.Events()))

	ok, err := v.engine.HasApproved(v.signers[0], id)
	assert.Nil(t, err)
	assert.Equal(t, true, ok)
	ok, err = v.engine.HasApproved(v.signers[1], id)
	assert.Nil(t, err)
	assert.Equal(t, false, ok)
}

func TestApproveUnknownProposal(t *testing.T) {
	v := newTestVault(t, 2, 1)
	if err := v.engine.ApproveProposal(v.signers[0], 123); !errors.ErrNotFound.Is(err) {
		t.Fatalf("want ErrNotFound, got %+v", err)
	}
	if err := v.engine.ExecuteProposal(123); !errors.ErrNotFound.Is(err) {
		t.Fatalf("want ErrNotFound, got %+v", err)
	}
}

func TestExecuteRequiresQuorum(t *testing.T) {
	v := newTestVault(t, 3, 2)
	v.deposit(t, 1000)

	id, err := v.engine.CreateProposal(v.signers[0], proposals.TransferAction{
		Destination: vaulttest.NewAddress(),
		Amount:      10,
	})
	assert.Nil(t, err)
	assert.Nil(t, v.engine.ApproveProposal(v.signers[0], id))

	if err := v.engine.ExecuteProposal(id); !proposals.ErrInsufficientApprovals.Is(err) {
		t.Fatalf("want ErrInsufficientApprovals, got %+v", err)
	}
	p, err := v.engine.GetProposal(id)
	assert.Nil(t, err)
	assert.Equal(t, false, p.Executed)
	assert.Equal(t, int64(1000), v.balance(t, v.engine.Address()))
}

func TestExecuteIsTerminal(t *testing.T) {
	v := newTestVault(t, 3, 2)
	v.deposit(t, 100)

	id, err := v.engine.CreateProposal(v.signers[0], proposals.TransferAction{
		Destination: vaulttest.NewAddress(),
		Amount:      30,
	})
	assert.Nil(t, err)
	assert.Nil(t, v.engine.ApproveProposal(v.signers[0], id))
	assert.Nil(t, v.engine.ApproveProposal(v.signers[1], id))
	assert.Nil(t, v.engine.ExecuteProposal(id))

	if err := v.engine.ExecuteProposal(id); !proposals.ErrAlreadyExecuted.Is(err) {
		t.Fatalf("want ErrAlreadyExecuted, got %+v", err)
	}
	if err := v.engine.ApproveProposal(v.signers[2], id); !proposals.ErrAlreadyExecuted.Is(err) {
		t.Fatalf("want ErrAlreadyExecuted, got %+v", err)
	}
	// The double execution did not move funds twice.
	assert.Equal(t, int64(70), v.balance(t, v.engine.Address()))
}

func TestAddSignerProposal(t *testing.T) {
	v := newTestVault(t, 3, 2)

	recruit := vaulttest.NewAddress()
	id, err := v.engine.CreateProposal(v.signers[0], proposals.AddSignerAction{Signer: recruit})
	assert.Nil(t, err)
	assert.Nil(t, v.engine.ApproveProposal(v.signers[0], id))
	assert.Nil(t, v.engine.ApproveProposal(v.signers[1], id))
	assert.Nil(t, v.engine.ExecuteProposal(id))

	got, err := v.engine.Signers()
	assert.Nil(t, err)
	assert.Equal(t, 4, len(got))
	ok, err := v.engine.IsSigner(recruit)
	assert.Nil(t, err)
	assert.Equal(t, true, ok)

	// The new signer participates immediately.
	if _, err := v.engine.CreateProposal(recruit, proposals.AddSignerAction{Signer: vaulttest.NewAddress()}); err != nil {
		t.Fatalf("new signer cannot create: %+v", err)
	}

	evs := v.events.Events()
	added := evs[len(evs)-3].(proposals.SignerAdded)
	assert.Equal(t, recruit, added.Signer)
	assert.Equal(t, id, evs[len(evs)-2].(proposals.ProposalExecuted).ProposalID)
}

func TestAddExistingSignerIsNoop(t *testing.T) {
	v := newTestVault(t, 2, 1)

	id, err := v.engine.CreateProposal(v.signers[0], proposals.AddSignerAction{Signer: v.signers[1]})
	assert.Nil(t, err)
	assert.Nil(t, v.engine.ApproveProposal(v.signers[0], id))
	v.events.Reset()
	assert.Nil(t, v.engine.ExecuteProposal(id))

	got, err := v.engine.Signers()
	assert.Nil(t, err)
	assert.Equal(t, 2, len(got))

	// No SignerAdded event, only the execution itself.
	evs := v.events.Events()
	assert.Equal(t, 1, len(evs))
	assert.Equal(t, id, evs[0].(proposals.ProposalExecuted).ProposalID)
}

func TestRemoveSignerGuardsQuorum(t *testing.T) {
	v := newTestVault(t, 3, 2)

	// Removing one of three members keeps the threshold satisfiable.
	id, err := v.engine.CreateProposal(v.signers[0], proposals.RemoveSignerAction{Signer: v.signers[2]})
	assert.Nil(t, err)
	assert.Nil(t, v.engine.ApproveProposal(v.signers[0], id))
	assert.Nil(t, v.engine.ApproveProposal(v.signers[1], id))
	assert.Nil(t, v.engine.ExecuteProposal(id))

	got, err := v.engine.Signers()
	assert.Nil(t, err)
	assert.Equal(t, 2, len(got))
	ok, err := v.engine.IsSigner(v.signers[2])
	assert.Nil(t, err)
	assert.Equal(t, false, ok)

	// Going below the threshold must fail and leave everything as is.
	id, err = v.engine.CreateProposal(v.signers[0], proposals.RemoveSignerAction{Signer: v.signers[1]})
	assert.Nil(t, err)
	assert.Nil(t, v.engine.ApproveProposal(v.signers[0], id))
	assert.Nil(t, v.engine.ApproveProposal(v.signers[1], id))

	if err := v.engine.ExecuteProposal(id); !proposals.ErrCannotRemoveSigner.Is(err) {
		t.Fatalf("want ErrCannotRemoveSigner, got %+v", err)
	}
	got, err = v.engine.Signers()
	assert.Nil(t, err)
	assert.Equal(t, 2, len(got))
	p, err := v.engine.GetProposal(id)
	assert.Nil(t, err)
	assert.Equal(t, false, p.Executed)

	// The rejected removal stays pending, a later execution after the
	// membership grew again succeeds.
	addID, err := v.engine.CreateProposal(v.signers[0], proposals.AddSignerAction{Signer: vaulttest.NewAddress()})
	assert.Nil(t, err)
	assert.Nil(t, v.engine.ApproveProposal(v.signers[0], addID))
	assert.Nil(t, v.engine.ApproveProposal(v.signers[1], addID))
	assert.Nil(t, v.engine.ExecuteProposal(addID))
	assert.Nil(t, v.engine.ExecuteProposal(id))
	got, err = v.engine.Signers()
	assert.Nil(t, err)
	assert.Equal(t, 2, len(got))
}

func TestRemoveUnknownSignerIsNoop(t *testing.T) {
	v := newTestVault(t, 3, 2)

	id, err := v.engine.CreateProposal(v.signers[0], proposals.RemoveSignerAction{Signer: vaulttest.NewAddress()})
	assert.Nil(t, err)
	assert.Nil(t, v.engine.ApproveProposal(v.signers[0], id))
	assert.Nil(t, v.engine.ApproveProposal(v.signers[1], id))
	v.events.Reset()
	assert.Nil(t, v.engine.ExecuteProposal(id))

	got, err := v.engine.Signers()
	assert.Nil(t, err)
	assert.Equal(t, 3, len(got))
	evs := v.events.Events()
	assert.Equal(t, 1, len(evs))
	assert.Equal(t, id, evs[0].(proposals.ProposalExecuted).ProposalID)
}

func TestInsufficientBalanceRollsBack(t *testing.T) {
	v := newTestVault(t, 2, 1)
	v.deposit(t, 100)

	dest := vaulttest.NewAddress()
	id, err := v.engine.CreateProposal(v.signers[0], proposals.TransferAction{
		Destination: dest,
		Amount:      400,
	})
	assert.Nil(t, err)
	assert.Nil(t, v.engine.ApproveProposal(v.signers[0], id))

	if err := v.engine.ExecuteProposal(id); !proposals.ErrInsufficientBalance.Is(err) {
		t.Fatalf("want ErrInsufficientBalance, got %+v", err)
	}
	p, err := v.engine.GetProposal(id)
	assert.Nil(t, err)
	assert.Equal(t, false, p.Executed)
	assert.Equal(t, int64(100), v.balance(t, v.engine.Address()))
	assert.Equal(t, int64(0), v.balance(t, dest))

	// Once funded, the same proposal executes.
	v.deposit(t, 300)
	assert.Nil(t, v.engine.ExecuteProposal(id))
	assert.Equal(t, int64(400), v.balance(t, dest))
}

func TestFailingRecipientRollsBack(t *testing.T) {
	v := newTestVault(t, 2, 1)
	v.deposit(t, 1000)

	dest := vaulttest.NewAddress()
	v.ledger.RegisterHandler(dest, func(db vault.KVStore, src vault.Address, amount int64, payload []byte) error {
		// Write something before failing so the rollback of handler
		// effects is observable too.
		if err := db.Set([]byte("handler:ran"), []byte{1}); err != nil {
			return err
		}
		return errors.Wrap(errors.ErrState, "recipient rejects payment")
	})

	id, err := v.engine.CreateProposal(v.signers[0], proposals.TransferAction{
		Destination: dest,
		Amount:      400,
	})
	assert.Nil(t, err)
	assert.Nil(t, v.engine.ApproveProposal(v.signers[0], id))
	v.events.Reset()

	if err := v.engine.ExecuteProposal(id); !proposals.ErrExecutionFailed.Is(err) {
		t.Fatalf("want ErrExecutionFailed, got %+v", err)
	}

	p, err := v.engine.GetProposal(id)
	assert.Nil(t, err)
	assert.Equal(t, false, p.Executed)
	assert.Equal(t, int64(1000), v.balance(t, v.engine.Address()))
	assert.Equal(t, int64(0), v.balance(t, dest))
	assert.Equal(t, 0, len(v.events.Events()))

	ok, err := v.db.Has([]byte("handler:ran"))
	assert.Nil(t, err)
	assert.Equal(t, false, ok)
}

func TestRecipientHandlerObservesPayload(t *testing.T) {
	v := newTestVault(t, 2, 1)
	v.deposit(t, 50)

	dest := vaulttest.NewAddress()
	var gotPayload []byte
	var gotAmount int64
	v.ledger.RegisterHandler(dest, func(db vault.KVStore, src vault.Address, amount int64, payload []byte) error {
		gotAmount = amount
		gotPayload = payload
		return nil
	})

	id, err := v.engine.CreateProposal(v.signers[0], proposals.TransferAction{
		Destination: dest,
		Amount:      50,
		Payload:     []byte("order 66"),
	})
	assert.Nil(t, err)
	assert.Nil(t, v.engine.ApproveProposal(v.signers[0], id))
	assert.Nil(t, v.engine.ExecuteProposal(id))

	assert.Equal(t, int64(50), gotAmount)
	assert.Equal(t, []byte("order 66"), gotPayload)
}

func TestTokenTransfer(t *testing.T) {
	v := newTestVault(t, 3, 2)
	v.deposit(t, 1000)

	token := vault.NewAddress([]byte("token-contract"))
	assert.Nil(t, v.ledger.DepositToken(v.db, v.engine.Address(), token, 500))

	dest := vaulttest.NewAddress()
	id, err := v.engine.CreateProposal(v.signers[0], proposals.TransferAction{
		Destination: dest,
		Amount:      200,
		Payload:     token,
	})
	assert.Nil(t, err)
	assert.Nil(t, v.engine.ApproveProposal(v.signers[0], id))
	assert.Nil(t, v.engine.ApproveProposal(v.signers[1], id))
	assert.Nil(t, v.engine.ExecuteTokenTransfer(id))

	poolTokens, err := v.ledger.TokenBalance(v.db, token, v.engine.Address())
	assert.Nil(t, err)
	assert.Equal(t, int64(300), poolTokens)
	destTokens, err := v.ledger.TokenBalance(v.db, token, dest)
	assert.Nil(t, err)
	assert.Equal(t, int64(200), destTokens)

	// Native value is untouched by the token path.
	assert.Equal(t, int64(1000), v.balance(t, v.engine.Address()))
	assert.Equal(t, int64(0), v.balance(t, dest))

	p, err := v.engine.GetProposal(id)
	assert.Nil(t, err)
	assert.Equal(t, true, p.Executed)
}

func TestTokenTransferRequiresTransferKind(t *testing.T) {
	v := newTestVault(t, 2, 1)

	id, err := v.engine.CreateProposal(v.signers[0], proposals.AddSignerAction{
		Signer: vaulttest.NewAddress(),
	})
	assert.Nil(t, err)
	assert.Nil(t, v.engine.ApproveProposal(v.signers[0], id))

	if err := v.engine.ExecuteTokenTransfer(id); !proposals.ErrInvalidType.Is(err) {
		t.Fatalf("want ErrInvalidType, got %+v", err)
	}
	p, err := v.engine.GetProposal(id)
	assert.Nil(t, err)
	assert.Equal(t, false, p.Executed)
}

func TestTokenTransferFailureRollsBack(t *testing.T) {
	v := newTestVault(t, 2, 1)

	token := vault.NewAddress([]byte("token-contract"))
	// The pool holds no tokens at all, the adapter must reject the move
	// and its error surfaces unwrapped.
	dest := vaulttest.NewAddress()
	id, err := v.engine.CreateProposal(v.signers[0], proposals.TransferAction{
		Destination: dest,
		Amount:      200,
		Payload:     token,
	})
	assert.Nil(t, err)
	assert.Nil(t, v.engine.ApproveProposal(v.signers[0], id))

	if err := v.engine.ExecuteTokenTransfer(id); !funds.ErrInsufficientFunds.Is(err) {
		t.Fatalf("want ErrInsufficientFunds, got %+v", err)
	}
	p, err := v.engine.GetProposal(id)
	assert.Nil(t, err)
	assert.Equal(t, false, p.Executed)
}

func TestIterateProposals(t *testing.T) {
	v := newTestVault(t, 2, 1)

	for i := 0; i < 3; i++ {
		_, err := v.engine.CreateProposal(v.signers[0], proposals.AddSignerAction{
			Signer: vaulttest.NewAddress(),
		})
		assert.Nil(t, err)
	}

	var ids []int64
	err := v.engine.IterateProposals(func(id int64, p *proposals.Proposal) error {
		ids = append(ids, id)
		return nil
	})
	assert.Nil(t, err)
	assert.Equal(t, []int64{0, 1, 2}, ids)

	all, err := v.engine.Proposals()
	assert.Nil(t, err)
	assert.Equal(t, 3, len(all))
}

func TestGetProposalReturnsCopy(t *testing.T) {
	v := newTestVault(t, 2, 1)

	id, err := v.engine.CreateProposal(v.signers[0], proposals.TransferAction{
		Destination: vaulttest.NewAddress(),
		Amount:      10,
	})
	assert.Nil(t, err)

	p, err := v.engine.GetProposal(id)
	assert.Nil(t, err)
	p.Executed = true
	p.Amount = 999

	fresh, err := v.engine.GetProposal(id)
	assert.Nil(t, err)
	assert.Equal(t, false, fresh.Executed)
	assert.Equal(t, int64(10), fresh.Amount)
}

func TestInitializeOnce(t *testing.T) {
	v := newTestVault(t, 2, 1)
	if err := v.engine.Initialize(v.signers, 1); !errors.ErrImmutable.Is(err) {
		t.Fatalf("want ErrImmutable, got %+v", err)
	}
}

func TestOperationsBeforeInitialize(t *testing.T) {
	db := store.MemStore()
	ledger := funds.NewLedger()
	engine, err := proposals.NewEngine(db, vault.NewAddress([]byte("pool")), ledger, ledger, ledger, nil)
	assert.Nil(t, err)

	if _, err := engine.CreateProposal(vaulttest.NewAddress(), proposals.AddSignerAction{Signer: vaulttest.NewAddress()}); !errors.ErrNotFound.Is(err) {
		t.Fatalf("want ErrNotFound, got %+v", err)
	}
}
