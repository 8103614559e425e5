package funds

import (
	"sync"

	"github.com/signet-io/vault"
	"github.com/signet-io/vault/errors"
)

// Handler is a recipient callback invoked after native value was credited
// to the address it is registered for. It runs inside the caller's
// transaction, so a returned error discards the transfer together with
// whatever the handler wrote.
type Handler func(db vault.KVStore, src vault.Address, amount int64, payload []byte) error

// Ledger maintains wallets and settles transfers against them. It
// implements the ValueMover, TokenMover and Oracle contracts of the
// proposals engine.
type Ledger struct {
	mu       sync.RWMutex
	bucket   Bucket
	handlers map[string]Handler
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		bucket:   NewBucket(),
		handlers: make(map[string]Handler),
	}
}

// RegisterHandler binds a recipient callback to an address. Registering
// nil removes a previous binding.
func (l *Ledger) RegisterHandler(addr vault.Address, h Handler) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if h == nil {
		delete(l.handlers, string(addr))
		return
	}
	l.handlers[string(addr)] = h
}

func (l *Ledger) handler(addr vault.Address) Handler {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.handlers[string(addr)]
}

// MoveValue transfers native value between wallets. It fails with
// ErrInsufficientFunds if the source wallet does not cover the amount.
// When the destination has a registered handler it is invoked after the
// credit and its error fails the whole transfer.
func (l *Ledger) MoveValue(db vault.KVStore, src, dest vault.Address, amount int64, payload []byte) error {
	if amount < 0 {
		return errors.Wrap(errors.ErrAmount, "negative amount")
	}
	from, err := l.bucket.GetWallet(db, src)
	if err != nil {
		return err
	}
	if from.Balance < amount {
		return errors.Wrapf(ErrInsufficientFunds, "have %d, need %d", from.Balance, amount)
	}
	from.Balance -= amount
	if err := l.bucket.SaveWallet(db, src, from); err != nil {
		return err
	}
	to, err := l.bucket.GetWallet(db, dest)
	if err != nil {
		return err
	}
	if to.Balance, err = add(to.Balance, amount); err != nil {
		return err
	}
	if err := l.bucket.SaveWallet(db, dest, to); err != nil {
		return err
	}
	if h := l.handler(dest); h != nil {
		if err := h(db, src, amount, payload); err != nil {
			return errors.Wrap(err, "recipient handler")
		}
	}
	return nil
}

// MoveToken transfers token units between wallets. It fails with
// ErrInsufficientFunds if the source wallet does not cover the amount in
// the given token.
func (l *Ledger) MoveToken(db vault.KVStore, token, src, dest vault.Address, amount int64) error {
	if amount < 0 {
		return errors.Wrap(errors.ErrAmount, "negative amount")
	}
	from, err := l.bucket.GetWallet(db, src)
	if err != nil {
		return err
	}
	held := from.TokenAmount(token)
	if held < amount {
		return errors.Wrapf(ErrInsufficientFunds, "have %d, need %d", held, amount)
	}
	from.setToken(token, held-amount)
	if err := l.bucket.SaveWallet(db, src, from); err != nil {
		return err
	}
	to, err := l.bucket.GetWallet(db, dest)
	if err != nil {
		return err
	}
	total, err := add(to.TokenAmount(token), amount)
	if err != nil {
		return err
	}
	to.setToken(token, total)
	return l.bucket.SaveWallet(db, dest, to)
}

// NativeBalance returns the native value held by the account.
func (l *Ledger) NativeBalance(db vault.ReadOnlyKVStore, holder vault.Address) (int64, error) {
	w, err := l.bucket.GetWallet(db, holder)
	if err != nil {
		return 0, err
	}
	return w.Balance, nil
}

// TokenBalance returns the token units held by the account.
func (l *Ledger) TokenBalance(db vault.ReadOnlyKVStore, token, holder vault.Address) (int64, error) {
	w, err := l.bucket.GetWallet(db, holder)
	if err != nil {
		return 0, err
	}
	return w.TokenAmount(token), nil
}

// Deposit credits native value to the account out of thin air.
func (l *Ledger) Deposit(db vault.KVStore, addr vault.Address, amount int64) error {
	if amount < 0 {
		return errors.Wrap(errors.ErrAmount, "negative amount")
	}
	w, err := l.bucket.GetWallet(db, addr)
	if err != nil {
		return err
	}
	if w.Balance, err = add(w.Balance, amount); err != nil {
		return err
	}
	return l.bucket.SaveWallet(db, addr, w)
}

// DepositToken credits token units to the account out of thin air.
func (l *Ledger) DepositToken(db vault.KVStore, addr, token vault.Address, amount int64) error {
	if amount < 0 {
		return errors.Wrap(errors.ErrAmount, "negative amount")
	}
	w, err := l.bucket.GetWallet(db, addr)
	if err != nil {
		return err
	}
	total, err := add(w.TokenAmount(token), amount)
	if err != nil {
		return err
	}
	w.setToken(token, total)
	return l.bucket.SaveWallet(db, addr, w)
}
