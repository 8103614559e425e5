package funds

import (
	"math"

	"github.com/signet-io/vault"
	"github.com/signet-io/vault/errors"
	"github.com/signet-io/vault/orm"
)

var _ orm.CloneableData = (*Wallet)(nil)

// Validate ensures the wallet holds no negative balances and at most one
// entry per token.
func (w *Wallet) Validate() error {
	if w.Balance < 0 {
		return errors.Wrap(errors.ErrAmount, "negative balance")
	}
	index := make(map[string]struct{}, len(w.Tokens))
	for _, t := range w.Tokens {
		if err := vault.Address(t.Token).Validate(); err != nil {
			return errors.Wrap(err, "token")
		}
		if t.Amount < 0 {
			return errors.Wrap(errors.ErrAmount, "negative token balance")
		}
		if _, ok := index[string(t.Token)]; ok {
			return errors.Wrap(errors.ErrModel, "duplicate token entry")
		}
		index[string(t.Token)] = struct{}{}
	}
	return nil
}

// Copy provides an independent instance of the wallet.
func (w *Wallet) Copy() orm.CloneableData {
	tokens := make([]TokenBalance, 0, len(w.Tokens))
	for _, t := range w.Tokens {
		tokens = append(tokens, TokenBalance{
			Token:  append([]byte(nil), t.Token...),
			Amount: t.Amount,
		})
	}
	return &Wallet{
		Balance: w.Balance,
		Tokens:  tokens,
	}
}

// TokenAmount returns the balance held in the given token, zero if the
// wallet holds none.
func (w *Wallet) TokenAmount(token vault.Address) int64 {
	for _, t := range w.Tokens {
		if token.Equals(vault.Address(t.Token)) {
			return t.Amount
		}
	}
	return 0
}

// setToken stores the token balance, dropping the entry when it reaches
// zero so empty wallets stay empty.
func (w *Wallet) setToken(token vault.Address, amount int64) {
	for i, t := range w.Tokens {
		if !token.Equals(vault.Address(t.Token)) {
			continue
		}
		if amount == 0 {
			w.Tokens = append(w.Tokens[:i], w.Tokens[i+1:]...)
		} else {
			w.Tokens[i].Amount = amount
		}
		return
	}
	if amount != 0 {
		w.Tokens = append(w.Tokens, TokenBalance{Token: token.Clone(), Amount: amount})
	}
}

// add returns a+b or fails with ErrOverflow when the sum does not fit.
func add(a, b int64) (int64, error) {
	if b > 0 && a > math.MaxInt64-b {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d + %d", a, b)
	}
	if b < 0 && a < math.MinInt64-b {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d + %d", a, b)
	}
	return a + b, nil
}
