package members

import (
	"github.com/signet-io/vault"
	"github.com/signet-io/vault/errors"
	"github.com/signet-io/vault/orm"
)

// To avoid burning CPU on linear membership scans, this is the maximum
// number of signers allowed in a single registry.
const maxSignersAllowed = 100

var _ orm.CloneableData = (*Registry)(nil)

// Validate enforces signer and threshold boundaries.
func (r *Registry) Validate() error {
	switch n := len(r.Signers); {
	case n == 0:
		return errors.Wrap(ErrInvalidConfiguration, "no signers")
	case n > maxSignersAllowed:
		return errors.Wrap(ErrInvalidConfiguration, "too many signers")
	}
	if r.Threshold == 0 {
		return errors.Wrap(ErrInvalidConfiguration, "threshold must be greater than 0")
	}
	if int(r.Threshold) > len(r.Signers) {
		return errors.Wrapf(ErrInvalidConfiguration,
			"threshold %d exceeds signer count %d", r.Threshold, len(r.Signers))
	}
	index := make(map[string]struct{}, len(r.Signers))
	for _, s := range r.Signers {
		if err := vault.Address(s).Validate(); err != nil {
			return errors.Wrapf(err, "signer %s", vault.Address(s))
		}
		key := string(s)
		if _, exists := index[key]; exists {
			return errors.Wrap(ErrInvalidConfiguration, "duplicate signer entry")
		}
		index[key] = struct{}{}
	}
	return nil
}

// Copy provides an independent instance of the registry.
func (r *Registry) Copy() orm.CloneableData {
	signers := make([][]byte, 0, len(r.Signers))
	for _, s := range r.Signers {
		signers = append(signers, append([]byte(nil), s...))
	}
	return &Registry{
		Signers:   signers,
		Threshold: r.Threshold,
	}
}

// Has returns true if the given address is a member.
func (r *Registry) Has(a vault.Address) bool {
	for _, s := range r.Signers {
		if a.Equals(vault.Address(s)) {
			return true
		}
	}
	return false
}

// add appends a signer. It reports false without changing anything if the
// address is a member already.
func (r *Registry) add(a vault.Address) bool {
	if r.Has(a) {
		return false
	}
	r.Signers = append(r.Signers, a.Clone())
	return true
}

// remove drops a signer. It reports false without changing anything if the
// address is not a member. It fails if the removal would shrink the signer
// set below the threshold.
func (r *Registry) remove(a vault.Address) (bool, error) {
	idx := -1
	for i, s := range r.Signers {
		if a.Equals(vault.Address(s)) {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false, nil
	}
	if len(r.Signers)-1 < int(r.Threshold) {
		return false, errors.Wrapf(ErrQuorumViolation,
			"%d signers cannot satisfy threshold %d", len(r.Signers)-1, r.Threshold)
	}
	r.Signers = append(r.Signers[:idx], r.Signers[idx+1:]...)
	return true, nil
}
