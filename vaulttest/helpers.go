package vaulttest

import (
	"fmt"
	"sync/atomic"

	"github.com/signet-io/vault"
)

var addressCounter int64

// NewAddress returns a new unique address. Generated addresses are
// deterministic within a process run, so failing tests print stable
// values.
func NewAddress() vault.Address {
	n := atomic.AddInt64(&addressCounter, 1)
	return vault.NewAddress([]byte(fmt.Sprintf("test-address-%d", n)))
}

// NewAddresses returns the given number of unique addresses.
func NewAddresses(n int) []vault.Address {
	addrs := make([]vault.Address, n)
	for i := range addrs {
		addrs[i] = NewAddress()
	}
	return addrs
}
