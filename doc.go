/*
Package vault defines the framework contracts for a quorum-based custody
engine: a fixed group of signers jointly controls a pool of native value and
token balances, and amends its own membership, through a proposal lifecycle
that executes only once a configured minimum number of distinct signers have
approved.

This root package holds only the shared abstractions: the signer identity
type (Address), the key-value storage interfaces with savepoint semantics,
the persistence contract models must satisfy, and the notification plumbing.
The domain logic lives in the extension packages under x/:

  x/members    the membership registry (signer set and quorum threshold)
  x/proposals  the proposal engine (create, approve, execute)
  x/funds      reference value and token transfer adapters

Infrastructure packages mirror that split: errors for coded root errors,
store for the btree savepoint store and the iavl-backed persistent store,
orm for prefixed bucket storage, and vaulttest for test helpers.
*/
package vault
