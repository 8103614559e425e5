/*
Package members implements the membership registry: the authoritative set
of signer identities and the immutable quorum threshold.

The registry enforces one invariant on every mutating call: the signer
count never drops below the threshold. Adding a member is idempotent,
removing one fails when it would breach the invariant. Membership changes
are never performed directly by callers; the proposal engine mutates the
registry through its AddSigner and RemoveSigner action path only.
*/
package members
