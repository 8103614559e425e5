/*
Package proposals implements the proposal engine, the state machine at the
heart of the vault.

A proposal moves through Created -> (Approved)* -> Executed. Any signer
can create a proposal, every signer can approve it once, and as soon as
the approval count reaches the registry threshold anyone can trigger the
execution. Execution dispatches on the proposal action: native value
transfer with an opaque payload, token transfer through an adapter, or a
membership change in the registry.

Every operation runs inside a store savepoint. The executed flag is
written before the external transfer call is made, and any failure during
execution discards the savepoint, so partial effects can never leak - in
particular a remove-signer proposal that would breach the quorum
invariant leaves both the registry and the executed flag untouched.
*/
package proposals
