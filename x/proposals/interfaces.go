package proposals

import (
	"github.com/signet-io/vault"
)

// ValueMover performs the external native value transfer of an executed
// proposal. The call is opaque to the engine: it may run arbitrary
// recipient code reacting to the payload. Implementations must apply all
// their effects to the passed store handle so they commit or roll back
// together with the execution that triggered them.
type ValueMover interface {
	MoveValue(db vault.KVStore, src, dest vault.Address, amount int64, payload []byte) error
}

// TokenMover performs a token transfer through a token contract. It is
// expected to fail on insufficient balance or a non-compliant token; the
// engine propagates such failures without retrying.
type TokenMover interface {
	MoveToken(db vault.KVStore, token, src, dest vault.Address, amount int64) error
}

// Oracle provides read-only balance information.
type Oracle interface {
	NativeBalance(db vault.ReadOnlyKVStore, holder vault.Address) (int64, error)
	TokenBalance(db vault.ReadOnlyKVStore, token, holder vault.Address) (int64, error)
}
