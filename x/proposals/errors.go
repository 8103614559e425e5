package proposals

import (
	"github.com/signet-io/vault/errors"
)

// proposals reserves error codes 1110 ~ 1119.
var (
	// ErrAlreadyExecuted is returned on any attempt to operate on a
	// proposal that reached its terminal state.
	ErrAlreadyExecuted = errors.Register(1110, "already executed")

	// ErrInsufficientApprovals is returned when execution is requested
	// before the approval count reached the quorum threshold.
	ErrInsufficientApprovals = errors.Register(1111, "insufficient approvals")

	// ErrInvalidType is returned when the token execution path is used
	// for a proposal that is not a transfer.
	ErrInvalidType = errors.Register(1112, "invalid proposal type")

	// ErrInsufficientBalance is returned when the pool does not hold
	// enough native value to cover a transfer.
	ErrInsufficientBalance = errors.Register(1113, "insufficient balance")

	// ErrExecutionFailed is returned when the external value transfer
	// call reported a failure. The whole execution is rolled back.
	ErrExecutionFailed = errors.Register(1114, "execution failed")

	// ErrCannotRemoveSigner is returned when executing a remove-signer
	// proposal would shrink the signer set below the quorum threshold.
	// The whole execution, including the executed flag, is rolled back.
	ErrCannotRemoveSigner = errors.Register(1115, "cannot remove signer")
)
