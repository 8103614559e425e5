package members

import (
	"github.com/signet-io/vault/errors"
)

// members reserves error codes 1100 ~ 1109.
var (
	// ErrInvalidConfiguration is returned when a registry is initialized
	// with malformed parameters: no signers, a zero threshold or a
	// threshold that exceeds the signer count.
	ErrInvalidConfiguration = errors.Register(1100, "invalid configuration")

	// ErrQuorumViolation is returned when removing a member would shrink
	// the signer set below the approval threshold.
	ErrQuorumViolation = errors.Register(1101, "quorum violation")
)
