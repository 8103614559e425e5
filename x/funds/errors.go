package funds

import (
	"github.com/signet-io/vault/errors"
)

// funds reserves error codes 1120 ~ 1129.
var (
	// ErrInsufficientFunds is returned when a wallet does not cover the
	// amount a transfer asks for.
	ErrInsufficientFunds = errors.Register(1120, "insufficient funds")
)
