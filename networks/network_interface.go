package networks

import (
	"time"
)

type Network interface {
	GetName() string
	GetChainID() uint64
	GetAlternativeNames() []string
	GetNativeTokenSymbol() string
	GetNativeTokenDecimal() uint64
	GetBlockTime() time.Duration

	GetNodeVariableName() string
	GetDefaultNodes() map[string]string

	// IsLocal networks sign with the development accounts and get a price
	// feed mock deployed when none is configured.
	IsLocal() bool
	// IsForked networks are local copies of a live chain. They also sign
	// with development accounts but keep the live chain's price feeds.
	IsForked() bool
	// IsInProcess networks run on the in-process development chain, their
	// state is gone when the command exits.
	IsInProcess() bool

	MarshalJSON() ([]byte, error)
}
