package reader

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/core/types"
)

// Endpoint names a node for error messages.
type Endpoint interface {
	NodeName() string
	NodeURL() string
}

// AccountReader answers what the signer needs before building a tx.
type AccountReader interface {
	GetBalance(address string) (*big.Int, error)
	GetMinedNonce(address string) (uint64, error)
	GetPendingNonce(address string) (uint64, error)
	GetCode(address string) ([]byte, error)
}

// FeeReader prices a tx. EstimateGas estimates a contract creation when to
// is "".
type FeeReader interface {
	ChainID() (*big.Int, error)
	SuggestedGasPrice() (*big.Int, error)
	SuggestedGasTipCap() (*big.Int, error)
	EstimateGas(from, to string, value *big.Int, data []byte) (uint64, error)
}

// TxReader follows a broadcasted tx until it is mined.
type TxReader interface {
	TransactionReceipt(txHash string) (*types.Receipt, error)
	TransactionByHash(txHash string) (tx *types.Transaction, isPending bool, err error)
	HeaderByNumber(number int64) (*types.Header, error)
	CurrentBlock() (uint64, error)
}

// ContractCaller runs eth_call against Funding and the price feed. A
// non positive atBlock reads the latest state.
type ContractCaller interface {
	ReadContractToBytes(atBlock int64, from, caddr string, contractABI *abi.ABI, method string, args ...interface{}) ([]byte, error)
}

// EthereumNode is one source of chain data: a JSON-RPC endpoint
// (OneNodeReader) or the in-process development chain (devnet.Chain).
type EthereumNode interface {
	Endpoint
	AccountReader
	FeeReader
	TxReader
	ContractCaller
}
