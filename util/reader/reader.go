package reader

import (
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	fundcommon "github.com/tranvictor/fundctl/common"
)

// EthReader fans every read out to all of its nodes and returns the first
// successful answer. It only fails when every node fails.
type EthReader struct {
	nodes map[string]EthereumNode
}

func NewEthReader(nodes ...EthereumNode) *EthReader {
	ns := map[string]EthereumNode{}
	for _, n := range nodes {
		ns[n.NodeName()] = n
	}
	return &EthReader{nodes: ns}
}

// NewEthReaderGeneric creates a reader over JSON-RPC endpoints keyed by name.
func NewEthReaderGeneric(nodes map[string]string) *EthReader {
	ns := []EthereumNode{}
	for name, url := range nodes {
		ns = append(ns, NewOneNodeReader(name, url))
	}
	return NewEthReader(ns...)
}

func (er *EthReader) NodeNames() []string {
	result := []string{}
	for name := range er.nodes {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

func wrapError(e error, node Endpoint) error {
	if e == nil {
		return nil
	}
	return fmt.Errorf("%s (%s): %w", node.NodeName(), node.NodeURL(), e)
}

type nodeResult[T any] struct {
	Value T
	Error error
}

func readFirst[T any](er *EthReader, read func(n EthereumNode) (T, error)) (T, error) {
	var zero T
	if len(er.nodes) == 0 {
		return zero, fmt.Errorf("no nodes configured")
	}
	resCh := make(chan nodeResult[T], len(er.nodes))
	for i := range er.nodes {
		n := er.nodes[i]
		go func() {
			v, err := read(n)
			resCh <- nodeResult[T]{
				Value: v,
				Error: wrapError(err, n),
			}
		}()
	}
	errs := []error{}
	for i := 0; i < len(er.nodes); i++ {
		result := <-resCh
		if result.Error == nil {
			return result.Value, nil
		}
		errs = append(errs, result.Error)
	}
	return zero, fmt.Errorf("couldn't read from any nodes: %w", errors.Join(errs...))
}

func (er *EthReader) ChainID() (*big.Int, error) {
	return readFirst(er, func(n EthereumNode) (*big.Int, error) {
		return n.ChainID()
	})
}

func (er *EthReader) EstimateExactGas(from, to string, value *big.Int, data []byte) (uint64, error) {
	return readFirst(er, func(n EthereumNode) (uint64, error) {
		return n.EstimateGas(from, to, value, data)
	})
}

func (er *EthReader) GetCode(address string) ([]byte, error) {
	return readFirst(er, func(n EthereumNode) ([]byte, error) {
		return n.GetCode(address)
	})
}

func (er *EthReader) GetBalance(address string) (*big.Int, error) {
	return readFirst(er, func(n EthereumNode) (*big.Int, error) {
		return n.GetBalance(address)
	})
}

func (er *EthReader) GetMinedNonce(address string) (uint64, error) {
	return readFirst(er, func(n EthereumNode) (uint64, error) {
		return n.GetMinedNonce(address)
	})
}

func (er *EthReader) GetPendingNonce(address string) (uint64, error) {
	return readFirst(er, func(n EthereumNode) (uint64, error) {
		return n.GetPendingNonce(address)
	})
}

func (er *EthReader) GetGasPriceWeiSuggestion() (*big.Int, error) {
	return readFirst(er, func(n EthereumNode) (*big.Int, error) {
		return n.SuggestedGasPrice()
	})
}

func (er *EthReader) GetGasTipCapWeiSuggestion() (*big.Int, error) {
	return readFirst(er, func(n EthereumNode) (*big.Int, error) {
		return n.SuggestedGasTipCap()
	})
}

func (er *EthReader) HeaderByNumber(number int64) (*types.Header, error) {
	return readFirst(er, func(n EthereumNode) (*types.Header, error) {
		return n.HeaderByNumber(number)
	})
}

func (er *EthReader) CurrentBlock() (uint64, error) {
	return readFirst(er, func(n EthereumNode) (uint64, error) {
		return n.CurrentBlock()
	})
}

func (er *EthReader) TransactionReceipt(txHash string) (*types.Receipt, error) {
	return readFirst(er, func(n EthereumNode) (*types.Receipt, error) {
		return n.TransactionReceipt(txHash)
	})
}

type txByHash struct {
	tx        *types.Transaction
	isPending bool
}

func (er *EthReader) TransactionByHash(txHash string) (*types.Transaction, bool, error) {
	res, err := readFirst(er, func(n EthereumNode) (txByHash, error) {
		tx, isPending, err := n.TransactionByHash(txHash)
		return txByHash{tx, isPending}, err
	})
	return res.tx, res.isPending, err
}

// CheckDynamicFeeTxAvailable reports whether the latest block carries a non
// zero base fee.
func (er *EthReader) CheckDynamicFeeTxAvailable() (bool, error) {
	header, err := er.HeaderByNumber(-1)
	if err != nil {
		return false, err
	}
	return header.BaseFee != nil && header.BaseFee.Cmp(common.Big0) > 0, nil
}

// TxInfoFromHash classifies a transaction as notfound, pending, done or
// reverted.
func (er *EthReader) TxInfoFromHash(tx string) (fundcommon.TxInfo, error) {
	txObj, isPending, err := er.TransactionByHash(tx)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return fundcommon.TxInfo{Status: fundcommon.TxStatusNotFound}, nil
		}
		return fundcommon.TxInfo{Status: fundcommon.TxStatusError}, err
	}
	if txObj == nil {
		return fundcommon.TxInfo{Status: fundcommon.TxStatusNotFound}, nil
	}
	if isPending {
		return fundcommon.TxInfo{Status: fundcommon.TxStatusPending, Tx: txObj}, nil
	}

	receipt, err := er.TransactionReceipt(tx)
	if receipt == nil {
		if errors.Is(err, ethereum.NotFound) {
			err = nil
		}
		return fundcommon.TxInfo{Status: fundcommon.TxStatusPending, Tx: txObj}, err
	}

	if receipt.Status == types.ReceiptStatusSuccessful {
		return fundcommon.TxInfo{Status: fundcommon.TxStatusDone, Tx: txObj, Receipt: receipt}, nil
	}
	return fundcommon.TxInfo{Status: fundcommon.TxStatusReverted, Tx: txObj, Receipt: receipt}, nil
}

func (er *EthReader) ReadContractToBytes(atBlock int64, from string, caddr string, abi *abi.ABI, method string, args ...interface{}) ([]byte, error) {
	return readFirst(er, func(n EthereumNode) ([]byte, error) {
		return n.ReadContractToBytes(atBlock, from, caddr, abi, method, args...)
	})
}

// ReadContract calls a view method at the latest block and returns its
// unpacked outputs.
func (er *EthReader) ReadContract(caddr string, abi *abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	return er.ReadContractAtBlock(-1, caddr, abi, method, args...)
}

func (er *EthReader) ReadContractAtBlock(atBlock int64, caddr string, abi *abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	responseBytes, err := er.ReadContractToBytes(atBlock, fundcommon.ZERO_ADDRESS, caddr, abi, method, args...)
	if err != nil {
		return nil, err
	}
	if len(responseBytes) == 0 {
		return nil, fmt.Errorf("%s returned no data, is %s a contract", method, caddr)
	}
	return abi.Unpack(method, responseBytes)
}
