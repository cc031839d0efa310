package contracts

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/tranvictor/fundctl/util/txsender"
)

type Reader interface {
	ReadContract(caddr string, abi *abi.ABI, method string, args ...interface{}) ([]interface{}, error)
	GetCode(address string) ([]byte, error)
	GetBalance(address string) (*big.Int, error)
}

type TxSender interface {
	Send(ctx context.Context, from txsender.Signer, to *common.Address, value *big.Int, data []byte) (*txsender.Result, error)
}

// BoundContract is an address plus the ABI used to talk to it.
type BoundContract struct {
	Address common.Address
	ABI     *abi.ABI

	reader Reader
	sender TxSender
}

func NewBoundContract(address common.Address, contractABI *abi.ABI, r Reader, s TxSender) *BoundContract {
	return &BoundContract{Address: address, ABI: contractABI, reader: r, sender: s}
}

func (c *BoundContract) call(method string, args ...interface{}) ([]interface{}, error) {
	out, err := c.reader.ReadContract(c.Address.Hex(), c.ABI, method, args...)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", c.Address.Hex(), method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s.%s returned nothing", c.Address.Hex(), method)
	}
	return out, nil
}

func (c *BoundContract) callBig(method string, args ...interface{}) (*big.Int, error) {
	out, err := c.call(method, args...)
	if err != nil {
		return nil, err
	}
	return abiBig(out[0]), nil
}

func abiBig(v interface{}) *big.Int {
	return abi.ConvertType(v, new(big.Int)).(*big.Int)
}

func (c *BoundContract) transact(ctx context.Context, from txsender.Signer, value *big.Int, method string, args ...interface{}) (*txsender.Result, error) {
	data, err := c.ABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("couldn't pack %s: %w", method, err)
	}
	to := c.Address
	return c.sender.Send(ctx, from, &to, value, data)
}

// Balance is the native balance held by the contract.
func (c *BoundContract) Balance() (*big.Int, error) {
	return c.reader.GetBalance(c.Address.Hex())
}

// deploy sends the creation tx of art with args as constructor arguments
// and returns the new contract's address.
func deploy(ctx context.Context, s TxSender, from txsender.Signer, art *Artifact, args ...interface{}) (common.Address, *txsender.Result, error) {
	code, err := art.Code()
	if err != nil {
		return common.Address{}, nil, err
	}
	packed, err := art.ParsedABI().Pack("", args...)
	if err != nil {
		return common.Address{}, nil, fmt.Errorf("couldn't pack %s constructor: %w", art.ContractName, err)
	}
	result, err := s.Send(ctx, from, nil, nil, append(code, packed...))
	if result == nil {
		return common.Address{}, nil, fmt.Errorf("deploying %s: %w", art.ContractName, err)
	}
	address := crypto.CreateAddress(from.Address(), result.Tx.Nonce())
	if receipt := result.Receipt(); receipt != nil && receipt.ContractAddress != (common.Address{}) {
		address = receipt.ContractAddress
	}
	if err != nil {
		return address, result, fmt.Errorf("deploying %s: %w", art.ContractName, err)
	}
	return address, result, nil
}
