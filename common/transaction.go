package common

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// RawTxToHash returns valid hex data of a transaction to
// transaction hash
func RawTxToHash(data string) string {
	return crypto.Keccak256Hash(hexutil.MustDecode(data)).Hex()
}

// BuildExactTx builds an unsigned transaction. A nil to builds a contract
// creation. For dynamic fee txs gasPrice is used as the fee cap.
func BuildExactTx(
	nonce uint64,
	to *common.Address,
	ethAmount *big.Int,
	gasLimit uint64,
	gasPrice *big.Int,
	tipCap *big.Int,
	data []byte,
	txType uint8,
	chainID *big.Int,
) *types.Transaction {
	if ethAmount == nil {
		ethAmount = big.NewInt(0)
	}
	if txType == types.DynamicFeeTxType {
		return types.NewTx(&types.DynamicFeeTx{
			ChainID:   chainID,
			Nonce:     nonce,
			GasTipCap: tipCap,
			GasFeeCap: gasPrice,
			Gas:       gasLimit,
			To:        to,
			Value:     ethAmount,
			Data:      data,
		})
	}
	return types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gasLimit,
		To:       to,
		Value:    ethAmount,
		Data:     data,
	})
}

func BuildContractCreationTx(
	nonce uint64,
	ethAmount *big.Int,
	gasLimit uint64,
	gasPrice *big.Int,
	tipCap *big.Int,
	data []byte,
	txType uint8,
	chainID *big.Int,
) *types.Transaction {
	return BuildExactTx(nonce, nil, ethAmount, gasLimit, gasPrice, tipCap, data, txType, chainID)
}
