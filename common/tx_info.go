package common

import (
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"
)

const (
	TxStatusError    = "error"
	TxStatusNotFound = "notfound"
	TxStatusPending  = "pending"
	TxStatusDone     = "done"
	TxStatusReverted = "reverted"
	TxStatusLost     = "lost"
)

type TxInfo struct {
	Status      string
	Tx          *types.Transaction
	Receipt     *types.Receipt
	BlockHeader *types.Header
}

// GasCost is the fee paid by the sender, zero while the tx is not mined.
func (ti *TxInfo) GasCost() *big.Int {
	if ti.Receipt == nil {
		return big.NewInt(0)
	}
	price := ti.Receipt.EffectiveGasPrice
	if price == nil && ti.Tx != nil {
		price = ti.Tx.GasPrice()
	}
	if price == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Mul(new(big.Int).SetUint64(ti.Receipt.GasUsed), price)
}
