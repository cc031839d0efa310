package accounts

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"
)

type Signer interface {
	SignTx(tx *types.Transaction, chainId *big.Int) (*types.Transaction, error)
}

type KeySigner struct {
	key *ecdsa.PrivateKey
}

func (self *KeySigner) SignTx(tx *types.Transaction, chainId *big.Int) (*types.Transaction, error) {
	return types.SignTx(tx, types.LatestSignerForChainID(chainId), self.key)
}

func NewKeySigner(key *ecdsa.PrivateKey) *KeySigner {
	return &KeySigner{key}
}
