package devnet

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// devKeys are the first accounts of the deterministic ganache wallet, so an
// external ganache started with --deterministic shares them.
var devKeys = []string{
	"4f3edf983ac636a65a842ce7c78d9aa706d3b113bce9c46f30d7d21715b23b1d",
	"6cbed15c793ce57650b9877cf6fa156fbef513c4e6134f022a85b1ffdd59b2a1",
	"6370fd033278c143179d81c5526140625662b8daa446c22ee2d73db3707e620c",
	"646f1ce2fdad0e6deeeb5c7e8e5543bdde65e86029e2fd9fc169899c440a7913",
	"add53f9a7e588d003326d1cbf9e4a43c061aadd9bc938c843a79e7b4fd2ad743",
}

// DevKeys returns fresh copies of the development private keys.
func DevKeys() []*ecdsa.PrivateKey {
	result := make([]*ecdsa.PrivateKey, 0, len(devKeys))
	for _, hex := range devKeys {
		key, err := crypto.HexToECDSA(hex)
		if err != nil {
			panic(err)
		}
		result = append(result, key)
	}
	return result
}

func DevKey(index int) *ecdsa.PrivateKey {
	return DevKeys()[index]
}

func DevAccounts() []common.Address {
	result := []common.Address{}
	for _, key := range DevKeys() {
		result = append(result, crypto.PubkeyToAddress(key.PublicKey))
	}
	return result
}

// Fund credits addr out of thin air, like a faucet.
func (c *Chain) Fund(addr common.Address, wei *big.Int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.st.addBalance(addr, wei)
}
