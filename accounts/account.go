package accounts

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// Account is an address together with the means to sign for it.
type Account struct {
	signer  Signer
	address common.Address
	// Source describes where the key came from, eg. "development account 0"
	// or a keystore path.
	Source string
}

func NewAccount(signer Signer, address common.Address, source string) *Account {
	return &Account{signer: signer, address: address, Source: source}
}

func NewKeyAccount(key *ecdsa.PrivateKey, source string) *Account {
	return &Account{
		signer:  NewKeySigner(key),
		address: crypto.PubkeyToAddress(key.PublicKey),
		Source:  source,
	}
}

func NewKeystoreAccount(file string, password string) (*Account, error) {
	_, key, err := PrivateKeyFromKeystore(file, password)
	if err != nil {
		return nil, err
	}
	return NewKeyAccount(key, file), nil
}

func NewPrivateKeyAccount(hex string) (*Account, error) {
	_, key, err := PrivateKeyFromHex(hex)
	if err != nil {
		return nil, err
	}
	return NewKeyAccount(key, "private key"), nil
}

func (self *Account) Address() common.Address {
	return self.address
}

func (self *Account) AddressHex() string {
	return self.address.Hex()
}

func (self *Account) SignTx(tx *types.Transaction, chainId *big.Int) (*types.Transaction, error) {
	signedTx, err := self.signer.SignTx(tx, chainId)
	if err != nil {
		return tx, fmt.Errorf("couldn't sign the tx: %w", err)
	}
	return signedTx, nil
}
