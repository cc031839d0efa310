package accounts

import (
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
)

func AddressFromPrivateKey(key *ecdsa.PrivateKey) string {
	return crypto.PubkeyToAddress(key.PublicKey).Hex()
}

func PrivateKeyFromKeystore(file string, password string) (string, *ecdsa.PrivateKey, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return "", nil, err
	}
	key, err := keystore.DecryptKey(content, password)
	if err != nil {
		return "", nil, err
	}
	return AddressFromPrivateKey(key.PrivateKey), key.PrivateKey, nil
}

// works with both 0x prefix form and naked form
func PrivateKeyFromHex(hex string) (string, *ecdsa.PrivateKey, error) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "0x")
	if hex == "" {
		return "", nil, fmt.Errorf("empty private key")
	}
	privkey, err := crypto.HexToECDSA(hex)
	if err != nil {
		return "", nil, err
	}
	return AddressFromPrivateKey(privkey), privkey, nil
}

// StorePrivateKeyWithKeystore encrypts privateKey with passphrase and writes
// it to dir as <address>.json. scryptN and scryptP are the keystore KDF
// parameters, keystore.StandardScryptN and StandardScryptP for real keys.
func StorePrivateKeyWithKeystore(dir, privateKey, passphrase string, scryptN, scryptP int) (string, error) {
	_, priv, err := PrivateKeyFromHex(privateKey)
	if err != nil {
		return "", err
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	key := &keystore.Key{
		Id:         id,
		Address:    crypto.PubkeyToAddress(priv.PublicKey),
		PrivateKey: priv,
	}

	keystoreJson, err := keystore.EncryptKey(key, passphrase, scryptN, scryptP)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("%s.json", key.Address.Hex()))
	return path, os.WriteFile(path, keystoreJson, 0600)
}

type keystoreHeader struct {
	Address string `json:"address"`
}

// VerifyKeystore returns the address a keystore file claims to hold without
// decrypting it.
func VerifyKeystore(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	k := &keystoreHeader{}
	if err := json.Unmarshal(content, k); err != nil {
		return "", err
	}
	if !common.IsHexAddress(k.Address) {
		return "", fmt.Errorf("%s doesn't hold a valid address", path)
	}
	return common.HexToAddress(k.Address).Hex(), nil
}
