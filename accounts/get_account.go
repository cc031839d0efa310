package accounts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tranvictor/fundctl/config"
	"github.com/tranvictor/fundctl/devnet"
	"github.com/tranvictor/fundctl/networks"
)

var ErrWalletNotFound = errors.New("wallet not found")

// PasswordPrompt asks for the passphrase of the keystore at path.
type PasswordPrompt func(path string) (string, error)

// GetAccount resolves the signing account for network. Local and forked
// networks always sign with the first development account. Live networks use
// the keystore wallet matching hint, or wallets.from_key when there is no
// hint.
func GetAccount(network networks.Network, project *config.Project, hint string, prompt PasswordPrompt) (*Account, error) {
	if network.IsLocal() || network.IsForked() {
		return NewKeyAccount(devnet.DevKey(0), "development account 0"), nil
	}

	hint = strings.TrimSpace(hint)
	if hint != "" {
		if strings.HasPrefix(hint, "0x") && len(hint) == 66 {
			return NewPrivateKeyAccount(hint)
		}
		wallet, err := FindWallet(hint, project.Wallets.Keystores)
		if err != nil {
			return nil, err
		}
		return unlockKeystore(wallet.Keypath, prompt)
	}

	if project.Wallets.FromKey == "" {
		return nil, fmt.Errorf("network %s needs wallets.from_key or --from: %w", network.GetName(), ErrWalletNotFound)
	}
	return NewPrivateKeyAccount(project.Wallets.FromKey)
}

func unlockKeystore(path string, prompt PasswordPrompt) (*Account, error) {
	if prompt == nil {
		return nil, fmt.Errorf("keystore %s needs a passphrase but there is no way to ask for it", path)
	}
	pwd, err := prompt(path)
	if err != nil {
		return nil, err
	}
	acc, err := NewKeystoreAccount(path, pwd)
	if err != nil {
		return nil, fmt.Errorf("unlocking keystore '%s' failed: %w", path, err)
	}
	return acc, nil
}
