package cmd

import (
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/spf13/cobra"

	"github.com/tranvictor/fundctl/accounts"
	"github.com/tranvictor/fundctl/config"
	"github.com/tranvictor/fundctl/ui"
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage the keystore wallets used on live networks",
	Long:  ``,
}

// runWalletImport encrypts a pasted private key into dir and returns the
// keystore path.
func runWalletImport(u ui.UI, dir string, scryptN, scryptP int) (string, error) {
	u.Warn("Storing plain private key is NOT secure. Let's encrypt it to a Keystore.")
	privHex, err := u.AskSecret("Paste your private key")
	if err != nil {
		return "", err
	}
	if _, _, err := accounts.PrivateKeyFromHex(privHex); err != nil {
		return "", fmt.Errorf("that is not a private key: %w", err)
	}
	passphrase, err := u.AskSecret("Enter your passcode to encrypt the private key")
	if err != nil {
		return "", err
	}
	again, err := u.AskSecret("Enter it again")
	if err != nil {
		return "", err
	}
	if passphrase != again {
		return "", fmt.Errorf("passcodes don't match")
	}
	path, err := accounts.StorePrivateKeyWithKeystore(dir, privHex, passphrase, scryptN, scryptP)
	if err != nil {
		return "", fmt.Errorf("private key encryption failed: %w", err)
	}
	address, err := accounts.VerifyKeystore(path)
	if err != nil {
		return "", err
	}
	u.Success("Stored encrypted private key of %s at %s.", address, path)
	u.Info("Add it to %s to use it with --from:", config.DEFAULT_CONFIG_FILE)
	u.Info("wallets:\n  keystores:\n    <name>: %s", path)
	return path, nil
}

var importWalletCmd = &cobra.Command{
	Use:   "import",
	Short: "Encrypt a private key into a keystore under ~/.fundctl/keystores",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := runWalletImport(appUI, config.KeystoresDir(), keystore.StandardScryptN, keystore.StandardScryptP)
		return err
	},
}

func runWalletList(u ui.UI, project *config.Project) {
	names := []string{}
	for name := range project.Wallets.Keystores {
		names = append(names, name)
	}
	sort.Strings(names)
	u.Info("You have %d keystore wallets:", len(names))
	rows := [][]string{}
	for _, name := range names {
		path := project.Wallets.Keystores[name]
		address, err := accounts.VerifyKeystore(path)
		if err != nil {
			address = u.Style(ui.StyledText{Text: err.Error(), Severity: ui.SeverityError})
		}
		rows = append(rows, []string{name, address, path})
	}
	if len(rows) > 0 {
		u.Table([]string{"Name", "Address", "Keystore"}, rows)
	}
	if project.Wallets.FromKey != "" {
		u.Info("wallets.from_key is set and is used when --from is not given.")
	}
}

var listWalletCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the wallets of the project file",
	Long:  ``,
	RunE: func(cmd *cobra.Command, args []string) error {
		project, err := config.LoadProject(config.ConfigFile)
		if err != nil {
			return err
		}
		runWalletList(appUI, project)
		return nil
	},
}

func init() {
	walletCmd.AddCommand(listWalletCmd)
	walletCmd.AddCommand(importWalletCmd)
	rootCmd.AddCommand(walletCmd)
}
