package cmd

import (
	"github.com/spf13/cobra"

	cmdutil "github.com/tranvictor/fundctl/cmd/util"
	fundcommon "github.com/tranvictor/fundctl/common"
	"github.com/tranvictor/fundctl/config"
	"github.com/tranvictor/fundctl/ui"
)

var accountCmd = &cobra.Command{
	Use:               "account",
	Short:             "Show the account fundctl signs with on the active network",
	PersistentPreRunE: readPreprocess,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := session(cmd)
		if err != nil {
			return err
		}
		return runAccount(appUI, s)
	},
}

func runAccount(u ui.UI, s *cmdutil.Session) error {
	if err := s.ResolveAccount(u); err != nil {
		return err
	}
	balance, err := s.Backend.Reader.GetBalance(s.Account.AddressHex())
	if err != nil {
		return err
	}
	u.KeyValue([][2]string{
		{"Account", s.Account.AddressHex()},
		{"Source", s.Account.Source},
		{"Balance", fundcommon.WeiToEthString(balance, s.Network.GetNativeTokenSymbol())},
	})
	return nil
}

func init() {
	accountCmd.Flags().StringVarP(&config.From, "from", "f", "", "Wallet hint, see wallet list")
	rootCmd.AddCommand(accountCmd)
}
