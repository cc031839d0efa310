package cmd

import (
	"context"
	"math/big"

	"github.com/spf13/cobra"

	cmdutil "github.com/tranvictor/fundctl/cmd/util"
	"github.com/tranvictor/fundctl/config"
	"github.com/tranvictor/fundctl/ui"
	"github.com/tranvictor/fundctl/util"
)

const DEFAULT_DONATION_USD = 300

var donateAndWithdrawCmd = &cobra.Command{
	Use:   "donate-and-withdraw [usd amount]",
	Short: "Donate to the Funding contract then withdraw everything back",
	Long: `Binds the Funding contract at --funding (default ` + config.DEFAULT_FUNDING_ADDRESS + `),
donates the USD amount (300 by default) converted to wei, then withdraws.
Withdrawing only succeeds when the account is Funding's owner.`,
	Args:              cobra.MaximumNArgs(1),
	PersistentPreRunE: txPreprocess,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := session(cmd)
		if err != nil {
			return err
		}
		usd := big.NewInt(DEFAULT_DONATION_USD)
		if len(args) == 1 {
			usd, err = util.ConvertToUSD(args[0])
			if err != nil {
				return err
			}
		}
		return runDonateAndWithdraw(cmd.Context(), appUI, s, usd)
	},
}

func runDonateAndWithdraw(ctx context.Context, u ui.UI, s *cmdutil.Session, usd *big.Int) error {
	funding, err := s.Funding(ctx, u)
	if err != nil {
		return err
	}
	u.Info("<Funding Contract '%s'>", funding.Address.Hex())

	amountInWei, err := funding.Convert(usd)
	if err != nil {
		return err
	}
	u.Info("The donation amount is $ %s which is %s WEI", usd, amountInWei)
	u.Info("Funding....")
	result, err := funding.Donate(ctx, s.Account, usd, amountInWei)
	if result != nil {
		util.DisplayTxResult(u, result, s.Network, fundingLabels(s, funding))
	}
	if err != nil {
		return err
	}

	result, err = funding.Withdraw(ctx, s.Account)
	if result != nil {
		util.DisplayTxResult(u, result, s.Network, fundingLabels(s, funding))
	}
	return err
}

func init() {
	AddCommonFlagsToTransactionalCmds(donateAndWithdrawCmd)
	AddFundingFlag(donateAndWithdrawCmd)
	rootCmd.AddCommand(donateAndWithdrawCmd)
}
