package cmd

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	cmdutil "github.com/tranvictor/fundctl/cmd/util"
	fundcommon "github.com/tranvictor/fundctl/common"
	"github.com/tranvictor/fundctl/contracts"
	"github.com/tranvictor/fundctl/ui"
	"github.com/tranvictor/fundctl/util"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy Funding against the network's eth_usd_pricefeed and show its price",
	Long: `Deploys the Funding contract from build/contracts/Funding.json with the
network's eth_usd_pricefeed as constructor argument. Local networks without
a price feed get a MockV3Aggregator first.`,
	PersistentPreRunE: txPreprocess,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := session(cmd)
		if err != nil {
			return err
		}
		_, err = runDeploy(cmd.Context(), appUI, s)
		return err
	},
}

// runDeploy prints the account, the price feed and, once deployed, the
// contract's price. The returned Funding is nil when the tx wasn't mined.
func runDeploy(ctx context.Context, u ui.UI, s *cmdutil.Session) (*contracts.Funding, error) {
	u.Info("%s", s.Account.AddressHex())

	priceFeed, err := s.Deployer().PriceFeedAddress(ctx, s.Network, s.Project, s.Account)
	if err != nil {
		return nil, err
	}
	u.Info("%s", priceFeed.Hex())

	stop := u.Spinner("Deploying Funding...")
	funding, result, err := s.Deployer().DeployFunding(ctx, s.Account, priceFeed)
	stop()
	if result != nil {
		util.DisplayTxResult(u, result, s.Network, s.Labels(map[common.Address]string{
			priceFeed: "price feed",
		}))
	}
	if err != nil {
		return nil, err
	}
	if s.TxOptions.DontBroadcast || s.TxOptions.DontWait {
		return nil, nil
	}

	u.Success("Funding deployed at %s", funding.Address.Hex())
	if settings, found := s.Project.NetworkSettings(s.Network.GetName()); found && settings.Verify {
		u.Warn("verify is set for %s but fundctl doesn't publish sources, verify %s on the explorer yourself.", s.Network.GetName(), funding.Address.Hex())
	}
	price, err := funding.GetPrice()
	if err != nil {
		return funding, err
	}
	u.Info("%s", price.String())
	u.Info("1 %s = %s USD", s.Network.GetNativeTokenSymbol(), fundcommon.BigToFloatString(price, 18))
	return funding, nil
}

func init() {
	AddCommonFlagsToTransactionalCmds(deployCmd)
	rootCmd.AddCommand(deployCmd)
}
