package cmd

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	cmdutil "github.com/tranvictor/fundctl/cmd/util"
	fundcommon "github.com/tranvictor/fundctl/common"
	"github.com/tranvictor/fundctl/config"
	"github.com/tranvictor/fundctl/contracts"
	"github.com/tranvictor/fundctl/ui"
	"github.com/tranvictor/fundctl/util"
	"github.com/tranvictor/fundctl/util/txsender"
)

func fundingLabels(s *cmdutil.Session, funding *contracts.Funding) util.Labels {
	return s.Labels(map[common.Address]string{funding.Address: "Funding"})
}

var priceCmd = &cobra.Command{
	Use:               "price",
	Short:             "Show Funding's getPrice(), the ETH price in USD with 18 decimals",
	PersistentPreRunE: readPreprocess,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := session(cmd)
		if err != nil {
			return err
		}
		return runPrice(cmd.Context(), appUI, s)
	},
}

func runPrice(ctx context.Context, u ui.UI, s *cmdutil.Session) error {
	funding, err := s.Funding(ctx, u)
	if err != nil {
		return err
	}
	price, err := funding.GetPrice()
	if err != nil {
		return err
	}
	u.KeyValue([][2]string{
		{"Funding", funding.Address.Hex()},
		{"getPrice", price.String()},
		{"USD", fundcommon.BigToFloatString(price, 18)},
	})
	return nil
}

var convertCmd = &cobra.Command{
	Use:               "convert [usd amount]",
	Short:             "Show how much wei a USD amount is worth at Funding's price",
	Args:              cobra.ExactArgs(1),
	PersistentPreRunE: readPreprocess,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := session(cmd)
		if err != nil {
			return err
		}
		usd, err := util.ConvertToUSD(args[0])
		if err != nil {
			return err
		}
		_, err = runConvert(cmd.Context(), appUI, s, usd)
		return err
	},
}

func runConvert(ctx context.Context, u ui.UI, s *cmdutil.Session, usd *big.Int) (*big.Int, error) {
	funding, err := s.Funding(ctx, u)
	if err != nil {
		return nil, err
	}
	wei, err := funding.Convert(usd)
	if err != nil {
		return nil, err
	}
	u.Info("$ %s = %s WEI (%s)", usd, wei, fundcommon.WeiToEthString(wei, s.Network.GetNativeTokenSymbol()))
	return wei, nil
}

var fundersCmd = &cobra.Command{
	Use:               "funders [address]",
	Short:             "Show how much an address donated, your account when no address is given",
	Args:              cobra.MaximumNArgs(1),
	PersistentPreRunE: readPreprocess,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := session(cmd)
		if err != nil {
			return err
		}
		var funder common.Address
		if len(args) == 1 {
			funder, err = util.ConvertToAddress(args[0])
		} else {
			err = s.ResolveAccount(appUI)
			if err == nil {
				funder = s.Account.Address()
			}
		}
		if err != nil {
			return err
		}
		_, err = runFunders(cmd.Context(), appUI, s, funder)
		return err
	},
}

func runFunders(ctx context.Context, u ui.UI, s *cmdutil.Session, funder common.Address) (*big.Int, error) {
	funding, err := s.Funding(ctx, u)
	if err != nil {
		return nil, err
	}
	amount, err := funding.Funders(funder)
	if err != nil {
		return nil, err
	}
	u.Info("%s donated %s", funder.Hex(), fundcommon.WeiToEthString(amount, s.Network.GetNativeTokenSymbol()))
	return amount, nil
}

var ownerCmd = &cobra.Command{
	Use:               "owner",
	Short:             "Show Funding's owner and balance",
	PersistentPreRunE: readPreprocess,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := session(cmd)
		if err != nil {
			return err
		}
		return runOwner(cmd.Context(), appUI, s)
	},
}

func runOwner(ctx context.Context, u ui.UI, s *cmdutil.Session) error {
	funding, err := s.Funding(ctx, u)
	if err != nil {
		return err
	}
	owner, err := funding.Owner()
	if err != nil {
		return err
	}
	balance, err := funding.Balance()
	if err != nil {
		return err
	}
	u.KeyValue([][2]string{
		{"Funding", funding.Address.Hex()},
		{"Owner", owner.Hex()},
		{"Balance", fundcommon.WeiToEthString(balance, s.Network.GetNativeTokenSymbol())},
	})
	return nil
}

var donateCmd = &cobra.Command{
	Use:   "donate [usd amount]",
	Short: "Donate to Funding, sending the converted USD amount unless --value is given",
	Long: `Pledges a whole USD amount. The wei sent defaults to convert(usd amount)
at the current price. --value sends another amount, eg. "0.5 ETH", "1000 gwei"
or plain wei; Funding reverts when it is worth less than the pledge.`,
	Args:              cobra.ExactArgs(1),
	PersistentPreRunE: txPreprocess,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := session(cmd)
		if err != nil {
			return err
		}
		usd, err := util.ConvertToUSD(args[0])
		if err != nil {
			return err
		}
		var value *big.Int
		if strings.TrimSpace(config.Value) != "" {
			value, err = util.ConvertToBig(config.Value, s.Network)
			if err != nil {
				return fmt.Errorf("couldn't parse --value: %w", err)
			}
		}
		_, err = runDonate(cmd.Context(), appUI, s, usd, value)
		return err
	},
}

func runDonate(ctx context.Context, u ui.UI, s *cmdutil.Session, usd, value *big.Int) (*txsender.Result, error) {
	funding, err := s.Funding(ctx, u)
	if err != nil {
		return nil, err
	}
	if value == nil {
		value, err = funding.Convert(usd)
		if err != nil {
			return nil, err
		}
	}
	u.Critical("Donating $ %s with %s WEI", usd, value)
	result, err := funding.Donate(ctx, s.Account, usd, value)
	if result != nil {
		util.DisplayTxResult(u, result, s.Network, fundingLabels(s, funding))
	}
	return result, err
}

var withdrawCmd = &cobra.Command{
	Use:               "withdraw",
	Short:             "Withdraw Funding's whole balance, owner only",
	PersistentPreRunE: txPreprocess,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := session(cmd)
		if err != nil {
			return err
		}
		_, err = runWithdraw(cmd.Context(), appUI, s)
		return err
	},
}

func runWithdraw(ctx context.Context, u ui.UI, s *cmdutil.Session) (*txsender.Result, error) {
	funding, err := s.Funding(ctx, u)
	if err != nil {
		return nil, err
	}
	result, err := funding.Withdraw(ctx, s.Account)
	if result != nil {
		util.DisplayTxResult(u, result, s.Network, fundingLabels(s, funding))
	}
	return result, err
}

func init() {
	for _, c := range []*cobra.Command{priceCmd, convertCmd, fundersCmd, ownerCmd, donateCmd, withdrawCmd} {
		AddFundingFlag(c)
		rootCmd.AddCommand(c)
	}
	AddCommonFlagsToTransactionalCmds(donateCmd)
	AddCommonFlagsToTransactionalCmds(withdrawCmd)
	donateCmd.Flags().StringVarP(&config.Value, "value", "V", "", "Amount to send instead of the converted USD amount")
	fundersCmd.Flags().StringVarP(&config.From, "from", "f", "", "Wallet whose donation to show when no address is given")
}
