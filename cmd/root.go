// Copyright © 2018 Victor Tran
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cmdutil "github.com/tranvictor/fundctl/cmd/util"
	"github.com/tranvictor/fundctl/config"
	"github.com/tranvictor/fundctl/ui"
)

var appUI ui.UI = ui.NewTerminalUI()

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fundctl",
	Short: "Deploy and operate a USD pledged Funding contract",
	Long: fmt.Sprintf(`fundctl deploys the Funding contract against an ETH/USD price feed and
lets you read its price, convert USD to wei, donate and withdraw.

Networks:
	1. development: an in-process chain that lives for one command, it
	signs with the first deterministic ganache account and deploys a
	price feed mock when none is configured.
	2. ganache-local: a ganache node at http://127.0.0.1:8545, same accounts.
	3. mainnet-fork: a local fork of mainnet, same accounts.
	4. sepolia and mainnet: live chains, sign with wallets.from_key or a
	keystore picked with --from.

Per network settings (eth_usd_pricefeed, funding address, custom hosts) live
in %s, see --config. The node of a network can be overridden with
<NETWORK>_NODE, eg. SEPOLIA_NODE.`, config.DEFAULT_CONFIG_FILE),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.PersistentFlags().StringVarP(&config.Network, "network", "k", "", "network to use, defaults to networks.default of the project file then \"development\"")
	rootCmd.PersistentFlags().StringVarP(&config.ConfigFile, "config", "c", config.DEFAULT_CONFIG_FILE, "project file")
	rootCmd.PersistentFlags().BoolVarP(&config.Verbose, "verbose", "v", false, "log debug information to stderr")
	rootCmd.PersistentFlags().StringVar(&config.LogFile, "log-file", "", "also log to this file, rotated")

	err := rootCmd.ExecuteContext(context.Background())
	cmdutil.CloseLoggers()
	if err != nil {
		appUI.Error("%s", err)
		os.Exit(1)
	}
}
