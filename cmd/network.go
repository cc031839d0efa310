package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	cmdutil "github.com/tranvictor/fundctl/cmd/util"
	"github.com/tranvictor/fundctl/config"
	"github.com/tranvictor/fundctl/networks"
	"github.com/tranvictor/fundctl/ui"
)

var (
	NetworkConfig string
	NetworkForce  bool
)

func networkKind(n networks.Network) string {
	switch {
	case n.IsInProcess():
		return "in-process"
	case n.IsForked():
		return "fork"
	case n.IsLocal():
		return "local"
	}
	return "live"
}

func runNetworkList(u ui.UI, project *config.Project, current networks.Network) {
	rows := [][]string{}
	for _, n := range networks.GetSupportedNetworks() {
		name := n.GetName()
		if current != nil && name == current.GetName() {
			name = u.Style(ui.StyledText{Text: "* " + name, Severity: ui.SeveritySuccess})
		}
		nodes := []string{}
		for key, node := range networks.GetNodes(n) {
			nodes = append(nodes, fmt.Sprintf("%s: %s", key, node))
		}
		sort.Strings(nodes)
		priceFeed := ""
		if s, found := project.NetworkSettings(n.GetName()); found {
			priceFeed = s.EthUSDPriceFeed
		}
		rows = append(rows, []string{
			name,
			fmt.Sprintf("%d", n.GetChainID()),
			networkKind(n),
			strings.Join(nodes, ", "),
			n.GetNodeVariableName(),
			priceFeed,
		})
	}
	u.Table([]string{"Network", "Chain ID", "Kind", "Nodes", "Node env var", "eth_usd_pricefeed"}, rows)
}

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Show the active network and all supported ones",
	Long:  ``,
	RunE: func(cmd *cobra.Command, args []string) error {
		project, current, err := cmdutil.LoadNetwork(cmdutil.NewLogger())
		if err != nil {
			return err
		}
		appUI.Info("Active network: %s", current.GetName())
		runNetworkList(appUI, project, current)
		return nil
	},
}

// runNetworkAdd parses a network json, either inline or from a file, and
// stores it in dir.
func runNetworkAdd(u ui.UI, dir string, raw string, force bool) (networks.Network, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("--json is required")
	}
	content := []byte(raw)
	if !strings.HasPrefix(raw, "{") {
		var err error
		content, err = os.ReadFile(raw)
		if err != nil {
			return nil, fmt.Errorf("couldn't read the provided json file: %w", err)
		}
	}
	newNetwork, err := networks.NewNetworkFromJSON(content)
	if err != nil {
		return nil, fmt.Errorf("the provided json is not a valid network config: %w", err)
	}

	allNames := append([]string{newNetwork.GetName()}, newNetwork.GetAlternativeNames()...)
	for _, name := range allNames {
		if _, err := networks.GetNetwork(name); err == nil {
			if !force {
				return nil, fmt.Errorf("network with name %s already exists, use --force to replace it", name)
			}
			u.Warn("Network with name %s already exists. We will replace it with the new network.", name)
		}
	}
	if err := networks.AddNetwork(dir, newNetwork); err != nil {
		return nil, fmt.Errorf("failed to add the new network: %w", err)
	}
	u.Success("Network %s with chain ID %d added and saved to %s.", newNetwork.GetName(), newNetwork.GetChainID(), dir)
	return newNetwork, nil
}

var addNetworkCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a network to the supported networks list locally",
	Long: `--json takes a network config json or the path to one:
	{
		"name": "network_name",
		"alternative_names": ["alternative_name_1"],
		"chain_id": 1,
		"native_token_symbol": "ETH",
		"native_token_decimal": 18,
		"block_time": 12,
		"node_variable_name": "NETWORK_NAME_NODE",
		"default_nodes": {
			"node_name_1": "node_url_1"
		},
		"local": false,
		"forked": false
	}`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := runNetworkAdd(appUI, config.NetworksDir(), NetworkConfig, NetworkForce)
		return err
	},
}

func init() {
	addNetworkCmd.Flags().StringVarP(&NetworkConfig, "json", "j", "", "Network config json or path to a json file")
	addNetworkCmd.Flags().BoolVar(&NetworkForce, "force", false, "Replace an existing network of the same name")

	networkCmd.AddCommand(addNetworkCmd)
	rootCmd.AddCommand(networkCmd)
}
