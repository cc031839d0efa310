package networks

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type GenericNetworkConfig struct {
	Name               string            `json:"name"`
	AlternativeNames   []string          `json:"alternative_names"`
	ChainID            uint64            `json:"chain_id"`
	NativeTokenSymbol  string            `json:"native_token_symbol"`
	NativeTokenDecimal uint64            `json:"native_token_decimal"`
	BlockTime          uint64            `json:"block_time"`
	NodeVariableName   string            `json:"node_variable_name"`
	DefaultNodes       map[string]string `json:"default_nodes"`
	Local              bool              `json:"local"`
	Forked             bool              `json:"forked"`
	InProcess          bool              `json:"in_process"`
}

// GenericNetwork is a Network fully described by its config.
type GenericNetwork struct {
	config GenericNetworkConfig
}

func NewGenericNetwork(config GenericNetworkConfig) *GenericNetwork {
	if config.NativeTokenSymbol == "" {
		config.NativeTokenSymbol = "ETH"
	}
	if config.NativeTokenDecimal == 0 {
		config.NativeTokenDecimal = 18
	}
	if config.NodeVariableName == "" {
		config.NodeVariableName = nodeVariableName(config.Name)
	}
	return &GenericNetwork{config: config}
}

// nodeVariableName derives the env var that overrides a network's node,
// eg. "mainnet-fork" uses MAINNET_FORK_NODE.
func nodeVariableName(name string) string {
	replacer := strings.NewReplacer("-", "_", " ", "_", ".", "_")
	return fmt.Sprintf("%s_NODE", strings.ToUpper(replacer.Replace(name)))
}

func (gn *GenericNetwork) GetName() string {
	return gn.config.Name
}

func (gn *GenericNetwork) GetChainID() uint64 {
	return gn.config.ChainID
}

func (gn *GenericNetwork) GetAlternativeNames() []string {
	return gn.config.AlternativeNames
}

func (gn *GenericNetwork) GetNativeTokenSymbol() string {
	return gn.config.NativeTokenSymbol
}

func (gn *GenericNetwork) GetNativeTokenDecimal() uint64 {
	return gn.config.NativeTokenDecimal
}

func (gn *GenericNetwork) GetBlockTime() time.Duration {
	return time.Duration(gn.config.BlockTime) * time.Second
}

func (gn *GenericNetwork) GetNodeVariableName() string {
	return gn.config.NodeVariableName
}

func (gn *GenericNetwork) GetDefaultNodes() map[string]string {
	return gn.config.DefaultNodes
}

func (gn *GenericNetwork) IsLocal() bool {
	return gn.config.Local
}

func (gn *GenericNetwork) IsForked() bool {
	return gn.config.Forked
}

func (gn *GenericNetwork) IsInProcess() bool {
	return gn.config.InProcess
}

func (gn *GenericNetwork) MarshalJSON() ([]byte, error) {
	return json.Marshal(gn.config)
}

// WithNodes returns a copy of the network using nodes instead of its
// default ones.
func (gn *GenericNetwork) WithNodes(nodes map[string]string) *GenericNetwork {
	config := gn.config
	config.DefaultNodes = nodes
	config.InProcess = false
	return &GenericNetwork{config: config}
}

func NewNetworkFromJSON(content []byte) (Network, error) {
	networkConfig := GenericNetworkConfig{}
	if err := json.Unmarshal(content, &networkConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal network config: %w", err)
	}
	if networkConfig.Name == "" {
		return nil, fmt.Errorf("network config has no name")
	}
	return NewGenericNetwork(networkConfig), nil
}
