package networks

const (
	DevelopmentChainID uint64 = 1337
	MainnetChainID     uint64 = 1
	SepoliaChainID     uint64 = 11155111

	localNode = "http://127.0.0.1:8545"
)

var Development Network = NewGenericNetwork(GenericNetworkConfig{
	Name:             "development",
	AlternativeNames: []string{"dev"},
	ChainID:          DevelopmentChainID,
	DefaultNodes:     map[string]string{},
	Local:            true,
	InProcess:        true,
})

var GanacheLocal Network = NewGenericNetwork(GenericNetworkConfig{
	Name:             "ganache-local",
	AlternativeNames: []string{"ganache"},
	ChainID:          DevelopmentChainID,
	DefaultNodes: map[string]string{
		"ganache": localNode,
	},
	Local: true,
})

var MainnetFork Network = NewGenericNetwork(GenericNetworkConfig{
	Name:      "mainnet-fork",
	ChainID:   MainnetChainID,
	BlockTime: 12,
	DefaultNodes: map[string]string{
		"fork": localNode,
	},
	Forked: true,
})

var Sepolia Network = NewGenericNetwork(GenericNetworkConfig{
	Name:      "sepolia",
	ChainID:   SepoliaChainID,
	BlockTime: 12,
	DefaultNodes: map[string]string{
		"publicnode": "https://ethereum-sepolia-rpc.publicnode.com",
	},
})

var Mainnet Network = NewGenericNetwork(GenericNetworkConfig{
	Name:             "mainnet",
	AlternativeNames: []string{"ethereum"},
	ChainID:          MainnetChainID,
	BlockTime:        12,
	DefaultNodes: map[string]string{
		"publicnode": "https://ethereum-rpc.publicnode.com",
	},
})
