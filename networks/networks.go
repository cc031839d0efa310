package networks

import (
	"os"
	"strings"
	"sync"
)

var (
	cachedNetwork Network
	mu            sync.Mutex
)

// CurrentNetwork is the network selected with SetNetwork, development when
// none was selected.
func CurrentNetwork() Network {
	mu.Lock()
	defer mu.Unlock()
	if cachedNetwork == nil {
		cachedNetwork = Development
	}
	return cachedNetwork
}

func SetNetwork(name string) (Network, error) {
	network, err := GetNetwork(name)
	if err != nil {
		return nil, err
	}
	mu.Lock()
	defer mu.Unlock()
	cachedNetwork = network
	return network, nil
}

// GetNodes returns the nodes to talk to for network. The node variable, eg.
// SEPOLIA_NODE, replaces the default nodes when it is set.
func GetNodes(network Network) map[string]string {
	if url := strings.TrimSpace(os.Getenv(network.GetNodeVariableName())); url != "" {
		return map[string]string{"custom-node": url}
	}
	return network.GetDefaultNodes()
}
