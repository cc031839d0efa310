package networks

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/tranvictor/fundctl/config"
)

// Insert more Network implementation here to support
// more chains
var supportedNetworks = []Network{
	Development,
	GanacheLocal,
	MainnetFork,
	Sepolia,
	Mainnet,
}

var globalSupportedNetworks = newSupportedNetworks()

var ErrNetworkNotFound = fmt.Errorf("network not found")

type networks struct {
	mu       sync.RWMutex
	networks map[string]Network
}

func (n *networks) getSupportedNetworkNames() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	res := []string{}
	for name := range n.networks {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}

func (n *networks) getNetwork(name string) (Network, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	res, found := n.networks[name]
	if !found {
		return nil, fmt.Errorf("network name '%s': %w", name, ErrNetworkNotFound)
	}
	return res, nil
}

func (n *networks) add(network Network, override bool) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	names := append([]string{network.GetName()}, network.GetAlternativeNames()...)
	if !override {
		for _, name := range names {
			if _, found := n.networks[name]; found {
				return fmt.Errorf("network with name or alternative name of '%s' already exists", name)
			}
		}
	}
	for _, name := range names {
		n.networks[name] = network
	}
	return nil
}

func newSupportedNetworks() *networks {
	result := &networks{networks: map[string]Network{}}
	for _, n := range supportedNetworks {
		if err := result.add(n, false); err != nil {
			panic(err)
		}
	}
	return result
}

func GetSupportedNetworks() []Network {
	globalSupportedNetworks.mu.RLock()
	defer globalSupportedNetworks.mu.RUnlock()
	seen := map[string]bool{}
	res := []Network{}
	for _, n := range globalSupportedNetworks.networks {
		if seen[n.GetName()] {
			continue
		}
		seen[n.GetName()] = true
		res = append(res, n)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].GetName() < res[j].GetName() })
	return res
}

func GetNetwork(name string) (Network, error) {
	return globalSupportedNetworks.getNetwork(name)
}

// GetSupportedNetworkNames includes alternative names.
func GetSupportedNetworkNames() []string {
	return globalSupportedNetworks.getSupportedNetworkNames()
}

// RegisterNetwork makes network available to GetNetwork, replacing any
// network of the same name.
func RegisterNetwork(network Network) error {
	return globalSupportedNetworks.add(network, true)
}

// ApplyProject registers the network sections of the project file. A section
// with a host either overrides the node of a built in network or, when the
// name is unknown, defines a new network.
func ApplyProject(project *config.Project) error {
	for name, settings := range project.Networks.Networks {
		existing, err := GetNetwork(name)
		if err == nil {
			if settings.Host == "" {
				continue
			}
			gn, ok := existing.(*GenericNetwork)
			if !ok {
				return fmt.Errorf("network %s doesn't support a custom host", name)
			}
			if err := RegisterNetwork(gn.WithNodes(map[string]string{"project": settings.Host})); err != nil {
				return err
			}
			continue
		}
		if settings.Host == "" {
			return fmt.Errorf("network %s is not built in and has no host", name)
		}
		if settings.ChainID == 0 {
			return fmt.Errorf("network %s is not built in and has no chain_id", name)
		}
		network := NewGenericNetwork(GenericNetworkConfig{
			Name:         name,
			ChainID:      settings.ChainID,
			DefaultNodes: map[string]string{"project": settings.Host},
			Local:        settings.Local,
			Forked:       settings.Fork,
		})
		if err := RegisterNetwork(network); err != nil {
			return err
		}
	}
	return nil
}

// LoadCustomNetworks registers every *.json network stored in dir. Files
// that fail to parse are returned as errors but don't stop the others.
func LoadCustomNetworks(dir string) ([]Network, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob json files in %s: %w", dir, err)
	}

	result := []Network{}
	var errs []error
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to read file %s: %w", file, err))
			continue
		}
		network, err := NewNetworkFromJSON(content)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", file, err))
			continue
		}
		if err := RegisterNetwork(network); err != nil {
			errs = append(errs, err)
			continue
		}
		result = append(result, network)
	}
	return result, errors.Join(errs...)
}

// AddNetwork registers network and stores it in dir so that later runs pick
// it up with LoadCustomNetworks.
func AddNetwork(dir string, network Network) error {
	if err := RegisterNetwork(network); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	content, err := network.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal network: %w", err)
	}
	err = os.WriteFile(filepath.Join(dir, fmt.Sprintf("%s.json", network.GetName())), content, 0644)
	if err != nil {
		return fmt.Errorf("failed to write the new network to file: %w", err)
	}
	return nil
}
