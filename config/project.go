package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	fundcommon "github.com/tranvictor/fundctl/common"
)

const DEFAULT_BUILD_DIR = "build/contracts"

// NetworkSettings is the per network section of the project file. Sections
// naming a network that is not built in define a custom one, in which case
// Host and ChainID are required.
type NetworkSettings struct {
	EthUSDPriceFeed string `yaml:"eth_usd_pricefeed"`
	Verify          bool   `yaml:"verify"`
	Funding         string `yaml:"funding"`
	Host            string `yaml:"host"`
	ChainID         uint64 `yaml:"chain_id"`
	Local           bool   `yaml:"local"`
	Fork            bool   `yaml:"fork"`
}

type Wallets struct {
	FromKey   string            `yaml:"from_key"`
	Keystores map[string]string `yaml:"keystores"`
}

type NetworksSection struct {
	Default  string
	Networks map[string]NetworkSettings
}

// UnmarshalYAML accepts the "default" key next to the network sections.
func (ns *NetworksSection) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: networks must be a mapping", value.Line)
	}
	ns.Networks = map[string]NetworkSettings{}
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i].Value, value.Content[i+1]
		if key == "default" {
			if err := val.Decode(&ns.Default); err != nil {
				return err
			}
			continue
		}
		settings := NetworkSettings{}
		if err := val.Decode(&settings); err != nil {
			return fmt.Errorf("network %s: %w", key, err)
		}
		ns.Networks[key] = settings
	}
	return nil
}

// Project is the content of fundctl.yaml.
type Project struct {
	DotEnv   string          `yaml:"dotenv"`
	BuildDir string          `yaml:"build_dir"`
	Networks NetworksSection `yaml:"networks"`
	Wallets  Wallets         `yaml:"wallets"`
	Funding  struct {
		Address string `yaml:"address"`
	} `yaml:"funding"`

	dir string
}

func DefaultProject() *Project {
	return &Project{
		BuildDir: DEFAULT_BUILD_DIR,
		Networks: NetworksSection{
			Default:  "development",
			Networks: map[string]NetworkSettings{},
		},
		dir: ".",
	}
}

var envPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ExpandEnv replaces ${VAR} occurrences with the environment value. Unlike
// os.ExpandEnv a bare $ is left untouched.
func ExpandEnv(content []byte) []byte {
	return envPattern.ReplaceAllFunc(content, func(m []byte) []byte {
		name := envPattern.FindSubmatch(m)[1]
		return []byte(os.Getenv(string(name)))
	})
}

// LoadDotEnv sets KEY=VALUE pairs from file without overriding variables
// that are already set.
func LoadDotEnv(file string) error {
	return godotenv.Load(file)
}

// LoadProject reads the project file. A missing file is not an error, the
// default project is returned instead.
func LoadProject(path string) (*Project, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultProject(), nil
	}
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)

	// first pass only looks for the dotenv file so that it can feed the
	// ${VAR} expansion of the second one
	pre := struct {
		DotEnv string `yaml:"dotenv"`
	}{}
	if err := yaml.Unmarshal(content, &pre); err != nil {
		return nil, fmt.Errorf("couldn't parse %s: %w", path, err)
	}
	if pre.DotEnv != "" {
		if err := LoadDotEnv(filepath.Join(dir, pre.DotEnv)); err != nil {
			return nil, fmt.Errorf("couldn't load dotenv file: %w", err)
		}
	}

	project := DefaultProject()
	if err := yaml.Unmarshal(ExpandEnv(content), project); err != nil {
		return nil, fmt.Errorf("couldn't parse %s: %w", path, err)
	}
	project.dir = dir
	if project.BuildDir == "" {
		project.BuildDir = DEFAULT_BUILD_DIR
	}
	if project.Networks.Networks == nil {
		project.Networks.Networks = map[string]NetworkSettings{}
	}
	return project, nil
}

func (p *Project) NetworkSettings(network string) (NetworkSettings, bool) {
	s, found := p.Networks.Networks[network]
	return s, found
}

// PriceFeed returns the eth_usd_pricefeed of network. The bool is false when
// the network has none configured.
func (p *Project) PriceFeed(network string) (common.Address, bool, error) {
	s, found := p.NetworkSettings(network)
	if !found || s.EthUSDPriceFeed == "" {
		return common.Address{}, false, nil
	}
	if !fundcommon.IsAddress(s.EthUSDPriceFeed) {
		return common.Address{}, false, fmt.Errorf("eth_usd_pricefeed of %s is not an address: %s", network, s.EthUSDPriceFeed)
	}
	return common.HexToAddress(s.EthUSDPriceFeed), true, nil
}

// FundingAddress prefers the network's own funding entry over the project
// wide one.
func (p *Project) FundingAddress(network string) string {
	if s, found := p.NetworkSettings(network); found && s.Funding != "" {
		return s.Funding
	}
	return p.Funding.Address
}

// ArtifactDir is BuildDir resolved against the project file's directory.
func (p *Project) ArtifactDir() string {
	if filepath.IsAbs(p.BuildDir) {
		return p.BuildDir
	}
	return filepath.Join(p.dir, p.BuildDir)
}
