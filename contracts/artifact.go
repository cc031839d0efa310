package contracts

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"

	fundcommon "github.com/tranvictor/fundctl/common"
)

const (
	FundingName          = "Funding"
	MockV3AggregatorName = "MockV3Aggregator"
)

var ErrArtifactNotFound = errors.New("artifact not found")

// Placeholder creation code understood by the in-process development chain.
// 0xfe is INVALID so a real chain refuses to run it.
var (
	DevFundingCode          = append([]byte{0xfe}, []byte("fundctl:"+FundingName)...)
	DevMockV3AggregatorCode = append([]byte{0xfe}, []byte("fundctl:"+MockV3AggregatorName)...)
)

// Artifact is the compiled contract json, build/contracts/<Name>.json.
type Artifact struct {
	ContractName string          `json:"contractName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     string          `json:"bytecode"`

	parsed *abi.ABI
}

func LoadArtifact(path string) (*Artifact, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrArtifactNotFound)
		}
		return nil, err
	}
	art := &Artifact{}
	if err := json.Unmarshal(content, art); err != nil {
		return nil, fmt.Errorf("couldn't parse artifact %s: %w", path, err)
	}
	if len(art.ABI) == 0 {
		return nil, fmt.Errorf("artifact %s has no abi", path)
	}
	parsed, err := fundcommon.GetABIFromString(string(art.ABI))
	if err != nil {
		return nil, fmt.Errorf("artifact %s: %w", path, err)
	}
	art.parsed = parsed
	return art, nil
}

func (a *Artifact) ParsedABI() *abi.ABI {
	return a.parsed
}

// Code is the creation bytecode without constructor arguments.
func (a *Artifact) Code() ([]byte, error) {
	code := strings.TrimSpace(a.Bytecode)
	if !strings.HasPrefix(code, "0x") {
		code = "0x" + code
	}
	if code == "0x" {
		return nil, fmt.Errorf("artifact %s has no bytecode", a.ContractName)
	}
	return hexutil.Decode(code)
}

// ArtifactStore finds compiled contracts in Dir. With Placeholders set,
// missing Funding and MockV3Aggregator artifacts resolve to the development
// chain's placeholder code.
type ArtifactStore struct {
	Dir          string
	Placeholders bool
}

func (s ArtifactStore) Path(name string) string {
	return filepath.Join(s.Dir, name+".json")
}

func (s ArtifactStore) Load(name string) (*Artifact, error) {
	art, err := LoadArtifact(s.Path(name))
	if err == nil || !errors.Is(err, ErrArtifactNotFound) || !s.Placeholders {
		return art, err
	}
	switch name {
	case FundingName:
		return placeholder(name, DevFundingCode, fundcommon.GetFundingABI()), nil
	case MockV3AggregatorName:
		return placeholder(name, DevMockV3AggregatorCode, fundcommon.GetMockV3AggregatorABI()), nil
	}
	return nil, err
}

func placeholder(name string, code []byte, parsed *abi.ABI) *Artifact {
	return &Artifact{
		ContractName: name,
		Bytecode:     hexutil.Encode(code),
		parsed:       parsed,
	}
}
