package accounts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// WalletDesc is a keystore wallet configured in the project file.
type WalletDesc struct {
	Name    string
	Keypath string
}

type FuzzySource []WalletDesc

func (self FuzzySource) Len() int {
	return len(self)
}

func (self FuzzySource) String(i int) string {
	return strings.ReplaceAll(self[i].Name, " ", "_")
}

func NewFuzzySource(keystores map[string]string) FuzzySource {
	result := FuzzySource{}
	for name, path := range keystores {
		result = append(result, WalletDesc{Name: name, Keypath: path})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// FindWallet returns the wallet best matching hint. An exact name match
// always wins over fuzzy ones.
func FindWallet(hint string, keystores map[string]string) (WalletDesc, error) {
	if path, found := keystores[hint]; found {
		return WalletDesc{Name: hint, Keypath: path}, nil
	}
	source := NewFuzzySource(keystores)
	matches := fuzzy.FindFrom(strings.ReplaceAll(hint, " ", "_"), source)
	if len(matches) == 0 {
		return WalletDesc{}, fmt.Errorf("no wallet is found with '%s': %w", hint, ErrWalletNotFound)
	}
	return source[matches[0].Index], nil
}
