package util

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tranvictor/fundctl/accounts"
	"github.com/tranvictor/fundctl/config"
	"github.com/tranvictor/fundctl/contracts"
	"github.com/tranvictor/fundctl/networks"
	"github.com/tranvictor/fundctl/ui"
	"github.com/tranvictor/fundctl/util"
	"github.com/tranvictor/fundctl/util/txsender"
)

var ErrNoFunding = errors.New("no Funding contract")

// Session holds everything the pre-run hooks resolved: the project file,
// the active network and a backend to talk to it. Tx commands also get the
// signing account and the tx options built from the gas flags.
type Session struct {
	Project *config.Project
	Network networks.Network
	Backend *util.Backend
	Logger  *zap.Logger

	Account   *accounts.Account
	TxOptions txsender.Options

	deployer *contracts.Deployer
}

// NewSession starts talking to network. The project's compiled artifacts are
// registered on in-process chains.
func NewSession(project *config.Project, network networks.Network, logger *zap.Logger) (*Session, error) {
	backend, err := util.NewBackend(network, logger)
	if err != nil {
		return nil, err
	}
	s := &Session{
		Project: project,
		Network: network,
		Backend: backend,
		Logger:  logger,
	}
	if err := backend.RegisterArtifacts(s.Artifacts()); err != nil {
		return nil, fmt.Errorf("couldn't register artifacts: %w", err)
	}
	return s, nil
}

func (s *Session) Artifacts() contracts.ArtifactStore {
	return contracts.ArtifactStore{
		Dir:          s.Project.ArtifactDir(),
		Placeholders: s.Network.IsInProcess(),
	}
}

// Deployer is created on first use so that it sees the final TxOptions.
func (s *Session) Deployer() *contracts.Deployer {
	if s.deployer == nil {
		s.deployer = s.Backend.Deployer(s.TxOptions, s.Artifacts())
	}
	return s.deployer
}

func (s *Session) Sender() *txsender.Sender {
	return s.Backend.Sender(s.TxOptions)
}

// Labels names the addresses shown in tx summaries.
func (s *Session) Labels(extra map[common.Address]string) util.Labels {
	labels := util.Labels{}
	if s.Account != nil {
		labels[s.Account.Address()] = "your account"
	}
	for addr, name := range extra {
		labels[addr] = name
	}
	return labels
}

// FundingAddress is --funding, then the project file, then
// DEFAULT_FUNDING_ADDRESS.
func (s *Session) FundingAddress() (common.Address, error) {
	str := strings.TrimSpace(config.FundingAddress)
	if str == "" {
		str = s.Project.FundingAddress(s.Network.GetName())
	}
	if str == "" {
		str = config.DEFAULT_FUNDING_ADDRESS
	}
	return util.ConvertToAddress(str)
}

// Funding binds the configured Funding contract. An in-process chain starts
// empty, so there a fresh Funding is deployed when nothing lives at the
// configured address.
func (s *Session) Funding(ctx context.Context, u ui.UI) (*contracts.Funding, error) {
	address, err := s.FundingAddress()
	if err != nil {
		return nil, err
	}
	funding, err := s.Deployer().Funding(address)
	if err == nil {
		return funding, nil
	}
	if !s.Network.IsInProcess() {
		return nil, fmt.Errorf("%w at %s on %s: %w", ErrNoFunding, address.Hex(), s.Network.GetName(), err)
	}
	if s.Account == nil {
		if err := s.ResolveAccount(u); err != nil {
			return nil, err
		}
	}
	priceFeed, err := s.Deployer().PriceFeedAddress(ctx, s.Network, s.Project, s.Account)
	if err != nil {
		return nil, err
	}
	funding, _, err = s.Deployer().DeployFunding(ctx, s.Account, priceFeed)
	if err != nil {
		return nil, err
	}
	u.Warn("Nothing is deployed at %s on the in-process %s chain, using a fresh Funding at %s.", address.Hex(), s.Network.GetName(), funding.Address.Hex())
	return funding, nil
}

// ResolveAccount sets Account from --from, asking u for keystore
// passphrases.
func (s *Session) ResolveAccount(u ui.UI) error {
	acc, err := accounts.GetAccount(s.Network, s.Project, config.From, func(path string) (string, error) {
		u.Info("Using keystore: %s", path)
		return u.AskSecret("Enter passphrase")
	})
	if err != nil {
		return err
	}
	s.Account = acc
	return nil
}

type sessionKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom retrieves the Session attached to cmd by a pre-run hook.
func SessionFrom(cmd *cobra.Command) (*Session, bool) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, false
	}
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok
}
