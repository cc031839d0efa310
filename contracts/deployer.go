package contracts

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/tranvictor/fundctl/config"
	"github.com/tranvictor/fundctl/networks"
	"github.com/tranvictor/fundctl/util/txsender"
)

var (
	ErrNoPriceFeed = errors.New("no eth_usd_pricefeed configured")
	// ErrDryRunMock is returned when a dry run would need a mock price feed
	// that is never sent, leaving Funding with a feed that has no code.
	ErrDryRunMock = errors.New("dry run needs eth_usd_pricefeed, the price feed mock can't be deployed without broadcasting")
)

// Deployer deploys and binds contracts on one network.
type Deployer struct {
	Reader    Reader
	Sender    TxSender
	Artifacts ArtifactStore

	mock *MockV3Aggregator
}

func NewDeployer(r Reader, s TxSender, artifacts ArtifactStore) *Deployer {
	return &Deployer{Reader: r, Sender: s, Artifacts: artifacts}
}

// DeployMocks deploys the price feed mock once, later calls return the same
// instance.
func (d *Deployer) DeployMocks(ctx context.Context, from txsender.Signer) (*MockV3Aggregator, error) {
	if d.mock != nil {
		return d.mock, nil
	}
	art, err := d.Artifacts.Load(MockV3AggregatorName)
	if err != nil {
		return nil, err
	}
	mock, result, err := DeployMockV3Aggregator(ctx, d.Reader, d.Sender, from, art, DECIMALS, STARTING_PRICE)
	if err != nil {
		return nil, err
	}
	if !result.Broadcasted {
		return nil, ErrDryRunMock
	}
	d.mock = mock
	return mock, nil
}

// PriceFeedAddress returns the network's eth_usd_pricefeed. Local networks
// without one get a freshly deployed mock.
func (d *Deployer) PriceFeedAddress(ctx context.Context, network networks.Network, project *config.Project, from txsender.Signer) (common.Address, error) {
	address, found, err := project.PriceFeed(network.GetName())
	if err != nil {
		return common.Address{}, err
	}
	if found {
		return address, nil
	}
	if !network.IsLocal() {
		return common.Address{}, fmt.Errorf("network %s: %w", network.GetName(), ErrNoPriceFeed)
	}
	mock, err := d.DeployMocks(ctx, from)
	if err != nil {
		return common.Address{}, fmt.Errorf("couldn't deploy the price feed mock: %w", err)
	}
	return mock.Address, nil
}

func (d *Deployer) DeployFunding(ctx context.Context, from txsender.Signer, priceFeed common.Address) (*Funding, *txsender.Result, error) {
	art, err := d.Artifacts.Load(FundingName)
	if err != nil {
		return nil, nil, err
	}
	return DeployFunding(ctx, d.Reader, d.Sender, from, art, priceFeed)
}

// Funding binds an already deployed Funding contract after checking there
// is code at address.
func (d *Deployer) Funding(address common.Address) (*Funding, error) {
	code, err := d.Reader.GetCode(address.Hex())
	if err != nil {
		return nil, err
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("there is no contract at %s", address.Hex())
	}
	return NewFunding(address, d.Reader, d.Sender), nil
}
