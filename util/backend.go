package util

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tranvictor/fundctl/contracts"
	"github.com/tranvictor/fundctl/devnet"
	"github.com/tranvictor/fundctl/networks"
	"github.com/tranvictor/fundctl/util/broadcaster"
	"github.com/tranvictor/fundctl/util/monitor"
	"github.com/tranvictor/fundctl/util/reader"
	"github.com/tranvictor/fundctl/util/txsender"
)

const (
	devnetMonitorInterval = 10 * time.Millisecond
	devnetLostTimeout     = time.Second
)

// Backend groups what is needed to read from and send to one network.
type Backend struct {
	Network     networks.Network
	Reader      *reader.EthReader
	Broadcaster *broadcaster.Broadcaster
	Monitor     *monitor.TxMonitor
	// Devnet is set for in-process networks only.
	Devnet *devnet.Chain

	logger *zap.Logger
}

// NewBackend connects to network's nodes, or starts an in-process chain when
// the network is one.
func NewBackend(network networks.Network, logger *zap.Logger) (*Backend, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("network", network.GetName()))

	if network.IsInProcess() {
		chain := devnet.New(
			devnet.WithName(network.GetName()),
			devnet.WithChainID(int64(network.GetChainID())),
			devnet.WithLogger(logger.Named("devnet")),
		)
		chain.RegisterFunding(contracts.DevFundingCode)
		chain.RegisterMockV3Aggregator(contracts.DevMockV3AggregatorCode)
		r := reader.NewEthReader(chain)
		return &Backend{
			Network:     network,
			Reader:      r,
			Broadcaster: broadcaster.NewBroadcaster(chain),
			Monitor:     monitor.NewTxMonitorWithInterval(r, devnetMonitorInterval, devnetLostTimeout),
			Devnet:      chain,
			logger:      logger,
		}, nil
	}

	nodes := networks.GetNodes(network)
	if len(nodes) == 0 {
		return nil, fmt.Errorf("network %s has no node, set %s", network.GetName(), network.GetNodeVariableName())
	}
	r := reader.NewEthReaderGeneric(nodes)
	interval := monitor.DefaultInterval
	if bt := network.GetBlockTime(); bt > 0 && bt/2 < interval {
		interval = bt / 2
	}
	if network.IsLocal() || network.IsForked() {
		interval = time.Second
	}
	return &Backend{
		Network:     network,
		Reader:      r,
		Broadcaster: broadcaster.NewGenericBroadcaster(nodes, logger.Named("broadcaster")),
		Monitor:     monitor.NewTxMonitorWithInterval(r, interval, monitor.DefaultLostTimeout),
		logger:      logger,
	}, nil
}

// RegisterArtifacts lets the in-process chain run compiled artifacts found
// in store, next to the built in placeholders. It does nothing on other
// networks.
func (b *Backend) RegisterArtifacts(store contracts.ArtifactStore) error {
	if b.Devnet == nil {
		return nil
	}
	for name, register := range map[string]func([]byte){
		contracts.FundingName:          b.Devnet.RegisterFunding,
		contracts.MockV3AggregatorName: b.Devnet.RegisterMockV3Aggregator,
	} {
		art, err := contracts.LoadArtifact(store.Path(name))
		if errors.Is(err, contracts.ErrArtifactNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		code, err := art.Code()
		if err != nil {
			return err
		}
		register(code)
		b.logger.Debug("registered artifact", zap.String("contract", name), zap.Int("size", len(code)))
	}
	return nil
}

func (b *Backend) Sender(opts txsender.Options) *txsender.Sender {
	return txsender.NewSender(b.Reader, b.Broadcaster, b.Monitor, opts, b.logger.Named("sender"))
}

func (b *Backend) Deployer(opts txsender.Options, store contracts.ArtifactStore) *contracts.Deployer {
	return contracts.NewDeployer(b.Reader, b.Sender(opts), store)
}
