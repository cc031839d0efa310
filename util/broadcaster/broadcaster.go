package broadcaster

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"

	"github.com/tranvictor/fundctl/common"
)

const TIMEOUT time.Duration = 4 * time.Second

// Node accepts hex encoded signed transactions.
type Node interface {
	NodeName() string
	SendRawTransaction(ctx context.Context, data string) error
}

// Broadcaster takes a signed tx and try to broadcast it to all
// nodes that it manages as fast as possible. It reports the tx as
// broadcasted as soon as at least one node accepts it.
type Broadcaster struct {
	nodes map[string]Node
}

func NewBroadcaster(nodes ...Node) *Broadcaster {
	ns := map[string]Node{}
	for _, n := range nodes {
		ns[n.NodeName()] = n
	}
	return &Broadcaster{nodes: ns}
}

// NewGenericBroadcaster dials every JSON-RPC endpoint. Endpoints that can't
// be dialed are skipped and logged.
func NewGenericBroadcaster(nodes map[string]string, logger *zap.Logger) *Broadcaster {
	ns := []Node{}
	for name, url := range nodes {
		client, err := rpc.Dial(url)
		if err != nil {
			logger.Warn("couldn't connect to node", zap.String("node", name), zap.String("url", url), zap.Error(err))
			continue
		}
		ns = append(ns, &rpcNode{name: name, client: client})
	}
	return NewBroadcaster(ns...)
}

func (b *Broadcaster) NodeNames() []string {
	result := []string{}
	for name := range b.nodes {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

func (b *Broadcaster) BroadcastTx(tx *types.Transaction) (string, bool, error) {
	data, err := tx.MarshalBinary()
	if err != nil {
		return "", false, fmt.Errorf("tx is not valid, couldn't encode it: %w", err)
	}
	return b.Broadcast(hexutil.Encode(data))
}

// Broadcast sends data, the hex encoding of a signed tx, to every node.
func (b *Broadcaster) Broadcast(data string) (string, bool, error) {
	hash := common.RawTxToHash(data)
	if len(b.nodes) == 0 {
		return hash, false, fmt.Errorf("no nodes to broadcast to")
	}
	timeout, cancel := context.WithTimeout(context.Background(), TIMEOUT)
	defer cancel()

	failed := common.RunParallel(b.NodeNames(), func(name string) error {
		return b.nodes[name].SendRawTransaction(timeout, data)
	})
	// partial failures are reported along with a successful broadcast
	return hash, len(failed) < len(b.nodes), common.JoinErrors(failed)
}
