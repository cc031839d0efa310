package broadcaster

import (
	"context"

	"github.com/ethereum/go-ethereum/rpc"
)

type rpcNode struct {
	name   string
	client *rpc.Client
}

func (n *rpcNode) NodeName() string {
	return n.name
}

func (n *rpcNode) SendRawTransaction(ctx context.Context, data string) error {
	return n.client.CallContext(ctx, nil, "eth_sendRawTransaction", data)
}
