package contracts

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	fundcommon "github.com/tranvictor/fundctl/common"
	"github.com/tranvictor/fundctl/util/txsender"
)

const (
	DECIMALS = 8
)

// STARTING_PRICE is 2000 USD with DECIMALS decimals.
var STARTING_PRICE = big.NewInt(200000000000)

type RoundData struct {
	RoundID         *big.Int
	Answer          *big.Int
	StartedAt       *big.Int
	UpdatedAt       *big.Int
	AnsweredInRound *big.Int
}

// MockV3Aggregator is a price feed whose answer can be set at will.
type MockV3Aggregator struct {
	*BoundContract
}

func NewMockV3Aggregator(address common.Address, r Reader, s TxSender) *MockV3Aggregator {
	return &MockV3Aggregator{NewBoundContract(address, fundcommon.GetMockV3AggregatorABI(), r, s)}
}

func DeployMockV3Aggregator(ctx context.Context, r Reader, s TxSender, from txsender.Signer, art *Artifact, decimals uint8, answer *big.Int) (*MockV3Aggregator, *txsender.Result, error) {
	address, result, err := deploy(ctx, s, from, art, decimals, answer)
	if err != nil {
		return nil, result, err
	}
	return NewMockV3Aggregator(address, r, s), result, nil
}

func (m *MockV3Aggregator) Decimals() (uint8, error) {
	out, err := m.call("decimals")
	if err != nil {
		return 0, err
	}
	decimals, ok := out[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("decimals returned %T", out[0])
	}
	return decimals, nil
}

func (m *MockV3Aggregator) LatestRoundData() (RoundData, error) {
	out, err := m.call("latestRoundData")
	if err != nil {
		return RoundData{}, err
	}
	if len(out) != 5 {
		return RoundData{}, fmt.Errorf("latestRoundData returned %d values", len(out))
	}
	values := make([]*big.Int, 5)
	for i, v := range out {
		values[i] = abiBig(v)
	}
	return RoundData{
		RoundID:         values[0],
		Answer:          values[1],
		StartedAt:       values[2],
		UpdatedAt:       values[3],
		AnsweredInRound: values[4],
	}, nil
}

func (m *MockV3Aggregator) UpdateAnswer(ctx context.Context, from txsender.Signer, answer *big.Int) (*txsender.Result, error) {
	return m.transact(ctx, from, nil, "updateAnswer", answer)
}
