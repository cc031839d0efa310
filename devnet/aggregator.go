package devnet

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	fundcommon "github.com/tranvictor/fundctl/common"
)

const (
	aggregatorDecimalsKey  = "decimals"
	aggregatorAnswerKey    = "latestAnswer"
	aggregatorRoundKey     = "latestRound"
	aggregatorTimestampKey = "latestTimestamp"
	aggregatorStartedKey   = "latestStartedAt"
)

type aggregatorProgram struct {
	abi *abi.ABI
}

// NewMockV3AggregatorFactory returns the constructor of a price feed mock
// taking (uint8 decimals, int256 initialAnswer).
func NewMockV3AggregatorFactory() Factory {
	p := &aggregatorProgram{abi: fundcommon.GetMockV3AggregatorABI()}
	return func(env *Env, args []interface{}) (Program, error) {
		decimals, ok := args[0].(uint8)
		if !ok {
			return nil, Revertf("invalid decimals")
		}
		if err := env.StoreBig(aggregatorDecimalsKey, big.NewInt(int64(decimals))); err != nil {
			return nil, err
		}
		if err := p.updateAnswer(env, args[1].(*big.Int)); err != nil {
			return nil, err
		}
		return p, nil
	}
}

func (c *Chain) RegisterMockV3Aggregator(code []byte) {
	c.Register(code, fundcommon.GetMockV3AggregatorABI(), NewMockV3AggregatorFactory())
}

func (p *aggregatorProgram) ABI() *abi.ABI {
	return p.abi
}

func (p *aggregatorProgram) Call(env *Env, method *abi.Method, args []interface{}) ([]interface{}, error) {
	switch method.Name {
	case "decimals":
		return []interface{}{uint8(env.LoadBig(aggregatorDecimalsKey).Uint64())}, nil
	case "latestRoundData":
		round := env.LoadBig(aggregatorRoundKey)
		return []interface{}{
			round,
			env.LoadBig(aggregatorAnswerKey),
			env.LoadBig(aggregatorStartedKey),
			env.LoadBig(aggregatorTimestampKey),
			round,
		}, nil
	case "updateAnswer":
		return nil, p.updateAnswer(env, args[0].(*big.Int))
	}
	return nil, Revertf("%s is not implemented", method.Name)
}

func (p *aggregatorProgram) updateAnswer(env *Env, answer *big.Int) error {
	now := new(big.Int).SetUint64(env.Now())
	round := env.LoadBig(aggregatorRoundKey)
	round.Add(round, common.Big1)
	for key, value := range map[string]*big.Int{
		aggregatorAnswerKey:    answer,
		aggregatorRoundKey:     round,
		aggregatorTimestampKey: now,
		aggregatorStartedKey:   now,
	} {
		if err := env.StoreBig(key, value); err != nil {
			return err
		}
	}
	return nil
}
