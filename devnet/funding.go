package devnet

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	fundcommon "github.com/tranvictor/fundctl/common"
)

const (
	fundingOwnerKey     = "owner"
	fundingPriceFeedKey = "priceFeed"
	fundingCountKey     = "funders.length"
)

func fundingAmountKey(addr common.Address) string {
	return fmt.Sprintf("funders[%s]", addr.Hex())
}

func fundingListKey(i uint64) string {
	return fmt.Sprintf("funders.list[%d]", i)
}

// fundingProgram mirrors the Funding contract: donations must be worth at
// least the pledged USD amount at the price feed's latest answer, and only
// the deployer can withdraw.
type fundingProgram struct {
	abi       *abi.ABI
	oracleABI *abi.ABI
}

// NewFundingFactory returns the constructor of the Funding program. It
// takes the price feed address.
func NewFundingFactory() Factory {
	p := &fundingProgram{
		abi:       fundcommon.GetFundingABI(),
		oracleABI: fundcommon.GetMockV3AggregatorABI(),
	}
	return func(env *Env, args []interface{}) (Program, error) {
		priceFeed, ok := args[0].(common.Address)
		if !ok {
			return nil, Revertf("invalid price feed address")
		}
		if err := env.StoreAddress(fundingOwnerKey, env.Caller); err != nil {
			return nil, err
		}
		if err := env.StoreAddress(fundingPriceFeedKey, priceFeed); err != nil {
			return nil, err
		}
		return p, nil
	}
}

// RegisterFunding runs contract creations starting with code as Funding.
func (c *Chain) RegisterFunding(code []byte) {
	c.Register(code, fundcommon.GetFundingABI(), NewFundingFactory())
}

func (p *fundingProgram) ABI() *abi.ABI {
	return p.abi
}

func (p *fundingProgram) Call(env *Env, method *abi.Method, args []interface{}) ([]interface{}, error) {
	switch method.Name {
	case "getPrice":
		price, err := p.price(env)
		if err != nil {
			return nil, err
		}
		return []interface{}{price}, nil
	case "convert":
		amount, err := p.convert(env, args[0].(*big.Int))
		if err != nil {
			return nil, err
		}
		return []interface{}{amount}, nil
	case "donate":
		return nil, p.donate(env, args[0].(*big.Int))
	case "withdraw":
		return nil, p.withdraw(env)
	case "funders":
		return []interface{}{env.LoadBig(fundingAmountKey(args[0].(common.Address)))}, nil
	case "owner":
		return []interface{}{env.LoadAddress(fundingOwnerKey)}, nil
	}
	return nil, Revertf("%s is not implemented", method.Name)
}

// price is the latest answer of the price feed scaled to 18 decimals.
func (p *fundingProgram) price(env *Env) (*big.Int, error) {
	data, err := p.oracleABI.Pack("latestRoundData")
	if err != nil {
		return nil, err
	}
	out, err := env.StaticCall(env.LoadAddress(fundingPriceFeedKey), data)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, Revertf("price feed returned no data")
	}
	values, err := p.oracleABI.Unpack("latestRoundData", out)
	if err != nil {
		return nil, Revertf("invalid price feed answer: %s", err)
	}
	answer := values[1].(*big.Int)
	if answer.Sign() <= 0 {
		return nil, Revertf("invalid price")
	}
	return new(big.Int).Mul(answer, fundcommon.Big1e10), nil
}

// convert returns how much wei usdAmount dollars are worth.
func (p *fundingProgram) convert(env *Env, usdAmount *big.Int) (*big.Int, error) {
	price, err := p.price(env)
	if err != nil {
		return nil, err
	}
	result := new(big.Int).Mul(usdAmount, fundcommon.Big1e36)
	return result.Div(result, price), nil
}

func (p *fundingProgram) donate(env *Env, usdAmount *big.Int) error {
	minimum, err := p.convert(env, usdAmount)
	if err != nil {
		return err
	}
	if env.Value.Cmp(minimum) < 0 {
		return Revertf("You need to spend more ETH!")
	}
	key := fundingAmountKey(env.Caller)
	current := env.LoadBig(key)
	if current.Sign() == 0 {
		count := env.LoadBig(fundingCountKey)
		if err := env.StoreAddress(fundingListKey(count.Uint64()), env.Caller); err != nil {
			return err
		}
		if err := env.StoreBig(fundingCountKey, count.Add(count, common.Big1)); err != nil {
			return err
		}
	}
	return env.StoreBig(key, current.Add(current, env.Value))
}

func (p *fundingProgram) withdraw(env *Env) error {
	owner := env.LoadAddress(fundingOwnerKey)
	if env.Caller != owner {
		return Revertf("only owner")
	}
	if err := env.Transfer(owner, env.Balance(env.Self)); err != nil {
		return err
	}
	count := env.LoadBig(fundingCountKey).Uint64()
	for i := uint64(0); i < count; i++ {
		funder := env.LoadAddress(fundingListKey(i))
		if err := env.StoreBig(fundingAmountKey(funder), common.Big0); err != nil {
			return err
		}
		if err := env.Store(fundingListKey(i), common.Hash{}); err != nil {
			return err
		}
	}
	return env.StoreBig(fundingCountKey, common.Big0)
}
