package contracts

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	fundcommon "github.com/tranvictor/fundctl/common"
	"github.com/tranvictor/fundctl/util/txsender"
)

// Funding talks to a deployed Funding contract through the fixed Funding
// ABI.
type Funding struct {
	*BoundContract
}

func NewFunding(address common.Address, r Reader, s TxSender) *Funding {
	return &Funding{NewBoundContract(address, fundcommon.GetFundingABI(), r, s)}
}

// DeployFunding deploys art with priceFeed as constructor argument.
func DeployFunding(ctx context.Context, r Reader, s TxSender, from txsender.Signer, art *Artifact, priceFeed common.Address) (*Funding, *txsender.Result, error) {
	address, result, err := deploy(ctx, s, from, art, priceFeed)
	if err != nil {
		return nil, result, err
	}
	return NewFunding(address, r, s), result, nil
}

// GetPrice is the ETH price in USD with 18 decimals.
func (f *Funding) GetPrice() (*big.Int, error) {
	return f.callBig("getPrice")
}

// Convert returns the wei worth usd dollars at the current price.
func (f *Funding) Convert(usd *big.Int) (*big.Int, error) {
	return f.callBig("convert", usd)
}

func (f *Funding) Funders(funder common.Address) (*big.Int, error) {
	return f.callBig("funders", funder)
}

func (f *Funding) Owner() (common.Address, error) {
	out, err := f.call("owner")
	if err != nil {
		return common.Address{}, err
	}
	owner, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("owner returned %T", out[0])
	}
	return owner, nil
}

// Donate pledges usd dollars sending value wei. A nil value sends exactly
// Convert(usd).
func (f *Funding) Donate(ctx context.Context, from txsender.Signer, usd *big.Int, value *big.Int) (*txsender.Result, error) {
	if value == nil {
		var err error
		value, err = f.Convert(usd)
		if err != nil {
			return nil, err
		}
	}
	return f.transact(ctx, from, value, "donate", usd)
}

func (f *Funding) Withdraw(ctx context.Context, from txsender.Signer) (*txsender.Result, error) {
	return f.transact(ctx, from, nil, "withdraw")
}
