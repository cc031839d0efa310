package devnet_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fundcommon "github.com/tranvictor/fundctl/common"
	"github.com/tranvictor/fundctl/devnet"
)

var (
	fundingCode = []byte("\xfetest:Funding")
	mockCode    = []byte("\xfetest:MockV3Aggregator")
)

func newChain(t *testing.T) *devnet.Chain {
	t.Helper()
	chain := devnet.New()
	chain.RegisterFunding(fundingCode)
	chain.RegisterMockV3Aggregator(mockCode)
	return chain
}

func signedTx(t *testing.T, chain *devnet.Chain, key int, to *common.Address, value *big.Int, gas uint64, data []byte) *types.Transaction {
	t.Helper()
	from := devnet.DevAccounts()[key]
	nonce, err := chain.GetPendingNonce(from.Hex())
	require.NoError(t, err)
	chainID, err := chain.ChainID()
	require.NoError(t, err)
	tx := fundcommon.BuildExactTx(nonce, to, value, gas, devnet.DefaultGasPrice, nil, data, types.LegacyTxType, chainID)
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), devnet.DevKey(key))
	require.NoError(t, err)
	return signed
}

func send(t *testing.T, chain *devnet.Chain, key int, to *common.Address, value *big.Int, gas uint64, data []byte) *types.Receipt {
	t.Helper()
	tx := signedTx(t, chain, key, to, value, gas, data)
	require.NoError(t, chain.SendTransaction(tx))
	receipt, err := chain.TransactionReceipt(tx.Hash().Hex())
	require.NoError(t, err)
	return receipt
}

func deploy(t *testing.T, chain *devnet.Chain, key int, code []byte, contractABI *abi.ABI, args ...interface{}) common.Address {
	t.Helper()
	packed, err := contractABI.Pack("", args...)
	require.NoError(t, err)
	receipt := send(t, chain, key, nil, nil, 500000, append(common.CopyBytes(code), packed...))
	require.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
	return receipt.ContractAddress
}

func call(t *testing.T, chain *devnet.Chain, to common.Address, contractABI *abi.ABI, method string, args ...interface{}) []interface{} {
	t.Helper()
	data, err := contractABI.Pack(method, args...)
	require.NoError(t, err)
	out, err := chain.CallContract(common.Address{}, to, nil, data)
	require.NoError(t, err)
	values, err := contractABI.Unpack(method, out)
	require.NoError(t, err)
	return values
}

func TestTransferChargesGasAndValue(t *testing.T) {
	chain := newChain(t)
	from := devnet.DevAccounts()[0]
	to := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	value := fundcommon.EthToWei(1)

	receipt := send(t, chain, 0, &to, value, 21000, nil)
	assert.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
	assert.Equal(t, uint64(21000), receipt.GasUsed)
	assert.Equal(t, uint64(1), receipt.BlockNumber.Uint64())

	balance, err := chain.GetBalance(to.Hex())
	require.NoError(t, err)
	assert.Equal(t, value, balance)

	spent := new(big.Int).Mul(big.NewInt(21000), devnet.DefaultGasPrice)
	spent.Add(spent, value)
	balance, err = chain.GetBalance(from.Hex())
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).Sub(devnet.DefaultAccountBalance, spent), balance)

	nonce, err := chain.GetMinedNonce(from.Hex())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), nonce)

	block, err := chain.CurrentBlock()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), block)
}

func TestSendRawTransaction(t *testing.T) {
	chain := newChain(t)
	to := common.HexToAddress("0x00000000000000000000000000000000000000bb")
	tx := signedTx(t, chain, 1, &to, big.NewInt(5), 21000, nil)
	raw, err := tx.MarshalBinary()
	require.NoError(t, err)

	require.NoError(t, chain.SendRawTransaction(context.Background(), hexutil.Encode(raw)))
	mined, pending, err := chain.TransactionByHash(tx.Hash().Hex())
	require.NoError(t, err)
	assert.False(t, pending)
	assert.Equal(t, tx.Hash(), mined.Hash())

	assert.ErrorIs(t, chain.SendRawTransaction(context.Background(), hexutil.Encode(raw)), devnet.ErrAlreadyKnown)
	assert.Error(t, chain.SendRawTransaction(context.Background(), "0x1234"))
}

func TestTxValidation(t *testing.T) {
	chain := newChain(t)
	to := common.HexToAddress("0x00000000000000000000000000000000000000cc")
	chainID, _ := chain.ChainID()
	signer := types.LatestSignerForChainID(chainID)

	send(t, chain, 0, &to, big.NewInt(1), 21000, nil)

	stale := fundcommon.BuildExactTx(0, &to, big.NewInt(2), 21000, devnet.DefaultGasPrice, nil, nil, types.LegacyTxType, chainID)
	stale, err := types.SignTx(stale, signer, devnet.DevKey(0))
	require.NoError(t, err)
	assert.ErrorIs(t, chain.SendTransaction(stale), devnet.ErrNonceTooLow)

	future := fundcommon.BuildExactTx(5, &to, big.NewInt(2), 21000, devnet.DefaultGasPrice, nil, nil, types.LegacyTxType, chainID)
	future, err = types.SignTx(future, signer, devnet.DevKey(0))
	require.NoError(t, err)
	assert.ErrorIs(t, chain.SendTransaction(future), devnet.ErrNonceTooHigh)

	assert.ErrorIs(t, chain.SendTransaction(signedTx(t, chain, 0, &to, nil, 20000, nil)), devnet.ErrIntrinsicGas)

	poor, err := crypto.GenerateKey()
	require.NoError(t, err)
	broke := fundcommon.BuildExactTx(0, &to, big.NewInt(1), 21000, devnet.DefaultGasPrice, nil, nil, types.LegacyTxType, chainID)
	broke, err = types.SignTx(broke, signer, poor)
	require.NoError(t, err)
	assert.ErrorIs(t, chain.SendTransaction(broke), devnet.ErrInsufficientFunds)

	chain.Fund(crypto.PubkeyToAddress(poor.PublicKey), fundcommon.EthToWei(1))
	assert.NoError(t, chain.SendTransaction(broke))
}

func TestFundingProgram(t *testing.T) {
	chain := newChain(t)
	fundingABI := fundcommon.GetFundingABI()
	mockABI := fundcommon.GetMockV3AggregatorABI()
	owner := devnet.DevAccounts()[0]
	donor := devnet.DevAccounts()[1]

	feed := deploy(t, chain, 0, mockCode, mockABI, uint8(8), big.NewInt(200000000000))
	funding := deploy(t, chain, 0, fundingCode, fundingABI, feed)
	assert.Equal(t, crypto.CreateAddress(owner, 1), funding)

	assert.Equal(t, uint8(8), call(t, chain, feed, mockABI, "decimals")[0])
	assert.Equal(t, owner, call(t, chain, funding, fundingABI, "owner")[0])

	price := call(t, chain, funding, fundingABI, "getPrice")[0].(*big.Int)
	assert.Equal(t, "2000000000000000000000", price.String())

	needed := call(t, chain, funding, fundingABI, "convert", big.NewInt(300))[0].(*big.Int)
	assert.Equal(t, "150000000000000000", needed.String())

	donate, err := fundingABI.Pack("donate", big.NewInt(300))
	require.NoError(t, err)

	tooLittle := new(big.Int).Sub(needed, common.Big1)
	receipt := send(t, chain, 1, &funding, tooLittle, 200000, donate)
	assert.Equal(t, types.ReceiptStatusFailed, receipt.Status)
	balance, _ := chain.GetBalance(funding.Hex())
	assert.Zero(t, balance.Sign())

	_, err = chain.EstimateGas(donor.Hex(), funding.Hex(), tooLittle, donate)
	assert.ErrorContains(t, err, "You need to spend more ETH!")

	for i := 0; i < 2; i++ {
		receipt = send(t, chain, 1, &funding, needed, 200000, donate)
		require.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
	}
	donated := call(t, chain, funding, fundingABI, "funders", donor)[0].(*big.Int)
	assert.Equal(t, new(big.Int).Mul(needed, big.NewInt(2)), donated)

	withdraw, err := fundingABI.Pack("withdraw")
	require.NoError(t, err)
	_, err = chain.EstimateGas(donor.Hex(), funding.Hex(), nil, withdraw)
	assert.ErrorContains(t, err, "only owner")
	receipt = send(t, chain, 1, &funding, nil, 200000, withdraw)
	assert.Equal(t, types.ReceiptStatusFailed, receipt.Status)

	before, _ := chain.GetBalance(owner.Hex())
	receipt = send(t, chain, 0, &funding, nil, 200000, withdraw)
	require.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
	after, _ := chain.GetBalance(owner.Hex())
	fee := new(big.Int).Mul(new(big.Int).SetUint64(receipt.GasUsed), devnet.DefaultGasPrice)
	assert.Equal(t, new(big.Int).Sub(new(big.Int).Add(before, donated), fee), after)

	balance, _ = chain.GetBalance(funding.Hex())
	assert.Zero(t, balance.Sign())
	assert.Zero(t, call(t, chain, funding, fundingABI, "funders", donor)[0].(*big.Int).Sign())
}

func TestMockAnswerUpdate(t *testing.T) {
	chain := newChain(t)
	fundingABI := fundcommon.GetFundingABI()
	mockABI := fundcommon.GetMockV3AggregatorABI()

	feed := deploy(t, chain, 0, mockCode, mockABI, uint8(8), big.NewInt(200000000000))
	funding := deploy(t, chain, 0, fundingCode, fundingABI, feed)

	update, err := mockABI.Pack("updateAnswer", big.NewInt(400000000000))
	require.NoError(t, err)
	receipt := send(t, chain, 2, &feed, nil, 100000, update)
	require.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)

	round := call(t, chain, feed, mockABI, "latestRoundData")
	assert.Equal(t, int64(2), round[0].(*big.Int).Int64())
	assert.Equal(t, int64(400000000000), round[1].(*big.Int).Int64())

	needed := call(t, chain, funding, fundingABI, "convert", big.NewInt(300))[0].(*big.Int)
	assert.Equal(t, "75000000000000000", needed.String())

	zero, err := mockABI.Pack("updateAnswer", big.NewInt(0))
	require.NoError(t, err)
	send(t, chain, 2, &feed, nil, 100000, zero)
	getPrice, err := fundingABI.Pack("getPrice")
	require.NoError(t, err)
	_, err = chain.CallContract(common.Address{}, funding, nil, getPrice)
	assert.ErrorIs(t, err, devnet.ErrExecutionReverted)
}

func TestUnknownCodeIsStored(t *testing.T) {
	chain := newChain(t)
	code := []byte{0x60, 0x80, 0x60, 0x40}
	receipt := send(t, chain, 0, nil, nil, 500000, code)
	require.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)

	stored, err := chain.GetCode(receipt.ContractAddress.Hex())
	require.NoError(t, err)
	assert.Equal(t, code, stored)

	getPrice, _ := fundcommon.GetFundingABI().Pack("getPrice")
	_, err = chain.CallContract(common.Address{}, receipt.ContractAddress, nil, getPrice)
	assert.ErrorIs(t, err, devnet.ErrExecutionReverted)
}
