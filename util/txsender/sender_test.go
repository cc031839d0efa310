package txsender_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tranvictor/fundctl/accounts"
	fundcommon "github.com/tranvictor/fundctl/common"
	"github.com/tranvictor/fundctl/devnet"
	"github.com/tranvictor/fundctl/networks"
	"github.com/tranvictor/fundctl/util"
	"github.com/tranvictor/fundctl/util/txsender"
)

var to = common.HexToAddress("0x00000000000000000000000000000000000000aa")

func newBackend(t *testing.T) *util.Backend {
	t.Helper()
	backend, err := util.NewBackend(networks.Development, nil)
	require.NoError(t, err)
	return backend
}

func devAccount(i int) *accounts.Account {
	return accounts.NewKeyAccount(devnet.DevKey(i), "development account")
}

func TestSendWaitsForReceipt(t *testing.T) {
	backend := newBackend(t)
	from := devAccount(0)

	result, err := backend.Sender(txsender.Options{}).Send(context.Background(), from, &to, big.NewInt(1000), nil)
	require.NoError(t, err)
	assert.True(t, result.Broadcasted)
	assert.Equal(t, fundcommon.TxStatusDone, result.Info.Status)
	require.NotNil(t, result.Receipt())
	assert.Equal(t, uint64(21000), result.Tx.Gas())
	assert.Equal(t, uint8(types.LegacyTxType), result.Tx.Type())
	assert.Equal(t, devnet.DefaultGasPrice.String(), result.Tx.GasPrice().String())

	sender, err := types.Sender(types.LatestSignerForChainID(result.Tx.ChainId()), result.Tx)
	require.NoError(t, err)
	assert.Equal(t, from.Address(), sender)

	result, err = backend.Sender(txsender.Options{}).Send(context.Background(), from, &to, big.NewInt(1000), nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), result.Tx.Nonce())
}

func TestSendOverrides(t *testing.T) {
	backend := newBackend(t)
	nonce := uint64(0)
	opts := txsender.Options{
		GasPriceGwei:      3,
		ExtraGasPriceGwei: 1,
		GasLimit:          30000,
		ExtraGasLimit:     5000,
		Nonce:             &nonce,
		DontWait:          true,
	}

	result, err := backend.Sender(opts).Send(context.Background(), devAccount(1), &to, nil, nil)
	require.NoError(t, err)
	assert.True(t, result.Broadcasted)
	assert.Nil(t, result.Receipt())
	assert.Equal(t, uint64(35000), result.Tx.Gas())
	assert.Equal(t, "4000000000", result.Tx.GasPrice().String())
	assert.Equal(t, int64(0), result.Tx.Value().Int64())
}

func TestSendDynamicFee(t *testing.T) {
	backend := newBackend(t)
	opts := txsender.Options{ForceDynamic: true, GasPriceGwei: 1, TipGwei: 2}

	result, err := backend.Sender(opts).Send(context.Background(), devAccount(2), &to, big.NewInt(1), nil)
	require.NoError(t, err)
	assert.Equal(t, uint8(types.DynamicFeeTxType), result.Tx.Type())
	assert.Equal(t, "2000000000", result.Tx.GasTipCap().String())
	// the fee cap is raised to the tip
	assert.Equal(t, "2000000000", result.Tx.GasFeeCap().String())

	_, err = backend.Sender(txsender.Options{ForceDynamic: true, ForceLegacy: true}).Send(context.Background(), devAccount(2), &to, nil, nil)
	assert.Error(t, err)
}

func TestSendDryRun(t *testing.T) {
	backend := newBackend(t)
	from := devAccount(0)

	result, err := backend.Sender(txsender.Options{DontBroadcast: true}).Send(context.Background(), from, &to, big.NewInt(1), nil)
	require.NoError(t, err)
	assert.False(t, result.Broadcasted)
	assert.Equal(t, fundcommon.TxStatusPending, result.Info.Status)

	raw, err := result.Tx.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, fundcommon.RawTxToHash(result.RawTx), result.Tx.Hash().Hex())
	assert.NotEmpty(t, raw)

	nonce, err := backend.Reader.GetMinedNonce(from.AddressHex())
	require.NoError(t, err)
	assert.Zero(t, nonce)
}

func TestSendNotBroadcasted(t *testing.T) {
	backend := newBackend(t)
	nonce := uint64(9)
	_, err := backend.Sender(txsender.Options{Nonce: &nonce}).Send(context.Background(), devAccount(0), &to, big.NewInt(1), nil)
	assert.ErrorIs(t, err, txsender.ErrNotBroadcasted)
	assert.ErrorIs(t, err, devnet.ErrNonceTooHigh)
}

func TestSendEstimateFails(t *testing.T) {
	backend := newBackend(t)
	tooMuch := new(big.Int).Mul(devnet.DefaultAccountBalance, big.NewInt(2))
	_, err := backend.Sender(txsender.Options{}).Send(context.Background(), devAccount(0), &to, tooMuch, nil)
	assert.ErrorIs(t, err, txsender.ErrGasEstimateFail)
}

type failingSigner struct {
	address common.Address
}

func (s failingSigner) Address() common.Address {
	return s.address
}

func (s failingSigner) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	return nil, errors.New("device locked")
}

func TestSendSignError(t *testing.T) {
	backend := newBackend(t)
	_, err := backend.Sender(txsender.Options{}).Send(context.Background(), failingSigner{devnet.DevAccounts()[0]}, &to, nil, nil)
	assert.ErrorContains(t, err, "device locked")
}

func TestBuildContractCreation(t *testing.T) {
	backend := newBackend(t)
	s := backend.Sender(txsender.Options{})
	assert.Equal(t, txsender.Options{}, s.Options())

	tx, chainID, err := s.Build(devnet.DevAccounts()[0], nil, nil, []byte{0x60, 0x80})
	require.NoError(t, err)
	assert.Nil(t, tx.To())
	assert.Equal(t, networks.DevelopmentChainID, chainID.Uint64())
	// creation intrinsic gas plus two non zero bytes and execution
	assert.Equal(t, uint64(53000+32+120000), tx.Gas())
}
