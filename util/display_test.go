package util_test

import (
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tranvictor/fundctl/accounts"
	"github.com/tranvictor/fundctl/devnet"
	"github.com/tranvictor/fundctl/networks"
	"github.com/tranvictor/fundctl/ui"
	"github.com/tranvictor/fundctl/util"
	"github.com/tranvictor/fundctl/util/txsender"
)

func sendTransfer(t *testing.T, opts txsender.Options) (*txsender.Result, *accounts.Account, common.Address) {
	t.Helper()
	backend, err := util.NewBackend(networks.Development, nil)
	require.NoError(t, err)
	from := accounts.NewKeyAccount(devnet.DevKey(0), "development account 0")
	to := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	result, err := backend.Sender(opts).Send(context.Background(), from, &to, big.NewInt(500000000000000000), nil)
	require.NoError(t, err)
	return result, from, to
}

func TestDisplayMinedTx(t *testing.T) {
	result, from, to := sendTransfer(t, txsender.Options{})
	rec := ui.NewRecordingUI()

	d := util.DisplayTxResult(rec, result, networks.Development, util.Labels{from.Address(): "you"})

	assert.Equal(t, result.Tx.Hash().Hex(), d.Hash)
	assert.Equal(t, "✓ done", d.Status.Text)
	assert.Equal(t, from.AddressHex()+" (you)", d.From.Text)
	assert.Equal(t, to.Hex(), d.To.Text)
	assert.Equal(t, "0.5 ETH", d.Value)
	assert.Equal(t, "21000", d.GasUsed)
	assert.Equal(t, "0.000042 ETH", d.GasCost)
	assert.Equal(t, "2", d.GasPrice)
	assert.Equal(t, "1", d.Block)
	assert.Empty(t, d.Contract)
	assert.Empty(t, d.RawTx)

	rows := rec.TableRows()
	assert.Contains(t, rows, "Hash | "+d.Hash)
	assert.Contains(t, rows, "Value | 0.5 ETH")
	assert.Contains(t, rows, "Gas price | 2 gwei")
	assert.Contains(t, rows, "Block | 1")
	assert.Empty(t, rec.CriticalMessages())
}

func TestDisplayDryRunShowsRawTx(t *testing.T) {
	result, _, _ := sendTransfer(t, txsender.Options{DontBroadcast: true})
	rec := ui.NewRecordingUI()

	d := util.DisplayTxResult(rec, result, networks.Development, nil)

	assert.Equal(t, "not broadcasted", d.Status.Text)
	assert.Equal(t, result.RawTx, d.RawTx)
	assert.Empty(t, d.GasUsed)
	require.Len(t, rec.CriticalMessages(), 1)
	assert.True(t, strings.HasPrefix(rec.CriticalMessages()[0], "Signed tx: 0x"))
}

func TestBackendOnDevelopment(t *testing.T) {
	backend, err := util.NewBackend(networks.Development, nil)
	require.NoError(t, err)
	require.NotNil(t, backend.Devnet)

	chainID, err := backend.Reader.ChainID()
	require.NoError(t, err)
	assert.Equal(t, networks.DevelopmentChainID, chainID.Uint64())
	assert.Equal(t, []string{"development"}, backend.Reader.NodeNames())

	dynamic, err := backend.Reader.CheckDynamicFeeTxAvailable()
	require.NoError(t, err)
	assert.False(t, dynamic)
}

func TestBackendNeedsNodes(t *testing.T) {
	network := networks.NewGenericNetwork(networks.GenericNetworkConfig{
		Name:    "nowhere",
		ChainID: 99,
	})
	_, err := util.NewBackend(network, nil)
	assert.ErrorContains(t, err, "NOWHERE_NODE")

	t.Setenv("NOWHERE_NODE", "http://127.0.0.1:1")
	backend, err := util.NewBackend(network, nil)
	require.NoError(t, err)
	assert.Nil(t, backend.Devnet)
	assert.Equal(t, []string{"custom-node"}, backend.Reader.NodeNames())
}
