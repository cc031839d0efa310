package reader_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fundcommon "github.com/tranvictor/fundctl/common"
	"github.com/tranvictor/fundctl/devnet"
	"github.com/tranvictor/fundctl/util/reader"
)

var errDown = errors.New("node is down")

// downNode fails the reads the tests rely on and delegates the rest.
type downNode struct {
	reader.EthereumNode
	name string
}

func (n *downNode) NodeName() string {
	return n.name
}

func (n *downNode) ChainID() (*big.Int, error) {
	return nil, errDown
}

func (n *downNode) GetBalance(address string) (*big.Int, error) {
	return nil, errDown
}

func TestReadFirstSkipsFailingNodes(t *testing.T) {
	chain := devnet.New(devnet.WithName("dev"))
	r := reader.NewEthReader(&downNode{EthereumNode: chain, name: "down"}, chain)
	assert.Equal(t, []string{"dev", "down"}, r.NodeNames())

	chainID, err := r.ChainID()
	require.NoError(t, err)
	assert.Equal(t, int64(devnet.DefaultChainID), chainID.Int64())

	balance, err := r.GetBalance(devnet.DevAccounts()[0].Hex())
	require.NoError(t, err)
	assert.Equal(t, devnet.DefaultAccountBalance.String(), balance.String())
}

func TestReadFailsWhenEveryNodeFails(t *testing.T) {
	chain := devnet.New()
	r := reader.NewEthReader(
		&downNode{EthereumNode: chain, name: "a"},
		&downNode{EthereumNode: chain, name: "b"},
	)
	_, err := r.ChainID()
	assert.ErrorIs(t, err, errDown)
	assert.ErrorContains(t, err, "a (memory://devnet): node is down")
	assert.ErrorContains(t, err, "b (memory://devnet): node is down")

	_, err = reader.NewEthReader().ChainID()
	assert.ErrorContains(t, err, "no nodes configured")
}

func TestTxInfoFromHash(t *testing.T) {
	chain := devnet.New()
	r := reader.NewEthReader(chain)

	info, err := r.TxInfoFromHash(common.Hash{}.Hex())
	require.NoError(t, err)
	assert.Equal(t, fundcommon.TxStatusNotFound, info.Status)

	chainID, _ := chain.ChainID()
	to := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	tx := fundcommon.BuildExactTx(0, &to, big.NewInt(1), 21000, devnet.DefaultGasPrice, nil, nil, types.LegacyTxType, chainID)
	tx, err = types.SignTx(tx, types.LatestSignerForChainID(chainID), devnet.DevKey(0))
	require.NoError(t, err)
	require.NoError(t, chain.SendTransaction(tx))

	info, err = r.TxInfoFromHash(tx.Hash().Hex())
	require.NoError(t, err)
	assert.Equal(t, fundcommon.TxStatusDone, info.Status)
	assert.Equal(t, tx.Hash(), info.Tx.Hash())
	require.NotNil(t, info.Receipt)
	assert.Equal(t, "42000000000000", info.GasCost().String())
}

func TestReadContract(t *testing.T) {
	chain := devnet.New()
	code := []byte("\xfetest:MockV3Aggregator")
	chain.RegisterMockV3Aggregator(code)
	r := reader.NewEthReader(chain)

	mockABI := fundcommon.GetMockV3AggregatorABI()
	args, err := mockABI.Pack("", uint8(8), big.NewInt(200000000000))
	require.NoError(t, err)
	chainID, _ := chain.ChainID()
	tx := fundcommon.BuildContractCreationTx(0, nil, 500000, devnet.DefaultGasPrice, nil, append(code, args...), types.LegacyTxType, chainID)
	tx, err = types.SignTx(tx, types.LatestSignerForChainID(chainID), devnet.DevKey(0))
	require.NoError(t, err)
	require.NoError(t, chain.SendTransaction(tx))
	feed := contractAddress(t, r, tx.Hash().Hex())

	out, err := r.ReadContract(feed.Hex(), mockABI, "decimals")
	require.NoError(t, err)
	assert.Equal(t, uint8(8), out[0])

	_, err = r.ReadContract(common.HexToAddress("0x01").Hex(), mockABI, "decimals")
	assert.ErrorContains(t, err, "returned no data")
}

func contractAddress(t *testing.T, r *reader.EthReader, hash string) common.Address {
	t.Helper()
	receipt, err := r.TransactionReceipt(hash)
	require.NoError(t, err)
	return receipt.ContractAddress
}
