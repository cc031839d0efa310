package cmd

import (
	"context"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tranvictor/fundctl/accounts"
	cmdutil "github.com/tranvictor/fundctl/cmd/util"
	"github.com/tranvictor/fundctl/config"
	"github.com/tranvictor/fundctl/contracts"
	"github.com/tranvictor/fundctl/devnet"
	"github.com/tranvictor/fundctl/networks"
	"github.com/tranvictor/fundctl/ui"
	"github.com/tranvictor/fundctl/util/txsender"
)

// ganache account 1
const testKey = "6cbed15c793ce57650b9877cf6fa156fbef513c4e6134f022a85b1ffdd59b2a1"

func devSession(t *testing.T) *cmdutil.Session {
	t.Helper()
	s, err := cmdutil.NewSession(config.DefaultProject(), networks.Development, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.ResolveAccount(ui.NewRecordingUI()))
	return s
}

func TestDeployPrintsAccountFeedAndPrice(t *testing.T) {
	s := devSession(t)
	u := ui.NewRecordingUI()

	funding, err := runDeploy(context.Background(), u, s)
	require.NoError(t, err)
	require.NotNil(t, funding)

	owner := devnet.DevAccounts()[0]
	infos := u.InfoMessages()
	require.GreaterOrEqual(t, len(infos), 4)
	assert.Equal(t, owner.Hex(), infos[0])
	assert.Equal(t, crypto.CreateAddress(owner, 0).Hex(), infos[1])
	assert.Equal(t, crypto.CreateAddress(owner, 1), funding.Address)
	assert.Contains(t, infos, "2000000000000000000000")
	assert.Contains(t, infos, "1 ETH = 2000 USD")
	assert.True(t, u.HasMessage("Funding deployed at "+funding.Address.Hex()))
	assert.False(t, u.HasMessage("verify is set"))

	price, err := funding.GetPrice()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, price.Cmp(big.NewInt(120000000000)), 0)
}

func TestDeployDryRunDoesNotDeploy(t *testing.T) {
	s := devSession(t)
	s.Project.Networks.Networks["development"] = config.NetworkSettings{
		EthUSDPriceFeed: "0x0000000000000000000000000000000000000001",
	}
	s.TxOptions.DontBroadcast = true
	u := ui.NewRecordingUI()

	funding, err := runDeploy(context.Background(), u, s)
	require.NoError(t, err)
	assert.Nil(t, funding)
	assert.False(t, u.HasMessage("Funding deployed at"))
	assert.True(t, u.HasMessage("Signed tx: 0x"))

	nonce, err := s.Backend.Reader.GetMinedNonce(s.Account.AddressHex())
	require.NoError(t, err)
	assert.Zero(t, nonce)
}

func TestDeployDryRunWithoutPriceFeed(t *testing.T) {
	s := devSession(t)
	s.TxOptions.DontBroadcast = true
	u := ui.NewRecordingUI()

	funding, err := runDeploy(context.Background(), u, s)
	require.ErrorIs(t, err, contracts.ErrDryRunMock)
	assert.Nil(t, funding)
	assert.False(t, u.HasMessage("Signed tx: 0x"))
}

func TestDonateAndWithdraw(t *testing.T) {
	s := devSession(t)
	u := ui.NewRecordingUI()

	require.NoError(t, runDonateAndWithdraw(context.Background(), u, s, big.NewInt(DEFAULT_DONATION_USD)))

	infos := u.InfoMessages()
	assert.True(t, u.HasMessage("Nothing is deployed at "+config.DEFAULT_FUNDING_ADDRESS))
	require.GreaterOrEqual(t, len(infos), 3)
	assert.True(t, strings.HasPrefix(infos[0], "<Funding Contract '0x"))
	assert.Equal(t, "The donation amount is $ 300 which is 150000000000000000 WEI", infos[1])
	assert.Equal(t, "Funding....", infos[2])

	address := strings.TrimSuffix(strings.TrimPrefix(infos[0], "<Funding Contract '"), "'>")
	funding, err := s.Deployer().Funding(common.HexToAddress(address))
	require.NoError(t, err)
	donated, err := funding.Funders(s.Account.Address())
	require.NoError(t, err)
	assert.Zero(t, donated.Sign())
	balance, err := funding.Balance()
	require.NoError(t, err)
	assert.Zero(t, balance.Sign())
}

func TestReadCommands(t *testing.T) {
	s := devSession(t)
	u := ui.NewRecordingUI()
	ctx := context.Background()

	require.NoError(t, runPrice(ctx, u, s))
	assert.True(t, u.HasMessage("getPrice: 2000000000000000000000"))
	assert.True(t, u.HasMessage("USD: 2000"))

	wei, err := runConvert(ctx, u, s, big.NewInt(1200))
	require.NoError(t, err)
	assert.Equal(t, "600000000000000000", wei.String())
	assert.LessOrEqual(t, wei.Cmp(big.NewInt(972530640000000000)), 0)
	assert.True(t, u.HasMessage("$ 1200 = 600000000000000000 WEI (0.6 ETH)"))

	require.NoError(t, runOwner(ctx, u, s))
	assert.True(t, u.HasMessage("Owner: "+s.Account.AddressHex()))
	assert.True(t, u.HasMessage("Balance: 0 ETH"))
}

func TestDonateThenFunders(t *testing.T) {
	s := devSession(t)
	u := ui.NewRecordingUI()
	ctx := context.Background()

	result, err := runDonate(ctx, u, s, big.NewInt(1200), nil)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Contains(t, u.CriticalMessages(), "Donating $ 1200 with 600000000000000000 WEI")

	amount, err := runFunders(ctx, u, s, s.Account.Address())
	require.NoError(t, err)
	assert.Equal(t, "600000000000000000", amount.String())
	assert.True(t, u.HasMessage(s.Account.AddressHex()+" donated 0.6 ETH"))
}

func TestDonateTooLittle(t *testing.T) {
	s := devSession(t)
	u := ui.NewRecordingUI()

	_, err := runDonate(context.Background(), u, s, big.NewInt(300), big.NewInt(1))
	require.ErrorIs(t, err, txsender.ErrGasEstimateFail)
	assert.ErrorContains(t, err, "You need to spend more ETH!")
}

func TestWithdrawByNonOwner(t *testing.T) {
	s := devSession(t)
	u := ui.NewRecordingUI()
	ctx := context.Background()

	_, err := s.Funding(ctx, u)
	require.NoError(t, err)

	s.Account = accounts.NewKeyAccount(devnet.DevKey(1), "development account 1")
	_, err = runWithdraw(ctx, u, s)
	require.ErrorIs(t, err, txsender.ErrGasEstimateFail)
	assert.ErrorContains(t, err, "only owner")
}

func TestAccount(t *testing.T) {
	s := devSession(t)
	u := ui.NewRecordingUI()

	require.NoError(t, runAccount(u, s))
	assert.True(t, u.HasMessage("Account: "+devnet.DevAccounts()[0].Hex()))
	assert.True(t, u.HasMessage("Balance: 100 ETH"))
}

func TestFundingAddressPrecedence(t *testing.T) {
	s := devSession(t)
	t.Cleanup(func() { config.FundingAddress = "" })

	address, err := s.FundingAddress()
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(config.DEFAULT_FUNDING_ADDRESS), address)

	s.Project.Funding.Address = "0x00000000000000000000000000000000000000aa"
	address, err = s.FundingAddress()
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x00000000000000000000000000000000000000aa"), address)

	s.Project.Networks.Networks["development"] = config.NetworkSettings{Funding: "0x00000000000000000000000000000000000000bb"}
	address, err = s.FundingAddress()
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x00000000000000000000000000000000000000bb"), address)

	config.FundingAddress = "0x00000000000000000000000000000000000000cc"
	address, err = s.FundingAddress()
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x00000000000000000000000000000000000000cc"), address)

	config.FundingAddress = "not an address"
	_, err = s.FundingAddress()
	assert.Error(t, err)
}

func TestWalletImport(t *testing.T) {
	dir := t.TempDir()
	u := ui.NewRecordingUI("0x"+testKey, "secret", "secret")

	path, err := runWalletImport(u, dir, keystore.LightScryptN, keystore.LightScryptP)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))

	expected, _, err := accounts.PrivateKeyFromHex(testKey)
	require.NoError(t, err)
	address, err := accounts.VerifyKeystore(path)
	require.NoError(t, err)
	assert.Equal(t, expected, address)
	assert.True(t, u.HasMessage("Stored encrypted private key of "+expected))

	acc, err := accounts.NewKeystoreAccount(path, "secret")
	require.NoError(t, err)
	assert.Equal(t, expected, acc.AddressHex())

	project := config.DefaultProject()
	project.Wallets.Keystores = map[string]string{
		"deployer": path,
		"broken":   filepath.Join(dir, "missing.json"),
	}
	list := ui.NewRecordingUI()
	runWalletList(list, project)
	assert.Contains(t, list.InfoMessages(), "You have 2 keystore wallets:")
	rows := list.TableRows()
	require.Len(t, rows, 2)
	assert.True(t, strings.HasPrefix(rows[0], "broken | "))
	assert.Equal(t, "deployer | "+expected+" | "+path, rows[1])
}

func TestWalletImportRejectsBadInput(t *testing.T) {
	dir := t.TempDir()

	_, err := runWalletImport(ui.NewRecordingUI(testKey, "secret", "other"), dir, keystore.LightScryptN, keystore.LightScryptP)
	assert.ErrorContains(t, err, "passcodes don't match")

	_, err = runWalletImport(ui.NewRecordingUI("zz"), dir, keystore.LightScryptN, keystore.LightScryptP)
	assert.ErrorContains(t, err, "not a private key")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNetworkAdd(t *testing.T) {
	dir := t.TempDir()
	u := ui.NewRecordingUI()

	_, err := runNetworkAdd(u, dir, "  ", false)
	assert.ErrorContains(t, err, "--json is required")

	raw := `{"name": "fundctl-cmd-test", "chain_id": 31999, "native_token_symbol": "ETH", "native_token_decimal": 18, "node_variable_name": "FUNDCTL_CMD_TEST_NODE", "default_nodes": {"local": "http://127.0.0.1:8545"}, "local": true}`
	n, err := runNetworkAdd(u, dir, raw, false)
	require.NoError(t, err)
	assert.Equal(t, uint64(31999), n.GetChainID())
	assert.FileExists(t, filepath.Join(dir, "fundctl-cmd-test.json"))
	assert.True(t, u.HasMessage("Network fundctl-cmd-test with chain ID 31999 added"))

	registered, err := networks.GetNetwork("fundctl-cmd-test")
	require.NoError(t, err)
	assert.True(t, registered.IsLocal())

	_, err = runNetworkAdd(u, dir, raw, false)
	assert.ErrorContains(t, err, "already exists, use --force")

	file := filepath.Join(t.TempDir(), "net.json")
	require.NoError(t, os.WriteFile(file, []byte(strings.Replace(raw, "31999", "32000", 1)), 0644))
	n, err = runNetworkAdd(u, dir, file, true)
	require.NoError(t, err)
	assert.Equal(t, uint64(32000), n.GetChainID())
	assert.True(t, u.HasMessage("We will replace it"))

	_, err = runNetworkAdd(u, dir, `{"chain_id": 1}`, false)
	assert.ErrorContains(t, err, "not a valid network config")
}

func TestNetworkList(t *testing.T) {
	u := ui.NewRecordingUI()
	runNetworkList(u, config.DefaultProject(), networks.Development)

	rows := u.TableRows()
	require.NotEmpty(t, rows)
	found := false
	for _, row := range rows {
		if strings.HasPrefix(row, "* development | 1337 | in-process") {
			found = true
		}
	}
	assert.True(t, found, rows)
}
