package devnet

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
)

const (
	DefaultChainID = 1337

	txGas            uint64 = 21000
	txCreationGas    uint64 = 53000
	txDataZeroGas    uint64 = 4
	txDataNonZeroGas uint64 = 16
	callExecGas      uint64 = 30000
	createExecGas    uint64 = 120000
	blockGasLimit    uint64 = 30000000
	maxCallDepth            = 64
)

var (
	ErrNonceTooLow       = errors.New("nonce too low")
	ErrNonceTooHigh      = errors.New("nonce too high")
	ErrInsufficientFunds = errors.New("insufficient funds for gas * price + value")
	ErrIntrinsicGas      = errors.New("intrinsic gas too low")
	ErrGasLimit          = errors.New("exceeds block gas limit")
	ErrTipAboveFeeCap    = errors.New("max priority fee per gas higher than max fee per gas")
	ErrAlreadyKnown      = errors.New("already known")
)

var (
	DefaultGasPrice       = big.NewInt(2000000000)
	DefaultAccountBalance = new(big.Int).Mul(big.NewInt(100), big.NewInt(1000000000000000000))
)

type Option func(*Chain)

func WithName(name string) Option {
	return func(c *Chain) { c.name = name }
}

func WithChainID(id int64) Option {
	return func(c *Chain) { c.chainID = big.NewInt(id) }
}

func WithGasPrice(wei *big.Int) Option {
	return func(c *Chain) { c.gasPrice = new(big.Int).Set(wei) }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Chain) { c.logger = logger }
}

func WithClock(clock func() time.Time) Option {
	return func(c *Chain) { c.clock = clock }
}

// WithBalance overrides the genesis balance of addr.
func WithBalance(addr common.Address, wei *big.Int) Option {
	return func(c *Chain) { c.st.balances[addr] = new(big.Int).Set(wei) }
}

// Chain is an in-process development chain. Every accepted transaction is
// mined immediately in its own block. Contracts run as Go programs that are
// registered against their creation bytecode, see Register.
//
// Chain implements reader.EthereumNode and broadcaster.Node.
type Chain struct {
	mu       sync.Mutex
	name     string
	chainID  *big.Int
	signer   types.Signer
	gasPrice *big.Int
	st       *state
	registry []registration
	headers  []*types.Header
	txs      map[common.Hash]*types.Transaction
	receipts map[common.Hash]*types.Receipt
	logger   *zap.Logger
	clock    func() time.Time
}

// New creates a chain whose development accounts (see DevKeys) hold
// DefaultAccountBalance each.
func New(opts ...Option) *Chain {
	c := &Chain{
		name:     "devnet",
		chainID:  big.NewInt(DefaultChainID),
		gasPrice: new(big.Int).Set(DefaultGasPrice),
		st:       newState(),
		txs:      map[common.Hash]*types.Transaction{},
		receipts: map[common.Hash]*types.Receipt{},
		logger:   zap.NewNop(),
		clock:    time.Now,
	}
	for _, addr := range DevAccounts() {
		c.st.balances[addr] = new(big.Int).Set(DefaultAccountBalance)
	}
	for _, opt := range opts {
		opt(c)
	}
	c.signer = types.LatestSignerForChainID(c.chainID)
	c.headers = []*types.Header{{
		Number:     big.NewInt(0),
		Time:       c.now(),
		GasLimit:   blockGasLimit,
		Difficulty: big.NewInt(0),
	}}
	return c
}

// Register makes contract creations whose init data starts with code run
// factory as constructor and the returned program afterwards. The bytes
// following code are the ABI encoded constructor arguments.
func (c *Chain) Register(code []byte, contractABI *abi.ABI, factory Factory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registry = append(c.registry, registration{
		code:    common.CopyBytes(code),
		abi:     contractABI,
		factory: factory,
	})
}

func (c *Chain) now() uint64 {
	return uint64(c.clock().Unix())
}

func (c *Chain) head() *types.Header {
	return c.headers[len(c.headers)-1]
}

func (c *Chain) NodeName() string {
	return c.name
}

func (c *Chain) NodeURL() string {
	return "memory://" + c.name
}

func (c *Chain) ChainID() (*big.Int, error) {
	return new(big.Int).Set(c.chainID), nil
}

func intrinsicGas(data []byte, creation bool) uint64 {
	gas := txGas
	if creation {
		gas = txCreationGas
	}
	for _, b := range data {
		if b == 0 {
			gas += txDataZeroGas
		} else {
			gas += txDataNonZeroGas
		}
	}
	return gas
}

// effectiveGasPrice is the price paid per gas. Blocks carry no base fee so a
// dynamic fee tx pays its tip.
func effectiveGasPrice(tx *types.Transaction) *big.Int {
	if tx.GasTipCap().Cmp(tx.GasFeeCap()) < 0 {
		return new(big.Int).Set(tx.GasTipCap())
	}
	return new(big.Int).Set(tx.GasFeeCap())
}

func (c *Chain) SendRawTransaction(ctx context.Context, data string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := hexutil.Decode(data)
	if err != nil {
		return fmt.Errorf("invalid raw tx: %w", err)
	}
	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(raw); err != nil {
		return fmt.Errorf("invalid raw tx: %w", err)
	}
	return c.SendTransaction(tx)
}

// SendTransaction validates a signed tx and mines it. Validation failures
// are returned as errors, reverts are not: they are mined with a failed
// receipt like on any other chain.
func (c *Chain) SendTransaction(tx *types.Transaction) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, known := c.txs[tx.Hash()]; known {
		return ErrAlreadyKnown
	}
	sender, err := types.Sender(c.signer, tx)
	if err != nil {
		return fmt.Errorf("invalid sender: %w", err)
	}
	if tx.GasTipCap().Cmp(tx.GasFeeCap()) > 0 {
		return ErrTipAboveFeeCap
	}
	nonce := c.st.nonces[sender]
	if tx.Nonce() < nonce {
		return fmt.Errorf("%w: address %s, tx: %d state: %d", ErrNonceTooLow, sender.Hex(), tx.Nonce(), nonce)
	}
	if tx.Nonce() > nonce {
		return fmt.Errorf("%w: address %s, tx: %d state: %d", ErrNonceTooHigh, sender.Hex(), tx.Nonce(), nonce)
	}
	if tx.Gas() > blockGasLimit {
		return ErrGasLimit
	}
	intrinsic := intrinsicGas(tx.Data(), tx.To() == nil)
	if tx.Gas() < intrinsic {
		return fmt.Errorf("%w: have %d, want %d", ErrIntrinsicGas, tx.Gas(), intrinsic)
	}
	cost := new(big.Int).Mul(new(big.Int).SetUint64(tx.Gas()), tx.GasFeeCap())
	cost.Add(cost, tx.Value())
	if c.st.balance(sender).Cmp(cost) < 0 {
		return fmt.Errorf("%w: address %s have %s want %s", ErrInsufficientFunds, sender.Hex(), c.st.balance(sender), cost)
	}

	c.apply(tx, sender, intrinsic)
	return nil
}

func (c *Chain) apply(tx *types.Transaction, sender common.Address, intrinsic uint64) {
	price := effectiveGasPrice(tx)
	gasLimit := new(big.Int).SetUint64(tx.Gas())

	c.st.nonces[sender] = tx.Nonce() + 1
	c.st.subBalance(sender, new(big.Int).Mul(gasLimit, price))
	snapshot := c.st.copy()

	execGas, created, err := c.execute(c.st, sender, tx.Nonce(), tx.To(), tx.Value(), tx.Data())
	gasUsed := intrinsic + execGas
	if err == nil && gasUsed > tx.Gas() {
		err = Revertf("out of gas")
	}
	status := types.ReceiptStatusSuccessful
	if err != nil {
		c.st = snapshot
		status = types.ReceiptStatusFailed
		if gasUsed > tx.Gas() {
			gasUsed = tx.Gas()
		}
	}
	refund := new(big.Int).SetUint64(tx.Gas() - gasUsed)
	c.st.addBalance(sender, refund.Mul(refund, price))

	parent := c.head()
	blockTime := c.now()
	if blockTime < parent.Time {
		blockTime = parent.Time
	}
	header := &types.Header{
		ParentHash: parent.Hash(),
		Number:     new(big.Int).Add(parent.Number, common.Big1),
		Time:       blockTime,
		GasLimit:   blockGasLimit,
		GasUsed:    gasUsed,
		Difficulty: big.NewInt(0),
	}
	receipt := &types.Receipt{
		Type:              tx.Type(),
		Status:            status,
		CumulativeGasUsed: gasUsed,
		GasUsed:           gasUsed,
		EffectiveGasPrice: price,
		TxHash:            tx.Hash(),
		BlockHash:         header.Hash(),
		BlockNumber:       header.Number,
		TransactionIndex:  0,
		Logs:              []*types.Log{},
	}
	if tx.To() == nil {
		receipt.ContractAddress = created
	}
	c.headers = append(c.headers, header)
	c.txs[tx.Hash()] = tx
	c.receipts[tx.Hash()] = receipt

	fields := []zap.Field{
		zap.String("tx", tx.Hash().Hex()),
		zap.String("from", sender.Hex()),
		zap.Uint64("block", header.Number.Uint64()),
		zap.Uint64("gasUsed", gasUsed),
	}
	if err != nil {
		c.logger.Debug("tx reverted", append(fields, zap.Error(err))...)
	} else {
		c.logger.Debug("tx mined", fields...)
	}
}

// execute runs a call or, when to is nil, a contract creation on st.
func (c *Chain) execute(
	st *state,
	sender common.Address,
	nonce uint64,
	to *common.Address,
	value *big.Int,
	data []byte,
) (uint64, common.Address, error) {
	if to == nil {
		addr := crypto.CreateAddress(sender, nonce)
		return createExecGas, addr, c.create(st, sender, addr, value, data)
	}
	var execGas uint64
	if st.programs[*to] != nil {
		execGas = callExecGas
	}
	_, err := c.call(st, sender, *to, value, data, false, 0)
	return execGas, common.Address{}, err
}

// match returns the registration with the longest code prefix of data.
func (c *Chain) match(data []byte) (*registration, []byte) {
	var best *registration
	for i := range c.registry {
		reg := &c.registry[i]
		if len(reg.code) == 0 || !bytes.HasPrefix(data, reg.code) {
			continue
		}
		if best == nil || len(reg.code) > len(best.code) {
			best = reg
		}
	}
	if best == nil {
		return nil, nil
	}
	return best, data[len(best.code):]
}

func (c *Chain) create(st *state, sender, addr common.Address, value *big.Int, data []byte) error {
	if len(st.code[addr]) > 0 {
		return Revertf("contract address collision")
	}
	if err := st.transfer(sender, addr, value); err != nil {
		return err
	}
	reg, args := c.match(data)
	if reg == nil {
		// unknown bytecode is stored as is, calls to it will revert
		st.code[addr] = common.CopyBytes(data)
		return nil
	}
	if value != nil && value.Sign() > 0 && reg.abi.Constructor.StateMutability != "payable" {
		return Revertf("constructor is not payable")
	}
	inputs, err := reg.abi.Constructor.Inputs.Unpack(args)
	if err != nil {
		return Revertf("invalid constructor arguments: %s", err)
	}
	env := &Env{
		chain:  c,
		st:     st,
		Self:   addr,
		Caller: sender,
		Value:  orZero(value),
	}
	prog, err := reg.factory(env, inputs)
	if err != nil {
		return err
	}
	st.code[addr] = reg.code
	st.programs[addr] = prog
	return nil
}

func (c *Chain) call(
	st *state,
	caller, to common.Address,
	value *big.Int,
	data []byte,
	static bool,
	depth int,
) ([]byte, error) {
	if depth > maxCallDepth {
		return nil, Revertf("max call depth exceeded")
	}
	value = orZero(value)
	if value.Sign() > 0 {
		if static {
			return nil, Revertf("value transfer during static call")
		}
		if err := st.transfer(caller, to, value); err != nil {
			return nil, err
		}
	}
	prog := st.programs[to]
	if prog == nil {
		if len(st.code[to]) > 0 {
			return nil, Revertf("contract %s has no program on this chain", to.Hex())
		}
		return nil, nil
	}
	if len(data) < 4 {
		return nil, Revertf("no fallback function")
	}
	method, err := prog.ABI().MethodById(data[:4])
	if err != nil {
		return nil, Revertf("unknown function selector %x", data[:4])
	}
	if value.Sign() > 0 && method.StateMutability != "payable" {
		return nil, Revertf("%s is not payable", method.Name)
	}
	if static && !method.IsConstant() {
		return nil, Revertf("%s changes state in a static call", method.Name)
	}
	args, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return nil, Revertf("invalid arguments for %s: %s", method.Name, err)
	}
	env := &Env{
		chain:  c,
		st:     st,
		depth:  depth,
		Self:   to,
		Caller: caller,
		Value:  value,
		Static: static,
	}
	out, err := prog.Call(env, method, args)
	if err != nil {
		return nil, err
	}
	return method.Outputs.Pack(out...)
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}

// CallContract executes data against to on a throwaway copy of the latest
// state.
func (c *Chain) CallContract(from, to common.Address, value *big.Int, data []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.call(c.st.copy(), from, to, value, data, false, 0)
}

func (c *Chain) EstimateGas(from, to string, value *big.Int, data []byte) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.st.copy()
	sender := common.HexToAddress(from)
	value = orZero(value)
	if st.balance(sender).Cmp(value) < 0 {
		return 0, ErrInsufficientFunds
	}
	var toPtr *common.Address
	if to != "" {
		toAddr := common.HexToAddress(to)
		toPtr = &toAddr
	}
	execGas, _, err := c.execute(st, sender, st.nonces[sender], toPtr, value, data)
	if err != nil {
		return 0, err
	}
	return intrinsicGas(data, toPtr == nil) + execGas, nil
}

func (c *Chain) GetCode(address string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return common.CopyBytes(c.st.code[common.HexToAddress(address)]), nil
}

func (c *Chain) GetBalance(address string) (*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return new(big.Int).Set(c.st.balance(common.HexToAddress(address))), nil
}

func (c *Chain) GetMinedNonce(address string) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st.nonces[common.HexToAddress(address)], nil
}

// GetPendingNonce equals GetMinedNonce, txs are mined as they arrive.
func (c *Chain) GetPendingNonce(address string) (uint64, error) {
	return c.GetMinedNonce(address)
}

func (c *Chain) TransactionReceipt(txHash string) (*types.Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	receipt, found := c.receipts[common.HexToHash(txHash)]
	if !found {
		return nil, ethereum.NotFound
	}
	return receipt, nil
}

func (c *Chain) TransactionByHash(txHash string) (*types.Transaction, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tx, found := c.txs[common.HexToHash(txHash)]
	if !found {
		return nil, false, ethereum.NotFound
	}
	return tx, false, nil
}

func (c *Chain) SuggestedGasPrice() (*big.Int, error) {
	return new(big.Int).Set(c.gasPrice), nil
}

func (c *Chain) SuggestedGasTipCap() (*big.Int, error) {
	return new(big.Int).Set(c.gasPrice), nil
}

// ReadContractToBytes only supports the latest state, atBlock is ignored.
func (c *Chain) ReadContractToBytes(atBlock int64, from string, caddr string, abi *abi.ABI, method string, args ...interface{}) ([]byte, error) {
	data, err := abi.Pack(method, args...)
	if err != nil {
		return nil, err
	}
	return c.CallContract(common.HexToAddress(from), common.HexToAddress(caddr), nil, data)
}

// HeaderByNumber returns the latest header when number is negative.
func (c *Chain) HeaderByNumber(number int64) (*types.Header, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if number < 0 {
		return types.CopyHeader(c.head()), nil
	}
	if number >= int64(len(c.headers)) {
		return nil, ethereum.NotFound
	}
	return types.CopyHeader(c.headers[number]), nil
}

func (c *Chain) CurrentBlock() (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.head().Number.Uint64(), nil
}
