package txsender

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	fundcommon "github.com/tranvictor/fundctl/common"
)

var (
	ErrTxReverted      = errors.New("transaction reverted")
	ErrTxLost          = errors.New("transaction lost")
	ErrNotBroadcasted  = errors.New("transaction was not accepted by any node")
	ErrGasEstimateFail = errors.New("couldn't estimate gas")
)

type Reader interface {
	ChainID() (*big.Int, error)
	GetPendingNonce(address string) (uint64, error)
	GetGasPriceWeiSuggestion() (*big.Int, error)
	GetGasTipCapWeiSuggestion() (*big.Int, error)
	CheckDynamicFeeTxAvailable() (bool, error)
	EstimateExactGas(from, to string, value *big.Int, data []byte) (uint64, error)
}

type Broadcaster interface {
	BroadcastTx(tx *types.Transaction) (string, bool, error)
}

type Monitor interface {
	BlockingWait(ctx context.Context, tx string) (fundcommon.TxInfo, error)
}

type Signer interface {
	Address() common.Address
	SignTx(tx *types.Transaction, chainId *big.Int) (*types.Transaction, error)
}

// Options mirror the gas and broadcast flags. Zero values mean "ask the
// node".
type Options struct {
	GasPriceGwei      float64
	ExtraGasPriceGwei float64
	TipGwei           float64
	ExtraTipGwei      float64
	GasLimit          uint64
	ExtraGasLimit     uint64
	// Nonce overrides the pending nonce when set.
	Nonce *uint64

	ForceLegacy  bool
	ForceDynamic bool

	// DontBroadcast stops after signing, the raw tx is in Result.RawTx.
	DontBroadcast bool
	// DontWait returns right after broadcasting.
	DontWait bool
}

type Result struct {
	Tx          *types.Transaction
	RawTx       string
	Broadcasted bool
	Info        fundcommon.TxInfo
}

// Receipt is nil unless the tx was waited for.
func (r *Result) Receipt() *types.Receipt {
	return r.Info.Receipt
}

// Sender builds, signs, broadcasts and waits for transactions.
type Sender struct {
	reader      Reader
	broadcaster Broadcaster
	monitor     Monitor
	opts        Options
	logger      *zap.Logger
}

func NewSender(r Reader, b Broadcaster, m Monitor, opts Options, logger *zap.Logger) *Sender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sender{
		reader:      r,
		broadcaster: b,
		monitor:     m,
		opts:        opts,
		logger:      logger,
	}
}

func (s *Sender) Options() Options {
	return s.opts
}

func (s *Sender) txType() (uint8, error) {
	if s.opts.ForceLegacy && s.opts.ForceDynamic {
		return 0, fmt.Errorf("legacy and dynamic fee txs can't be forced at the same time")
	}
	if s.opts.ForceLegacy {
		return types.LegacyTxType, nil
	}
	if s.opts.ForceDynamic {
		return types.DynamicFeeTxType, nil
	}
	available, err := s.reader.CheckDynamicFeeTxAvailable()
	if err != nil {
		return 0, fmt.Errorf("couldn't check if the chain support dynamic fee: %w", err)
	}
	if available {
		return types.DynamicFeeTxType, nil
	}
	return types.LegacyTxType, nil
}

func (s *Sender) gasPrice() (*big.Int, error) {
	var price *big.Int
	if s.opts.GasPriceGwei > 0 {
		price = fundcommon.GweiToWei(s.opts.GasPriceGwei)
	} else {
		suggested, err := s.reader.GetGasPriceWeiSuggestion()
		if err != nil {
			return nil, fmt.Errorf("couldn't get gas price info from any nodes: %w", err)
		}
		price = new(big.Int).Set(suggested)
	}
	return price.Add(price, fundcommon.GweiToWei(s.opts.ExtraGasPriceGwei)), nil
}

func (s *Sender) tipCap() (*big.Int, error) {
	var tip *big.Int
	if s.opts.TipGwei > 0 {
		tip = fundcommon.GweiToWei(s.opts.TipGwei)
	} else {
		suggested, err := s.reader.GetGasTipCapWeiSuggestion()
		if err != nil {
			return nil, fmt.Errorf("couldn't get tip cap info from any nodes: %w", err)
		}
		tip = new(big.Int).Set(suggested)
	}
	return tip.Add(tip, fundcommon.GweiToWei(s.opts.ExtraTipGwei)), nil
}

// Build returns the unsigned tx from sending value and data to to, a nil to
// being a contract creation.
func (s *Sender) Build(from common.Address, to *common.Address, value *big.Int, data []byte) (*types.Transaction, *big.Int, error) {
	if value == nil {
		value = big.NewInt(0)
	}
	chainID, err := s.reader.ChainID()
	if err != nil {
		return nil, nil, fmt.Errorf("couldn't get chain id: %w", err)
	}

	var nonce uint64
	if s.opts.Nonce != nil {
		nonce = *s.opts.Nonce
	} else {
		nonce, err = s.reader.GetPendingNonce(from.Hex())
		if err != nil {
			return nil, nil, fmt.Errorf("couldn't get nonce of the wallet from any nodes: %w", err)
		}
	}

	txType, err := s.txType()
	if err != nil {
		return nil, nil, err
	}

	gasPrice, err := s.gasPrice()
	if err != nil {
		return nil, nil, err
	}

	tip := big.NewInt(0)
	if txType == types.DynamicFeeTxType {
		tip, err = s.tipCap()
		if err != nil {
			return nil, nil, err
		}
		if tip.Cmp(gasPrice) > 0 {
			gasPrice = new(big.Int).Set(tip)
		}
	}

	gasLimit := s.opts.GasLimit
	if gasLimit == 0 {
		toStr := ""
		if to != nil {
			toStr = to.Hex()
		}
		gasLimit, err = s.reader.EstimateExactGas(from.Hex(), toStr, value, data)
		if err != nil {
			return nil, nil, fmt.Errorf("%w, the tx is meant to revert or network error: %w", ErrGasEstimateFail, err)
		}
	}
	gasLimit += s.opts.ExtraGasLimit

	s.logger.Debug("built tx",
		zap.Stringer("from", from),
		zap.Uint64("nonce", nonce),
		zap.Uint8("type", txType),
		zap.Float64("gas_price_gwei", fundcommon.BigToFloat(gasPrice, 9)),
		zap.Stringer("tip", tip),
		zap.Uint64("gas_limit", gasLimit),
	)

	return fundcommon.BuildExactTx(nonce, to, value, gasLimit, gasPrice, tip, data, txType, chainID), chainID, nil
}

// Send builds and signs the tx then, unless told otherwise, broadcasts it
// and waits for it to be mined. A mined tx with a failed status returns the
// result together with ErrTxReverted.
func (s *Sender) Send(ctx context.Context, from Signer, to *common.Address, value *big.Int, data []byte) (*Result, error) {
	tx, chainID, err := s.Build(from.Address(), to, value, data)
	if err != nil {
		return nil, err
	}
	signedTx, err := from.SignTx(tx, chainID)
	if err != nil {
		return nil, err
	}
	raw, err := signedTx.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("couldn't encode the signed tx: %w", err)
	}
	result := &Result{
		Tx:    signedTx,
		RawTx: hexutil.Encode(raw),
		Info:  fundcommon.TxInfo{Status: fundcommon.TxStatusPending, Tx: signedTx},
	}
	if s.opts.DontBroadcast {
		return result, nil
	}

	hash, broadcasted, err := s.broadcaster.BroadcastTx(signedTx)
	result.Broadcasted = broadcasted
	if !broadcasted {
		return result, fmt.Errorf("%w: %w", ErrNotBroadcasted, err)
	}
	if err != nil {
		s.logger.Warn("some nodes rejected the tx", zap.String("tx", hash), zap.Error(err))
	}
	if s.opts.DontWait {
		return result, nil
	}

	info, err := s.monitor.BlockingWait(ctx, hash)
	result.Info = info
	if err != nil {
		return result, err
	}
	switch info.Status {
	case fundcommon.TxStatusDone:
		return result, nil
	case fundcommon.TxStatusReverted:
		return result, fmt.Errorf("%s: %w", hash, ErrTxReverted)
	case fundcommon.TxStatusLost:
		return result, fmt.Errorf("%s: %w", hash, ErrTxLost)
	}
	return result, fmt.Errorf("%s ended with status %s", hash, info.Status)
}
