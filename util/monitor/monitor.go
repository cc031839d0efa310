package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/tranvictor/fundctl/common"
)

const (
	DefaultInterval    = 5 * time.Second
	DefaultLostTimeout = 3 * time.Minute
)

// TxReader is the part of reader.EthReader the monitor needs.
type TxReader interface {
	TxInfoFromHash(tx string) (common.TxInfo, error)
	HeaderByNumber(number int64) (*types.Header, error)
}

type TxMonitor struct {
	reader      TxReader
	interval    time.Duration
	lostTimeout time.Duration
}

func NewGenericTxMonitor(r TxReader) *TxMonitor {
	return NewTxMonitorWithInterval(r, DefaultInterval, DefaultLostTimeout)
}

// NewTxMonitorWithInterval is used for chains with instant mining such as
// the development chain, where waiting DefaultInterval is pointless.
func NewTxMonitorWithInterval(r TxReader, interval, lostTimeout time.Duration) *TxMonitor {
	return &TxMonitor{
		reader:      r,
		interval:    interval,
		lostTimeout: lostTimeout,
	}
}

// check returns true when the tx reached a final state.
func (tm *TxMonitor) check(tx string, startTime time.Time, isOnNode *bool) (common.TxInfo, bool) {
	txinfo, _ := tm.reader.TxInfoFromHash(tx)
	switch txinfo.Status {
	case common.TxStatusNotFound:
		if time.Since(startTime) > tm.lostTimeout && !*isOnNode {
			txinfo.Status = common.TxStatusLost
			return txinfo, true
		}
	case common.TxStatusPending:
		*isOnNode = true
	case common.TxStatusReverted, common.TxStatusDone:
		txinfo.BlockHeader, _ = tm.reader.HeaderByNumber(txinfo.Receipt.BlockNumber.Int64())
		return txinfo, true
	}
	return txinfo, false
}

func (tm *TxMonitor) periodicCheck(ctx context.Context, tx string, info chan common.TxInfo) {
	startTime := time.Now()
	isOnNode := false
	if txinfo, final := tm.check(tx, startTime, &isOnNode); final {
		info <- txinfo
		return
	}
	ticker := time.NewTicker(tm.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			info <- common.TxInfo{Status: common.TxStatusError}
			return
		case <-ticker.C:
			if txinfo, final := tm.check(tx, startTime, &isOnNode); final {
				info <- txinfo
				return
			}
		}
	}
}

func (tm *TxMonitor) MakeWaitChannel(ctx context.Context, tx string) <-chan common.TxInfo {
	result := make(chan common.TxInfo, 1)
	go tm.periodicCheck(ctx, tx, result)
	return result
}

// BlockingWait waits until tx is mined, lost or ctx is done. In the last
// case the returned status is "error" and ctx.Err() is returned.
func (tm *TxMonitor) BlockingWait(ctx context.Context, tx string) (common.TxInfo, error) {
	info := <-tm.MakeWaitChannel(ctx, tx)
	if info.Status == common.TxStatusError {
		return info, ctx.Err()
	}
	return info, nil
}

func (tm *TxMonitor) BlockingWaitForMultipleTxs(ctx context.Context, txs ...string) map[string]common.TxInfo {
	result := map[string]common.TxInfo{}
	mu := sync.Mutex{}
	wg := sync.WaitGroup{}
	for _, tx := range txs {
		wg.Add(1)
		go func(tx string) {
			defer wg.Done()
			info := <-tm.MakeWaitChannel(ctx, tx)
			mu.Lock()
			result[tx] = info
			mu.Unlock()
		}(tx)
	}
	wg.Wait()
	return result
}
