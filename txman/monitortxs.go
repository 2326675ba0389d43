package txman

import (
	"context"
	"time"

	"github.com/0xPolygonHermez/zkevm-node/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/unidonate/unidonate-vault/gerror"
	"github.com/unidonate/unidonate-vault/utils"
)

const defaultFrequency = time.Second

type txMiningChecker interface {
	CheckTxWasMined(ctx context.Context, txHash common.Hash) (bool, *types.Receipt, error)
}

// MonitorTxs resolves submitted tx hashes to a terminal result
type MonitorTxs struct {
	node         txMiningChecker
	cfg          Config
	timeProvider utils.TimeProvider
}

// NewMonitorTxs creates a tx monitor
func NewMonitorTxs(node txMiningChecker, cfg Config, timeProvider utils.TimeProvider) *MonitorTxs {
	if timeProvider == nil {
		timeProvider = utils.NewTimeProviderSystemLocalTime()
	}
	return &MonitorTxs{
		node:         node,
		cfg:          cfg,
		timeProvider: timeProvider,
	}
}

// Watch monitors the tx in its own goroutine and calls onResult once with the terminal
// result. The returned function stops the monitoring, in which case onResult receives
// a cancelled result.
func (tm *MonitorTxs) Watch(ctx context.Context, txHash common.Hash, onResult func(Result)) (cancel func()) {
	ctx, cancel = context.WithCancel(ctx)
	go func() {
		defer cancel()
		onResult(tm.Wait(ctx, txHash))
	}()
	return cancel
}

// Wait blocks until the tx is mined, the confirmation timeout expires or ctx is done
func (tm *MonitorTxs) Wait(ctx context.Context, txHash common.Hash) Result {
	mTxLog := log.WithFields("monitoredTx", txHash.String())
	start := tm.timeProvider.Now()
	frequency := tm.cfg.FrequencyToMonitorTxs.Duration
	if frequency <= 0 {
		frequency = defaultFrequency
	}
	ticker := time.NewTicker(frequency)
	defer ticker.Stop()

	result := Result{Hash: txHash, Status: MonitoredTxStatusSubmitted}
	failures := 0
	for {
		mined, receipt, err := tm.node.CheckTxWasMined(ctx, txHash)
		switch {
		case err != nil && ctx.Err() == nil:
			failures++
			mTxLog.Warnf("failed to check if tx was mined (%d/%d): %v", failures, tm.cfg.RetryNumber, err)
			if failures > tm.cfg.RetryNumber {
				result.Status = MonitoredTxStatusFailed
				result.Err = errors.Wrap(err, "checking tx receipt")
			}
		case mined:
			result.Receipt = receipt
			if receipt.Status == types.ReceiptStatusSuccessful {
				mTxLog.Infof("tx mined successfully in block %v", receipt.BlockNumber)
				result.Status = MonitoredTxStatusConfirmed
			} else {
				mTxLog.Infof("tx mined but reverted in block %v", receipt.BlockNumber)
				result.Status = MonitoredTxStatusFailed
				result.Err = errors.Wrapf(gerror.ErrTxReverted, "tx %s", txHash.String())
			}
		default:
			failures = 0
			if tm.cfg.ConfirmationTimeout.Duration > 0 && tm.timeProvider.Now().Sub(start) >= tm.cfg.ConfirmationTimeout.Duration {
				mTxLog.Warnf("tx not mined after %s, marked as stuck", tm.cfg.ConfirmationTimeout.Duration)
				result.Status = MonitoredTxStatusStuck
				result.Err = errors.Wrapf(gerror.ErrTxStuck, "tx %s", txHash.String())
			}
		}
		if result.Status.IsTerminal() {
			result.Elapsed = tm.timeProvider.Now().Sub(start)
			return result
		}

		select {
		case <-ctx.Done():
			mTxLog.Debug("tx monitoring cancelled")
			result.Status = MonitoredTxStatusCancelled
			result.Err = ctx.Err()
			result.Elapsed = tm.timeProvider.Now().Sub(start)
			return result
		case <-ticker.C:
		}
	}
}
