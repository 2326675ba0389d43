package vaulthook

import (
	"context"
	"math/big"
	"time"

	"github.com/0xPolygonHermez/zkevm-node/log"
	"github.com/pkg/errors"
	"github.com/unidonate/unidonate-vault/metrics"
	"github.com/unidonate/unidonate-vault/utils"
	"github.com/unidonate/unidonate-vault/yieldsource"
	"golang.org/x/sync/errgroup"
)

const (
	queryTotalAssets       = "totalAssets"
	queryBalanceOf         = "balanceOf"
	queryConvertToAssets   = "convertToAssets"
	queryTotalYieldDonated = "totalYieldDonated"
	queryAPY               = "apy"
)

type roundResult struct {
	totalAssets *big.Int
	shares      *big.Int
	balance     *big.Int
	donations   *big.Int
	apy         *yieldsource.Quote
}

// Refetch re-invokes the four vault reads once and returns when all of them are done
func (h *Hook) Refetch() {
	h.readRound(metrics.TriggerRefetch, true, 0)
}

func (h *Hook) onHead(blockNumber uint64) {
	metrics.RecordLatestBlock(blockNumber)
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	if h.headRoundBusy {
		h.mu.Unlock()
		log.Debugf("read round still running, skipping head %d", blockNumber)
		return
	}
	h.headRoundBusy = true
	h.mu.Unlock()

	h.readRound(metrics.TriggerHead, true, blockNumber)

	h.mu.Lock()
	h.headRoundBusy = false
	h.mu.Unlock()
}

// readRound runs the reads concurrently. A full round reads the donations and the APY too,
// otherwise only the locked value, the shares and the balance are read.
// Rounds are counted in the wait group whatever goroutine runs them, so Wait covers head rounds.
func (h *Hook) readRound(trigger metrics.ReadRoundTrigger, full bool, blockNumber uint64) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.readsInFlight++
	h.wg.Add(1)
	h.mu.Unlock()
	defer h.wg.Done()
	metrics.RecordReadRound(trigger)

	ctx, cancel := context.WithTimeout(h.ctx, h.cfg.ReadTimeout.Duration)
	defer cancel()

	var res roundResult
	account, connected := h.session.Account()
	g := new(errgroup.Group)
	g.Go(func() error {
		res.totalAssets = h.read(ctx, queryTotalAssets, h.reader.TotalAssets)
		return nil
	})
	if connected {
		g.Go(func() error {
			res.shares = h.read(ctx, queryBalanceOf, func(ctx context.Context) (*big.Int, error) {
				return h.reader.BalanceOf(ctx, account)
			})
			if res.shares == nil {
				return nil
			}
			shares := res.shares
			res.balance = h.read(ctx, queryConvertToAssets, func(ctx context.Context) (*big.Int, error) {
				return h.reader.ConvertToAssets(ctx, shares)
			})
			return nil
		})
	}
	if full {
		g.Go(func() error {
			res.donations = h.read(ctx, queryTotalYieldDonated, h.reader.TotalYieldDonated)
			return nil
		})
		if h.yield != nil {
			g.Go(func() error {
				res.apy = h.readAPY(ctx)
				return nil
			})
		}
	}
	_ = g.Wait()

	h.mu.Lock()
	h.readsInFlight--
	if res.totalAssets != nil {
		h.raw.TotalAssets = res.totalAssets
	}
	if connected {
		if res.shares != nil {
			h.raw.Shares = res.shares
		}
		if res.balance != nil {
			h.raw.Balance = res.balance
		}
	} else {
		h.raw.Shares, h.raw.Balance = nil, nil
	}
	if res.donations != nil {
		h.raw.TotalYieldDonated = res.donations
	}
	if res.apy != nil {
		h.apy = *res.apy
	}
	if blockNumber > h.blockNumber {
		h.blockNumber = blockNumber
	}
	h.updatedAt = h.timeProvider.Now()
	tvl, _ := utils.FormatUnits(h.raw.TotalAssets, utils.AssetDecimals).Float64()
	donations, _ := utils.FormatUnits(h.raw.TotalYieldDonated, utils.AssetDecimals).Float64()
	h.mu.Unlock()

	metrics.RecordVaultValue("tvl", tvl)
	metrics.RecordVaultValue("donations", donations)
	h.changed()
}

// read returns nil when the query fails, so the previous value is kept
func (h *Hook) read(ctx context.Context, query string, fn func(context.Context) (*big.Int, error)) *big.Int {
	start := time.Now()
	v, err := fn(ctx)
	metrics.RecordRead(query, time.Since(start), err == nil)
	if err != nil {
		if h.ctx.Err() == nil {
			h.report(newDiagnostic(ReadError, query, errors.Wrapf(err, "reading %s", query), h.timeProvider.Now()))
		}
		return nil
	}
	if v == nil {
		return new(big.Int)
	}
	return v
}

func (h *Hook) readAPY(ctx context.Context) *yieldsource.Quote {
	start := time.Now()
	q, err := h.yield.APY(ctx)
	metrics.RecordRead(queryAPY, time.Since(start), err == nil)
	if err != nil {
		if h.ctx.Err() == nil {
			h.report(newDiagnostic(ReadError, queryAPY, errors.Wrap(err, "reading apy"), h.timeProvider.Now()))
		}
		return nil
	}
	return &q
}
