package synchronizer

import (
	"context"
	"sync"
	"time"

	"github.com/0xPolygonHermez/zkevm-node/log"
	"github.com/ethereum/go-ethereum/core/types"
)

const defaultWatchInterval = 4 * time.Second

// HeadWatcher notifies every time the chain head changes
type HeadWatcher interface {
	// Subscribe calls onHead with the new block number each time the head moves.
	// The returned function stops the notifications, calling it more than once is a no-op.
	Subscribe(ctx context.Context, onHead func(blockNumber uint64)) (unsubscribe func())
}

// NewHeadWatcher returns the head watcher selected by the configuration
func NewHeadWatcher(cfg Config, node nodeInterface) HeadWatcher {
	if cfg.UseSubscription {
		return NewSubscriptionHeadWatcher(node, cfg.WatchInterval.Duration)
	}
	return NewPollingHeadWatcher(node, cfg.WatchInterval.Duration)
}

// PollingHeadWatcher reads the block number at a fixed interval
type PollingHeadWatcher struct {
	node     blockNumberReader
	interval time.Duration
}

// NewPollingHeadWatcher creates a polling head watcher
func NewPollingHeadWatcher(node blockNumberReader, interval time.Duration) *PollingHeadWatcher {
	if interval <= 0 {
		interval = defaultWatchInterval
	}
	return &PollingHeadWatcher{node: node, interval: interval}
}

// Subscribe starts polling. The first block number read is the baseline and isn't notified.
func (w *PollingHeadWatcher) Subscribe(ctx context.Context, onHead func(blockNumber uint64)) func() {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		var (
			last  uint64
			known bool
		)
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			blockNumber, err := w.node.BlockNumber(ctx)
			switch {
			case err != nil:
				if ctx.Err() == nil {
					log.Warnf("error reading latest block number: %v", err)
				}
			case !known:
				last, known = blockNumber, true
			case blockNumber != last && ctx.Err() == nil:
				log.Debugf("new head %d (previous %d)", blockNumber, last)
				last = blockNumber
				onHead(blockNumber)
			}

			select {
			case <-ctx.Done():
				log.Debug("head polling stopped")
				return
			case <-ticker.C:
			}
		}
	}()
	return stopOnce(cancel)
}

// SubscriptionHeadWatcher listens to newHeads notifications
type SubscriptionHeadWatcher struct {
	node       headSubscriber
	retryDelay time.Duration
}

// NewSubscriptionHeadWatcher creates a head watcher backed by eth_subscribe
func NewSubscriptionHeadWatcher(node headSubscriber, retryDelay time.Duration) *SubscriptionHeadWatcher {
	if retryDelay <= 0 {
		retryDelay = defaultWatchInterval
	}
	return &SubscriptionHeadWatcher{node: node, retryDelay: retryDelay}
}

// Subscribe opens the newHeads subscription, subscribing again if the node drops it
func (w *SubscriptionHeadWatcher) Subscribe(ctx context.Context, onHead func(blockNumber uint64)) func() {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		for {
			err := w.listen(ctx, onHead)
			if ctx.Err() != nil {
				log.Debug("head subscription stopped")
				return
			}
			log.Warnf("head subscription lost, subscribing again in %s: %v", w.retryDelay, err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.retryDelay):
			}
		}
	}()
	return stopOnce(cancel)
}

func (w *SubscriptionHeadWatcher) listen(ctx context.Context, onHead func(blockNumber uint64)) error {
	headers := make(chan *types.Header)
	sub, err := w.node.SubscribeNewHead(ctx, headers)
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-sub.Err():
			return err
		case header := <-headers:
			if header == nil || header.Number == nil {
				continue
			}
			onHead(header.Number.Uint64())
		}
	}
}

func stopOnce(cancel context.CancelFunc) func() {
	var once sync.Once
	return func() {
		once.Do(cancel)
	}
}
