package synchronizer

import (
	"context"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
)

type blockNumberReader interface {
	BlockNumber(ctx context.Context) (uint64, error)
}

type headSubscriber interface {
	SubscribeNewHead(ctx context.Context, ch chan<- *types.Header) (ethereum.Subscription, error)
}

type nodeInterface interface {
	blockNumberReader
	headSubscriber
}
