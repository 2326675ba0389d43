package synchronizer

import (
	"github.com/0xPolygonHermez/zkevm-node/config/types"
)

// Config represents the configuration of the head watcher
type Config struct {
	// WatchInterval is the delay between two reads of the latest block number.
	// With a subscription it's the delay before subscribing again after an error.
	WatchInterval types.Duration `mapstructure:"WatchInterval"`

	// UseSubscription watches new heads with eth_subscribe instead of polling.
	// Only websocket endpoints support it.
	UseSubscription bool `mapstructure:"UseSubscription"`
}
