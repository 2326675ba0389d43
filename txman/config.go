package txman

import (
	"github.com/0xPolygonHermez/zkevm-node/config/types"
)

// Config is configuration for the vault transaction monitor
type Config struct {
	// FrequencyToMonitorTxs is the time between two receipt checks of a pending tx
	FrequencyToMonitorTxs types.Duration `mapstructure:"FrequencyToMonitorTxs"`
	// ConfirmationTimeout is the time after which a tx that is not mined is reported as stuck
	ConfirmationTimeout types.Duration `mapstructure:"ConfirmationTimeout"`
	// RetryNumber is the number of consecutive node errors tolerated before giving up on a tx
	RetryNumber int `mapstructure:"RetryNumber"`
}
