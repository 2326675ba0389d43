package vaulthook

import (
	"github.com/0xPolygonHermez/zkevm-node/config/types"
)

// Config is the configuration of the vault hook
type Config struct {
	// CheckAllowance reads the asset allowance of the vault before a deposit
	CheckAllowance bool `mapstructure:"CheckAllowance"`
	// AutoApprove sends an approve tx first when the allowance is lower than the deposit.
	// When false a low allowance aborts the deposit.
	AutoApprove bool `mapstructure:"AutoApprove"`
	// ReadTimeout bounds every read round against the node
	ReadTimeout types.Duration `mapstructure:"ReadTimeout"`
	// RecentTxs is the number of finished txs kept in the state
	RecentTxs int `mapstructure:"RecentTxs"`
}
