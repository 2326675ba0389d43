package txman

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

const (
	// MonitoredTxStatusSubmitted means the tx was sent and is waiting to be mined
	MonitoredTxStatusSubmitted = MonitoredTxStatus("submitted")

	// MonitoredTxStatusConfirmed means the tx was already mined and the receipt
	// status is Successful
	MonitoredTxStatusConfirmed = MonitoredTxStatus("confirmed")

	// MonitoredTxStatusFailed means the tx was mined and reverted, or the node
	// couldn't be queried about it
	MonitoredTxStatusFailed = MonitoredTxStatus("failed")

	// MonitoredTxStatusStuck means the tx wasn't mined before the confirmation timeout.
	// It may still be mined later, but it's not monitored anymore
	MonitoredTxStatusStuck = MonitoredTxStatus("stuck")

	// MonitoredTxStatusCancelled means the monitoring was stopped by the caller
	MonitoredTxStatusCancelled = MonitoredTxStatus("cancelled")
)

// MonitoredTxStatus represents the status of a monitored tx
type MonitoredTxStatus string

// String returns a string representation of the status
func (s MonitoredTxStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the monitoring of the tx is over
func (s MonitoredTxStatus) IsTerminal() bool {
	return s != MonitoredTxStatusSubmitted
}

// Result is the outcome of monitoring a tx
type Result struct {
	Hash    common.Hash
	Status  MonitoredTxStatus
	Receipt *types.Receipt
	Err     error
	// Elapsed is the time between the start of the monitoring and the result
	Elapsed time.Duration
}
