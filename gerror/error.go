package gerror

import "errors"

var (
	// ErrEmptyAmount is used when no amount was provided
	ErrEmptyAmount = errors.New("amount is empty")
	// ErrInvalidAmount is used when the amount is not a decimal number
	ErrInvalidAmount = errors.New("amount is not a valid decimal number")
	// ErrNonPositiveAmount is used when the amount is zero or negative after scaling
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")

	// ErrNotConnected is used when there is no connected account in the session
	ErrNotConnected = errors.New("wallet not connected")
	// ErrWriteNotReady is used when the session has no signer to send transactions
	ErrWriteNotReady = errors.New("write capability not ready")
	// ErrNetworkMismatch is used when the node chain id differs from the configured one
	ErrNetworkMismatch = errors.New("connected to the wrong network")
	// ErrInsufficientAllowance is used when the vault can't pull the asset amount from the account
	ErrInsufficientAllowance = errors.New("insufficient asset allowance for the vault")

	// ErrTxReverted is used when a transaction was mined with a failed receipt status
	ErrTxReverted = errors.New("transaction reverted")
	// ErrTxStuck is used when a transaction wasn't mined before the confirmation timeout
	ErrTxStuck = errors.New("transaction not confirmed before timeout")

	// ErrHookClosed is used when an action is requested after the hook was closed
	ErrHookClosed = errors.New("vault hook closed")
)
