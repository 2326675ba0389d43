package vaulthook

import (
	"errors"
	"fmt"
	"time"

	"github.com/unidonate/unidonate-vault/gerror"
)

// DiagnosticKind classifies the failures reported by the hook
type DiagnosticKind string

const (
	// InputError is a missing, unparsable or non-positive amount
	InputError DiagnosticKind = "InputError"
	// PreconditionError is a missing account, a signer not ready or a low allowance
	PreconditionError DiagnosticKind = "PreconditionError"
	// SubmissionError is a failed write call
	SubmissionError DiagnosticKind = "SubmissionError"
	// ConfirmationFailure is a reverted or stuck tx
	ConfirmationFailure DiagnosticKind = "ConfirmationFailure"
	// ReadError is a failed read, the previous value is kept
	ReadError DiagnosticKind = "ReadError"
)

// Diagnostic is a failure reported to the logger and the diagnostic subscribers
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Op      string         `json:"op"`
	Message string         `json:"message"`
	TxID    string         `json:"txId,omitempty"`
	At      time.Time      `json:"at"`
	Err     error          `json:"-"`
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s %s: %s", d.Op, d.Kind, d.Message)
}

func (d *Diagnostic) Unwrap() error {
	return d.Err
}

func newDiagnostic(kind DiagnosticKind, op string, err error, at time.Time) *Diagnostic {
	return &Diagnostic{
		Kind:    kind,
		Op:      op,
		Message: err.Error(),
		At:      at,
		Err:     err,
	}
}

func classifyActionError(err error) DiagnosticKind {
	switch {
	case errors.Is(err, gerror.ErrEmptyAmount),
		errors.Is(err, gerror.ErrInvalidAmount),
		errors.Is(err, gerror.ErrNonPositiveAmount):
		return InputError
	case errors.Is(err, gerror.ErrNotConnected),
		errors.Is(err, gerror.ErrWriteNotReady),
		errors.Is(err, gerror.ErrNetworkMismatch),
		errors.Is(err, gerror.ErrInsufficientAllowance),
		errors.Is(err, gerror.ErrHookClosed):
		return PreconditionError
	case errors.Is(err, gerror.ErrTxReverted),
		errors.Is(err, gerror.ErrTxStuck):
		return ConfirmationFailure
	default:
		return SubmissionError
	}
}
