package vaulthook

import (
	"context"

	"github.com/0xPolygonHermez/zkevm-node/log"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/unidonate/unidonate-vault/gerror"
	"github.com/unidonate/unidonate-vault/metrics"
	"github.com/unidonate/unidonate-vault/txman"
	"github.com/unidonate/unidonate-vault/utils"
)

// Deposit checks the amount and the session, then sends deposit(amount, account) and
// follows it until its terminal status in the background.
// A non nil error is a *Diagnostic and means nothing was sent.
func (h *Hook) Deposit(amountText string) error {
	return h.submit(TxKindDeposit, amountText)
}

// Withdraw is like Deposit for withdraw(amount, account, account)
func (h *Hook) Withdraw(amountText string) error {
	return h.submit(TxKindWithdraw, amountText)
}

func (h *Hook) submit(kind TxKind, amountText string) error {
	op := string(kind)
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()
	if closed {
		return h.fail(op, gerror.ErrHookClosed)
	}

	amount, err := utils.ParsePositiveUnits(amountText, utils.AssetDecimals)
	if err != nil {
		return h.fail(op, err)
	}
	account, connected := h.session.Account()
	if !connected {
		return h.fail(op, gerror.ErrNotConnected)
	}
	auth, err := h.session.Signer(h.ctx)
	if err != nil {
		return h.fail(op, err)
	}

	ptx := &PendingTransaction{
		ID:          utils.GenerateTraceID(),
		Kind:        kind,
		Amount:      amount,
		Account:     account,
		Status:      txman.MonitoredTxStatusSubmitted,
		SubmittedAt: h.timeProvider.Now(),
	}
	h.mu.Lock()
	h.inFlight[kind]++
	h.mu.Unlock()
	h.track(ptx)

	if !h.goTracked(func() { h.runPipeline(ptx, auth) }) {
		h.finish(ptx, txman.MonitoredTxStatusCancelled, "", nil)
		return h.fail(op, gerror.ErrHookClosed)
	}
	return nil
}

func (h *Hook) fail(op string, err error) error {
	d := newDiagnostic(classifyActionError(err), op, err, h.timeProvider.Now())
	h.report(d)
	return d
}

func (h *Hook) runPipeline(ptx *PendingTransaction, auth *bind.TransactOpts) {
	logger := log.WithFields("txID", ptx.ID, "kind", string(ptx.Kind))
	if ptx.Kind == TxKindDeposit && h.cfg.CheckAllowance {
		if kind, err := h.ensureAllowance(ptx, auth); err != nil {
			if errors.Is(err, gerror.ErrHookClosed) {
				h.finish(ptx, txman.MonitoredTxStatusCancelled, "", nil)
				return
			}
			h.finish(ptx, txman.MonitoredTxStatusFailed, kind, err)
			return
		}
	}

	var (
		tx  *types.Transaction
		err error
	)
	switch ptx.Kind {
	case TxKindDeposit:
		tx, err = h.writer.Deposit(auth, ptx.Amount, ptx.Account)
	case TxKindWithdraw:
		tx, err = h.writer.Withdraw(auth, ptx.Amount, ptx.Account, ptx.Account)
	default:
		err = errors.Errorf("unknown tx kind %s", ptx.Kind)
	}
	if err != nil {
		if h.ctx.Err() != nil {
			h.finish(ptx, txman.MonitoredTxStatusCancelled, "", nil)
			return
		}
		h.finish(ptx, txman.MonitoredTxStatusFailed, SubmissionError, errors.Wrapf(err, "sending %s tx", ptx.Kind))
		return
	}
	logger.Infof("%s tx sent: %s, amount %s", ptx.Kind, tx.Hash().String(), ptx.Amount.String())
	h.setHash(ptx, tx.Hash())
	h.finishWithResult(ptx, h.waitTx(tx.Hash()))
}

// ensureAllowance sends and waits for an approve tx when the vault can't pull the deposit amount
func (h *Hook) ensureAllowance(ptx *PendingTransaction, auth *bind.TransactOpts) (DiagnosticKind, error) {
	ctx, cancel := context.WithTimeout(h.ctx, h.cfg.ReadTimeout.Duration)
	allowance, err := h.reader.Allowance(ctx, ptx.Account)
	cancel()
	if err != nil && h.ctx.Err() != nil {
		return "", gerror.ErrHookClosed
	}
	if err != nil {
		return ReadError, errors.Wrap(err, "reading allowance")
	}
	if allowance != nil && allowance.Cmp(ptx.Amount) >= 0 {
		return "", nil
	}
	if !h.cfg.AutoApprove {
		return PreconditionError, errors.Wrapf(gerror.ErrInsufficientAllowance, "allowance %v, deposit %s", allowance, ptx.Amount.String())
	}

	approval := &PendingTransaction{
		ID:          utils.GenerateTraceID(),
		Kind:        TxKindApprove,
		Amount:      ptx.Amount,
		Account:     ptx.Account,
		Status:      txman.MonitoredTxStatusSubmitted,
		SubmittedAt: h.timeProvider.Now(),
	}
	h.track(approval)
	tx, err := h.writer.Approve(auth, ptx.Amount)
	if err != nil {
		err = errors.Wrap(err, "sending approve tx")
		h.finish(approval, txman.MonitoredTxStatusFailed, SubmissionError, err)
		return SubmissionError, err
	}
	h.setHash(approval, tx.Hash())
	res := h.waitTx(tx.Hash())
	h.finishWithResult(approval, res)
	if res.Status != txman.MonitoredTxStatusConfirmed {
		if res.Status == txman.MonitoredTxStatusCancelled {
			return "", gerror.ErrHookClosed
		}
		return ConfirmationFailure, errors.Wrapf(resultErr(res), "approve tx %s", res.Status)
	}
	return "", nil
}

func (h *Hook) waitTx(hash common.Hash) txman.Result {
	done := make(chan txman.Result, 1)
	cancel := h.watcher.Watch(h.ctx, hash, func(r txman.Result) {
		select {
		case done <- r:
		default:
		}
	})
	defer cancel()
	select {
	case r := <-done:
		return r
	case <-h.ctx.Done():
		return txman.Result{Hash: hash, Status: txman.MonitoredTxStatusCancelled, Err: gerror.ErrHookClosed}
	}
}

func resultErr(res txman.Result) error {
	if res.Err != nil {
		return res.Err
	}
	return errors.Errorf("tx %s", res.Status)
}

func (h *Hook) finishWithResult(ptx *PendingTransaction, res txman.Result) {
	switch res.Status {
	case txman.MonitoredTxStatusConfirmed:
		h.finish(ptx, res.Status, "", nil)
	case txman.MonitoredTxStatusCancelled:
		h.finish(ptx, res.Status, "", nil)
	default:
		h.finish(ptx, res.Status, ConfirmationFailure, resultErr(res))
	}
}

func (h *Hook) track(ptx *PendingTransaction) {
	h.mu.Lock()
	h.pending = append(h.pending, ptx)
	snapshot := copyTxs([]*PendingTransaction{ptx})[0]
	h.mu.Unlock()
	metrics.RecordTxSubmitted(string(ptx.Kind))
	h.notifyTransaction(snapshot)
	h.changed()
}

func (h *Hook) setHash(ptx *PendingTransaction, hash common.Hash) {
	h.mu.Lock()
	ptx.Hash = hash
	snapshot := copyTxs([]*PendingTransaction{ptx})[0]
	h.mu.Unlock()
	h.notifyTransaction(snapshot)
	h.changed()
}

// finish moves the tx to its terminal status. A confirmed deposit or withdraw triggers one
// read of the locked value, the shares and the balance, and its kind stays loading until that
// read is applied, so the idle state published afterwards already has the new values.
func (h *Hook) finish(ptx *PendingTransaction, status txman.MonitoredTxStatus, kind DiagnosticKind, err error) {
	now := h.timeProvider.Now()
	var d *Diagnostic
	if err != nil && status != txman.MonitoredTxStatusCancelled {
		d = newDiagnostic(kind, string(ptx.Kind), err, now)
		d.TxID = ptx.ID
	}
	refresh := status == txman.MonitoredTxStatusConfirmed && ptx.Kind != TxKindApprove

	h.mu.Lock()
	ptx.Status = status
	ptx.FinishedAt = now
	if err != nil {
		ptx.Error = err.Error()
	}
	for i, p := range h.pending {
		if p == ptx {
			h.pending = append(h.pending[:i:i], h.pending[i+1:]...)
			break
		}
	}
	if ptx.Kind != TxKindApprove && !refresh {
		h.inFlight[ptx.Kind]--
	}
	h.recent = append(h.recent, ptx)
	if len(h.recent) > h.cfg.RecentTxs {
		h.recent = h.recent[len(h.recent)-h.cfg.RecentTxs:]
	}
	if d != nil {
		h.lastDiagnostic = d
	}
	snapshot := copyTxs([]*PendingTransaction{ptx})[0]
	h.mu.Unlock()

	metrics.RecordTxResult(string(ptx.Kind), status.String(), now.Sub(ptx.SubmittedAt))
	if d != nil {
		h.publishDiagnostic(d)
	}
	h.notifyTransaction(snapshot)
	if !refresh {
		h.changed()
		return
	}

	h.readRound(metrics.TriggerConfirmation, false, 0)
	h.mu.Lock()
	h.inFlight[ptx.Kind]--
	h.mu.Unlock()
	h.changed()
}

func (h *Hook) notifyTransaction(tx PendingTransaction) {
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()
	if !closed {
		h.listeners.notifyTransaction(tx)
	}
}
