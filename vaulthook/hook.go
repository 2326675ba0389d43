package vaulthook

import (
	"context"
	"sync"
	"time"

	"github.com/0xPolygonHermez/zkevm-node/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/unidonate/unidonate-vault/gerror"
	"github.com/unidonate/unidonate-vault/metrics"
	"github.com/unidonate/unidonate-vault/utils"
	"github.com/unidonate/unidonate-vault/yieldsource"
)

const (
	defaultReadTimeout = 15 * time.Second
	defaultRecentTxs   = 10
)

// Option customizes a Hook
type Option func(h *Hook)

// WithTimeProvider replaces the system clock
func WithTimeProvider(tp utils.TimeProvider) Option {
	return func(h *Hook) {
		h.timeProvider = tp
	}
}

// WithVaultAddress sets the vault address reported in the state
func WithVaultAddress(addr common.Address) Option {
	return func(h *Hook) {
		h.vault = addr
	}
}

// Hook keeps the vault state live for one session and runs the deposit and withdraw pipelines
type Hook struct {
	cfg          Config
	session      utils.Session
	reader       ContractReader
	writer       ContractWriter
	watcher      TxWatcher
	heads        HeadWatcher
	yield        yieldsource.Provider
	timeProvider utils.TimeProvider
	vault        common.Address

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu               sync.Mutex
	closed           bool
	started          bool
	unsubscribeHeads func()
	raw              RawValues
	apy              yieldsource.Quote
	blockNumber      uint64
	updatedAt        time.Time
	version          uint64
	readsInFlight    int
	inFlight         map[TxKind]int
	pending          []*PendingTransaction
	recent           []*PendingTransaction
	lastDiagnostic   *Diagnostic
	headRoundBusy    bool

	listeners *listenerSet
}

// New creates the hook. Nothing is read until Start is called.
func New(cfg Config, session utils.Session, reader ContractReader, writer ContractWriter,
	watcher TxWatcher, heads HeadWatcher, yield yieldsource.Provider, opts ...Option) *Hook {
	if cfg.ReadTimeout.Duration <= 0 {
		cfg.ReadTimeout.Duration = defaultReadTimeout
	}
	if cfg.RecentTxs <= 0 {
		cfg.RecentTxs = defaultRecentTxs
	}
	ctx, cancel := context.WithCancel(context.Background())
	h := &Hook{
		cfg:          cfg,
		session:      session,
		reader:       reader,
		writer:       writer,
		watcher:      watcher,
		heads:        heads,
		yield:        yield,
		timeProvider: utils.NewTimeProviderSystemLocalTime(),
		ctx:          ctx,
		cancel:       cancel,
		inFlight:     make(map[TxKind]int),
		listeners:    newListenerSet(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Start reads the whole vault state once and starts watching the chain head.
// The hook is closed when ctx is done.
func (h *Hook) Start(ctx context.Context) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return gerror.ErrHookClosed
	}
	if h.started {
		h.mu.Unlock()
		return nil
	}
	h.started = true
	h.mu.Unlock()

	account, connected := h.session.Account()
	log.Infof("starting vault hook, vault %s, account %s (connected: %t)", h.vault.String(), account.String(), connected)
	if connected {
		h.goTracked(h.warmSigner)
	}
	h.readRound(metrics.TriggerStart, true, 0)

	unsubscribe := h.heads.Subscribe(h.ctx, h.onHead)
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		unsubscribe()
		return gerror.ErrHookClosed
	}
	h.unsubscribeHeads = unsubscribe
	h.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			h.Close()
		case <-h.ctx.Done():
		}
	}()
	return nil
}

// Close stops the head subscription and cancels the running pipelines and read rounds.
// Subscribers are not called anymore. It doesn't wait, so it's safe to call from a subscriber.
func (h *Hook) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	unsubscribe := h.unsubscribeHeads
	h.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	h.cancel()
	h.listeners.clear()
	log.Info("vault hook closed")
}

// Wait blocks until the pipelines and read rounds started by the hook are done.
// It must be called after Close and never from a subscriber.
func (h *Hook) Wait() {
	h.wg.Wait()
}

// warmSigner builds the session signer ahead of the first action, so a keystore session
// checks the node chain id off the caller's path
func (h *Hook) warmSigner() {
	if _, err := h.session.Signer(h.ctx); err != nil && h.ctx.Err() == nil {
		log.Debugf("session signer not ready: %v", err)
	}
}

// State returns a copy of the current state
func (h *Hook) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stateLocked()
}

func (h *Hook) stateLocked() State {
	account, connected := h.session.Account()
	s := State{
		Vault:     h.vault,
		Account:   account,
		Connected: connected,

		TotalTVL:       utils.FormatUnits(h.raw.TotalAssets, utils.AssetDecimals),
		UserBalance:    utils.FormatUnits(h.raw.Balance, utils.AssetDecimals),
		UserShares:     utils.FormatUnits(h.raw.Shares, utils.ShareDecimals),
		TotalDonations: utils.FormatUnits(h.raw.TotalYieldDonated, utils.AssetDecimals),

		APY:              h.apy.Value,
		APYIsPlaceholder: h.apy.Placeholder,
		APYSource:        h.apy.Source,

		IsDepositLoading:  h.inFlight[TxKindDeposit] > 0,
		IsWithdrawLoading: h.inFlight[TxKindWithdraw] > 0,
		IsRefreshing:      h.readsInFlight > 0,

		Pending: copyTxs(h.pending),
		Recent:  copyTxs(h.recent),

		Raw: RawValues{
			TotalAssets:       copyBig(h.raw.TotalAssets),
			Shares:            copyBig(h.raw.Shares),
			Balance:           copyBig(h.raw.Balance),
			TotalYieldDonated: copyBig(h.raw.TotalYieldDonated),
		},
		BlockNumber: h.blockNumber,
		UpdatedAt:   h.updatedAt,
		Version:     h.version,
	}
	s.IsLoading = s.IsDepositLoading || s.IsWithdrawLoading
	if h.lastDiagnostic != nil {
		d := *h.lastDiagnostic
		s.LastDiagnostic = &d
	}
	return s
}

// Subscribe registers fn to be called with the new state after every change
func (h *Hook) Subscribe(fn func(State)) (unsubscribe func()) {
	return h.listeners.addState(fn)
}

// SubscribeDiagnostics registers fn to be called with every reported diagnostic
func (h *Hook) SubscribeDiagnostics(fn func(Diagnostic)) (unsubscribe func()) {
	return h.listeners.addDiagnostic(fn)
}

// SubscribeTransactions registers fn to be called every time a tx changes status
func (h *Hook) SubscribeTransactions(fn func(PendingTransaction)) (unsubscribe func()) {
	return h.listeners.addTransaction(fn)
}

// changed bumps the version and notifies the state subscribers. Must be called without the lock.
func (h *Hook) changed() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.version++
	state := h.stateLocked()
	h.mu.Unlock()
	h.listeners.notifyState(state)
}

func (h *Hook) report(d *Diagnostic) {
	h.mu.Lock()
	h.lastDiagnostic = d
	h.mu.Unlock()
	h.publishDiagnostic(d)
}

// publishDiagnostic logs d and passes it to the subscribers, lastDiagnostic must be already set
func (h *Hook) publishDiagnostic(d *Diagnostic) {
	logger := log.WithFields("op", d.Op, "kind", string(d.Kind))
	if d.Kind == InputError || d.Kind == PreconditionError {
		logger.Warnf("%s", d.Message)
	} else {
		logger.Errorf("%s", d.Message)
	}
	metrics.RecordDiagnostic(string(d.Kind))

	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()
	if !closed {
		h.listeners.notifyDiagnostic(*d)
	}
}

// goTracked runs fn in a goroutine that Close waits for. It returns false once the hook is closed.
func (h *Hook) goTracked(fn func()) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		fn()
	}()
	return true
}
