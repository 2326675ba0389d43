package vaulthook

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/0xPolygonHermez/zkevm-node/config/types"
	"github.com/0xPolygonHermez/zkevm-node/log"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/unidonate/unidonate-vault/gerror"
	"github.com/unidonate/unidonate-vault/txman"
	"github.com/unidonate/unidonate-vault/utils"
	"github.com/unidonate/unidonate-vault/yieldsource"
)

func init() {
	log.Init(log.Config{
		Level:   "debug",
		Outputs: []string{"stderr"},
	})
}

const waitFor = 2 * time.Second

var testAccount = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

type fakeSession struct {
	account     common.Address
	connected   bool
	signerErr   error
	signerCalls int32
}

func (s *fakeSession) Account() (common.Address, bool) {
	return s.account, s.connected
}

func (s *fakeSession) Signer(ctx context.Context) (*bind.TransactOpts, error) {
	atomic.AddInt32(&s.signerCalls, 1)
	if s.signerErr != nil {
		return nil, s.signerErr
	}
	return &bind.TransactOpts{From: s.account, Context: ctx}, nil
}

type fakeTxWatcher struct {
	mu      sync.Mutex
	watches map[common.Hash]func(txman.Result)
	hashes  chan common.Hash
}

func newFakeTxWatcher() *fakeTxWatcher {
	return &fakeTxWatcher{
		watches: make(map[common.Hash]func(txman.Result)),
		hashes:  make(chan common.Hash, 10),
	}
}

func (w *fakeTxWatcher) Watch(_ context.Context, hash common.Hash, onResult func(txman.Result)) func() {
	w.mu.Lock()
	w.watches[hash] = onResult
	w.mu.Unlock()
	w.hashes <- hash
	return func() {}
}

func (w *fakeTxWatcher) next(t *testing.T) common.Hash {
	select {
	case h := <-w.hashes:
		return h
	case <-time.After(waitFor):
		t.Fatal("no tx was watched")
		return common.Hash{}
	}
}

func (w *fakeTxWatcher) resolve(hash common.Hash, status txman.MonitoredTxStatus, err error) {
	w.mu.Lock()
	onResult := w.watches[hash]
	w.mu.Unlock()
	receipt := &ethTypes.Receipt{TxHash: hash, BlockNumber: big.NewInt(1)}
	if status == txman.MonitoredTxStatusConfirmed {
		receipt.Status = ethTypes.ReceiptStatusSuccessful
	}
	onResult(txman.Result{Hash: hash, Status: status, Receipt: receipt, Err: err})
}

type fakeHeads struct {
	mu     sync.Mutex
	onHead func(uint64)
	stops  int32
}

func (f *fakeHeads) Subscribe(_ context.Context, onHead func(uint64)) func() {
	f.mu.Lock()
	f.onHead = onHead
	f.mu.Unlock()
	return func() { atomic.AddInt32(&f.stops, 1) }
}

func (f *fakeHeads) fire(blockNumber uint64) {
	f.mu.Lock()
	onHead := f.onHead
	f.mu.Unlock()
	onHead(blockNumber)
}

type readCounts struct {
	totalAssets, balanceOf, convertToAssets, donations int32
}

func (c *readCounts) get() [4]int32 {
	return [4]int32{
		atomic.LoadInt32(&c.totalAssets),
		atomic.LoadInt32(&c.balanceOf),
		atomic.LoadInt32(&c.convertToAssets),
		atomic.LoadInt32(&c.donations),
	}
}

type testEnv struct {
	hook    *Hook
	session *fakeSession
	reader  *contractReaderMock
	writer  *contractWriterMock
	watcher *fakeTxWatcher
	heads   *fakeHeads
	reads   *readCounts
	nonce   uint64
}

func newTestEnv(t *testing.T, cfg Config) *testEnv {
	e := &testEnv{
		session: &fakeSession{account: testAccount, connected: true},
		reader:  newContractReaderMock(t),
		writer:  newContractWriterMock(t),
		watcher: newFakeTxWatcher(),
		heads:   &fakeHeads{},
		reads:   &readCounts{},
	}
	e.hook = New(cfg, e.session, e.reader, e.writer, e.watcher, e.heads, yieldsource.NewPlaceholder(8.5),
		WithVaultAddress(common.HexToAddress("0xC7bC611973d2E7cE41100F3C507ec340182b7377")))
	t.Cleanup(func() {
		e.hook.Close()
		e.hook.Wait()
	})
	return e
}

func (e *testEnv) expectReads(tvl, shares, balance, donations *big.Int) {
	e.reader.On("TotalAssets", mock.Anything).Return(tvl, nil).
		Run(func(mock.Arguments) { atomic.AddInt32(&e.reads.totalAssets, 1) })
	e.reader.On("BalanceOf", mock.Anything, e.session.account).Return(shares, nil).
		Run(func(mock.Arguments) { atomic.AddInt32(&e.reads.balanceOf, 1) })
	e.reader.On("ConvertToAssets", mock.Anything, shares).Return(balance, nil).
		Run(func(mock.Arguments) { atomic.AddInt32(&e.reads.convertToAssets, 1) })
	e.reader.On("TotalYieldDonated", mock.Anything).Return(donations, nil).
		Run(func(mock.Arguments) { atomic.AddInt32(&e.reads.donations, 1) })
}

func (e *testEnv) start(t *testing.T) {
	e.expectReads(big.NewInt(1_000_000_000), big.NewInt(500_000_000_000_000_000), big.NewInt(1_500_000), big.NewInt(250_000))
	require.NoError(t, e.hook.Start(context.Background()))
	require.Equal(t, [4]int32{1, 1, 1, 1}, e.reads.get())
}

func (e *testEnv) newTx() *ethTypes.Transaction {
	e.nonce++
	return ethTypes.NewTx(&ethTypes.LegacyTx{Nonce: e.nonce, GasPrice: big.NewInt(1), Gas: 21000})
}

func bigEq(expected int64) interface{} {
	return mock.MatchedBy(func(v *big.Int) bool { return v != nil && v.Cmp(big.NewInt(expected)) == 0 })
}

func TestStartReadsState(t *testing.T) {
	e := newTestEnv(t, Config{})
	e.start(t)

	s := e.hook.State()
	assert.Equal(t, "1000", s.TotalTVL.String())
	assert.Equal(t, 1000.0, s.TotalTVLFloat())
	assert.Equal(t, "0.5", s.UserShares.String())
	assert.Equal(t, 0.5, s.UserSharesFloat())
	assert.Equal(t, "1.5", s.UserBalance.String())
	assert.Equal(t, "0.25", s.TotalDonations.String())
	assert.Equal(t, 8.5, s.APYFloat())
	assert.True(t, s.APYIsPlaceholder)
	assert.Equal(t, yieldsource.PlaceholderSource, s.APYSource)
	assert.True(t, s.Connected)
	assert.Equal(t, testAccount, s.Account)
	assert.False(t, s.IsLoading)
	assert.False(t, s.IsRefreshing)
	assert.NotZero(t, s.Version)
	assert.Nil(t, s.LastDiagnostic)
}

func TestStartWithoutAccount(t *testing.T) {
	e := newTestEnv(t, Config{})
	e.session.connected = false
	e.reader.On("TotalAssets", mock.Anything).Return(big.NewInt(2_000_000), nil)
	e.reader.On("TotalYieldDonated", mock.Anything).Return(big.NewInt(0), nil)
	require.NoError(t, e.hook.Start(context.Background()))

	s := e.hook.State()
	assert.Equal(t, "2", s.TotalTVL.String())
	assert.True(t, s.UserShares.IsZero())
	assert.True(t, s.UserBalance.IsZero())
	e.reader.AssertNotCalled(t, "BalanceOf", mock.Anything, mock.Anything)
	e.reader.AssertNotCalled(t, "ConvertToAssets", mock.Anything, mock.Anything)
	require.Zero(t, atomic.LoadInt32(&e.session.signerCalls))
}

func TestStartWarmsSigner(t *testing.T) {
	e := newTestEnv(t, Config{})
	e.start(t)
	require.Eventually(t, func() bool { return atomic.LoadInt32(&e.session.signerCalls) == 1 }, waitFor, time.Millisecond)
}

func TestActionPreconditions(t *testing.T) {
	testCases := []struct {
		name      string
		amount    string
		connected bool
		signerErr error
		kind      DiagnosticKind
		err       error
	}{
		{"empty amount", "", true, nil, InputError, gerror.ErrEmptyAmount},
		{"blank amount", "   ", true, nil, InputError, gerror.ErrEmptyAmount},
		{"not a number", "abc", true, nil, InputError, gerror.ErrInvalidAmount},
		{"zero", "0", true, nil, InputError, gerror.ErrNonPositiveAmount},
		{"below the asset precision", "0.0000001", true, nil, InputError, gerror.ErrNonPositiveAmount},
		{"no account", "1", false, nil, PreconditionError, gerror.ErrNotConnected},
		{"wrong network", "1", true, gerror.ErrNetworkMismatch, PreconditionError, gerror.ErrNetworkMismatch},
		{"no signer", "1", true, gerror.ErrWriteNotReady, PreconditionError, gerror.ErrWriteNotReady},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEnv(t, Config{})
			e.session.connected = tc.connected
			e.session.signerErr = tc.signerErr
			var diagnostics []Diagnostic
			e.hook.SubscribeDiagnostics(func(d Diagnostic) { diagnostics = append(diagnostics, d) })

			for _, action := range []func(string) error{e.hook.Deposit, e.hook.Withdraw} {
				err := action(tc.amount)
				require.Error(t, err)
				require.ErrorIs(t, err, tc.err)
				var d *Diagnostic
				require.True(t, errors.As(err, &d))
				require.Equal(t, tc.kind, d.Kind)
			}
			require.Len(t, diagnostics, 2)
			require.Equal(t, "deposit", diagnostics[0].Op)
			require.Equal(t, "withdraw", diagnostics[1].Op)

			s := e.hook.State()
			require.False(t, s.IsLoading)
			require.Empty(t, s.Pending)
			require.NotNil(t, s.LastDiagnostic)
			e.writer.AssertNotCalled(t, "Deposit", mock.Anything, mock.Anything, mock.Anything)
			e.writer.AssertNotCalled(t, "Withdraw", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestDepositConfirmationRefreshes(t *testing.T) {
	e := newTestEnv(t, Config{})
	e.start(t)

	tx := e.newTx()
	e.writer.On("Deposit", mock.Anything, bigEq(1_500_000), testAccount).Return(tx, nil).Once()
	var txUpdates []PendingTransaction
	var mu sync.Mutex
	e.hook.SubscribeTransactions(func(p PendingTransaction) {
		mu.Lock()
		txUpdates = append(txUpdates, p)
		mu.Unlock()
	})

	require.NoError(t, e.hook.Deposit("1.5"))
	hash := e.watcher.next(t)
	require.Equal(t, tx.Hash(), hash)

	s := e.hook.State()
	require.True(t, s.IsDepositLoading)
	require.True(t, s.IsLoading)
	require.False(t, s.IsWithdrawLoading)
	require.Len(t, s.Pending, 1)
	require.Equal(t, hash, s.Pending[0].Hash)
	require.Equal(t, txman.MonitoredTxStatusSubmitted, s.Pending[0].Status)

	// the idle state is published once the refreshed values are applied
	var readsWhenIdle []int32
	e.hook.Subscribe(func(s State) {
		if !s.IsDepositLoading && len(s.Recent) == 1 {
			mu.Lock()
			readsWhenIdle = append(readsWhenIdle, e.reads.get()[0])
			mu.Unlock()
		}
	})

	e.watcher.resolve(hash, txman.MonitoredTxStatusConfirmed, nil)
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(readsWhenIdle) > 0
	}, waitFor, time.Millisecond)
	require.False(t, e.hook.State().IsRefreshing)

	// exactly one read of the locked value, the shares and the balance, donations are not read
	require.Equal(t, [4]int32{2, 2, 2, 1}, e.reads.get())
	s = e.hook.State()
	require.False(t, s.IsDepositLoading)
	require.False(t, s.IsLoading)
	require.Empty(t, s.Pending)
	require.Len(t, s.Recent, 1)
	require.Equal(t, txman.MonitoredTxStatusConfirmed, s.Recent[0].Status)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []int32{2}, readsWhenIdle)
	require.Len(t, txUpdates, 3)
	require.False(t, txUpdates[0].HasHash())
	require.True(t, txUpdates[1].HasHash())
	require.Equal(t, txman.MonitoredTxStatusConfirmed, txUpdates[2].Status)
}

func TestWithdrawArguments(t *testing.T) {
	e := newTestEnv(t, Config{CheckAllowance: true})
	e.start(t)

	tx := e.newTx()
	e.writer.On("Withdraw", mock.Anything, bigEq(250_000), testAccount, testAccount).Return(tx, nil).Once()
	require.NoError(t, e.hook.Withdraw("0.25"))
	hash := e.watcher.next(t)
	require.True(t, e.hook.State().IsWithdrawLoading)

	e.watcher.resolve(hash, txman.MonitoredTxStatusConfirmed, nil)
	require.Eventually(t, func() bool { return !e.hook.State().IsWithdrawLoading }, waitFor, time.Millisecond)
	require.Equal(t, int32(2), e.reads.get()[2])
	// no allowance is needed to withdraw
	e.reader.AssertNotCalled(t, "Allowance", mock.Anything, mock.Anything)
}

func TestRevertedDepositDoesNotRefresh(t *testing.T) {
	e := newTestEnv(t, Config{})
	e.start(t)

	e.writer.On("Deposit", mock.Anything, bigEq(1_000_000), testAccount).Return(e.newTx(), nil).Once()
	require.NoError(t, e.hook.Deposit("1"))
	hash := e.watcher.next(t)
	e.watcher.resolve(hash, txman.MonitoredTxStatusFailed, gerror.ErrTxReverted)

	require.Eventually(t, func() bool { return !e.hook.State().IsDepositLoading }, waitFor, time.Millisecond)
	s := e.hook.State()
	require.Len(t, s.Recent, 1)
	require.Equal(t, txman.MonitoredTxStatusFailed, s.Recent[0].Status)
	require.NotNil(t, s.LastDiagnostic)
	require.Equal(t, ConfirmationFailure, s.LastDiagnostic.Kind)
	require.Equal(t, s.Recent[0].ID, s.LastDiagnostic.TxID)
	require.ErrorIs(t, s.LastDiagnostic, gerror.ErrTxReverted)

	time.Sleep(20 * time.Millisecond)
	require.Equal(t, [4]int32{1, 1, 1, 1}, e.reads.get())
}

func TestSubmissionError(t *testing.T) {
	e := newTestEnv(t, Config{})
	e.start(t)

	e.writer.On("Deposit", mock.Anything, mock.Anything, testAccount).Return(nil, errors.New("user rejected the request")).Once()
	diagnostics := make(chan Diagnostic, 1)
	e.hook.SubscribeDiagnostics(func(d Diagnostic) { diagnostics <- d })
	require.NoError(t, e.hook.Deposit("3"))

	select {
	case d := <-diagnostics:
		require.Equal(t, SubmissionError, d.Kind)
		require.Contains(t, d.Message, "user rejected the request")
	case <-time.After(waitFor):
		t.Fatal("no diagnostic reported")
	}
	require.Eventually(t, func() bool { return !e.hook.State().IsLoading }, waitFor, time.Millisecond)
	require.Equal(t, txman.MonitoredTxStatusFailed, e.hook.State().Recent[0].Status)
}

func TestConcurrentDepositAndWithdraw(t *testing.T) {
	e := newTestEnv(t, Config{})
	e.start(t)

	depositTx, withdrawTx := e.newTx(), e.newTx()
	e.writer.On("Deposit", mock.Anything, bigEq(2_000_000), testAccount).Return(depositTx, nil).Once()
	e.writer.On("Withdraw", mock.Anything, bigEq(1_000_000), testAccount, testAccount).Return(withdrawTx, nil).Once()

	require.NoError(t, e.hook.Deposit("2"))
	require.NoError(t, e.hook.Withdraw("1"))
	hashes := map[common.Hash]bool{e.watcher.next(t): true, e.watcher.next(t): true}
	require.True(t, hashes[depositTx.Hash()])
	require.True(t, hashes[withdrawTx.Hash()])

	s := e.hook.State()
	require.True(t, s.IsDepositLoading)
	require.True(t, s.IsWithdrawLoading)

	e.watcher.resolve(withdrawTx.Hash(), txman.MonitoredTxStatusFailed, gerror.ErrTxReverted)
	require.Eventually(t, func() bool { return !e.hook.State().IsWithdrawLoading }, waitFor, time.Millisecond)
	s = e.hook.State()
	require.True(t, s.IsDepositLoading)
	require.True(t, s.IsLoading)

	e.watcher.resolve(depositTx.Hash(), txman.MonitoredTxStatusConfirmed, nil)
	require.Eventually(t, func() bool { return !e.hook.State().IsLoading }, waitFor, time.Millisecond)
	require.Eventually(t, func() bool { return e.reads.get()[2] == 2 }, waitFor, time.Millisecond)
	require.Len(t, e.hook.State().Recent, 2)
}

type neverMinedNode struct {
	clock *utils.TimeProviderManual
}

func (n *neverMinedNode) CheckTxWasMined(context.Context, common.Hash) (bool, *ethTypes.Receipt, error) {
	n.clock.Advance(time.Minute)
	return false, nil, nil
}

func TestStuckDeposit(t *testing.T) {
	clock := utils.NewTimeProviderManual(time.Unix(1_700_000_000, 0))
	monitor := txman.NewMonitorTxs(&neverMinedNode{clock: clock}, txman.Config{
		FrequencyToMonitorTxs: types.Duration{Duration: time.Millisecond},
		ConfirmationTimeout:   types.Duration{Duration: 5 * time.Minute},
	}, clock)

	e := newTestEnv(t, Config{})
	e.hook.Close()
	e.hook = New(Config{}, e.session, e.reader, e.writer, monitor, e.heads, nil, WithTimeProvider(clock))
	e.writer.On("Deposit", mock.Anything, bigEq(1_000_000), testAccount).Return(e.newTx(), nil).Once()

	require.NoError(t, e.hook.Deposit("1"))
	require.Eventually(t, func() bool { return !e.hook.State().IsDepositLoading }, waitFor, time.Millisecond)

	s := e.hook.State()
	require.Equal(t, txman.MonitoredTxStatusStuck, s.Recent[0].Status)
	require.Equal(t, ConfirmationFailure, s.LastDiagnostic.Kind)
	require.ErrorIs(t, s.LastDiagnostic, gerror.ErrTxStuck)
	e.reader.AssertNotCalled(t, "TotalAssets", mock.Anything)
}

func TestAllowance(t *testing.T) {
	t.Run("low allowance without auto approve", func(t *testing.T) {
		e := newTestEnv(t, Config{CheckAllowance: true})
		e.start(t)
		e.reader.On("Allowance", mock.Anything, testAccount).Return(big.NewInt(10), nil).Once()

		require.NoError(t, e.hook.Deposit("1"))
		require.Eventually(t, func() bool { return !e.hook.State().IsDepositLoading }, waitFor, time.Millisecond)
		s := e.hook.State()
		require.Equal(t, PreconditionError, s.LastDiagnostic.Kind)
		require.ErrorIs(t, s.LastDiagnostic, gerror.ErrInsufficientAllowance)
		e.writer.AssertNotCalled(t, "Approve", mock.Anything, mock.Anything)
		e.writer.AssertNotCalled(t, "Deposit", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("enough allowance", func(t *testing.T) {
		e := newTestEnv(t, Config{CheckAllowance: true, AutoApprove: true})
		e.start(t)
		e.reader.On("Allowance", mock.Anything, testAccount).Return(big.NewInt(1_000_000), nil).Once()
		e.writer.On("Deposit", mock.Anything, bigEq(1_000_000), testAccount).Return(e.newTx(), nil).Once()

		require.NoError(t, e.hook.Deposit("1"))
		e.watcher.resolve(e.watcher.next(t), txman.MonitoredTxStatusConfirmed, nil)
		require.Eventually(t, func() bool { return !e.hook.State().IsDepositLoading }, waitFor, time.Millisecond)
		e.writer.AssertNotCalled(t, "Approve", mock.Anything, mock.Anything)
	})

	t.Run("auto approve", func(t *testing.T) {
		e := newTestEnv(t, Config{CheckAllowance: true, AutoApprove: true})
		e.start(t)
		approveTx, depositTx := e.newTx(), e.newTx()
		e.reader.On("Allowance", mock.Anything, testAccount).Return(big.NewInt(0), nil).Once()
		e.writer.On("Approve", mock.Anything, bigEq(5_000_000)).Return(approveTx, nil).Once()
		e.writer.On("Deposit", mock.Anything, bigEq(5_000_000), testAccount).Return(depositTx, nil).Once()

		require.NoError(t, e.hook.Deposit("5"))
		require.Equal(t, approveTx.Hash(), e.watcher.next(t))
		s := e.hook.State()
		require.Len(t, s.Pending, 2)
		require.True(t, s.IsDepositLoading)

		e.watcher.resolve(approveTx.Hash(), txman.MonitoredTxStatusConfirmed, nil)
		require.Equal(t, depositTx.Hash(), e.watcher.next(t))
		e.watcher.resolve(depositTx.Hash(), txman.MonitoredTxStatusConfirmed, nil)
		require.Eventually(t, func() bool { return !e.hook.State().IsDepositLoading }, waitFor, time.Millisecond)
		require.Eventually(t, func() bool { return e.reads.get()[0] == 2 }, waitFor, time.Millisecond)

		s = e.hook.State()
		require.Len(t, s.Recent, 2)
		require.Equal(t, TxKindApprove, s.Recent[0].Kind)
		require.Equal(t, TxKindDeposit, s.Recent[1].Kind)
	})

	t.Run("approve reverted", func(t *testing.T) {
		e := newTestEnv(t, Config{CheckAllowance: true, AutoApprove: true})
		e.start(t)
		approveTx := e.newTx()
		e.reader.On("Allowance", mock.Anything, testAccount).Return(big.NewInt(0), nil).Once()
		e.writer.On("Approve", mock.Anything, bigEq(5_000_000)).Return(approveTx, nil).Once()

		require.NoError(t, e.hook.Deposit("5"))
		e.watcher.resolve(e.watcher.next(t), txman.MonitoredTxStatusFailed, gerror.ErrTxReverted)
		require.Eventually(t, func() bool { return !e.hook.State().IsDepositLoading }, waitFor, time.Millisecond)
		s := e.hook.State()
		require.Len(t, s.Recent, 2)
		require.Equal(t, txman.MonitoredTxStatusFailed, s.Recent[1].Status)
		e.writer.AssertNotCalled(t, "Deposit", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("closed while approving", func(t *testing.T) {
		e := newTestEnv(t, Config{CheckAllowance: true, AutoApprove: true})
		e.start(t)
		e.reader.On("Allowance", mock.Anything, testAccount).Return(big.NewInt(0), nil).Once()
		e.writer.On("Approve", mock.Anything, bigEq(5_000_000)).Return(e.newTx(), nil).Once()

		require.NoError(t, e.hook.Deposit("5"))
		e.watcher.next(t)
		e.hook.Close()
		e.hook.Wait()

		s := e.hook.State()
		require.Empty(t, s.Pending)
		require.Len(t, s.Recent, 2)
		require.Equal(t, txman.MonitoredTxStatusCancelled, s.Recent[0].Status)
		require.Equal(t, txman.MonitoredTxStatusCancelled, s.Recent[1].Status)
		require.Nil(t, s.LastDiagnostic)
		require.False(t, s.IsDepositLoading)
		e.writer.AssertNotCalled(t, "Deposit", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRefetch(t *testing.T) {
	e := newTestEnv(t, Config{})
	e.start(t)

	e.hook.Refetch()
	e.hook.Refetch()
	require.Equal(t, [4]int32{3, 3, 3, 3}, e.reads.get())
}

func TestHeadTriggersReads(t *testing.T) {
	e := newTestEnv(t, Config{})
	e.start(t)

	e.heads.fire(12)
	require.Equal(t, [4]int32{2, 2, 2, 2}, e.reads.get())
	require.Equal(t, uint64(12), e.hook.State().BlockNumber)
}

func TestReadErrorKeepsPreviousValue(t *testing.T) {
	e := newTestEnv(t, Config{})
	e.reader.On("TotalAssets", mock.Anything).Return(big.NewInt(1_000_000_000), nil).Once()
	e.reader.On("TotalAssets", mock.Anything).Return(nil, errors.New("execution reverted")).Once()
	e.reader.On("BalanceOf", mock.Anything, testAccount).Return(big.NewInt(0), nil)
	e.reader.On("ConvertToAssets", mock.Anything, mock.Anything).Return(big.NewInt(0), nil)
	e.reader.On("TotalYieldDonated", mock.Anything).Return(big.NewInt(0), nil)
	require.NoError(t, e.hook.Start(context.Background()))

	e.hook.Refetch()
	s := e.hook.State()
	require.Equal(t, "1000", s.TotalTVL.String())
	require.NotNil(t, s.LastDiagnostic)
	require.Equal(t, ReadError, s.LastDiagnostic.Kind)
	require.Equal(t, queryTotalAssets, s.LastDiagnostic.Op)
	// balance is read even without shares
	e.reader.AssertNumberOfCalls(t, "ConvertToAssets", 2)
}

func TestSubscribe(t *testing.T) {
	e := newTestEnv(t, Config{})
	e.start(t)

	var calls int32
	unsubscribe := e.hook.Subscribe(func(s State) {
		atomic.AddInt32(&calls, 1)
	})
	e.hook.Refetch()
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))

	unsubscribe()
	unsubscribe()
	e.hook.Refetch()
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClose(t *testing.T) {
	e := newTestEnv(t, Config{})
	e.start(t)

	e.hook.Close()
	e.hook.Close()
	require.Equal(t, int32(1), atomic.LoadInt32(&e.heads.stops))

	err := e.hook.Deposit("1")
	require.ErrorIs(t, err, gerror.ErrHookClosed)
	require.ErrorIs(t, e.hook.Start(context.Background()), gerror.ErrHookClosed)
	e.hook.Refetch()
	require.Equal(t, [4]int32{1, 1, 1, 1}, e.reads.get())
}

func TestCloseStopsPipelines(t *testing.T) {
	e := newTestEnv(t, Config{})
	e.start(t)
	e.writer.On("Deposit", mock.Anything, mock.Anything, testAccount).Return(e.newTx(), nil).Once()

	require.NoError(t, e.hook.Deposit("1"))
	e.watcher.next(t)
	e.hook.Close()
	e.hook.Wait()

	s := e.hook.State()
	require.Empty(t, s.Pending)
	require.Equal(t, txman.MonitoredTxStatusCancelled, s.Recent[0].Status)
}

func TestCloseFromSubscriber(t *testing.T) {
	e := newTestEnv(t, Config{})
	e.start(t)
	e.writer.On("Deposit", mock.Anything, bigEq(1_000_000), testAccount).Return(e.newTx(), nil).Once()

	closed := make(chan struct{})
	e.hook.SubscribeTransactions(func(p PendingTransaction) {
		if p.Status == txman.MonitoredTxStatusFailed {
			e.hook.Close()
			close(closed)
		}
	})
	require.NoError(t, e.hook.Deposit("1"))
	e.watcher.resolve(e.watcher.next(t), txman.MonitoredTxStatusFailed, gerror.ErrTxReverted)

	select {
	case <-closed:
	case <-time.After(waitFor):
		t.Fatal("Close called from a subscriber didn't return")
	}
	waited := make(chan struct{})
	go func() {
		e.hook.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-time.After(waitFor):
		t.Fatal("pipeline didn't end after Close")
	}
	require.ErrorIs(t, e.hook.Start(context.Background()), gerror.ErrHookClosed)
}

func TestWaitCoversHeadRounds(t *testing.T) {
	e := newTestEnv(t, Config{})
	e.session.connected = false
	entered := make(chan struct{})
	var returned int32
	e.reader.On("TotalAssets", mock.Anything).Return(big.NewInt(1), nil).Once()
	e.reader.On("TotalAssets", mock.Anything).Return(func(ctx context.Context) (*big.Int, error) {
		close(entered)
		<-ctx.Done()
		atomic.StoreInt32(&returned, 1)
		return nil, ctx.Err()
	}).Once()
	e.reader.On("TotalYieldDonated", mock.Anything).Return(big.NewInt(0), nil)
	require.NoError(t, e.hook.Start(context.Background()))

	go e.heads.fire(2)
	select {
	case <-entered:
	case <-time.After(waitFor):
		t.Fatal("head round didn't start")
	}
	e.hook.Close()
	e.hook.Wait()
	require.Equal(t, int32(1), atomic.LoadInt32(&returned))
	require.Nil(t, e.hook.State().LastDiagnostic)
}
