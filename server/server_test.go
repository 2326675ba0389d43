package server

import (
	"bufio"
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/0xPolygonHermez/zkevm-node/log"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unidonate/unidonate-vault/gerror"
	"github.com/unidonate/unidonate-vault/utils"
	"github.com/unidonate/unidonate-vault/vaulthook"
)

func init() {
	log.Init(log.Config{
		Level:   "debug",
		Outputs: []string{"stderr"},
	})
}

type fakeHook struct {
	mu        sync.Mutex
	state     vaulthook.State
	actionErr error
	amounts   []string
	refetches int
	listeners []func(vaulthook.State)
}

func (f *fakeHook) State() vaulthook.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeHook) Deposit(amountText string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.amounts = append(f.amounts, "deposit:"+amountText)
	return f.actionErr
}

func (f *fakeHook) Withdraw(amountText string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.amounts = append(f.amounts, "withdraw:"+amountText)
	return f.actionErr
}

func (f *fakeHook) Refetch() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refetches++
}

func (f *fakeHook) Subscribe(fn func(vaulthook.State)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners = append(f.listeners, fn)
	return func() {}
}

func (f *fakeHook) emit(s vaulthook.State) {
	f.mu.Lock()
	listeners := append([]func(vaulthook.State){}, f.listeners...)
	f.state = s
	f.mu.Unlock()
	for _, fn := range listeners {
		fn(s)
	}
}

func (f *fakeHook) subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listeners)
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	return doRequestWithHeaders(t, h, method, path, body, map[string]string{"Content-Type": "application/json"})
}

func doRequestWithHeaders(t *testing.T, h http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestState(t *testing.T) {
	hook := &fakeHook{state: vaulthook.State{TotalTVL: decimal.RequireFromString("1000"), APY: decimal.NewFromFloat(8.5), APYIsPlaceholder: true}}
	s := NewServer(Config{AllowedOrigin: "https://unidonate.app"}, hook)

	rec := doRequestWithHeaders(t, s.Handler(), http.MethodGet, "/api/vault/state", "", map[string]string{"Origin": "https://unidonate.app"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://unidonate.app", rec.Header().Get("Access-Control-Allow-Origin"))
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "1000", body["totalTvl"])
	assert.Equal(t, "8.5", body["apy"])
	assert.Equal(t, true, body["apyIsPlaceholder"])

	rec = doRequest(t, s.Handler(), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	// no cross origin access by default
	rec = doRequestWithHeaders(t, NewServer(Config{}, hook).Handler(), http.MethodGet, "/api/vault/state", "", map[string]string{"Origin": "https://unidonate.app"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestActions(t *testing.T) {
	testCases := []struct {
		name   string
		path   string
		body   string
		err    error
		status int
		kind   string
	}{
		{"deposit accepted", "/api/vault/deposit", `{"amount":"1.5"}`, nil, http.StatusAccepted, ""},
		{"withdraw accepted", "/api/vault/withdraw", `{"amount":"2"}`, nil, http.StatusAccepted, ""},
		{"bad body", "/api/vault/deposit", `{"amount":`, nil, http.StatusBadRequest, ""},
		{"input error", "/api/vault/deposit", `{"amount":"x"}`, &vaulthook.Diagnostic{Kind: vaulthook.InputError, Op: "deposit", Message: "invalid"}, http.StatusBadRequest, "InputError"},
		{"precondition error", "/api/vault/withdraw", `{"amount":"1"}`, &vaulthook.Diagnostic{Kind: vaulthook.PreconditionError, Op: "withdraw", Message: "wallet not connected"}, http.StatusConflict, "PreconditionError"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			hook := &fakeHook{actionErr: tc.err}
			rec := doRequest(t, NewServer(Config{}, hook).Handler(), http.MethodPost, tc.path, tc.body)
			require.Equal(t, tc.status, rec.Code)
			if tc.kind != "" {
				var resp errorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				require.Equal(t, tc.kind, resp.Kind)
				require.Equal(t, tc.status, resp.Code)
			}
		})
	}

	rec := doRequest(t, NewServer(Config{}, &fakeHook{}).Handler(), http.MethodGet, "/api/vault/deposit", "")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestPreflight(t *testing.T) {
	hook := &fakeHook{}
	preflight := map[string]string{
		"Origin":                         "https://unidonate.app",
		"Access-Control-Request-Method":  http.MethodPost,
		"Access-Control-Request-Headers": "Content-Type",
	}
	rec := doRequestWithHeaders(t, NewServer(Config{AllowedOrigin: "https://unidonate.app"}, hook).Handler(), http.MethodOptions, "/api/vault/deposit", "", preflight)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "https://unidonate.app", rec.Header().Get("Access-Control-Allow-Origin"))

	preflight["Origin"] = "https://evil.example"
	rec = doRequestWithHeaders(t, NewServer(Config{AllowedOrigin: "https://unidonate.app"}, hook).Handler(), http.MethodOptions, "/api/vault/deposit", "", preflight)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	rec = doRequestWithHeaders(t, NewServer(Config{}, hook).Handler(), http.MethodOptions, "/api/vault/deposit", "", preflight)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	require.Empty(t, hook.amounts)
}

func TestWriteGuard(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     Config
		headers map[string]string
		status  int
	}{
		{"cross origin text body", Config{}, map[string]string{"Content-Type": "text/plain", "Origin": "https://evil.example"}, http.StatusForbidden},
		{"cross origin json body", Config{AllowedOrigin: "https://unidonate.app"}, map[string]string{"Content-Type": "application/json", "Origin": "https://evil.example"}, http.StatusForbidden},
		{"text body without origin", Config{}, map[string]string{"Content-Type": "text/plain"}, http.StatusUnsupportedMediaType},
		{"form body from allowed origin", Config{AllowedOrigin: "https://unidonate.app"}, map[string]string{"Content-Type": "application/x-www-form-urlencoded", "Origin": "https://unidonate.app"}, http.StatusUnsupportedMediaType},
		{"json from allowed origin", Config{AllowedOrigin: "https://unidonate.app"}, map[string]string{"Content-Type": "application/json; charset=utf-8", "Origin": "https://unidonate.app"}, http.StatusAccepted},
		{"any origin", Config{AllowedOrigin: "*"}, map[string]string{"Content-Type": "application/json", "Origin": "https://other.example"}, http.StatusAccepted},
		{"missing token", Config{AuthToken: "secret"}, map[string]string{"Content-Type": "application/json"}, http.StatusUnauthorized},
		{"wrong token", Config{AuthToken: "secret"}, map[string]string{"Content-Type": "application/json", "Authorization": "Bearer other"}, http.StatusUnauthorized},
		{"valid token", Config{AuthToken: "secret"}, map[string]string{"Content-Type": "application/json", "Authorization": "Bearer secret"}, http.StatusAccepted},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			hook := &fakeHook{}
			rec := doRequestWithHeaders(t, NewServer(tc.cfg, hook).Handler(), http.MethodPost, "/api/vault/withdraw", `{"amount":"1000"}`, tc.headers)
			require.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusAccepted {
				require.Equal(t, []string{"withdraw:1000"}, hook.amounts)
			} else {
				require.Empty(t, hook.amounts)
			}
		})
	}
}

func TestDefaultHost(t *testing.T) {
	s := NewServer(Config{HTTPPort: "8080"}, &fakeHook{})
	require.Equal(t, "127.0.0.1", s.cfg.Host)
	s = NewServer(Config{Host: "0.0.0.0", HTTPPort: "8080"}, &fakeHook{})
	require.Equal(t, "0.0.0.0", s.cfg.Host)
}

func TestRefetch(t *testing.T) {
	hook := &fakeHook{}
	rec := doRequest(t, NewServer(Config{}, hook).Handler(), http.MethodPost, "/api/vault/refetch", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, hook.refetches)
}

type countingWriter struct {
	calls int32
}

func (w *countingWriter) Deposit(*bind.TransactOpts, *big.Int, common.Address) (*types.Transaction, error) {
	atomic.AddInt32(&w.calls, 1)
	return nil, gerror.ErrWriteNotReady
}

func (w *countingWriter) Withdraw(*bind.TransactOpts, *big.Int, common.Address, common.Address) (*types.Transaction, error) {
	atomic.AddInt32(&w.calls, 1)
	return nil, gerror.ErrWriteNotReady
}

func (w *countingWriter) Approve(*bind.TransactOpts, *big.Int) (*types.Transaction, error) {
	atomic.AddInt32(&w.calls, 1)
	return nil, gerror.ErrWriteNotReady
}

func TestEmptyAmountNeverWrites(t *testing.T) {
	writer := &countingWriter{}
	session := utils.NewReadOnlySession(common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"))
	hook := vaulthook.New(vaulthook.Config{}, session, nil, writer, nil, nil, nil)
	defer hook.Close()
	s := NewServer(Config{}, hook)

	for _, path := range []string{"/api/vault/deposit", "/api/vault/withdraw"} {
		rec := doRequest(t, s.Handler(), http.MethodPost, path, `{"amount":""}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		var resp errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, string(vaulthook.InputError), resp.Kind)
	}

	// view only sessions can't sign
	rec := doRequest(t, s.Handler(), http.MethodPost, "/api/vault/deposit", `{"amount":"1"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Zero(t, atomic.LoadInt32(&writer.calls))
}

func TestStream(t *testing.T) {
	hook := &fakeHook{state: vaulthook.State{Version: 1}}
	ts := httptest.NewServer(NewServer(Config{}, hook).Handler())
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/vault/stream", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readState := func() vaulthook.State {
		var state vaulthook.State
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			if strings.HasPrefix(line, "data: ") {
				require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &state))
				return state
			}
		}
	}

	require.Equal(t, uint64(1), readState().Version)
	require.Eventually(t, func() bool { return hook.subscribers() == 1 }, time.Second, time.Millisecond)
	hook.emit(vaulthook.State{Version: 2, TotalTVL: decimal.NewFromInt(5)})
	state := readState()
	require.Equal(t, uint64(2), state.Version)
	require.Equal(t, "5", state.TotalTVL.String())
}
