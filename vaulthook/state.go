package vaulthook

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/unidonate/unidonate-vault/txman"
)

// TxKind is the kind of a vault write
type TxKind string

const (
	// TxKindDeposit deposits assets for the account
	TxKindDeposit TxKind = "deposit"
	// TxKindWithdraw withdraws assets to the account
	TxKindWithdraw TxKind = "withdraw"
	// TxKindApprove approves the vault to pull assets before a deposit
	TxKindApprove TxKind = "approve"
)

// PendingTransaction is a write followed from submission to its terminal status
type PendingTransaction struct {
	ID          string                  `json:"id"`
	Kind        TxKind                  `json:"kind"`
	Amount      *big.Int                `json:"amount"`
	Account     common.Address          `json:"account"`
	Hash        common.Hash             `json:"hash"`
	Status      txman.MonitoredTxStatus `json:"status"`
	Error       string                  `json:"error,omitempty"`
	SubmittedAt time.Time               `json:"submittedAt"`
	FinishedAt  time.Time               `json:"finishedAt,omitempty"`
}

// HasHash reports whether the write call already returned a tx
func (p PendingTransaction) HasHash() bool {
	return p.Hash != (common.Hash{})
}

// RawValues are the integers returned by the vault reads
type RawValues struct {
	TotalAssets       *big.Int `json:"totalAssets"`
	Shares            *big.Int `json:"shares"`
	Balance           *big.Int `json:"balance"`
	TotalYieldDonated *big.Int `json:"totalYieldDonated"`
}

// State is the view of the vault exposed to the presentation layer.
// It's a copy, changing it doesn't affect the hook.
type State struct {
	Vault     common.Address `json:"vault"`
	Account   common.Address `json:"account"`
	Connected bool           `json:"connected"`

	TotalTVL       decimal.Decimal `json:"totalTvl"`
	UserBalance    decimal.Decimal `json:"userBalance"`
	UserShares     decimal.Decimal `json:"userShares"`
	TotalDonations decimal.Decimal `json:"totalDonations"`

	APY              decimal.Decimal `json:"apy"`
	APYIsPlaceholder bool            `json:"apyIsPlaceholder"`
	APYSource        string          `json:"apySource"`

	IsLoading         bool `json:"isLoading"`
	IsDepositLoading  bool `json:"isDepositLoading"`
	IsWithdrawLoading bool `json:"isWithdrawLoading"`
	IsRefreshing      bool `json:"isRefreshing"`

	Pending        []PendingTransaction `json:"pending"`
	Recent         []PendingTransaction `json:"recent"`
	LastDiagnostic *Diagnostic          `json:"lastDiagnostic,omitempty"`

	Raw         RawValues `json:"raw"`
	BlockNumber uint64    `json:"blockNumber"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Version     uint64    `json:"version"`
}

// TotalTVLFloat returns the locked value for display
func (s State) TotalTVLFloat() float64 {
	f, _ := s.TotalTVL.Float64()
	return f
}

// UserBalanceFloat returns the account balance for display
func (s State) UserBalanceFloat() float64 {
	f, _ := s.UserBalance.Float64()
	return f
}

// UserSharesFloat returns the account shares for display
func (s State) UserSharesFloat() float64 {
	f, _ := s.UserShares.Float64()
	return f
}

// TotalDonationsFloat returns the donated yield for display
func (s State) TotalDonationsFloat() float64 {
	f, _ := s.TotalDonations.Float64()
	return f
}

// APYFloat returns the APY percent for display
func (s State) APYFloat() float64 {
	f, _ := s.APY.Float64()
	return f
}

func copyBig(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}

func copyTxs(txs []*PendingTransaction) []PendingTransaction {
	out := make([]PendingTransaction, 0, len(txs))
	for _, tx := range txs {
		c := *tx
		c.Amount = copyBig(tx.Amount)
		out = append(out, c)
	}
	return out
}
