package messagepush

const (
	BizCodeVaultTransaction = "unidonate_vault_tx"
	BizCodeVaultSnapshot    = "unidonate_vault_snapshot"
)

type PushMessage struct {
	BizCode       string `json:"bizCode"`
	WalletAddress string `json:"walletAddress"`
	RequestID     string `json:"requestId"`
	PushContent   string `json:"pushContent"`
	Time          int64  `json:"time"`
}

// TransactionUpdate is the content pushed when a vault tx changes status
type TransactionUpdate struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Status      string `json:"status"`
	Amount      string `json:"amount"`
	Hash        string `json:"hash,omitempty"`
	Account     string `json:"account"`
	Vault       string `json:"vault"`
	Error       string `json:"error,omitempty"`
	SubmittedAt int64  `json:"submittedAt"`
	FinishedAt  int64  `json:"finishedAt,omitempty"`
}

// SnapshotUpdate is the content pushed when the vault values change
type SnapshotUpdate struct {
	Account        string `json:"account,omitempty"`
	Vault          string `json:"vault"`
	TotalTVL       string `json:"totalTvl"`
	UserBalance    string `json:"userBalance"`
	UserShares     string `json:"userShares"`
	TotalDonations string `json:"totalDonations"`
	APY            string `json:"apy"`
	BlockNumber    uint64 `json:"blockNumber"`
	Version        uint64 `json:"version"`
}
