package config

// DefaultValues is the default configuration
const DefaultValues = `
[Log]
Environment = "development"
Level = "info"
Outputs = ["stderr"]

[Etherman]
URL = "http://localhost:8545"
VaultAddress = "0xC7bC611973d2E7cE41100F3C507ec340182b7377"
TokenAddress = "0x7560AC196B6C54f427E1d3f48F52274541254F65"

[Wallet]
Account = "0x0000000000000000000000000000000000000000"
    [Wallet.Keystore]
    Path = ""
    Password = ""

[TxMonitor]
FrequencyToMonitorTxs = "1s"
ConfirmationTimeout = "5m"
RetryNumber = 5

[Synchronizer]
WatchInterval = "4s"
UseSubscription = false

[Vault]
CheckAllowance = true
AutoApprove = false
ReadTimeout = "15s"
RecentTxs = 10

[Yield]
PlaceholderAPY = 8.5

[Server]
Host = "127.0.0.1"
HTTPPort = "8080"
AllowedOrigin = ""
AuthToken = ""
ReadTimeout = "5s"
HeartbeatInterval = "30s"

[Metrics]
Enabled = false
Port = "9091"
Endpoint = "/metrics"
Env = ""

[MessagePush]
Enabled = false
UseFakeProducer = true
Brokers = ["localhost:9092"]
Topic = "unidonate-vault"
PushKey = ""
`
