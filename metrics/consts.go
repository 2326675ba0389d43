package metrics

const (
	defaultMetricsEndpoint = "/metrics"
)

// Metric types
const (
	typeGauge     = "gauge"
	typeCounter   = "counter"
	typeHistogram = "histogram"
)

// Metric names and labels
const (
	prefix   = "unidonate_vault_"
	labelEnv = "env"

	prefixRequest        = prefix + "request_"
	metricRequestCount   = prefixRequest + "count"
	metricRequestLatency = prefixRequest + "latency_ms"
	labelRoute           = "route"
	labelCode            = "code"

	prefixRead        = prefix + "read_"
	metricReadCount   = prefixRead + "count"
	metricReadLatency = prefixRead + "latency_ms"
	metricReadRounds  = prefixRead + "round_count"
	labelQuery        = "query"
	labelIsSuccess    = "is_success"
	labelRoundTrigger = "trigger"

	metricLatestBlock  = prefix + "latest_block_num"
	metricVaultValue   = prefix + "value"
	labelValueName     = "name"
	metricDiagnostics  = prefix + "diagnostic_count"
	labelDiagnosticKey = "kind"

	prefixTx             = prefix + "tx_"
	metricTxSubmitted    = prefixTx + "submitted_count"
	metricTxResultCount  = prefixTx + "result_count"
	metricTxDuration     = prefixTx + "duration_sec"
	metricTxPendingCount = prefixTx + "pending_count"
	labelTxKind          = "kind"
	labelStatus          = "status"
)
