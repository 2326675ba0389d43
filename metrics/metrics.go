package metrics

import (
	"strconv"
	"time"
)

// ReadRoundTrigger tells what started a read round
type ReadRoundTrigger string

// Read round triggers
const (
	TriggerStart        ReadRoundTrigger = "start"
	TriggerHead         ReadRoundTrigger = "head"
	TriggerRefetch      ReadRoundTrigger = "refetch"
	TriggerConfirmation ReadRoundTrigger = "confirmation"
)

// RecordRequest increments the request count of the route and records its latency
func RecordRequest(route string, code int, latency time.Duration) {
	counterInc(metricRequestCount, map[string]string{labelRoute: route, labelCode: strconv.Itoa(code)})
	histogramObserve(metricRequestLatency, float64(latency/time.Millisecond), map[string]string{labelRoute: route})
}

// RecordRead records one vault contract read and its latency
func RecordRead(query string, latency time.Duration, isSuccess bool) {
	counterInc(metricReadCount, map[string]string{labelQuery: query, labelIsSuccess: strconv.FormatBool(isSuccess)})
	histogramObserve(metricReadLatency, float64(latency/time.Millisecond), map[string]string{labelQuery: query})
}

// RecordReadRound counts a group of reads started by trigger
func RecordReadRound(trigger ReadRoundTrigger) {
	counterInc(metricReadRounds, map[string]string{labelRoundTrigger: string(trigger)})
}

// RecordLatestBlock sets the latest chain head seen by the head watcher
func RecordLatestBlock(blockNumber uint64) {
	gaugeSet(metricLatestBlock, float64(blockNumber), nil)
}

// RecordVaultValue sets a vault value (tvl, donations, ...) in human units
func RecordVaultValue(name string, value float64) {
	gaugeSet(metricVaultValue, value, map[string]string{labelValueName: name})
}

// RecordDiagnostic counts a reported diagnostic
func RecordDiagnostic(kind string) {
	counterInc(metricDiagnostics, map[string]string{labelDiagnosticKey: kind})
}

// RecordTxSubmitted counts a submitted tx and adds it to the pending gauge
func RecordTxSubmitted(kind string) {
	counterInc(metricTxSubmitted, map[string]string{labelTxKind: kind})
	gaugeAdd(metricTxPendingCount, 1, map[string]string{labelTxKind: kind})
}

// RecordTxResult records the terminal status of a tx and how long it took
func RecordTxResult(kind, status string, dur time.Duration) {
	labels := map[string]string{labelTxKind: kind, labelStatus: status}
	counterInc(metricTxResultCount, labels)
	histogramObserve(metricTxDuration, dur.Seconds(), labels)
	gaugeAdd(metricTxPendingCount, -1, map[string]string{labelTxKind: kind})
}
