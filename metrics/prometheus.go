package metrics

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/0xPolygonHermez/zkevm-node/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	mutex       sync.RWMutex
	registerer  prometheus.Registerer
	constLabels prometheus.Labels
	initialized bool

	gauges     map[string]*prometheus.GaugeVec
	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
)

func getLogger(metricName, metricType string) *log.Logger {
	return log.WithFields("metricName", metricName, "metricType", metricType)
}

// StartMetricsHttpServer initializes the metrics registry and serves the prometheus metrics
// until ctx is done
func StartMetricsHttpServer(ctx context.Context, c Config) error {
	if !c.Enabled {
		return nil
	}

	Init(prometheus.DefaultRegisterer, c.Env)

	endpoint := c.Endpoint
	if endpoint == "" {
		endpoint = defaultMetricsEndpoint
	}
	mux := http.NewServeMux()
	mux.Handle(endpoint, promhttp.Handler())
	srv := &http.Server{
		Addr:        ":" + c.Port,
		Handler:     mux,
		ReadTimeout: 5 * time.Second, //nolint:gomnd
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second) //nolint:gomnd
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Infof("metrics server listening on %s%s", srv.Addr, endpoint)
	err := srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Errorf("serve metrics http server error: %v", err)
		return err
	}
	return nil
}

// Init registers the vault metrics in reg. Until it's called every Record function is a no-op.
func Init(reg prometheus.Registerer, env string) {
	mutex.Lock()
	if !initialized {
		registerer = reg
		gauges = make(map[string]*prometheus.GaugeVec)
		counters = make(map[string]*prometheus.CounterVec)
		histograms = make(map[string]*prometheus.HistogramVec)
		if env != "" {
			constLabels = prometheus.Labels{labelEnv: env}
		}
		initialized = true
	}
	mutex.Unlock()

	registerCounter(prometheus.CounterOpts{Name: metricRequestCount, Help: "HTTP requests"}, labelRoute, labelCode)
	registerHistogram(prometheus.HistogramOpts{Name: metricRequestLatency, Help: "HTTP request latency", Buckets: prometheus.ExponentialBuckets(1, 2, 12)}, labelRoute) //nolint:gomnd
	registerCounter(prometheus.CounterOpts{Name: metricReadCount, Help: "Vault contract reads"}, labelQuery, labelIsSuccess)
	registerHistogram(prometheus.HistogramOpts{Name: metricReadLatency, Help: "Vault contract read latency", Buckets: prometheus.ExponentialBuckets(5, 2, 10)}, labelQuery) //nolint:gomnd
	registerCounter(prometheus.CounterOpts{Name: metricReadRounds, Help: "Vault read rounds"}, labelRoundTrigger)
	registerGauge(prometheus.GaugeOpts{Name: metricLatestBlock, Help: "Latest chain head seen"})
	registerGauge(prometheus.GaugeOpts{Name: metricVaultValue, Help: "Vault values in human units"}, labelValueName)
	registerCounter(prometheus.CounterOpts{Name: metricDiagnostics, Help: "Reported diagnostics"}, labelDiagnosticKey)
	registerCounter(prometheus.CounterOpts{Name: metricTxSubmitted, Help: "Submitted vault transactions"}, labelTxKind)
	registerCounter(prometheus.CounterOpts{Name: metricTxResultCount, Help: "Vault transaction results"}, labelTxKind, labelStatus)
	registerHistogram(prometheus.HistogramOpts{Name: metricTxDuration, Help: "Time from submission to result", Buckets: prometheus.ExponentialBuckets(1, 2, 10)}, labelTxKind, labelStatus) //nolint:gomnd
	registerGauge(prometheus.GaugeOpts{Name: metricTxPendingCount, Help: "Vault transactions waiting for a result"}, labelTxKind)
}

/*
 * -------------------- Gauge functions --------------------
 */

func registerGauge(opt prometheus.GaugeOpts, labelNames ...string) {
	logger := getLogger(opt.Name, typeGauge)
	mutex.Lock()
	defer mutex.Unlock()
	if !initialized {
		return
	}
	if _, ok := gauges[opt.Name]; ok {
		return
	}

	opt.ConstLabels = constLabels
	collector := prometheus.NewGaugeVec(opt, labelNames)
	if err := registerer.Register(collector); err != nil {
		logger.Errorf("metrics register error: %v", err)
		return
	}
	gauges[opt.Name] = collector

	logger.Debugf("metrics register successfully")
}

func gaugeSet(name string, value float64, labelValues map[string]string) {
	mutex.RLock()
	defer mutex.RUnlock()
	if !initialized {
		return
	}

	c, ok := gauges[name]
	if !ok {
		getLogger(name, typeGauge).Errorf("collector not found")
		return
	}
	c.With(labelValues).Set(value)
}

func gaugeAdd(name string, value float64, labelValues map[string]string) {
	mutex.RLock()
	defer mutex.RUnlock()
	if !initialized {
		return
	}

	c, ok := gauges[name]
	if !ok {
		getLogger(name, typeGauge).Errorf("collector not found")
		return
	}
	c.With(labelValues).Add(value)
}

/*
 * -------------------- Counter functions --------------------
 */

func registerCounter(opt prometheus.CounterOpts, labelNames ...string) {
	logger := getLogger(opt.Name, typeCounter)
	mutex.Lock()
	defer mutex.Unlock()
	if !initialized {
		return
	}
	if _, ok := counters[opt.Name]; ok {
		return
	}

	opt.ConstLabels = constLabels
	collector := prometheus.NewCounterVec(opt, labelNames)
	if err := registerer.Register(collector); err != nil {
		logger.Errorf("metrics register error: %v", err)
		return
	}
	counters[opt.Name] = collector

	logger.Debugf("metrics register successfully")
}

func counterInc(name string, labelValues map[string]string) {
	mutex.RLock()
	defer mutex.RUnlock()
	if !initialized {
		return
	}

	c, ok := counters[name]
	if !ok {
		getLogger(name, typeCounter).Errorf("collector not found")
		return
	}
	c.With(labelValues).Inc()
}

/*
 * -------------------- Histogram functions --------------------
 */

func registerHistogram(opt prometheus.HistogramOpts, labelNames ...string) {
	logger := getLogger(opt.Name, typeHistogram)
	mutex.Lock()
	defer mutex.Unlock()
	if !initialized {
		return
	}
	if _, ok := histograms[opt.Name]; ok {
		return
	}

	opt.ConstLabels = constLabels
	collector := prometheus.NewHistogramVec(opt, labelNames)
	if err := registerer.Register(collector); err != nil {
		logger.Errorf("metrics register error: %v", err)
		return
	}
	histograms[opt.Name] = collector

	logger.Debugf("metrics register successfully")
}

func histogramObserve(name string, value float64, labelValues map[string]string) {
	mutex.RLock()
	defer mutex.RUnlock()
	if !initialized {
		return
	}

	c, ok := histograms[name]
	if !ok {
		getLogger(name, typeHistogram).Errorf("collector not found")
		return
	}
	c.With(labelValues).Observe(value)
}
