/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package prometheus

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/trustbloc/revocreg/internal/logfields"
	"github.com/trustbloc/revocreg/pkg/observability/metrics"
)

var logger = metrics.Logger

var (
	createOnce sync.Once       //nolint:gochecknoglobals
	instance   metrics.Metrics //nolint:gochecknoglobals
)

type promProvider struct {
	httpServer *http.Server
}

// NewPrometheusProvider creates new instance of Prometheus Metrics Provider. A nil server
// only collects metrics; otherwise the server exposes them on /metrics.
func NewPrometheusProvider(httpServer *http.Server) metrics.Provider {
	return &promProvider{httpServer: httpServer}
}

// Create creates/initializes the prometheus metrics provider.
func (pp *promProvider) Create() error {
	if pp.httpServer == nil {
		return nil
	}

	h := NewHandler()

	mux := http.NewServeMux()
	mux.Handle(h.Path(), h.Handler())

	pp.httpServer.Handler = mux

	go func() {
		if err := pp.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics HTTP server failed", log.WithError(err))
		}
	}()

	logger.Info("Metrics HTTP server started", logfields.WithPath(pp.httpServer.Addr+h.Path()))

	return nil
}

// Metrics returns supported metrics.
func (pp *promProvider) Metrics() metrics.Metrics {
	return GetMetrics()
}

// Destroy destroys the prometheus metrics provider.
func (pp *promProvider) Destroy() error {
	if pp.httpServer != nil {
		if err := pp.httpServer.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("shutdown metrics HTTP server: %w", err)
		}
	}

	return nil
}

// GetMetrics returns metrics implementation.
func GetMetrics() metrics.Metrics {
	createOnce.Do(func() {
		instance = NewMetrics()
	})

	return instance
}

// PromMetrics manages the metrics of the issuance pipeline.
type PromMetrics struct {
	signTime        prometheus.Histogram
	accumulatorTime prometheus.Histogram
	ledgerTime      *prometheus.HistogramVec
	httpTime        *prometheus.HistogramVec
}

// NewMetrics creates instance of prometheus metrics.
func NewMetrics() metrics.Metrics {
	pm := &PromMetrics{
		signTime:        newSignTime(),
		accumulatorTime: newAccumulatorTime(),
		ledgerTime:      newLedgerRequestTime(),
		httpTime:        newHTTPRequestTime(),
	}

	registerMetrics(pm)

	return pm
}

// SignTime records the time for sign.
func (pm *PromMetrics) SignTime(value time.Duration) {
	pm.signTime.Observe(value.Seconds())

	logger.Debug("crypto sign time", log.WithDuration(value))
}

// AccumulatorUpdateTime records the time of one accumulator transition.
func (pm *PromMetrics) AccumulatorUpdateTime(value time.Duration) {
	pm.accumulatorTime.Observe(value.Seconds())

	logger.Debug("accumulator update time", log.WithDuration(value))
}

// LedgerRequestTime records the time the ledger took to answer a request.
func (pm *PromMetrics) LedgerRequestTime(txnType string, value time.Duration) {
	pm.ledgerTime.With(prometheus.Labels{"txn_type": txnType}).Observe(value.Seconds())

	logger.Debug("ledger request time", logfields.WithTxnType(txnType), log.WithDuration(value))
}

// InstrumentHTTPTransport wraps transport to record request durations of client.
func (pm *PromMetrics) InstrumentHTTPTransport(client metrics.ClientID, transport http.RoundTripper) http.RoundTripper {
	return promhttp.InstrumentRoundTripperDuration(
		pm.httpTime.MustCurryWith(prometheus.Labels{"client": string(client)}),
		transport,
	)
}

func registerMetrics(pm *PromMetrics) {
	prometheus.MustRegister(
		pm.signTime, pm.accumulatorTime, pm.ledgerTime, pm.httpTime,
	)
}

func newHistogram(subsystem, name, help string, labels prometheus.Labels) prometheus.Histogram {
	return prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace:   metrics.Namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: labels,
	})
}

func newHistogramVec(subsystem, name, help string, labelNames []string) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metrics.Namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	}, labelNames)
}

func newSignTime() prometheus.Histogram {
	return newHistogram(
		metrics.Crypto, metrics.CryptoSignTimeMetric,
		"The time (in seconds) it takes to sign a ledger request.",
		nil,
	)
}

func newAccumulatorTime() prometheus.Histogram {
	return newHistogram(
		metrics.Crypto, metrics.CryptoAccumulatorTimeMetric,
		"The time (in seconds) it takes to compute a revocation accumulator transition.",
		nil,
	)
}

func newLedgerRequestTime() *prometheus.HistogramVec {
	return newHistogramVec(
		metrics.Ledger, metrics.LedgerRequestTimeMetric,
		"The time (in seconds) it takes the ledger to answer a request.",
		[]string{"txn_type"},
	)
}

func newHTTPRequestTime() *prometheus.HistogramVec {
	return newHistogramVec(
		metrics.Ledger, metrics.LedgerHTTPRequestMetric,
		"The time (in seconds) of HTTP requests sent to the ledger proxy.",
		[]string{"client", "code", "method"},
	)
}
