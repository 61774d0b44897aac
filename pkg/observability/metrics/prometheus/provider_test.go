/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package prometheus

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/trustbloc/revocreg/pkg/observability/metrics"
)

func TestPromProvider(t *testing.T) {
	provider := NewPrometheusProvider(nil)
	require.NotNil(t, provider)

	err := provider.Create()
	require.NoError(t, err)

	m := provider.Metrics()
	require.NotNil(t, m)

	err = provider.Destroy()
	require.NoError(t, err)
}

func TestPromProvider_HTTPServer(t *testing.T) {
	provider := NewPrometheusProvider(&http.Server{Addr: "127.0.0.1:0", ReadHeaderTimeout: time.Second})

	require.NoError(t, provider.Create())
	require.NoError(t, provider.Destroy())
}

func TestMetrics(t *testing.T) {
	m := GetMetrics()
	require.NotNil(t, m)
	require.True(t, m == GetMetrics())

	t.Run("pipeline activity", func(t *testing.T) {
		require.NotPanics(t, func() { m.SignTime(time.Second) })
		require.NotPanics(t, func() { m.AccumulatorUpdateTime(time.Second) })
		require.NotPanics(t, func() { m.LedgerRequestTime("REVOC_REG_ENTRY", time.Second) })
	})

	t.Run("instrumented transport", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		client := &http.Client{Transport: m.InstrumentHTTPTransport(metrics.ClientLedgerPool, http.DefaultTransport)}

		resp, err := client.Get(srv.URL) //nolint:noctx
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestNewHistogram(t *testing.T) {
	labels := prometheus.Labels{"type": "create"}

	require.NotNil(t, newHistogram("ledger", "metric_name", "Some help", labels))
	require.NotNil(t, newHistogramVec("ledger", "metric_name", "Some help", []string{"type"}))
}
