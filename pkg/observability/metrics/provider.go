/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"net/http"
	"time"

	"github.com/trustbloc/logutil-go/pkg/log"
)

// Logger used by different metrics provider.
var Logger = log.New("metrics-provider")

// Constants used by different metrics provider.
const (
	// Namespace Organization namespace.
	Namespace = "revocreg"

	// Crypto plain crypto operations.
	Crypto                      = "crypto"
	CryptoSignTimeMetric        = "sign_seconds"
	CryptoAccumulatorTimeMetric = "accumulator_update_seconds"

	// Ledger requests.
	Ledger                  = "ledger"
	LedgerRequestTimeMetric = "request_seconds"
	LedgerHTTPRequestMetric = "http_request_seconds"
)

// ClientID names an instrumented HTTP client.
type ClientID string

const (
	ClientLedgerPool ClientID = "ledger-pool"
)

// Provider is an interface for metrics provider.
type Provider interface {
	// Create creates a metrics provider instance
	Create() error
	// Destroy destroys the metrics provider instance
	Destroy() error
	// Metrics providers metrics
	Metrics() Metrics
}

// Metrics is an interface for the metrics to be supported by the provider.
type Metrics interface {
	SignTime(value time.Duration)
	AccumulatorUpdateTime(value time.Duration)
	LedgerRequestTime(txnType string, value time.Duration)
	InstrumentHTTPTransport(client ClientID, transport http.RoundTripper) http.RoundTripper
}
