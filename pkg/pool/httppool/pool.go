/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package httppool implements pool.Pool on top of a ledger HTTP proxy exposing
// POST /submit and GET /genesis.
package httppool

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/trustbloc/revocreg/internal/logfields"
	"github.com/trustbloc/revocreg/pkg/ledger"
	"github.com/trustbloc/revocreg/pkg/pool"
)

var logger = log.New("http-pool")

const (
	submitEndpoint  = "/submit"
	genesisEndpoint = "/genesis"

	defaultMaxRetries    = 3
	defaultRetryInterval = 500 * time.Millisecond
)

var (
	// ErrLedgerUnavailable is returned when the proxy answers with a server error or throttles the request.
	// The outcome of a write request that failed this way is unknown.
	ErrLedgerUnavailable = errors.New("ledger is unavailable")
	// ErrUnexpectedStatus is returned for any other non-200 answer of the proxy.
	ErrUnexpectedStatus = errors.New("unexpected proxy answer")
)

type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Pool submits requests through a ledger HTTP proxy.
type Pool struct {
	baseURL       string
	client        httpClient
	genesis       *pool.Transactions
	maxRetries    uint64
	retryInterval time.Duration
	closed        atomic.Bool
}

// Opt configures Pool.
type Opt func(p *Pool)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(client httpClient) Opt {
	return func(p *Pool) {
		p.client = client
	}
}

// WithRetry sets how often read requests and refreshes are retried after a transport failure.
func WithRetry(maxRetries uint64, interval time.Duration) Opt {
	return func(p *Pool) {
		p.maxRetries = maxRetries
		p.retryInterval = interval
	}
}

// New returns a pool talking to the proxy at baseURL.
func New(baseURL string, genesis *pool.Transactions, opts ...Opt) (*Pool, error) {
	if baseURL == "" {
		return nil, errors.New("ledger url is empty")
	}

	if genesis == nil {
		return nil, errors.New("genesis transactions are required")
	}

	p := &Pool{
		baseURL:       strings.TrimSuffix(baseURL, "/"),
		client:        http.DefaultClient,
		genesis:       genesis,
		maxRetries:    defaultMaxRetries,
		retryInterval: defaultRetryInterval,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// Submit sends req to the ledger. Write requests are sent once. Only a 200 answer carries a ledger
// reply; every other answer is returned as an error since the proxy may have forwarded the request.
func (p *Pool) Submit(ctx context.Context, req *ledger.PreparedRequest) (*pool.RequestResult, error) {
	if p.closed.Load() {
		return nil, pool.ErrPoolClosed
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	start := time.Now()

	var result *pool.RequestResult

	send := func() error {
		result, err = p.submit(ctx, body)

		return err
	}

	if req.TxnType.IsRead() {
		err = p.retry(ctx, send, "submit")
	} else {
		err = send()
	}

	if err != nil {
		return nil, err
	}

	result.Duration = time.Since(start)

	logger.Debugc(ctx, "request answered", logfields.WithTxnType(req.TxnType.String()),
		logfields.WithReqID(req.ReqID), log.WithDuration(result.Duration))

	return result, nil
}

// Refresh fetches the pool transactions of the proxy and returns the ones missing from genesis.
func (p *Pool) Refresh(ctx context.Context) ([]string, error) {
	if p.closed.Load() {
		return nil, pool.ErrPoolClosed
	}

	var body []byte

	err := p.retry(ctx, func() error {
		var e error

		body, e = p.get(ctx, genesisEndpoint)

		return e
	}, "refresh")
	if err != nil {
		return nil, err
	}

	current, err := pool.TransactionsFromJSON(body)
	if err != nil {
		return nil, fmt.Errorf("parse pool transactions: %w", err)
	}

	extended := p.genesis.Clone()

	if err = extended.Extend(current.Encode()); err != nil {
		return nil, err
	}

	return extended.Encode()[p.genesis.Len():], nil
}

// Close marks the pool closed.
func (p *Pool) Close() error {
	p.closed.Store(true)

	return nil
}

// Genesis returns the pool transactions the pool was built from.
func (p *Pool) Genesis() *pool.Transactions {
	return p.genesis
}

func (p *Pool) submit(ctx context.Context, body []byte) (*pool.RequestResult, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+submitEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Content-Type", "application/json")

	respBody, err := p.do(httpReq)
	if err != nil {
		return nil, err
	}

	return &pool.RequestResult{Reply: respBody}, nil
}

func (p *Pool) get(ctx context.Context, endpoint string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+endpoint, http.NoBody)
	if err != nil {
		return nil, err
	}

	return p.do(httpReq)
}

func (p *Pool) do(req *http.Request) ([]byte, error) {
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Warn("failed to close response body", log.WithError(closeErr))
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode >= http.StatusInternalServerError, resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: unexpected status code %d with body %s",
			ErrLedgerUnavailable, resp.StatusCode, string(body))
	default:
		return nil, fmt.Errorf("%w: unexpected status code %d with body %s",
			ErrUnexpectedStatus, resp.StatusCode, string(body))
	}
}

func (p *Pool) retry(ctx context.Context, task func() error, op string) error {
	return backoff.RetryNotify(
		func() error {
			err := task()
			if errors.Is(err, ErrUnexpectedStatus) {
				return backoff.Permanent(err)
			}

			return err
		},
		backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(p.retryInterval), p.maxRetries), ctx),
		func(retryErr error, t time.Duration) {
			logger.Warnc(ctx, "Ledger request failed, will sleep before trying again.",
				logfields.WithAction(op), log.WithError(retryErr), log.WithDuration(t))
		},
	)
}
