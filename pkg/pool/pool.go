/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package pool

import (
	"context"
	"errors"
	"time"

	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/trustbloc/revocreg/internal/logfields"
	"github.com/trustbloc/revocreg/pkg/ledger"
)

var logger = log.New("pool")

// ErrPoolClosed is returned by a pool used after Close.
var ErrPoolClosed = errors.New("pool is closed")

// Pool submits prepared requests to the ledger nodes. Transport failures are returned as errors;
// answers of the ledger, including rejections, are returned in RequestResult.
type Pool interface {
	Submit(ctx context.Context, req *ledger.PreparedRequest) (*RequestResult, error)
	// Refresh returns the pool transactions the nodes know about beyond the genesis set.
	Refresh(ctx context.Context) ([]string, error)
	Close() error
}

// RequestResult is the outcome of a request the pool got an answer for.
type RequestResult struct {
	// Reply is the ledger reply, set when the pool reached consensus on an answer.
	Reply []byte
	// Failed is set when the pool reached a negative consensus result without a reply.
	Failed string
	// Duration is the time spent waiting for the answer.
	Duration time.Duration
}

// IsFailed reports whether the pool failed to produce a reply.
func (r *RequestResult) IsFailed() bool {
	return r.Failed != ""
}

// Factory creates a pool connected to the nodes listed in txns.
type Factory func(txns *Transactions) (Pool, error)

// PerformRefresh refreshes p once. When the nodes report pool transactions beyond genesis, the
// genesis set is extended and a new pool is built from it; otherwise p is returned.
func PerformRefresh(ctx context.Context, p Pool, genesis *Transactions, factory Factory) (Pool, error) {
	txns, err := p.Refresh(ctx)
	if err != nil {
		return nil, err
	}

	if len(txns) == 0 {
		return p, nil
	}

	extended := genesis.Clone()

	if err = extended.Extend(txns); err != nil {
		return nil, err
	}

	refreshed, err := factory(extended)
	if err != nil {
		return nil, err
	}

	if err = p.Close(); err != nil {
		logger.Warnc(ctx, "failed to close previous pool", log.WithError(err))
	}

	logger.Infoc(ctx, "pool refreshed", logfields.WithTotal(extended.Len()))

	return refreshed, nil
}
