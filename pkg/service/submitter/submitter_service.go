/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

//go:generate mockgen -destination submitter_service_mocks_test.go -self_package mocks -package submitter_test -source=submitter_service.go -mock_names ledgerPool=MockLedgerPool,Signer=MockSigner

package submitter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/trustbloc/revocreg/internal/logfields"
	"github.com/trustbloc/revocreg/pkg/ledger"
	"github.com/trustbloc/revocreg/pkg/observability/metrics"
	"github.com/trustbloc/revocreg/pkg/observability/metrics/noop"
	"github.com/trustbloc/revocreg/pkg/pool"
	"github.com/trustbloc/revocreg/pkg/txnerr"
)

var logger = log.New("submitter")

type ledgerPool interface {
	Submit(ctx context.Context, req *ledger.PreparedRequest) (*pool.RequestResult, error)
}

// Signer signs the canonical serialization of a request.
type Signer interface {
	Sign(msg []byte) ([]byte, error)
}

// Config holds configuration of the submitter.
type Config struct {
	Pool    ledgerPool
	Metrics metrics.Metrics
}

// Service signs prepared requests and submits them to the ledger pool.
type Service struct {
	pool    ledgerPool
	metrics metrics.Metrics
}

// NewService returns new Service.
func NewService(config *Config) *Service {
	m := config.Metrics
	if m == nil {
		m = noop.GetMetrics()
	}

	return &Service{
		pool:    config.Pool,
		metrics: m,
	}
}

// SignAndSubmit signs req with signer, when given, and submits it. The reply is returned only when
// the ledger accepted the request. Transport errors of the pool are returned unchanged and the
// request is never resubmitted.
func (s *Service) SignAndSubmit(
	ctx context.Context,
	req *ledger.PreparedRequest,
	signer Signer,
) (*ledger.Reply, error) {
	if signer != nil {
		if err := s.sign(req, signer); err != nil {
			return nil, txnerr.NewError(txnerr.SignatureError, txnerr.SubmitterComponent, err).
				WithOperation("SignAndSubmit")
		}
	}

	st := time.Now()

	result, err := s.pool.Submit(ctx, req)
	if err != nil {
		logger.Warnc(ctx, "Ledger request failed", logfields.WithTxnType(req.TxnType.String()),
			logfields.WithReqID(req.ReqID), log.WithError(err))

		return nil, err
	}

	duration := result.Duration
	if duration == 0 {
		duration = time.Since(st)
	}

	s.metrics.LedgerRequestTime(req.TxnType.String(), duration)

	if result.IsFailed() {
		return nil, txnerr.NewLedgerRejected(result.Failed)
	}

	reply, err := ledger.ParseReply(result.Reply)
	if err != nil {
		return nil, fmt.Errorf("parse %s reply: %w", req.TxnType, err)
	}

	if !reply.Accepted() {
		logger.Infoc(ctx, "Ledger rejected request", logfields.WithTxnType(req.TxnType.String()),
			logfields.WithReqID(req.ReqID), logfields.WithReason(reply.Reason()))

		return nil, txnerr.NewLedgerRejected(reply.Reason())
	}

	logger.Debugc(ctx, "Ledger accepted request", logfields.WithTxnType(req.TxnType.String()),
		logfields.WithReqID(req.ReqID), log.WithDuration(duration))

	return reply, nil
}

// Submit sends an unsigned request, e.g. a read-only query.
func (s *Service) Submit(ctx context.Context, req *ledger.PreparedRequest) (*ledger.Reply, error) {
	return s.SignAndSubmit(ctx, req, nil)
}

func (s *Service) sign(req *ledger.PreparedRequest, signer Signer) error {
	if req.Signature() != "" {
		return ledger.ErrAlreadySigned
	}

	input, err := req.SignatureInput()
	if err != nil {
		return fmt.Errorf("serialize request: %w", err)
	}

	st := time.Now()

	signature, err := signer.Sign([]byte(input))
	if err != nil {
		return fmt.Errorf("sign request: %w", err)
	}

	s.metrics.SignTime(time.Since(st))

	if len(signature) == 0 {
		return errors.New("signer returned empty signature")
	}

	return req.SetSignature(signature)
}
