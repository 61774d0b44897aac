/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

//go:generate mockgen -destination gomocks_test.go -package submitter . Service

package submitter

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/trustbloc/revocreg/pkg/ledger"
	"github.com/trustbloc/revocreg/pkg/observability/tracing/attributeutil"
	"github.com/trustbloc/revocreg/pkg/service/submitter"
	"github.com/trustbloc/revocreg/pkg/txnerr"
)

// Service is the submitter API traced by Wrapper.
type Service interface {
	SignAndSubmit(ctx context.Context, req *ledger.PreparedRequest, signer submitter.Signer) (*ledger.Reply, error)
	Submit(ctx context.Context, req *ledger.PreparedRequest) (*ledger.Reply, error)
}

// Wrapper starts a span around every submission of the wrapped Service.
type Wrapper struct {
	svc    Service
	tracer trace.Tracer
}

// Wrap returns svc instrumented with tracer.
func Wrap(svc Service, tracer trace.Tracer) *Wrapper {
	return &Wrapper{svc: svc, tracer: tracer}
}

func (w *Wrapper) SignAndSubmit(
	ctx context.Context,
	req *ledger.PreparedRequest,
	signer submitter.Signer,
) (*ledger.Reply, error) {
	ctx, span := w.tracer.Start(ctx, "submitter.SignAndSubmit")
	defer span.End()

	span.SetAttributes(
		attribute.String("txn_type", req.TxnType.String()),
		attribute.Int64("req_id", req.ReqID),
		attribute.String("identifier", req.Identifier()),
		attribute.Bool("signed", signer != nil),
	)

	reply, err := w.svc.SignAndSubmit(ctx, req, signer)
	if err != nil {
		recordError(span, err)

		return nil, err
	}

	span.SetAttributes(attributeutil.JSON("reply_data", reply.Data()))

	return reply, nil
}

func (w *Wrapper) Submit(ctx context.Context, req *ledger.PreparedRequest) (*ledger.Reply, error) {
	ctx, span := w.tracer.Start(ctx, "submitter.Submit")
	defer span.End()

	span.SetAttributes(attribute.String("txn_type", req.TxnType.String()))
	span.SetAttributes(attributeutil.JSON("request", req, attributeutil.WithRedacted("signature")))

	reply, err := w.svc.Submit(ctx, req)
	if err != nil {
		recordError(span, err)

		return nil, err
	}

	return reply, nil
}

func recordError(span trace.Span, err error) {
	if reason, ok := txnerr.ReasonOf(err); ok {
		span.SetAttributes(attribute.String("ledger_reason", reason))
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, string(txnerr.KindOf(err)))
}
