/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package startcmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/trustbloc/revocreg/cmd/common"
	"github.com/trustbloc/revocreg/internal/logfields"
	"github.com/trustbloc/revocreg/pkg/did"
	"github.com/trustbloc/revocreg/pkg/observability/metrics"
	"github.com/trustbloc/revocreg/pkg/observability/metrics/noop"
	"github.com/trustbloc/revocreg/pkg/observability/metrics/prometheus"
	"github.com/trustbloc/revocreg/pkg/observability/tracing"
	submittertracing "github.com/trustbloc/revocreg/pkg/observability/tracing/wrappers/submitter"
	"github.com/trustbloc/revocreg/pkg/pool"
	"github.com/trustbloc/revocreg/pkg/pool/httppool"
	"github.com/trustbloc/revocreg/pkg/pool/localledger"
	"github.com/trustbloc/revocreg/pkg/service/submitter"
)

var logger = log.New("revocreg-cli")

const serviceName = "revocreg-cli"

type options struct {
	version string
}

// StartOpts configures the start command.
type StartOpts func(opts *options)

// WithVersion sets the version reported by the start command.
func WithVersion(version string) StartOpts {
	return func(opts *options) {
		opts.version = version
	}
}

// GetStartCmd returns the Cobra start command.
func GetStartCmd(opts ...StartOpts) *cobra.Command {
	startCmd := createStartCmd(opts...)

	createFlags(startCmd)

	return startCmd
}

func createStartCmd(opts ...StartOpts) *cobra.Command {
	o := &options{}

	for _, opt := range opts {
		opt(o)
	}

	return &cobra.Command{
		Use:   "start",
		Short: "Run a ledger action",
		Long:  "Run an action against the ledger: publish a revocation registry and revoke credentials," +
			" or read and write the ledger flag",
		RunE: func(cmd *cobra.Command, args []string) error {
			parameters, err := getStartupParameters(cmd)
			if err != nil {
				return err
			}

			if o.version != "" {
				logger.Info("Starting revocreg-cli", logfields.WithVersion(o.version))
			}

			return runAction(cmd.Context(), parameters)
		},
	}
}

// environment holds the components shared by all actions.
type environment struct {
	params    *startupParameters
	root      *did.Identity
	submitter *submittertracing.Wrapper
	metrics   metrics.Metrics
}

func runAction(ctx context.Context, params *startupParameters) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if params.logLevel != "" {
		common.SetDefaultLogLevel(logger, params.logLevel)
	}

	shutdownTracer, tracer, err := tracing.Initialize(params.tracingProvider, serviceName)
	if err != nil {
		return fmt.Errorf("initialize tracing: %w", err)
	}

	defer shutdownTracer()

	metricsProvider, err := createMetricsProvider(params)
	if err != nil {
		return err
	}

	if metricsProvider != nil {
		defer func() {
			if destroyErr := metricsProvider.Destroy(); destroyErr != nil {
				logger.Warn("Failed to destroy metrics provider", log.WithError(destroyErr))
			}
		}()
	}

	m := noop.GetMetrics()
	if metricsProvider != nil {
		m = metricsProvider.Metrics()
	}

	root, err := did.Generate([]byte(params.seed))
	if err != nil {
		return fmt.Errorf("root identity: %w", err)
	}

	ledgerPool, err := createPool(ctx, params, root, m)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := ledgerPool.Close(); closeErr != nil {
			logger.Warn("Failed to close ledger pool", log.WithError(closeErr))
		}
	}()

	env := &environment{
		params: params,
		root:   root,
		submitter: submittertracing.Wrap(submitter.NewService(&submitter.Config{
			Pool:    ledgerPool,
			Metrics: m,
		}), tracer),
		metrics: m,
	}

	logger.Infoc(ctx, "Running action", logfields.WithAction(params.action), logfields.WithDID(root.DID))

	switch params.action {
	case actionRev:
		return env.revoke(ctx)
	case actionFlag:
		return env.setFlag(ctx)
	case actionGetFlag:
		return env.getFlag(ctx)
	case actionGetNym:
		return env.getNym(ctx)
	default:
		return fmt.Errorf("unsupported action %q", params.action)
	}
}

func createMetricsProvider(params *startupParameters) (metrics.Provider, error) {
	if params.metricsProvider != metricsProviderPrometheus {
		return nil, nil
	}

	var srv *http.Server

	if params.promHTTPURL != "" {
		srv = &http.Server{Addr: params.promHTTPURL} //nolint:gosec
	}

	provider := prometheus.NewPrometheusProvider(srv)

	if err := provider.Create(); err != nil {
		return nil, fmt.Errorf("create metrics provider: %w", err)
	}

	return provider, nil
}

// createPool connects to the ledger HTTP proxy when a ledger url is set, or opens the local ledger
// with the root identity registered as trustee.
func createPool(
	ctx context.Context,
	params *startupParameters,
	root *did.Identity,
	m metrics.Metrics,
) (pool.Pool, error) {
	if params.ledgerURL == "" {
		l, err := localledger.Open(params.ledgerDBPath, localledger.WithTrustee(root.DID, root.VerKey))
		if err != nil {
			return nil, err
		}

		logger.Infoc(ctx, "Using local ledger", logfields.WithPath(params.ledgerDBPath))

		return l, nil
	}

	genesis, err := pool.TransactionsFromFile(params.genesisFile)
	if err != nil {
		return nil, fmt.Errorf("load genesis transactions: %w", err)
	}

	httpClient := &http.Client{
		Transport: m.InstrumentHTTPTransport(metrics.ClientLedgerPool, http.DefaultTransport),
	}

	factory := func(txns *pool.Transactions) (pool.Pool, error) {
		return httppool.New(params.ledgerURL, txns, httppool.WithHTTPClient(httpClient))
	}

	p, err := factory(genesis)
	if err != nil {
		return nil, err
	}

	refreshed, err := pool.PerformRefresh(ctx, p, genesis, factory)
	if err != nil {
		_ = p.Close() //nolint:errcheck

		return nil, fmt.Errorf("refresh pool: %w", err)
	}

	return refreshed, nil
}
