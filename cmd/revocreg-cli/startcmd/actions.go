/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package startcmd

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/trustbloc/logutil-go/pkg/log"
	"go.opentelemetry.io/otel"

	"github.com/trustbloc/revocreg/cmd/common"
	"github.com/trustbloc/revocreg/internal/logfields"
	"github.com/trustbloc/revocreg/pkg/anoncreds/cl"
	"github.com/trustbloc/revocreg/pkg/dataprotect"
	"github.com/trustbloc/revocreg/pkg/ledger"
	"github.com/trustbloc/revocreg/pkg/locker"
	"github.com/trustbloc/revocreg/pkg/service/pipeline"
	"github.com/trustbloc/revocreg/pkg/service/txnbuilder"
	"github.com/trustbloc/revocreg/pkg/storage/mongodb"
	"github.com/trustbloc/revocreg/pkg/storage/mongodb/revregstore"
	"github.com/trustbloc/revocreg/pkg/storage/redis"
	"github.com/trustbloc/revocreg/pkg/tails"
	"github.com/trustbloc/revocreg/pkg/tails/s3store"
)

const (
	compatOrderingFlag      = "REV_STRATEGY_USE_COMPAT_ORDERING"
	compatOrderingFlagValue = "False"

	credDefTag = "testcred"
	revRegTag  = "1.0"

	tailsS3Prefix = "tails"

	dataKeyLength = 256
)

type tailsStore interface {
	Write(ctx context.Context, data []byte) (string, string, error)
	Read(ctx context.Context, location, hash string) ([]byte, error)
}

func (e *environment) setFlag(ctx context.Context) error {
	req, err := ledger.NewRequestBuilder().BuildFlagRequest(e.root.DID, compatOrderingFlag, compatOrderingFlagValue)
	if err != nil {
		return err
	}

	reply, err := e.submitter.SignAndSubmit(ctx, req, e.root.PrivateKey)
	if err != nil {
		return fmt.Errorf("set flag %s: %w", compatOrderingFlag, err)
	}

	logger.Infoc(ctx, "Flag set", logfields.WithFlagName(compatOrderingFlag), logfields.WithReply(reply.String()))

	return nil
}

// getFlag logs the flag reply. A failed read is logged and not returned.
func (e *environment) getFlag(ctx context.Context) error {
	req, err := ledger.NewRequestBuilder().BuildGetFlagRequest(e.root.DID, compatOrderingFlag)
	if err != nil {
		return err
	}

	reply, err := e.submitter.Submit(ctx, req)
	if err != nil {
		logger.Warnc(ctx, "Failed to get flag", logfields.WithFlagName(compatOrderingFlag), log.WithError(err))

		return nil
	}

	logger.Infoc(ctx, "Flag read", logfields.WithFlagName(compatOrderingFlag), logfields.WithReply(reply.String()))

	return nil
}

func (e *environment) getNym(ctx context.Context) error {
	req, err := ledger.NewRequestBuilder().BuildGetNymRequest(e.root.DID, e.root.DID)
	if err != nil {
		return err
	}

	reply, err := e.submitter.Submit(ctx, req)
	if err != nil {
		return fmt.Errorf("get nym: %w", err)
	}

	logger.Infoc(ctx, "Nym read", logfields.WithDID(e.root.DID), logfields.WithReply(reply.Data()))

	return nil
}

// revoke runs the issuance pipeline: a new endorser identity registered by the root identity
// publishes the schema, credential definition and revocation registry, then revokes the
// configured index batches.
func (e *environment) revoke(ctx context.Context) error {
	ts, err := createTailsStore(ctx, e.params.tails)
	if err != nil {
		return err
	}

	builder, err := txnbuilder.NewService(&txnbuilder.Config{
		Issuer:      cl.NewIssuer(),
		TailsWriter: ts,
		TailsReader: ts,
		Metrics:     e.metrics,
	})
	if err != nil {
		return err
	}

	config := &pipeline.Config{
		TxnBuilder: builder,
		Submitter:  e.submitter,
	}

	mongoClient, err := common.InitMongoDB(e.params.dbParameters, logger,
		mongodb.WithTraceProvider(otel.GetTracerProvider()))
	if err != nil {
		return err
	}

	if mongoClient != nil {
		defer closeQuietly("mongodb", mongoClient.Close)

		protector, protectorErr := createDataProtector(e.params.stateEncryptionKey)
		if protectorErr != nil {
			return protectorErr
		}

		config.RegistryStore = revregstore.NewStore(mongoClient, protector)
	}

	redisClient, err := common.InitRedis(e.params.dbParameters, logger,
		redis.WithTracerProvider(otel.GetTracerProvider()))
	if err != nil {
		return err
	}

	if redisClient != nil {
		defer closeQuietly("redis", redisClient.Close)

		config.Locker = locker.NewRedisLocker(redisClient.API())
	}

	result, err := pipeline.NewService(config).Run(ctx, &pipeline.Params{
		Root:          e.root,
		SchemaName:    e.params.schemaName,
		SchemaVersion: e.params.schemaVersion,
		Attributes:    e.params.schemaAttributes,
		CredDefTag:    credDefTag,
		RevRegTag:     revRegTag,
		Capacity:      e.params.capacity,
		Revocations:   e.params.revocations,
	})
	if err != nil {
		return err
	}

	logger.Infoc(ctx, "Revocation registry delta", logfields.WithRevRegID(result.Registry.Definition.ID),
		logfields.WithIndices(result.Revoked))

	return nil
}

func createTailsStore(ctx context.Context, params *tailsParameters) (tailsStore, error) {
	if params.s3Bucket == "" {
		return tails.NewFileStore(params.dir)
	}

	var opts []func(*awsconfig.LoadOptions) error

	if params.s3Region != "" {
		opts = append(opts, awsconfig.WithRegion(params.s3Region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if params.s3Endpoint != "" {
			o.BaseEndpoint = aws.String(params.s3Endpoint)
			o.UsePathStyle = true
		}
	})

	return s3store.NewStore(client, params.s3Bucket, tailsS3Prefix), nil
}

// createDataProtector encrypts the registry private material with key, or keeps it in clear when no
// key is configured.
func createDataProtector(key []byte) (dataprotect.Protector, error) {
	if len(key) == 0 {
		logger.Warn("No state encryption key configured, registry private material is stored in clear")

		return dataprotect.NewNilDataProtector(), nil
	}

	masterKey, err := dataprotect.NewMasterKey(key)
	if err != nil {
		return nil, err
	}

	return dataprotect.NewDataProtector(&dataprotect.Config{
		KeyProtector:  masterKey,
		DataEncryptor: dataprotect.NewAES(dataKeyLength),
		Compression:   dataprotect.CompressionGzip,
	}), nil
}

func closeQuietly(name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		logger.Warn("Failed to close "+name, log.WithError(err))
	}
}
