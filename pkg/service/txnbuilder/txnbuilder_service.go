/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

//go:generate mockgen -destination txnbuilder_service_mocks_test.go -self_package mocks -package txnbuilder_test -source=txnbuilder_service.go -mock_names issuer=MockIssuer,tailsWriter=MockTailsWriter,tailsReader=MockTailsReader

package txnbuilder

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/trustbloc/revocreg/internal/logfields"
	"github.com/trustbloc/revocreg/pkg/anoncreds"
	"github.com/trustbloc/revocreg/pkg/did"
	"github.com/trustbloc/revocreg/pkg/ledger"
	"github.com/trustbloc/revocreg/pkg/observability/metrics"
	"github.com/trustbloc/revocreg/pkg/observability/metrics/noop"
	"github.com/trustbloc/revocreg/pkg/txnerr"
)

var logger = log.New("txn-builder")

type issuer interface {
	CreateCredentialDefinition(
		issuerDID string,
		schema *anoncreds.SchemaV1,
		tag string,
		sigType anoncreds.SignatureType,
		supportRevocation bool,
	) (*anoncreds.CredentialDefinitionV1, *anoncreds.CredentialDefinitionPrivate, error)

	CreateRevocationRegistry(
		ctx context.Context,
		issuerDID string,
		credDef *anoncreds.CredentialDefinitionV1,
		tag string,
		regType anoncreds.RegistryType,
		issuanceType anoncreds.IssuanceType,
		maxCredNum uint32,
		tails anoncreds.TailsWriter,
	) (*anoncreds.RevocationRegistryDefinitionV1, *anoncreds.RevocationRegistryDefinitionPrivate,
		*anoncreds.RevocationRegistry, *anoncreds.RevocationRegistryDelta, error)

	UpdateRevocationRegistry(
		ctx context.Context,
		credDef *anoncreds.CredentialDefinitionV1,
		def *anoncreds.RevocationRegistryDefinitionV1,
		private *anoncreds.RevocationRegistryDefinitionPrivate,
		registry *anoncreds.RevocationRegistry,
		issued, revoked []uint32,
		tails anoncreds.TailsReader,
	) (*anoncreds.RevocationRegistry, *anoncreds.RevocationRegistryDelta, error)
}

type tailsWriter interface {
	Write(ctx context.Context, data []byte) (location, hash string, err error)
}

type tailsReader interface {
	Read(ctx context.Context, location, hash string) ([]byte, error)
}

// Config holds configuration of the transaction builder.
type Config struct {
	Issuer         issuer
	TailsWriter    tailsWriter
	TailsReader    tailsReader
	RequestBuilder *ledger.RequestBuilder
	Metrics        metrics.Metrics
	// DIDMethod is the method whose qualifier is stripped from credential definition references.
	DIDMethod string
}

// Service builds the unsigned ledger requests of the issuance chain.
type Service struct {
	issuer         issuer
	tailsWriter    tailsWriter
	tailsReader    tailsReader
	requestBuilder *ledger.RequestBuilder
	metrics        metrics.Metrics
	didMethod      string
}

// NewService returns new Service.
func NewService(config *Config) (*Service, error) {
	if config.Issuer == nil {
		return nil, errors.New("issuer capability is required")
	}

	s := &Service{
		issuer:         config.Issuer,
		tailsWriter:    config.TailsWriter,
		tailsReader:    config.TailsReader,
		requestBuilder: config.RequestBuilder,
		metrics:        config.Metrics,
		didMethod:      config.DIDMethod,
	}

	if s.requestBuilder == nil {
		s.requestBuilder = ledger.NewRequestBuilder()
	}

	if s.metrics == nil {
		s.metrics = noop.GetMetrics()
	}

	if s.didMethod == "" {
		s.didMethod = did.MethodSov
	}

	return s, nil
}

// SchemaTxn is an unsigned SCHEMA request with the schema it publishes.
type SchemaTxn struct {
	Request *ledger.PreparedRequest
	Schema  *anoncreds.SchemaV1
}

// CredDefTxn is an unsigned CLAIM_DEF request with the definition it publishes and its private keys.
type CredDefTxn struct {
	Request *ledger.PreparedRequest
	CredDef *anoncreds.CredentialDefinitionV1
	Private *anoncreds.CredentialDefinitionPrivate
}

// RevRegTxn is an unsigned REVOC_REG_DEF request with the registry it creates.
type RevRegTxn struct {
	Request      *ledger.PreparedRequest
	Definition   *anoncreds.RevocationRegistryDefinitionV1
	Private      *anoncreds.RevocationRegistryDefinitionPrivate
	Registry     *anoncreds.RevocationRegistry
	InitialDelta *anoncreds.RevocationRegistryDelta
}

// RevRegEntryTxn is an unsigned REVOC_REG_ENTRY request with the registry state it moves to.
type RevRegEntryTxn struct {
	Request  *ledger.PreparedRequest
	Delta    *anoncreds.RevocationRegistryDelta
	Registry *anoncreds.RevocationRegistry
}

// BuildNymTxn builds a NYM request registering target with role, signed later by submitterDID.
func (s *Service) BuildNymTxn(submitterDID string, target *did.Identity, role string) (*ledger.PreparedRequest, error) {
	return s.requestBuilder.BuildNymRequest(submitterDID, target.DID, target.VerKey, "", role)
}

// BuildGetNymTxn builds a GET_NYM query for dest.
func (s *Service) BuildGetNymTxn(submitterDID, dest string) (*ledger.PreparedRequest, error) {
	return s.requestBuilder.BuildGetNymRequest(submitterDID, dest)
}

// BuildFlagTxn builds a FLAG request.
func (s *Service) BuildFlagTxn(submitterDID, name, value string) (*ledger.PreparedRequest, error) {
	return s.requestBuilder.BuildFlagRequest(submitterDID, name, value)
}

// BuildGetFlagTxn builds a GET_FLAG query.
func (s *Service) BuildGetFlagTxn(submitterDID, name string) (*ledger.PreparedRequest, error) {
	return s.requestBuilder.BuildGetFlagRequest(submitterDID, name)
}

// BuildSchemaTxn builds the SCHEMA request for name and version. The returned schema has no seqNo
// until the ledger reply is applied with WithSeqNo.
func (s *Service) BuildSchemaTxn(issuerDID, name, version string, attrNames []string) (*SchemaTxn, error) {
	attrs := anoncreds.NewAttributeNames(attrNames...)

	if len(attrs) == 0 || len(attrs) > anoncreds.MaxAttributes {
		return nil, txnerr.NewError(txnerr.InvalidAttributeSet, txnerr.SchemaBuilderComponent,
			fmt.Errorf("schema must have between 1 and %d attributes", anoncreds.MaxAttributes)).
			WithOperation("BuildSchemaTxn").
			WithIncorrectValue(strconv.Itoa(len(attrs)))
	}

	schema := &anoncreds.SchemaV1{
		ID:        anoncreds.SchemaID(issuerDID, name, version),
		Name:      name,
		Version:   version,
		AttrNames: attrs,
	}

	req, err := s.requestBuilder.BuildSchemaRequest(issuerDID, schema)
	if err != nil {
		return nil, fmt.Errorf("build schema request: %w", err)
	}

	logger.Debug("Schema request built", logfields.WithSchemaID(schema.ID), logfields.WithAttributes(attrs))

	return &SchemaTxn{Request: req, Schema: schema}, nil
}

// BuildCredDefTxn generates fresh key material for a credential definition over a published schema
// and builds its CLAIM_DEF request. Only the public value is carried by the request.
func (s *Service) BuildCredDefTxn(
	issuerDID string,
	schema *anoncreds.SchemaV1,
	tag string,
	sigType anoncreds.SignatureType,
) (*CredDefTxn, error) {
	if schema == nil || !schema.Published() {
		return nil, txnerr.NewError(txnerr.UnpublishedSchema, txnerr.CredDefBuilderComponent,
			errors.New("schema seqNo is not set")).
			WithOperation("BuildCredDefTxn")
	}

	st := time.Now()

	credDef, private, err := s.issuer.CreateCredentialDefinition(issuerDID, schema, tag, sigType, true)
	if err != nil {
		return nil, txnerr.NewError(txnerr.CryptoKeygenFailure, txnerr.CredDefBuilderComponent, err).
			WithOperation("BuildCredDefTxn")
	}

	logger.Debug("Credential definition keys generated", logfields.WithCredDefID(credDef.ID),
		log.WithDuration(time.Since(st)))

	req, err := s.requestBuilder.BuildCredDefRequest(issuerDID, credDef)
	if err != nil {
		return nil, fmt.Errorf("build credential definition request: %w", err)
	}

	return &CredDefTxn{Request: req, CredDef: credDef, Private: private}, nil
}

// BuildRevRegTxn creates a revocation registry of capacity indices for credDef, all issued by default,
// writes its tails data and builds the REVOC_REG_DEF request. The definition's credential definition
// reference is rewritten to the unqualified form the ledger accepts.
func (s *Service) BuildRevRegTxn(
	ctx context.Context,
	issuerDID string,
	credDef *anoncreds.CredentialDefinitionV1,
	tag string,
	capacity uint32,
) (*RevRegTxn, error) {
	if s.tailsWriter == nil {
		return nil, txnerr.NewError(txnerr.RegistryConstructionFailure, txnerr.RevRegBuilderComponent,
			errors.New("tails writer is not configured")).
			WithOperation("BuildRevRegTxn")
	}

	def, private, registry, delta, err := s.issuer.CreateRevocationRegistry(ctx, issuerDID, credDef, tag,
		anoncreds.RegistryTypeCLAccum, anoncreds.IssuanceByDefault, capacity, s.tailsWriter)
	if err != nil {
		return nil, txnerr.NewError(txnerr.RegistryConstructionFailure, txnerr.RevRegBuilderComponent, err).
			WithOperation("BuildRevRegTxn").
			WithIncorrectValue(strconv.FormatUint(uint64(capacity), 10))
	}

	credDefID, err := RewriteLegacyCredDefID(def.CredDefID, s.didMethod)
	if err != nil {
		return nil, err
	}

	def.CredDefID = credDefID

	req, err := s.requestBuilder.BuildRevocRegDefRequest(issuerDID, def)
	if err != nil {
		return nil, fmt.Errorf("build revocation registry definition request: %w", err)
	}

	logger.Debug("Revocation registry created", logfields.WithRevRegID(def.ID),
		logfields.WithCapacity(capacity), logfields.WithTailsLocation(def.Value.TailsLocation))

	return &RevRegTxn{
		Request:      req,
		Definition:   def,
		Private:      private,
		Registry:     registry,
		InitialDelta: delta,
	}, nil
}

// RewriteLegacyCredDefID strips the "creddef:<method>:did:<method>:" qualifier from credDefID.
// A reference without the qualifier fails with MalformedCredDefReference.
func RewriteLegacyCredDefID(credDefID, method string) (string, error) {
	prefix := anoncreds.CredDefQualifierPrefix(method)

	if !strings.HasPrefix(credDefID, prefix) || len(credDefID) == len(prefix) {
		return "", txnerr.NewError(txnerr.MalformedCredDefReference, txnerr.RevRegBuilderComponent,
			fmt.Errorf("credential definition reference does not start with %q", prefix)).
			WithOperation("RewriteLegacyCredDefID").
			WithIncorrectValue(credDefID)
	}

	return strings.TrimPrefix(credDefID, prefix), nil
}

// BuildInitRevRegEntryTxn builds the REVOC_REG_ENTRY request that establishes the registry's
// genesis accumulator on the ledger. It must be accepted before any update.
func (s *Service) BuildInitRevRegEntryTxn(
	issuerDID string,
	def *anoncreds.RevocationRegistryDefinitionV1,
	registry *anoncreds.RevocationRegistry,
) (*RevRegEntryTxn, error) {
	delta := registry.InitialDelta(def.Value.IssuanceType)

	req, err := s.requestBuilder.BuildRevocRegEntryRequest(issuerDID, def.ID, def.RevocDefType, delta)
	if err != nil {
		return nil, fmt.Errorf("build initial revocation registry entry request: %w", err)
	}

	return &RevRegEntryTxn{Request: req, Delta: delta, Registry: registry}, nil
}

// BuildUpdateRevRegEntryTxn computes the accumulator transition revoking indices and builds the
// REVOC_REG_ENTRY request carrying only the delta. Indices already revoked are left out of the delta.
func (s *Service) BuildUpdateRevRegEntryTxn(
	ctx context.Context,
	issuerDID string,
	credDef *anoncreds.CredentialDefinitionV1,
	def *anoncreds.RevocationRegistryDefinitionV1,
	private *anoncreds.RevocationRegistryDefinitionPrivate,
	registry *anoncreds.RevocationRegistry,
	indices []uint32,
) (*RevRegEntryTxn, error) {
	revoked := anoncreds.IndexSet(indices)
	capacity := def.Value.MaxCredNum

	for _, idx := range revoked {
		if idx == 0 || idx > capacity {
			return nil, txnerr.NewError(txnerr.IndexOutOfRange, txnerr.RevRegUpdaterComponent,
				fmt.Errorf("index %d exceeds capacity %d", idx, capacity)).
				WithOperation("BuildUpdateRevRegEntryTxn").
				WithIncorrectValue(strconv.FormatUint(uint64(idx), 10))
		}
	}

	if s.tailsReader == nil {
		return nil, txnerr.NewError(txnerr.AccumulatorUpdateFailure, txnerr.RevRegUpdaterComponent,
			errors.New("tails reader is not configured")).
			WithOperation("BuildUpdateRevRegEntryTxn")
	}

	st := time.Now()

	next, delta, err := s.issuer.UpdateRevocationRegistry(ctx, credDef, def, private, registry,
		nil, revoked, s.tailsReader)
	if err != nil {
		return nil, txnerr.NewError(txnerr.AccumulatorUpdateFailure, txnerr.RevRegUpdaterComponent, err).
			WithOperation("BuildUpdateRevRegEntryTxn")
	}

	s.metrics.AccumulatorUpdateTime(time.Since(st))

	req, err := s.requestBuilder.BuildRevocRegEntryRequest(issuerDID, def.ID, def.RevocDefType, delta)
	if err != nil {
		return nil, fmt.Errorf("build revocation registry entry request: %w", err)
	}

	logger.Debug("Revocation registry entry built", logfields.WithRevRegID(def.ID),
		logfields.WithIndices(delta.Revoked))

	return &RevRegEntryTxn{Request: req, Delta: delta, Registry: next}, nil
}

// BuildGetDeltaTxn builds the GET_REVOC_REG_DELTA query for revRegDefID up to to, or now when nil.
func (s *Service) BuildGetDeltaTxn(submitterDID, revRegDefID string, to *time.Time) (*ledger.PreparedRequest, error) {
	if revRegDefID == "" {
		return nil, errors.New("revocation registry definition id is empty")
	}

	return s.requestBuilder.BuildGetRevocRegDeltaRequest(submitterDID, revRegDefID, nil, to)
}
