/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/trustbloc/revocreg/internal/logfields"
	"github.com/trustbloc/revocreg/pkg/anoncreds"
	"github.com/trustbloc/revocreg/pkg/did"
	"github.com/trustbloc/revocreg/pkg/ledger"
	"github.com/trustbloc/revocreg/pkg/locker"
	"github.com/trustbloc/revocreg/pkg/service/submitter"
	"github.com/trustbloc/revocreg/pkg/service/txnbuilder"
)

var logger = log.New("pipeline")

// ErrDeltaMismatch is returned when the ledger delta does not reflect the local registry state.
var ErrDeltaMismatch = errors.New("ledger delta does not match registry state")

type txnBuilder interface {
	BuildNymTxn(submitterDID string, target *did.Identity, role string) (*ledger.PreparedRequest, error)
	BuildSchemaTxn(issuerDID, name, version string, attrNames []string) (*txnbuilder.SchemaTxn, error)
	BuildCredDefTxn(
		issuerDID string,
		schema *anoncreds.SchemaV1,
		tag string,
		sigType anoncreds.SignatureType,
	) (*txnbuilder.CredDefTxn, error)
	BuildRevRegTxn(
		ctx context.Context,
		issuerDID string,
		credDef *anoncreds.CredentialDefinitionV1,
		tag string,
		capacity uint32,
	) (*txnbuilder.RevRegTxn, error)
	BuildInitRevRegEntryTxn(
		issuerDID string,
		def *anoncreds.RevocationRegistryDefinitionV1,
		registry *anoncreds.RevocationRegistry,
	) (*txnbuilder.RevRegEntryTxn, error)
	BuildUpdateRevRegEntryTxn(
		ctx context.Context,
		issuerDID string,
		credDef *anoncreds.CredentialDefinitionV1,
		def *anoncreds.RevocationRegistryDefinitionV1,
		private *anoncreds.RevocationRegistryDefinitionPrivate,
		registry *anoncreds.RevocationRegistry,
		indices []uint32,
	) (*txnbuilder.RevRegEntryTxn, error)
	BuildGetDeltaTxn(submitterDID, revRegDefID string, to *time.Time) (*ledger.PreparedRequest, error)
}

type txnSubmitter interface {
	SignAndSubmit(ctx context.Context, req *ledger.PreparedRequest, signer submitter.Signer) (*ledger.Reply, error)
	Submit(ctx context.Context, req *ledger.PreparedRequest) (*ledger.Reply, error)
}

type registryLocker interface {
	NewMutex(key string, opts ...redsync.Option) locker.Lock
}

type registryStore interface {
	Put(ctx context.Context, state *RegistryState) error
	Get(ctx context.Context, revRegDefID string) (*RegistryState, error)
}

// Config holds configuration of the pipeline driver.
type Config struct {
	TxnBuilder txnBuilder
	Submitter  txnSubmitter
	// Locker serializes updates of a registry. A process local keyed mutex is used when nil.
	Locker registryLocker
	// RegistryStore persists every accepted registry state. Optional.
	RegistryStore registryStore
	// DIDMethod qualifies the issuer DID passed to the builders.
	DIDMethod string
}

// Service drives the issuance chain from identity to the revocation delta query.
type Service struct {
	builder   txnBuilder
	submitter txnSubmitter
	locker    registryLocker
	store     registryStore
	didMethod string
}

// NewService returns new Service.
func NewService(config *Config) *Service {
	s := &Service{
		builder:   config.TxnBuilder,
		submitter: config.Submitter,
		locker:    config.Locker,
		store:     config.RegistryStore,
		didMethod: config.DIDMethod,
	}

	if s.locker == nil {
		s.locker = locker.NewKeyedMutex()
	}

	if s.didMethod == "" {
		s.didMethod = did.MethodSov
	}

	return s
}

type run struct {
	params *Params
	result *Result
}

func (r *run) transition(ctx context.Context, newState State) error {
	if err := validateStateTransition(r.result.State, newState); err != nil {
		return err
	}

	logger.Debugc(ctx, "Pipeline state changed", logfields.WithRunID(r.result.RunID),
		logfields.WithState(newState.String()))

	r.result.State = newState

	return nil
}

// Run executes the pipeline. Each step is one build then submit round trip and a failing step stops
// the run in StateFailed with nothing rolled back. The returned result is never nil.
func (s *Service) Run(ctx context.Context, params *Params) (*Result, error) {
	r := &run{params: params, result: &Result{RunID: uuid.NewString(), State: StateStart}}

	steps := []func(ctx context.Context, r *run) error{
		s.prepareIdentity,
		s.publishSchema,
		s.publishCredDef,
		s.publishRegistryDef,
		s.initializeRegistry,
		s.applyRevocations,
		s.queryDelta,
	}

	for _, step := range steps {
		if err := step(ctx, r); err != nil {
			failedAt := r.result.State

			r.result.State = StateFailed

			logger.Errorc(ctx, "Pipeline failed", logfields.WithRunID(r.result.RunID),
				logfields.WithState(failedAt.String()), log.WithError(err))

			return r.result, fmt.Errorf("pipeline failed after %s: %w", failedAt, err)
		}
	}

	if err := r.transition(ctx, StateDone); err != nil {
		return r.result, err
	}

	logger.Infoc(ctx, "Pipeline done", logfields.WithRunID(r.result.RunID),
		logfields.WithRevRegID(r.result.Registry.Definition.ID),
		logfields.WithIndices(r.result.Revoked))

	return r.result, nil
}

func (s *Service) prepareIdentity(ctx context.Context, r *run) error {
	issuer := r.params.Issuer

	if issuer == nil {
		seed, err := did.GenerateSeed()
		if err != nil {
			return err
		}

		issuer, err = did.Generate([]byte(seed))
		if err != nil {
			return err
		}
	}

	if root := r.params.Root; root != nil {
		req, err := s.builder.BuildNymTxn(root.DID, issuer, ledger.RoleEndorser)
		if err != nil {
			return fmt.Errorf("build nym: %w", err)
		}

		if _, err = s.submitter.SignAndSubmit(ctx, req, root.PrivateKey); err != nil {
			return fmt.Errorf("submit nym: %w", err)
		}

		logger.Infoc(ctx, "Endorser registered", logfields.WithDID(issuer.DID))
	}

	r.result.Issuer = issuer
	r.result.IssuerDID = issuer.Qualify(s.didMethod)

	return r.transition(ctx, StateIdentityReady)
}

func (s *Service) publishSchema(ctx context.Context, r *run) error {
	txn, err := s.builder.BuildSchemaTxn(r.result.IssuerDID, r.params.SchemaName, r.params.SchemaVersion,
		r.params.Attributes)
	if err != nil {
		return err
	}

	reply, err := s.submitter.SignAndSubmit(ctx, txn.Request, r.result.Issuer.PrivateKey)
	if err != nil {
		return fmt.Errorf("submit schema: %w", err)
	}

	seqNo, err := reply.SeqNo()
	if err != nil {
		return fmt.Errorf("schema reply: %w", err)
	}

	r.result.Schema = txn.Schema.WithSeqNo(seqNo)

	logger.Infoc(ctx, "Schema published", logfields.WithSchemaID(txn.Schema.ID), logfields.WithSeqNo(seqNo))

	return r.transition(ctx, StateSchemaPublished)
}

func (s *Service) publishCredDef(ctx context.Context, r *run) error {
	txn, err := s.builder.BuildCredDefTxn(r.result.IssuerDID, r.result.Schema, r.params.CredDefTag,
		anoncreds.SignatureTypeCL)
	if err != nil {
		return err
	}

	if _, err = s.submitter.SignAndSubmit(ctx, txn.Request, r.result.Issuer.PrivateKey); err != nil {
		return fmt.Errorf("submit credential definition: %w", err)
	}

	r.result.CredDef = txn.CredDef

	logger.Infoc(ctx, "Credential definition published", logfields.WithCredDefID(txn.CredDef.ID))

	return r.transition(ctx, StateCredDefPublished)
}

func (s *Service) publishRegistryDef(ctx context.Context, r *run) error {
	txn, err := s.builder.BuildRevRegTxn(ctx, r.result.IssuerDID, r.result.CredDef, r.params.RevRegTag,
		r.params.Capacity)
	if err != nil {
		return err
	}

	if _, err = s.submitter.SignAndSubmit(ctx, txn.Request, r.result.Issuer.PrivateKey); err != nil {
		return fmt.Errorf("submit revocation registry definition: %w", err)
	}

	r.result.Registry = &Registry{
		IssuerDID:  r.result.IssuerDID,
		Signer:     r.result.Issuer.PrivateKey,
		CredDef:    r.result.CredDef,
		Definition: txn.Definition,
		Private:    txn.Private,
		State:      txn.Registry,
	}

	logger.Infoc(ctx, "Revocation registry definition published", logfields.WithRevRegID(txn.Definition.ID),
		logfields.WithCapacity(txn.Definition.Value.MaxCredNum))

	return r.transition(ctx, StateRegistryDefPublished)
}

func (s *Service) initializeRegistry(ctx context.Context, r *run) error {
	reg := r.result.Registry

	txn, err := s.builder.BuildInitRevRegEntryTxn(reg.IssuerDID, reg.Definition, reg.State)
	if err != nil {
		return err
	}

	if _, err = s.submitter.SignAndSubmit(ctx, txn.Request, reg.Signer); err != nil {
		return fmt.Errorf("submit initial revocation registry entry: %w", err)
	}

	if err = s.persist(ctx, reg); err != nil {
		return err
	}

	return r.transition(ctx, StateRegistryInitialized)
}

func (s *Service) applyRevocations(ctx context.Context, r *run) error {
	for _, batch := range r.params.Revocations {
		if _, err := s.Revoke(ctx, r.result.Registry, batch); err != nil {
			return err
		}

		if err := r.transition(ctx, StateRevocationApplied); err != nil {
			return err
		}
	}

	return nil
}

func (s *Service) queryDelta(ctx context.Context, r *run) error {
	reg := r.result.Registry

	reply, err := s.queryLedgerDelta(ctx, reg)
	if err != nil {
		return err
	}

	revoked, err := reply.DeltaRevoked()
	if err != nil {
		return fmt.Errorf("revocation registry delta: %w", err)
	}

	r.result.Revoked = revoked

	if expected := reg.State.Revoked(); !sameIndices(expected, revoked) {
		return fmt.Errorf("%w: ledger revoked %v, registry revoked %v", ErrDeltaMismatch, revoked, expected)
	}

	logger.Infoc(ctx, "Revocation registry delta queried", logfields.WithRevRegID(reg.Definition.ID),
		logfields.WithIndices(revoked))

	return r.transition(ctx, StateDeltaQueried)
}

func (s *Service) queryLedgerDelta(ctx context.Context, reg *Registry) (*ledger.Reply, error) {
	req, err := s.builder.BuildGetDeltaTxn(reg.IssuerDID, reg.Definition.ID, nil)
	if err != nil {
		return nil, err
	}

	reply, err := s.submitter.Submit(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("query revocation registry delta: %w", err)
	}

	return reply, nil
}

func (s *Service) persist(ctx context.Context, reg *Registry) error {
	if s.store == nil {
		return nil
	}

	err := s.store.Put(ctx, &RegistryState{
		RevRegDefID: reg.Definition.ID,
		Registry:    reg.State,
		Private:     reg.Private,
		UpdatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("persist registry state: %w", err)
	}

	return nil
}

func sameIndices(a, b []uint32) bool {
	a, b = anoncreds.IndexSet(a), anoncreds.IndexSet(b)

	return len(a) == len(b) && len(lo.Without(a, b...)) == 0
}
