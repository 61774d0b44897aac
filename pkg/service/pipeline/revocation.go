/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/trustbloc/revocreg/internal/logfields"
	"github.com/trustbloc/revocreg/pkg/anoncreds"
	"github.com/trustbloc/revocreg/pkg/txnerr"
)

const lockKeyPrefix = "revreg-lock:"

var (
	// ErrOutcomeUnknown is returned when a registry entry was submitted but no ledger answer was received.
	ErrOutcomeUnknown = errors.New("registry entry outcome is unknown")
	// ErrStateNotFound is returned by a registry store that holds no state for a registry.
	ErrStateNotFound = errors.New("registry state not found")
	// ErrReconcileRequired is returned by Revoke while an entry with unknown outcome is pending.
	ErrReconcileRequired = errors.New("registry has a pending entry, reconcile first")
)

// Revoke revokes indices with one registry entry and moves reg to the accepted state. Indices that are
// already revoked are left out of the entry; nothing is submitted when no index changes. Updates of a
// registry are serialized by the registry lock.
func (s *Service) Revoke(
	ctx context.Context,
	reg *Registry,
	indices []uint32,
) (*anoncreds.RevocationRegistryDelta, error) {
	unlock, err := s.lock(ctx, reg)
	if err != nil {
		return nil, err
	}

	defer unlock()

	if reg.Pending != nil {
		return nil, ErrReconcileRequired
	}

	txn, err := s.builder.BuildUpdateRevRegEntryTxn(ctx, reg.IssuerDID, reg.CredDef, reg.Definition, reg.Private,
		reg.State, indices)
	if err != nil {
		return nil, err
	}

	if len(txn.Delta.Revoked) == 0 && len(txn.Delta.Issued) == 0 {
		logger.Infoc(ctx, "Indices already revoked, entry skipped", logfields.WithRevRegID(reg.Definition.ID),
			logfields.WithIndices(indices))

		return txn.Delta, nil
	}

	if _, err = s.submitter.SignAndSubmit(ctx, txn.Request, reg.Signer); err != nil {
		if txnerr.KindOf(err) == txnerr.Unknown {
			reg.Pending = txn.Registry

			return nil, fmt.Errorf("%w: %w", ErrOutcomeUnknown, err)
		}

		return nil, fmt.Errorf("submit revocation registry entry: %w", err)
	}

	reg.State = txn.Registry

	logger.Infoc(ctx, "Indices revoked", logfields.WithRevRegID(reg.Definition.ID),
		logfields.WithIndices(txn.Delta.Revoked))

	if err = s.persist(ctx, reg); err != nil {
		return nil, err
	}

	return txn.Delta, nil
}

// Reconcile queries the ledger delta of reg and adopts the state the ledger reflects: the pending state
// when the entry with unknown outcome was written, the previous state otherwise.
func (s *Service) Reconcile(ctx context.Context, reg *Registry) error {
	unlock, err := s.lock(ctx, reg)
	if err != nil {
		return err
	}

	defer unlock()

	reply, err := s.queryLedgerDelta(ctx, reg)
	if err != nil {
		return err
	}

	accum := reply.DeltaAccum()

	switch {
	case accum == reg.State.Accum():
		logger.Infoc(ctx, "Ledger holds the previous registry state", logfields.WithRevRegID(reg.Definition.ID))

		reg.Pending = nil

		return nil
	case reg.Pending != nil && accum == reg.Pending.Accum():
		logger.Infoc(ctx, "Ledger holds the pending registry state", logfields.WithRevRegID(reg.Definition.ID),
			logfields.WithIndices(reg.Pending.Revoked()))

		reg.State, reg.Pending = reg.Pending, nil

		return s.persist(ctx, reg)
	default:
		return fmt.Errorf("%w: ledger accumulator matches neither the previous nor the pending state",
			ErrDeltaMismatch)
	}
}

// Restore loads the persisted state of reg's registry. It returns false when no state is stored.
func (s *Service) Restore(ctx context.Context, reg *Registry) (bool, error) {
	if s.store == nil {
		return false, nil
	}

	state, err := s.store.Get(ctx, reg.Definition.ID)
	if err != nil {
		if errors.Is(err, ErrStateNotFound) {
			return false, nil
		}

		return false, fmt.Errorf("load registry state: %w", err)
	}

	reg.State = state.Registry
	reg.Private = state.Private
	reg.Pending = nil

	return true, nil
}

func (s *Service) lock(ctx context.Context, reg *Registry) (func(), error) {
	mutex := s.locker.NewMutex(lockKeyPrefix + reg.Definition.ID)

	if err := mutex.LockContext(ctx); err != nil {
		return nil, fmt.Errorf("lock registry %s: %w", reg.Definition.ID, err)
	}

	return func() {
		if _, err := mutex.UnlockContext(context.WithoutCancel(ctx)); err != nil {
			logger.Warnc(ctx, "Failed to unlock registry", logfields.WithRevRegID(reg.Definition.ID),
				log.WithError(err))
		}
	}, nil
}
