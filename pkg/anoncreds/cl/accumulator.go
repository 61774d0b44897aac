/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package cl

import (
	"context"
	"errors"
	"fmt"

	"github.com/trustbloc/revocreg/pkg/anoncreds"
)

// CreateRevocationRegistry builds a registry with every index valid, writes the tails data and
// returns the definition, the trapdoor, the initial state and its initial delta.
func (i *Issuer) CreateRevocationRegistry(
	ctx context.Context,
	issuerDID string,
	credDef *anoncreds.CredentialDefinitionV1,
	tag string,
	regType anoncreds.RegistryType,
	issuanceType anoncreds.IssuanceType,
	maxCredNum uint32,
	tailsWriter anoncreds.TailsWriter,
) (*anoncreds.RevocationRegistryDefinitionV1, *anoncreds.RevocationRegistryDefinitionPrivate,
	*anoncreds.RevocationRegistry, *anoncreds.RevocationRegistryDelta, error) {
	if regType != anoncreds.RegistryTypeCLAccum {
		return nil, nil, nil, nil, fmt.Errorf("unsupported registry type %q", regType)
	}

	if issuanceType != anoncreds.IssuanceByDefault {
		return nil, nil, nil, nil, fmt.Errorf("unsupported issuance type %q", issuanceType)
	}

	if maxCredNum == 0 {
		return nil, nil, nil, nil, errors.New("registry capacity must be positive")
	}

	if maxCredNum > anoncreds.MaxRegistryCapacity {
		return nil, nil, nil, nil, fmt.Errorf("registry capacity %d exceeds maximum %d",
			maxCredNum, anoncreds.MaxRegistryCapacity)
	}

	if credDef == nil || !credDef.SupportsRevocation() {
		return nil, nil, nil, nil, errors.New("credential definition does not support revocation")
	}

	gamma, err := i.randomZr()
	if err != nil {
		return nil, nil, nil, nil, err
	}

	t, accumKey := i.generateTails(gamma, maxCredNum)

	location, hash, err := tailsWriter.Write(ctx, t.encode())
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("write tails: %w", err)
	}

	accum := t[0].Copy()
	for _, p := range t[1:] {
		accum.Add(p)
	}

	def := &anoncreds.RevocationRegistryDefinitionV1{
		ID:           anoncreds.RevocationRegistryID(issuerDID, credDef.ID, regType, tag),
		RevocDefType: regType,
		Tag:          tag,
		CredDefID:    credDef.ID,
		Value: anoncreds.RevocationRegistryDefinitionValue{
			IssuanceType: issuanceType,
			MaxCredNum:   maxCredNum,
			PublicKeys: anoncreds.RevocationRegistryPublicKeys{
				AccumKey: anoncreds.AccumulatorPublicKey{Z: encodeG2(accumKey)},
			},
			TailsHash:     hash,
			TailsLocation: location,
		},
	}

	registry := anoncreds.NewRevocationRegistry(encodeG2(accum), maxCredNum)

	return def, &anoncreds.RevocationRegistryDefinitionPrivate{Gamma: encodeZr(gamma)},
		registry, registry.InitialDelta(issuanceType), nil
}

// UpdateRevocationRegistry removes the tails of newly revoked indices from the accumulator and adds
// back the tails of re-issued ones. Indices already in the requested state are skipped.
func (i *Issuer) UpdateRevocationRegistry(
	ctx context.Context,
	_ *anoncreds.CredentialDefinitionV1,
	def *anoncreds.RevocationRegistryDefinitionV1,
	private *anoncreds.RevocationRegistryDefinitionPrivate,
	registry *anoncreds.RevocationRegistry,
	issued, revoked []uint32,
	tailsReader anoncreds.TailsReader,
) (*anoncreds.RevocationRegistry, *anoncreds.RevocationRegistryDelta, error) {
	maxCredNum := def.Value.MaxCredNum

	if registry.MaxCredNum() != maxCredNum {
		return nil, nil, fmt.Errorf("registry capacity %d does not match definition capacity %d",
			registry.MaxCredNum(), maxCredNum)
	}

	for _, idx := range append(append([]uint32{}, issued...), revoked...) {
		if idx == 0 || idx > maxCredNum {
			return nil, nil, fmt.Errorf("index %d is out of range [1, %d]", idx, maxCredNum)
		}
	}

	if err := i.checkPrivate(def, private); err != nil {
		return nil, nil, err
	}

	data, err := tailsReader.Read(ctx, def.Value.TailsLocation, def.Value.TailsHash)
	if err != nil {
		return nil, nil, fmt.Errorf("read tails: %w", err)
	}

	t, err := i.decodeTails(data, maxCredNum)
	if err != nil {
		return nil, nil, err
	}

	accum, err := i.decodeG2(registry.Accum())
	if err != nil {
		return nil, nil, fmt.Errorf("accumulator: %w", err)
	}

	var revokedNow, issuedNow []uint32

	for _, idx := range anoncreds.IndexSet(revoked) {
		if registry.IsRevoked(idx) {
			continue
		}

		accum.Sub(t.element(idx))
		revokedNow = append(revokedNow, idx)
	}

	for _, idx := range anoncreds.IndexSet(issued) {
		if !registry.IsRevoked(idx) {
			continue
		}

		accum.Add(t.element(idx))
		issuedNow = append(issuedNow, idx)
	}

	next, err := registry.Next(encodeG2(accum), issuedNow, revokedNow)
	if err != nil {
		return nil, nil, err
	}

	return next, &anoncreds.RevocationRegistryDelta{
		PrevAccum: registry.Accum(),
		Accum:     next.Accum(),
		Issued:    issuedNow,
		Revoked:   revokedNow,
	}, nil
}

func (i *Issuer) checkPrivate(def *anoncreds.RevocationRegistryDefinitionV1,
	private *anoncreds.RevocationRegistryDefinitionPrivate) error {
	if private == nil {
		return errors.New("registry private material is missing")
	}

	gamma, err := i.decodeZr(private.Gamma)
	if err != nil {
		return fmt.Errorf("registry private material: %w", err)
	}

	z, err := i.decodeG2(def.Value.PublicKeys.AccumKey.Z)
	if err != nil {
		return fmt.Errorf("accumulator key: %w", err)
	}

	if !i.accumulatorKey(gamma, def.Value.MaxCredNum).Equals(z) {
		return errors.New("registry private material does not match the registry definition")
	}

	return nil
}
