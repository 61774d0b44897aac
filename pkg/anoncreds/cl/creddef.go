/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package cl

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/trustbloc/revocreg/pkg/anoncreds"
)

// CreateCredentialDefinition generates per-attribute primary keys and, optionally, a revocation key.
func (i *Issuer) CreateCredentialDefinition(
	issuerDID string,
	schema *anoncreds.SchemaV1,
	tag string,
	sigType anoncreds.SignatureType,
	supportRevocation bool,
) (*anoncreds.CredentialDefinitionV1, *anoncreds.CredentialDefinitionPrivate, error) {
	if sigType != anoncreds.SignatureTypeCL {
		return nil, nil, fmt.Errorf("unsupported signature type %q", sigType)
	}

	if schema == nil || schema.SeqNo == nil {
		return nil, nil, errors.New("schema is not published")
	}

	if len(schema.AttrNames) == 0 {
		return nil, nil, errors.New("schema has no attributes")
	}

	g2 := i.curve.GenG2

	primary := anoncreds.CredentialPrimaryPublicKey{
		S: encodeG2(g2),
		R: make(map[string]string, len(schema.AttrNames)),
	}

	primaryPriv := anoncreds.CredentialPrimaryPrivateKey{
		XR: make(map[string]string, len(schema.AttrNames)),
	}

	for _, attr := range schema.AttrNames {
		xr, err := i.randomZr()
		if err != nil {
			return nil, nil, err
		}

		primary.R[attr] = encodeG2(g2.Mul(xr))
		primaryPriv.XR[attr] = encodeZr(xr)
	}

	xz, err := i.randomZr()
	if err != nil {
		return nil, nil, err
	}

	xrctxt, err := i.randomZr()
	if err != nil {
		return nil, nil, err
	}

	primary.Z = encodeG2(g2.Mul(xz))
	primary.RCtxt = encodeG2(g2.Mul(xrctxt))
	primaryPriv.XZ = encodeZr(xz)
	primaryPriv.XRCtxt = encodeZr(xrctxt)

	credDef := &anoncreds.CredentialDefinitionV1{
		ID:       anoncreds.CredentialDefinitionID(issuerDID, *schema.SeqNo, sigType, tag),
		SchemaID: strconv.FormatUint(uint64(*schema.SeqNo), 10),
		Type:     sigType,
		Tag:      tag,
		Value:    anoncreds.CredentialDefinitionData{Primary: primary},
	}

	private := &anoncreds.CredentialDefinitionPrivate{Primary: primaryPriv}

	if supportRevocation {
		pub, priv, revErr := i.revocationKeys()
		if revErr != nil {
			return nil, nil, revErr
		}

		credDef.Value.Revocation = pub
		private.Revocation = priv
	}

	logger.Debug("credential definition keys generated")

	return credDef, private, nil
}

func (i *Issuer) revocationKeys() (
	*anoncreds.CredentialRevocationPublicKey, *anoncreds.CredentialRevocationPrivateKey, error) {
	h, err := i.randomZr()
	if err != nil {
		return nil, nil, err
	}

	x, err := i.randomZr()
	if err != nil {
		return nil, nil, err
	}

	sk, err := i.randomZr()
	if err != nil {
		return nil, nil, err
	}

	g1, g2 := i.curve.GenG1, i.curve.GenG2

	return &anoncreds.CredentialRevocationPublicKey{
			G:     encodeG1(g1),
			GDash: encodeG2(g2),
			H:     encodeG1(g1.Mul(h)),
			PK:    encodeG1(g1.Mul(sk)),
			Y:     encodeG2(g2.Mul(x)),
		}, &anoncreds.CredentialRevocationPrivateKey{
			X:  encodeZr(x),
			SK: encodeZr(sk),
		}, nil
}
