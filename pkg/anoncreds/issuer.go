/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package anoncreds

import (
	"context"
)

// Issuer is the anonymous-credential capability: key generation and accumulator math.
type Issuer interface {
	// CreateCredentialDefinition generates fresh key material for a credential definition over schema.
	CreateCredentialDefinition(
		issuerDID string,
		schema *SchemaV1,
		tag string,
		sigType SignatureType,
		supportRevocation bool,
	) (*CredentialDefinitionV1, *CredentialDefinitionPrivate, error)

	// CreateRevocationRegistry builds a registry of maxCredNum indices and writes its tails data.
	CreateRevocationRegistry(
		ctx context.Context,
		issuerDID string,
		credDef *CredentialDefinitionV1,
		tag string,
		regType RegistryType,
		issuanceType IssuanceType,
		maxCredNum uint32,
		tails TailsWriter,
	) (*RevocationRegistryDefinitionV1, *RevocationRegistryDefinitionPrivate, *RevocationRegistry,
		*RevocationRegistryDelta, error)

	// UpdateRevocationRegistry computes the accumulator transition for newly issued and revoked indices.
	UpdateRevocationRegistry(
		ctx context.Context,
		credDef *CredentialDefinitionV1,
		def *RevocationRegistryDefinitionV1,
		private *RevocationRegistryDefinitionPrivate,
		registry *RevocationRegistry,
		issued, revoked []uint32,
		tails TailsReader,
	) (*RevocationRegistry, *RevocationRegistryDelta, error)
}

// TailsWriter stores tails data and returns a location resolvable by TailsReader.
type TailsWriter interface {
	Write(ctx context.Context, data []byte) (location, hash string, err error)
}

// TailsReader reads tails data back and verifies it against hash.
type TailsReader interface {
	Read(ctx context.Context, location, hash string) ([]byte, error)
}
