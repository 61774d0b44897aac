/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package anoncreds_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trustbloc/revocreg/pkg/anoncreds"
)

func TestNewAttributeNames(t *testing.T) {
	names := anoncreds.NewAttributeNames("email", "name", "email", "", "attr1")

	require.Equal(t, anoncreds.AttributeNames{"attr1", "email", "name"}, names)
	require.True(t, names.Contains("name"))
	require.False(t, names.Contains("attr2"))
	require.Equal(t, names, anoncreds.NewAttributeNames("name", "attr1", "email"))
}

func TestIndexSet(t *testing.T) {
	require.Equal(t, []uint32{1, 5, 6, 7}, anoncreds.IndexSet([]uint32{7, 5, 1, 6, 5, 7}))
	require.Empty(t, anoncreds.IndexSet(nil))
}

func TestSchemaV1(t *testing.T) {
	schema := &anoncreds.SchemaV1{
		ID:        anoncreds.SchemaID(issuerDID, "TestSchema", "0.1.0"),
		Name:      "TestSchema",
		Version:   "0.1.0",
		AttrNames: anoncreds.NewAttributeNames("name", "email"),
	}

	require.False(t, schema.Published())

	published := schema.WithSeqNo(42)
	require.True(t, published.Published())
	require.Equal(t, uint32(42), *published.SeqNo)
	require.False(t, schema.Published())

	b, err := json.Marshal(published)
	require.NoError(t, err)
	require.Contains(t, string(b), `"ver":"1.0"`)

	parsed, err := anoncreds.ParseSchema(b)
	require.NoError(t, err)

	v1, err := anoncreds.SchemaAsV1(parsed)
	require.NoError(t, err)
	require.Equal(t, published, v1)

	_, err = anoncreds.ParseSchema([]byte(`{"ver":"2.0"}`))
	require.ErrorContains(t, err, "unsupported schema version")

	_, err = anoncreds.SchemaAsV1(nil)
	require.ErrorContains(t, err, "unsupported schema variant")
}

func TestCredentialDefinitionV1(t *testing.T) {
	credDef := &anoncreds.CredentialDefinitionV1{
		ID:       anoncreds.CredentialDefinitionID(issuerDID, 42, anoncreds.SignatureTypeCL, "testcred"),
		SchemaID: "42",
		Type:     anoncreds.SignatureTypeCL,
		Tag:      "testcred",
		Value: anoncreds.CredentialDefinitionData{
			Primary:    anoncreds.CredentialPrimaryPublicKey{R: map[string]string{"name": "aa"}},
			Revocation: &anoncreds.CredentialRevocationPublicKey{G: "bb"},
		},
	}

	require.True(t, credDef.SupportsRevocation())

	b, err := json.Marshal(credDef)
	require.NoError(t, err)

	parsed, err := anoncreds.ParseCredentialDefinition(b)
	require.NoError(t, err)

	v1, err := anoncreds.CredentialDefinitionAsV1(parsed)
	require.NoError(t, err)
	require.Equal(t, credDef, v1)

	_, err = anoncreds.ParseCredentialDefinition([]byte(`{}`))
	require.ErrorContains(t, err, "unsupported credential definition version")
}

func TestRevocationRegistryDefinitionV1(t *testing.T) {
	def := &anoncreds.RevocationRegistryDefinitionV1{
		ID:           "V4SGRU86Z58d6TV7PBUe6f:4:V4SGRU86Z58d6TV7PBUe6f:3:CL:42:testcred:CL_ACCUM:1.0",
		RevocDefType: anoncreds.RegistryTypeCLAccum,
		Tag:          "1.0",
		CredDefID:    "V4SGRU86Z58d6TV7PBUe6f:3:CL:42:testcred",
		Value: anoncreds.RevocationRegistryDefinitionValue{
			IssuanceType:  anoncreds.IssuanceByDefault,
			MaxCredNum:    50,
			TailsHash:     "hash",
			TailsLocation: "/tmp/hash",
		},
	}

	b, err := json.Marshal(def)
	require.NoError(t, err)

	parsed, err := anoncreds.ParseRevocationRegistryDefinition(b)
	require.NoError(t, err)

	v1, err := anoncreds.RevocationRegistryDefinitionAsV1(parsed)
	require.NoError(t, err)
	require.Equal(t, def, v1)
}

func TestRevocationRegistry(t *testing.T) {
	reg := anoncreds.NewRevocationRegistry("accum0", 50)

	require.Equal(t, uint32(50), reg.MaxCredNum())
	require.Empty(t, reg.Revoked())

	delta := reg.InitialDelta(anoncreds.IssuanceByDefault)
	require.Equal(t, "accum0", delta.Accum)
	require.Empty(t, delta.Revoked)
	require.Len(t, delta.Issued, 50)
	require.Equal(t, uint32(1), delta.Issued[0])
	require.Equal(t, uint32(50), delta.Issued[49])

	next, err := reg.Next("accum1", nil, []uint32{1, 5, 6, 7})
	require.NoError(t, err)
	require.Equal(t, []uint32{1, 5, 6, 7}, next.Revoked())
	require.True(t, next.IsRevoked(5))
	require.False(t, next.IsRevoked(2))
	require.False(t, next.IsRevoked(0))
	require.Empty(t, reg.Revoked())

	restored, err := next.Next("accum2", []uint32{5}, nil)
	require.NoError(t, err)
	require.Equal(t, []uint32{1, 6, 7}, restored.Revoked())

	_, err = reg.Next("accum1", nil, []uint32{51})
	require.ErrorContains(t, err, "out of range")

	b, err := json.Marshal(next)
	require.NoError(t, err)

	decoded := &anoncreds.RevocationRegistry{}
	require.NoError(t, json.Unmarshal(b, decoded))
	require.Equal(t, "accum1", decoded.Accum())
	require.Equal(t, []uint32{1, 5, 6, 7}, decoded.Revoked())
	require.Equal(t, uint32(50), decoded.MaxCredNum())

	require.Error(t, json.Unmarshal([]byte(`{"ver":"0.1"}`), decoded))
}
