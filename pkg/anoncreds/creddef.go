/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package anoncreds

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// CredentialDefinition is a versioned credential definition. CredentialDefinitionV1 is the only variant.
type CredentialDefinition interface {
	credDefVersion() string
}

// CredentialDefinitionV1 is the public part of an issuer's commitment to issue credentials for a schema.
type CredentialDefinitionV1 struct {
	ID string `json:"id"`
	// SchemaID references the schema by its ledger sequence number.
	SchemaID string                   `json:"schemaId"`
	Type     SignatureType            `json:"type"`
	Tag      string                   `json:"tag"`
	Value    CredentialDefinitionData `json:"value"`
}

// CredentialDefinitionData holds the public keys. Points are hex encoded.
type CredentialDefinitionData struct {
	Primary    CredentialPrimaryPublicKey     `json:"primary"`
	Revocation *CredentialRevocationPublicKey `json:"revocation,omitempty"`
}

type CredentialPrimaryPublicKey struct {
	S     string            `json:"s"`
	R     map[string]string `json:"r"`
	RCtxt string            `json:"rctxt"`
	Z     string            `json:"z"`
}

type CredentialRevocationPublicKey struct {
	G     string `json:"g"`
	GDash string `json:"g_dash"`
	H     string `json:"h"`
	PK    string `json:"pk"`
	Y     string `json:"y"`
}

// CredentialDefinitionPrivate is the issuer's signing material. It never leaves the issuing process.
type CredentialDefinitionPrivate struct {
	Primary    CredentialPrimaryPrivateKey     `json:"primary"`
	Revocation *CredentialRevocationPrivateKey `json:"revocation,omitempty"`
}

type CredentialPrimaryPrivateKey struct {
	XR     map[string]string `json:"xr"`
	XRCtxt string            `json:"xrctxt"`
	XZ     string            `json:"xz"`
}

type CredentialRevocationPrivateKey struct {
	X  string `json:"x"`
	SK string `json:"sk"`
}

func (c *CredentialDefinitionV1) credDefVersion() string {
	return Version1
}

// SupportsRevocation reports whether the definition carries a revocation key.
func (c *CredentialDefinitionV1) SupportsRevocation() bool {
	return c.Value.Revocation != nil
}

func (c *CredentialDefinitionV1) MarshalJSON() ([]byte, error) {
	type credDefV1 CredentialDefinitionV1

	return json.Marshal(&struct {
		Ver string `json:"ver"`
		*credDefV1
	}{
		Ver:       Version1,
		credDefV1: (*credDefV1)(c),
	})
}

// CredentialDefinitionAsV1 returns the V1 variant of c.
func CredentialDefinitionAsV1(c CredentialDefinition) (*CredentialDefinitionV1, error) {
	switch v := c.(type) {
	case *CredentialDefinitionV1:
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported credential definition variant %T", c)
	}
}

// ParseCredentialDefinition decodes a credential definition, dispatching on its "ver" field.
func ParseCredentialDefinition(b []byte) (CredentialDefinition, error) {
	switch ver := gjson.GetBytes(b, "ver").String(); ver {
	case Version1:
		c := &CredentialDefinitionV1{}

		if err := json.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("decode credential definition: %w", err)
		}

		return c, nil
	default:
		return nil, fmt.Errorf("unsupported credential definition version %q", ver)
	}
}
