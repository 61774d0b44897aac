/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package anoncreds

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/trustbloc/revocreg/pkg/doc/bitstring"
)

// RevocationRegistryDefinition is a versioned registry definition.
// RevocationRegistryDefinitionV1 is the only variant.
type RevocationRegistryDefinition interface {
	revRegDefVersion() string
}

// RevocationRegistryDefinitionV1 is the REVOC_REG_DEF payload published on the ledger.
type RevocationRegistryDefinitionV1 struct {
	ID           string                            `json:"id"`
	RevocDefType RegistryType                      `json:"revocDefType"`
	Tag          string                            `json:"tag"`
	CredDefID    string                            `json:"credDefId"`
	Value        RevocationRegistryDefinitionValue `json:"value"`
}

// RevocationRegistryDefinitionValue holds the capacity, tails reference and public keys of a registry.
type RevocationRegistryDefinitionValue struct {
	IssuanceType  IssuanceType                 `json:"issuanceType"`
	MaxCredNum    uint32                       `json:"maxCredNum"`
	PublicKeys    RevocationRegistryPublicKeys `json:"publicKeys"`
	TailsHash     string                       `json:"tailsHash"`
	TailsLocation string                       `json:"tailsLocation"`
}

// RevocationRegistryPublicKeys wraps the accumulator public key.
type RevocationRegistryPublicKeys struct {
	AccumKey AccumulatorPublicKey `json:"accumKey"`
}

// AccumulatorPublicKey is the public key z of the CL accumulator.
type AccumulatorPublicKey struct {
	Z string `json:"z"`
}

// RevocationRegistryDefinitionPrivate is the accumulator trapdoor of a registry.
// It is owned by the registry controller and never serialized into a transaction.
type RevocationRegistryDefinitionPrivate struct {
	Gamma string `json:"gamma"`
}

func (d *RevocationRegistryDefinitionV1) revRegDefVersion() string {
	return Version1
}

func (d *RevocationRegistryDefinitionV1) MarshalJSON() ([]byte, error) {
	type revRegDefV1 RevocationRegistryDefinitionV1

	return json.Marshal(&struct {
		Ver string `json:"ver"`
		*revRegDefV1
	}{
		Ver:         Version1,
		revRegDefV1: (*revRegDefV1)(d),
	})
}

// RevocationRegistryDefinitionAsV1 returns the V1 variant of d.
func RevocationRegistryDefinitionAsV1(d RevocationRegistryDefinition) (*RevocationRegistryDefinitionV1, error) {
	switch v := d.(type) {
	case *RevocationRegistryDefinitionV1:
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported revocation registry definition variant %T", d)
	}
}

// ParseRevocationRegistryDefinition decodes a registry definition, dispatching on its "ver" field.
func ParseRevocationRegistryDefinition(b []byte) (RevocationRegistryDefinition, error) {
	switch ver := gjson.GetBytes(b, "ver").String(); ver {
	case Version1:
		d := &RevocationRegistryDefinitionV1{}

		if err := json.Unmarshal(b, d); err != nil {
			return nil, fmt.Errorf("decode revocation registry definition: %w", err)
		}

		return d, nil
	default:
		return nil, fmt.Errorf("unsupported revocation registry definition version %q", ver)
	}
}

// RevocationRegistryDelta is the incremental change carried by one registry entry transaction.
type RevocationRegistryDelta struct {
	PrevAccum string   `json:"prevAccum,omitempty"`
	Accum     string   `json:"accum"`
	Issued    []uint32 `json:"issued,omitempty"`
	Revoked   []uint32 `json:"revoked,omitempty"`
}

// RevocationRegistry is the mutable accumulator state of a registry. Values are immutable;
// every transition returns a new RevocationRegistry.
type RevocationRegistry struct {
	accum   string
	revoked *bitstring.BitString
}

type revocationRegistryJSON struct {
	Ver        string `json:"ver"`
	Accum      string `json:"accum"`
	Revoked    string `json:"revoked"`
	MaxCredNum uint32 `json:"maxCredNum"`
}

// NewRevocationRegistry returns a registry of maxCredNum indices with nothing revoked.
func NewRevocationRegistry(accum string, maxCredNum uint32) *RevocationRegistry {
	return &RevocationRegistry{
		accum:   accum,
		revoked: bitstring.New(int(maxCredNum)),
	}
}

// Accum returns the hex encoded accumulator value.
func (r *RevocationRegistry) Accum() string {
	return r.accum
}

// MaxCredNum returns the registry capacity.
func (r *RevocationRegistry) MaxCredNum() uint32 {
	return uint32(r.revoked.Len())
}

// IsRevoked reports whether the 1-based index is revoked. Out of range indices are not revoked.
func (r *RevocationRegistry) IsRevoked(idx uint32) bool {
	if idx == 0 {
		return false
	}

	revoked, err := r.revoked.Get(int(idx - 1))

	return err == nil && revoked
}

// Revoked returns the revoked 1-based indices in ascending order.
func (r *RevocationRegistry) Revoked() []uint32 {
	positions := r.revoked.Positions()
	revoked := make([]uint32, 0, len(positions))

	for _, p := range positions {
		revoked = append(revoked, uint32(p+1))
	}

	return revoked
}

// Next returns the registry after moving to accum with issued indices cleared and revoked indices set.
func (r *RevocationRegistry) Next(accum string, issued, revoked []uint32) (*RevocationRegistry, error) {
	bits := r.revoked.Clone()

	for _, idx := range issued {
		if err := setIndex(bits, idx, false); err != nil {
			return nil, err
		}
	}

	for _, idx := range revoked {
		if err := setIndex(bits, idx, true); err != nil {
			return nil, err
		}
	}

	return &RevocationRegistry{accum: accum, revoked: bits}, nil
}

// InitialDelta returns the delta establishing the registry's genesis value on the ledger.
func (r *RevocationRegistry) InitialDelta(issuanceType IssuanceType) *RevocationRegistryDelta {
	delta := &RevocationRegistryDelta{
		Accum:   r.accum,
		Revoked: r.Revoked(),
	}

	if issuanceType == IssuanceByDefault {
		for idx := uint32(1); idx <= r.MaxCredNum(); idx++ {
			if !r.IsRevoked(idx) {
				delta.Issued = append(delta.Issued, idx)
			}
		}
	}

	return delta
}

func (r *RevocationRegistry) MarshalJSON() ([]byte, error) {
	encoded, err := r.revoked.Encode()
	if err != nil {
		return nil, fmt.Errorf("encode revoked indices: %w", err)
	}

	return json.Marshal(&revocationRegistryJSON{
		Ver:        Version1,
		Accum:      r.accum,
		Revoked:    encoded,
		MaxCredNum: r.MaxCredNum(),
	})
}

func (r *RevocationRegistry) UnmarshalJSON(b []byte) error {
	var data revocationRegistryJSON

	if err := json.Unmarshal(b, &data); err != nil {
		return err
	}

	if data.Ver != Version1 {
		return fmt.Errorf("unsupported revocation registry version %q", data.Ver)
	}

	bits, err := bitstring.Decode(data.Revoked, int(data.MaxCredNum))
	if err != nil {
		return fmt.Errorf("decode revoked indices: %w", err)
	}

	r.accum = data.Accum
	r.revoked = bits

	return nil
}

func setIndex(bits *bitstring.BitString, idx uint32, value bool) error {
	if idx == 0 || int(idx) > bits.Len() {
		return fmt.Errorf("index %d is out of range [1, %d]", idx, bits.Len())
	}

	return bits.Set(int(idx-1), value)
}
