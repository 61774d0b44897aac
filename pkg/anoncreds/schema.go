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

// Schema is a versioned schema entity. SchemaV1 is the only variant.
type Schema interface {
	schemaVersion() string
}

// SchemaV1 is a named, versioned declaration of a credential's attribute set.
type SchemaV1 struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Version   string         `json:"version"`
	AttrNames AttributeNames `json:"attrNames"`
	// SeqNo is nil until the ledger has accepted the schema.
	SeqNo *uint32 `json:"seqNo,omitempty"`
}

func (s *SchemaV1) schemaVersion() string {
	return Version1
}

// Published reports whether the ledger assigned a sequence number to the schema.
func (s *SchemaV1) Published() bool {
	return s.SeqNo != nil
}

// WithSeqNo returns a copy of the schema carrying the ledger-assigned sequence number.
func (s *SchemaV1) WithSeqNo(seqNo uint32) *SchemaV1 {
	cp := *s
	cp.AttrNames = append(AttributeNames(nil), s.AttrNames...)
	cp.SeqNo = &seqNo

	return &cp
}

func (s *SchemaV1) MarshalJSON() ([]byte, error) {
	type schemaV1 SchemaV1

	return json.Marshal(&struct {
		Ver string `json:"ver"`
		*schemaV1
	}{
		Ver:      Version1,
		schemaV1: (*schemaV1)(s),
	})
}

// SchemaAsV1 returns the V1 variant of s.
func SchemaAsV1(s Schema) (*SchemaV1, error) {
	switch v := s.(type) {
	case *SchemaV1:
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported schema variant %T", s)
	}
}

// ParseSchema decodes a schema, dispatching on its "ver" field.
func ParseSchema(b []byte) (Schema, error) {
	switch ver := gjson.GetBytes(b, "ver").String(); ver {
	case Version1:
		s := &SchemaV1{}

		if err := json.Unmarshal(b, s); err != nil {
			return nil, fmt.Errorf("decode schema: %w", err)
		}

		return s, nil
	default:
		return nil, fmt.Errorf("unsupported schema version %q", ver)
	}
}
