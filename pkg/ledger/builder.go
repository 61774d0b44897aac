/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package ledger

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/trustbloc/revocreg/pkg/anoncreds"
	"github.com/trustbloc/revocreg/pkg/did"
)

// RequestBuilder builds unsigned ledger requests. Identifiers inside operations are sent in
// their unqualified (legacy) form, except the credential definition reference of a
// registry definition which is sent as given.
type RequestBuilder struct {
	now func() time.Time

	mu        sync.Mutex
	lastReqID int64
}

// BuilderOpt configures RequestBuilder.
type BuilderOpt func(b *RequestBuilder)

// WithClock sets the clock used for request IDs and default query times.
func WithClock(now func() time.Time) BuilderOpt {
	return func(b *RequestBuilder) {
		b.now = now
	}
}

// NewRequestBuilder returns new RequestBuilder.
func NewRequestBuilder(opts ...BuilderOpt) *RequestBuilder {
	b := &RequestBuilder{
		now: time.Now,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

type nymOperation struct {
	Type   TxnType `json:"type"`
	Dest   string  `json:"dest"`
	VerKey string  `json:"verkey,omitempty"`
	Alias  string  `json:"alias,omitempty"`
	Role   string  `json:"role,omitempty"`
}

type getNymOperation struct {
	Type TxnType `json:"type"`
	Dest string  `json:"dest"`
}

type schemaOperationData struct {
	Name      string   `json:"name"`
	Version   string   `json:"version"`
	AttrNames []string `json:"attr_names"`
}

type schemaOperation struct {
	Type TxnType             `json:"type"`
	Data schemaOperationData `json:"data"`
}

type credDefOperation struct {
	Type          TxnType                            `json:"type"`
	Ref           uint32                             `json:"ref"`
	SignatureType anoncreds.SignatureType            `json:"signature_type"`
	Tag           string                             `json:"tag"`
	Data          anoncreds.CredentialDefinitionData `json:"data"`
}

type revocRegDefOperation struct {
	Type         TxnType                                     `json:"type"`
	ID           string                                      `json:"id"`
	RevocDefType anoncreds.RegistryType                      `json:"revocDefType"`
	Tag          string                                      `json:"tag"`
	CredDefID    string                                      `json:"credDefId"`
	Value        anoncreds.RevocationRegistryDefinitionValue `json:"value"`
}

type revocRegEntryOperation struct {
	Type          TxnType                            `json:"type"`
	RevocRegDefID string                             `json:"revocRegDefId"`
	RevocDefType  anoncreds.RegistryType             `json:"revocDefType"`
	Value         *anoncreds.RevocationRegistryDelta `json:"value"`
}

type getRevocRegDeltaOperation struct {
	Type          TxnType `json:"type"`
	RevocRegDefID string  `json:"revocRegDefId"`
	From          *int64  `json:"from,omitempty"`
	To            int64   `json:"to"`
}

type flagOperation struct {
	Type  TxnType `json:"type"`
	Name  string  `json:"name"`
	Value string  `json:"value,omitempty"`
}

// BuildNymRequest builds a NYM request registering dest with verKey and role.
func (b *RequestBuilder) BuildNymRequest(submitterDID, dest, verKey, alias, role string) (*PreparedRequest, error) {
	if dest == "" {
		return nil, errors.New("nym destination is empty")
	}

	return b.build(submitterDID, &nymOperation{
		Type:   NymTxn,
		Dest:   did.Unqualify(dest),
		VerKey: verKey,
		Alias:  alias,
		Role:   role,
	})
}

// BuildGetNymRequest builds a GET_NYM query. An empty submitter builds an anonymous query.
func (b *RequestBuilder) BuildGetNymRequest(submitterDID, dest string) (*PreparedRequest, error) {
	return b.build(submitterDID, &getNymOperation{
		Type: GetNymTxn,
		Dest: did.Unqualify(dest),
	})
}

// BuildSchemaRequest builds a SCHEMA request.
func (b *RequestBuilder) BuildSchemaRequest(submitterDID string, schema *anoncreds.SchemaV1) (*PreparedRequest, error) {
	return b.build(submitterDID, &schemaOperation{
		Type: SchemaTxn,
		Data: schemaOperationData{
			Name:      schema.Name,
			Version:   schema.Version,
			AttrNames: schema.AttrNames,
		},
	})
}

// BuildCredDefRequest builds a CLAIM_DEF request carrying the public value of credDef.
func (b *RequestBuilder) BuildCredDefRequest(
	submitterDID string,
	credDef *anoncreds.CredentialDefinitionV1,
) (*PreparedRequest, error) {
	ref, err := strconv.ParseUint(credDef.SchemaID, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("credential definition schema reference %q is not a sequence number", credDef.SchemaID)
	}

	return b.build(submitterDID, &credDefOperation{
		Type:          CredDefTxn,
		Ref:           uint32(ref),
		SignatureType: credDef.Type,
		Tag:           credDef.Tag,
		Data:          credDef.Value,
	})
}

// BuildRevocRegDefRequest builds a REVOC_REG_DEF request.
func (b *RequestBuilder) BuildRevocRegDefRequest(
	submitterDID string,
	def *anoncreds.RevocationRegistryDefinitionV1,
) (*PreparedRequest, error) {
	return b.build(submitterDID, &revocRegDefOperation{
		Type:         RevocRegDefTxn,
		ID:           anoncreds.UnqualifyID(def.ID),
		RevocDefType: def.RevocDefType,
		Tag:          def.Tag,
		CredDefID:    def.CredDefID,
		Value:        def.Value,
	})
}

// BuildRevocRegEntryRequest builds a REVOC_REG_ENTRY request carrying delta.
func (b *RequestBuilder) BuildRevocRegEntryRequest(
	submitterDID, revRegDefID string,
	regType anoncreds.RegistryType,
	delta *anoncreds.RevocationRegistryDelta,
) (*PreparedRequest, error) {
	if delta == nil {
		return nil, errors.New("revocation registry delta is empty")
	}

	return b.build(submitterDID, &revocRegEntryOperation{
		Type:          RevocRegEntryTxn,
		RevocRegDefID: anoncreds.UnqualifyID(revRegDefID),
		RevocDefType:  regType,
		Value:         delta,
	})
}

// BuildGetRevocRegDeltaRequest builds a GET_REVOC_REG_DELTA query. A nil to queries up to now.
func (b *RequestBuilder) BuildGetRevocRegDeltaRequest(
	submitterDID, revRegDefID string,
	from *int64,
	to *time.Time,
) (*PreparedRequest, error) {
	toTime := b.now()
	if to != nil {
		toTime = *to
	}

	return b.build(submitterDID, &getRevocRegDeltaOperation{
		Type:          GetRevocRegDeltaTxn,
		RevocRegDefID: anoncreds.UnqualifyID(revRegDefID),
		From:          from,
		To:            toTime.Unix(),
	})
}

// BuildFlagRequest builds a FLAG request setting name to value.
func (b *RequestBuilder) BuildFlagRequest(submitterDID, name, value string) (*PreparedRequest, error) {
	if name == "" {
		return nil, errors.New("flag name is empty")
	}

	return b.build(submitterDID, &flagOperation{
		Type:  FlagTxn,
		Name:  name,
		Value: value,
	})
}

// BuildGetFlagRequest builds a GET_FLAG query.
func (b *RequestBuilder) BuildGetFlagRequest(submitterDID, name string) (*PreparedRequest, error) {
	if name == "" {
		return nil, errors.New("flag name is empty")
	}

	return b.build(submitterDID, &flagOperation{
		Type: GetFlagTxn,
		Name: name,
	})
}

func (b *RequestBuilder) build(submitterDID string, operation interface{}) (*PreparedRequest, error) {
	identifier := did.Unqualify(submitterDID)
	if identifier == "" {
		identifier = DefaultSubmitterDID
	}

	return newPreparedRequest(identifier, b.nextReqID(), operation)
}

// nextReqID returns a time based request ID, strictly increasing per builder.
func (b *RequestBuilder) nextReqID() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.now().UnixNano()
	if id <= b.lastReqID {
		id = b.lastReqID + 1
	}

	b.lastReqID = id

	return id
}
