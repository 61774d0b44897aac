/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package localledger

import (
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"

	"github.com/trustbloc/revocreg/pkg/anoncreds"
	"github.com/trustbloc/revocreg/pkg/did"
	"github.com/trustbloc/revocreg/pkg/ledger"
)

type nymOperation struct {
	Dest   string `json:"dest"`
	VerKey string `json:"verkey"`
	Role   string `json:"role"`
}

type schemaOperation struct {
	Data struct {
		Name      string   `json:"name"`
		Version   string   `json:"version"`
		AttrNames []string `json:"attr_names"`
	} `json:"data"`
}

type credDefOperation struct {
	Ref           uint32          `json:"ref"`
	SignatureType string          `json:"signature_type"`
	Tag           string          `json:"tag"`
	Data          json.RawMessage `json:"data"`
}

type revRegDefOperation struct {
	ID           string `json:"id"`
	RevocDefType string `json:"revocDefType"`
	Tag          string `json:"tag"`
	CredDefID    string `json:"credDefId"`
	Value        struct {
		IssuanceType string `json:"issuanceType"`
		MaxCredNum   uint32 `json:"maxCredNum"`
	} `json:"value"`
}

type revRegEntryOperation struct {
	RevocRegDefID string                            `json:"revocRegDefId"`
	RevocDefType  string                            `json:"revocDefType"`
	Value         anoncreds.RevocationRegistryDelta `json:"value"`
}

type getRevRegDeltaOperation struct {
	RevocRegDefID string `json:"revocRegDefId"`
	From          *int64 `json:"from"`
	To            int64  `json:"to"`
}

type flagOperation struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func decodeOperation(req *ledger.PreparedRequest, v interface{}) error {
	b, err := json.Marshal(req.Operation())
	if err != nil {
		return nack("invalid operation: %v", err)
	}

	if err = json.Unmarshal(b, v); err != nil {
		return nack("invalid operation: %v", err)
	}

	return nil
}

// verify checks the request signature against the submitter's NYM.
func verify(txn *badger.Txn, req *ledger.PreparedRequest) (*nymRecord, error) {
	if req.Signature() == "" {
		return nil, nack("missing signature")
	}

	submitter := &nymRecord{}

	if err := getJSON(txn, prefixNym+req.Identifier(), submitter); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nack("unknown identifier %s", req.Identifier())
		}

		return nil, err
	}

	verKey, err := did.DecodeVerKey(submitter.VerKey)
	if err != nil {
		return nil, nack("invalid verkey of %s: %v", req.Identifier(), err)
	}

	input, err := req.SignatureInput()
	if err != nil {
		return nil, nack("invalid request: %v", err)
	}

	if !ed25519.Verify(verKey, []byte(input), req.DecodeSignature()) {
		return nil, nack("invalid signature of %s", req.Identifier())
	}

	return submitter, nil
}

func canWrite(submitter *nymRecord) bool {
	return lo.Contains([]string{roleTrustee, roleSteward, ledger.RoleEndorser}, submitter.Role)
}

func apply(txn *badger.Txn, req *ledger.PreparedRequest, submitter *nymRecord, seqNo uint32, txnTime int64) error {
	switch req.TxnType {
	case ledger.NymTxn:
		return applyNym(txn, req, submitter, seqNo, txnTime)
	case ledger.SchemaTxn:
		return applySchema(txn, req, submitter, seqNo, txnTime)
	case ledger.CredDefTxn:
		return applyCredDef(txn, req, submitter, seqNo, txnTime)
	case ledger.RevocRegDefTxn:
		return applyRevRegDef(txn, req, submitter, seqNo, txnTime)
	case ledger.RevocRegEntryTxn:
		return applyRevRegEntry(txn, req, seqNo, txnTime)
	case ledger.FlagTxn:
		return applyFlag(txn, req, submitter, seqNo, txnTime)
	default:
		return nack("unsupported transaction type %s", req.TxnType)
	}
}

func applyNym(txn *badger.Txn, req *ledger.PreparedRequest, submitter *nymRecord, seqNo uint32, txnTime int64) error {
	var op nymOperation

	if err := decodeOperation(req, &op); err != nil {
		return err
	}

	if op.Dest == "" || op.VerKey == "" {
		return nack("dest and verkey are required")
	}

	if _, err := did.DecodeVerKey(op.VerKey); err != nil {
		return nack("invalid verkey: %v", err)
	}

	if op.Role != "" && submitter.Role != roleTrustee && submitter.Role != roleSteward {
		return reject("%s is not authorized to assign role %s", req.Identifier(), op.Role)
	}

	found, err := exists(txn, prefixNym+op.Dest)
	if err != nil {
		return err
	}

	if found {
		return reject("NYM %s already exists", op.Dest)
	}

	return putJSON(txn, prefixNym+op.Dest, &nymRecord{
		Dest:       op.Dest,
		VerKey:     op.VerKey,
		Role:       op.Role,
		Identifier: req.Identifier(),
		SeqNo:      seqNo,
		TxnTime:    txnTime,
	})
}

func applySchema(txn *badger.Txn, req *ledger.PreparedRequest, submitter *nymRecord, seqNo uint32, txnTime int64) error {
	if !canWrite(submitter) {
		return reject("%s is not authorized to write SCHEMA", req.Identifier())
	}

	var op schemaOperation

	if err := decodeOperation(req, &op); err != nil {
		return err
	}

	if len(op.Data.AttrNames) == 0 || len(op.Data.AttrNames) > anoncreds.MaxAttributes {
		return nack("schema must have between 1 and %d attributes", anoncreds.MaxAttributes)
	}

	id := anoncreds.SchemaID(req.Identifier(), op.Data.Name, op.Data.Version)

	found, err := exists(txn, prefixSchema+id)
	if err != nil {
		return err
	}

	if found {
		return reject("schema %s already exists", id)
	}

	record := &schemaRecord{ID: id, SeqNo: seqNo, TxnTime: txnTime}

	if err = putJSON(txn, prefixSchema+id, record); err != nil {
		return err
	}

	return putJSON(txn, fmt.Sprintf("%s%d", prefixSchemaBySeq, seqNo), record)
}

func applyCredDef(txn *badger.Txn, req *ledger.PreparedRequest, submitter *nymRecord, seqNo uint32, txnTime int64) error {
	if !canWrite(submitter) {
		return reject("%s is not authorized to write CLAIM_DEF", req.Identifier())
	}

	var op credDefOperation

	if err := decodeOperation(req, &op); err != nil {
		return err
	}

	if op.SignatureType != string(anoncreds.SignatureTypeCL) {
		return nack("unsupported signature type %q", op.SignatureType)
	}

	found, err := exists(txn, fmt.Sprintf("%s%d", prefixSchemaBySeq, op.Ref))
	if err != nil {
		return err
	}

	if !found {
		return reject("schema with seqNo %d is not found", op.Ref)
	}

	id := anoncreds.CredentialDefinitionID(req.Identifier(), op.Ref, anoncreds.SignatureTypeCL, op.Tag)

	found, err = exists(txn, prefixCredDef+id)
	if err != nil {
		return err
	}

	if found {
		return reject("credential definition %s already exists", id)
	}

	return putJSON(txn, prefixCredDef+id, &credDefRecord{ID: id, SeqNo: seqNo, TxnTime: txnTime})
}

func applyRevRegDef(txn *badger.Txn, req *ledger.PreparedRequest, submitter *nymRecord, seqNo uint32, txnTime int64) error {
	if !canWrite(submitter) {
		return reject("%s is not authorized to write REVOC_REG_DEF", req.Identifier())
	}

	var op revRegDefOperation

	if err := decodeOperation(req, &op); err != nil {
		return err
	}

	if strings.Contains(op.CredDefID, "did:") || strings.HasPrefix(op.CredDefID, "creddef:") {
		return reject("qualified credential definition id %s is not supported", op.CredDefID)
	}

	if op.RevocDefType != string(anoncreds.RegistryTypeCLAccum) {
		return nack("unsupported revocation registry type %q", op.RevocDefType)
	}

	if op.Value.MaxCredNum == 0 {
		return nack("maxCredNum must be positive")
	}

	if op.ID != anoncreds.RevocationRegistryID(req.Identifier(), op.CredDefID, anoncreds.RegistryTypeCLAccum, op.Tag) {
		return nack("revocation registry definition id %s does not match its content", op.ID)
	}

	found, err := exists(txn, prefixCredDef+op.CredDefID)
	if err != nil {
		return err
	}

	if !found {
		return reject("credential definition %s is not found", op.CredDefID)
	}

	found, err = exists(txn, prefixRevRegDef+op.ID)
	if err != nil {
		return err
	}

	if found {
		return reject("revocation registry definition %s already exists", op.ID)
	}

	return putJSON(txn, prefixRevRegDef+op.ID, &revRegDefRecord{
		ID:           op.ID,
		Owner:        req.Identifier(),
		CredDefID:    op.CredDefID,
		RevocDefType: op.RevocDefType,
		IssuanceType: op.Value.IssuanceType,
		MaxCredNum:   op.Value.MaxCredNum,
		SeqNo:        seqNo,
		TxnTime:      txnTime,
	})
}

func applyRevRegEntry(txn *badger.Txn, req *ledger.PreparedRequest, seqNo uint32, txnTime int64) error {
	var op revRegEntryOperation

	if err := decodeOperation(req, &op); err != nil {
		return err
	}

	def := &revRegDefRecord{}

	if err := getJSON(txn, prefixRevRegDef+op.RevocRegDefID, def); err != nil {
		if errors.Is(err, errNotFound) {
			return reject("revocation registry definition %s is not found", op.RevocRegDefID)
		}

		return err
	}

	if def.Owner != req.Identifier() {
		return reject("%s is not the owner of revocation registry %s", req.Identifier(), def.ID)
	}

	if op.Value.Accum == "" {
		return nack("accum is required")
	}

	state := &revRegStateRecord{}

	err := getJSON(txn, prefixRevRegState+def.ID, state)

	switch {
	case errors.Is(err, errNotFound):
		if op.Value.PrevAccum != "" {
			return reject("revocation registry %s is not initialized", def.ID)
		}
	case err != nil:
		return err
	case op.Value.PrevAccum != state.Accum:
		return reject("prevAccum %s does not match the current accumulator of %s", op.Value.PrevAccum, def.ID)
	}

	for _, idx := range append(append([]uint32{}, op.Value.Issued...), op.Value.Revoked...) {
		if idx == 0 || idx > def.MaxCredNum {
			return reject("index %d is out of range [1, %d]", idx, def.MaxCredNum)
		}
	}

	if err = putJSON(txn, revRegEntryKey(def.ID, seqNo), &revRegEntryRecord{
		Accum:     op.Value.Accum,
		PrevAccum: op.Value.PrevAccum,
		Issued:    op.Value.Issued,
		Revoked:   op.Value.Revoked,
		SeqNo:     seqNo,
		TxnTime:   txnTime,
	}); err != nil {
		return err
	}

	return putJSON(txn, prefixRevRegState+def.ID, &revRegStateRecord{
		Accum:   op.Value.Accum,
		SeqNo:   seqNo,
		TxnTime: txnTime,
	})
}

func applyFlag(txn *badger.Txn, req *ledger.PreparedRequest, submitter *nymRecord, seqNo uint32, txnTime int64) error {
	if submitter.Role != roleTrustee {
		return reject("%s is not authorized to write FLAG", req.Identifier())
	}

	var op flagOperation

	if err := decodeOperation(req, &op); err != nil {
		return err
	}

	if op.Name == "" {
		return nack("flag name is required")
	}

	return putJSON(txn, prefixFlag+op.Name, &flagRecord{
		Name:    op.Name,
		Value:   op.Value,
		SeqNo:   seqNo,
		TxnTime: txnTime,
	})
}

// query returns the result data of a read request; nil data means not found.
func query(txn *badger.Txn, req *ledger.PreparedRequest) (interface{}, error) {
	switch req.TxnType {
	case ledger.GetNymTxn:
		return queryNym(txn, req)
	case ledger.GetFlagTxn:
		return queryFlag(txn, req)
	case ledger.GetRevocRegDeltaTxn:
		return queryRevRegDelta(txn, req)
	default:
		return nil, nack("unsupported transaction type %s", req.TxnType)
	}
}

func queryNym(txn *badger.Txn, req *ledger.PreparedRequest) (interface{}, error) {
	var op nymOperation

	if err := decodeOperation(req, &op); err != nil {
		return nil, err
	}

	record := &nymRecord{}

	if err := getJSON(txn, prefixNym+op.Dest, record); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}

		return nil, err
	}

	// GET_NYM data is a JSON encoded string.
	b, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}

	return string(b), nil
}

func queryFlag(txn *badger.Txn, req *ledger.PreparedRequest) (interface{}, error) {
	var op flagOperation

	if err := decodeOperation(req, &op); err != nil {
		return nil, err
	}

	record := &flagRecord{}

	if err := getJSON(txn, prefixFlag+op.Name, record); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return record, nil
}

type accumValue struct {
	RevocDefType  string            `json:"revocDefType"`
	RevocRegDefID string            `json:"revocRegDefId"`
	SeqNo         uint32            `json:"seqNo"`
	TxnTime       int64             `json:"txnTime"`
	Value         map[string]string `json:"value"`
}

type deltaValue struct {
	AccumTo   *accumValue `json:"accum_to"`
	AccumFrom *accumValue `json:"accum_from,omitempty"`
	Issued    []uint32    `json:"issued"`
	Revoked   []uint32    `json:"revoked"`
}

type deltaData struct {
	RevocDefType  string      `json:"revocDefType"`
	RevocRegDefID string      `json:"revocRegDefId"`
	Value         *deltaValue `json:"value"`
}

func queryRevRegDelta(txn *badger.Txn, req *ledger.PreparedRequest) (interface{}, error) {
	var op getRevRegDeltaOperation

	if err := decodeOperation(req, &op); err != nil {
		return nil, err
	}

	def := &revRegDefRecord{}

	if err := getJSON(txn, prefixRevRegDef+op.RevocRegDefID, def); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}

		return nil, err
	}

	entries, err := revRegEntries(txn, def.ID)
	if err != nil {
		return nil, err
	}

	data := &deltaData{RevocDefType: def.RevocDefType, RevocRegDefID: def.ID}

	to := replay(entries, op.To)
	if to.last == nil {
		return data, nil
	}

	value := &deltaValue{
		AccumTo: to.accum(def),
		Issued:  to.issuedIndices(),
		Revoked: to.revokedIndices(),
	}

	if op.From != nil {
		from := replay(entries, *op.From)
		if from.last != nil {
			value.AccumFrom = from.accum(def)
			value.Issued = lo.Without(value.Issued, from.issuedIndices()...)
			value.Revoked = lo.Without(value.Revoked, from.revokedIndices()...)
		}
	}

	data.Value = value

	return data, nil
}

type registrySnapshot struct {
	issued  map[uint32]struct{}
	revoked map[uint32]struct{}
	last    *revRegEntryRecord
}

// replay applies the entries written up to time until.
func replay(entries []*revRegEntryRecord, until int64) *registrySnapshot {
	s := &registrySnapshot{issued: map[uint32]struct{}{}, revoked: map[uint32]struct{}{}}

	for _, e := range entries {
		if e.TxnTime > until {
			break
		}

		for _, idx := range e.Issued {
			s.issued[idx] = struct{}{}
			delete(s.revoked, idx)
		}

		for _, idx := range e.Revoked {
			s.revoked[idx] = struct{}{}
			delete(s.issued, idx)
		}

		s.last = e
	}

	return s
}

func (s *registrySnapshot) accum(def *revRegDefRecord) *accumValue {
	return &accumValue{
		RevocDefType:  def.RevocDefType,
		RevocRegDefID: def.ID,
		SeqNo:         s.last.SeqNo,
		TxnTime:       s.last.TxnTime,
		Value:         map[string]string{"accum": s.last.Accum},
	}
}

func (s *registrySnapshot) issuedIndices() []uint32 {
	return anoncreds.IndexSet(lo.Keys(s.issued))
}

func (s *registrySnapshot) revokedIndices() []uint32 {
	return anoncreds.IndexSet(lo.Keys(s.revoked))
}
