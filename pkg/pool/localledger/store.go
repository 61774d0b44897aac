/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package localledger

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

const (
	keySeqNo           = "seqno"
	prefixNym          = "nym:"
	prefixSchema       = "schema:"
	prefixCredDef      = "creddef:"
	prefixSchemaBySeq  = "schemaseq:"
	prefixRevRegDef    = "revregdef:"
	prefixRevRegEntry  = "revregentry:"
	prefixRevRegState  = "revregstate:"
	prefixFlag         = "flag:"
	prefixProcessedReq = "req:"
)

var errNotFound = errors.New("not found")

type nymRecord struct {
	Dest       string `json:"dest"`
	VerKey     string `json:"verkey"`
	Role       string `json:"role,omitempty"`
	Identifier string `json:"identifier"`
	SeqNo      uint32 `json:"seqNo"`
	TxnTime    int64  `json:"txnTime"`
}

type schemaRecord struct {
	ID      string `json:"id"`
	SeqNo   uint32 `json:"seqNo"`
	TxnTime int64  `json:"txnTime"`
}

type credDefRecord struct {
	ID      string `json:"id"`
	SeqNo   uint32 `json:"seqNo"`
	TxnTime int64  `json:"txnTime"`
}

type revRegDefRecord struct {
	ID           string `json:"id"`
	Owner        string `json:"owner"`
	CredDefID    string `json:"credDefId"`
	RevocDefType string `json:"revocDefType"`
	IssuanceType string `json:"issuanceType"`
	MaxCredNum   uint32 `json:"maxCredNum"`
	SeqNo        uint32 `json:"seqNo"`
	TxnTime      int64  `json:"txnTime"`
}

type revRegEntryRecord struct {
	Accum     string   `json:"accum"`
	PrevAccum string   `json:"prevAccum,omitempty"`
	Issued    []uint32 `json:"issued,omitempty"`
	Revoked   []uint32 `json:"revoked,omitempty"`
	SeqNo     uint32   `json:"seqNo"`
	TxnTime   int64    `json:"txnTime"`
}

type revRegStateRecord struct {
	Accum   string `json:"accum"`
	SeqNo   uint32 `json:"seqNo"`
	TxnTime int64  `json:"txnTime"`
}

type flagRecord struct {
	Name    string `json:"name"`
	Value   string `json:"value"`
	SeqNo   uint32 `json:"seqNo"`
	TxnTime int64  `json:"txnTime"`
}

func getJSON(txn *badger.Txn, key string, v interface{}) error {
	item, err := txn.Get([]byte(key))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return errNotFound
		}

		return fmt.Errorf("get %s: %w", key, err)
	}

	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

func putJSON(txn *badger.Txn, key string, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	return txn.Set([]byte(key), b)
}

func exists(txn *badger.Txn, key string) (bool, error) {
	_, err := txn.Get([]byte(key))
	if err == nil {
		return true, nil
	}

	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}

	return false, fmt.Errorf("get %s: %w", key, err)
}

// nextSeqNo allocates the next ledger sequence number within txn.
func nextSeqNo(txn *badger.Txn) (uint32, error) {
	var seqNo uint32

	item, err := txn.Get([]byte(keySeqNo))

	switch {
	case err == nil:
		if err = item.Value(func(val []byte) error {
			seqNo = binary.BigEndian.Uint32(val)

			return nil
		}); err != nil {
			return 0, err
		}
	case !errors.Is(err, badger.ErrKeyNotFound):
		return 0, fmt.Errorf("get seqno: %w", err)
	}

	seqNo++

	b := make([]byte, 4) //nolint:gomnd
	binary.BigEndian.PutUint32(b, seqNo)

	if err = txn.Set([]byte(keySeqNo), b); err != nil {
		return 0, err
	}

	return seqNo, nil
}

func revRegEntryKey(revRegDefID string, seqNo uint32) string {
	return fmt.Sprintf("%s%s:%010d", prefixRevRegEntry, revRegDefID, seqNo)
}

func processedReqKey(identifier string, reqID int64) string {
	return fmt.Sprintf("%s%s:%d", prefixProcessedReq, identifier, reqID)
}

// revRegEntries returns the entries of a registry in ledger order.
func revRegEntries(txn *badger.Txn, revRegDefID string) ([]*revRegEntryRecord, error) {
	prefix := []byte(prefixRevRegEntry + revRegDefID + ":")

	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	var entries []*revRegEntryRecord

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		entry := &revRegEntryRecord{}

		if err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, entry)
		}); err != nil {
			return nil, fmt.Errorf("decode revocation registry entry: %w", err)
		}

		entries = append(entries, entry)
	}

	return entries, nil
}
