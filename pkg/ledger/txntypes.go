/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package ledger

// TxnType is the ledger transaction type code carried in operation.type.
type TxnType string

const (
	NymTxn              TxnType = "1"
	SchemaTxn           TxnType = "101"
	CredDefTxn          TxnType = "102"
	GetNymTxn           TxnType = "105"
	RevocRegDefTxn      TxnType = "113"
	RevocRegEntryTxn    TxnType = "114"
	GetRevocRegDeltaTxn TxnType = "117"
	FlagTxn             TxnType = "130"
	GetFlagTxn          TxnType = "131"
)

const (
	// ProtocolVersion is the request protocol version understood by the ledger nodes.
	ProtocolVersion = 2

	// RoleEndorser is the NYM role code of an endorser.
	RoleEndorser = "101"

	// DefaultSubmitterDID identifies unsigned read requests built without a submitter.
	DefaultSubmitterDID = "LibindyDid111111111111"
)

var txnNames = map[TxnType]string{ //nolint:gochecknoglobals
	NymTxn:              "NYM",
	SchemaTxn:           "SCHEMA",
	CredDefTxn:          "CLAIM_DEF",
	GetNymTxn:           "GET_NYM",
	RevocRegDefTxn:      "REVOC_REG_DEF",
	RevocRegEntryTxn:    "REVOC_REG_ENTRY",
	GetRevocRegDeltaTxn: "GET_REVOC_REG_DELTA",
	FlagTxn:             "FLAG",
	GetFlagTxn:          "GET_FLAG",
}

// String returns the ledger name of the transaction type, e.g. "REVOC_REG_ENTRY".
func (t TxnType) String() string {
	if name, ok := txnNames[t]; ok {
		return name
	}

	return "UNKNOWN(" + string(t) + ")"
}

// IsRead reports whether the transaction type is a read-only query.
func (t TxnType) IsRead() bool {
	switch t {
	case GetNymTxn, GetRevocRegDeltaTxn, GetFlagTxn:
		return true
	default:
		return false
	}
}
