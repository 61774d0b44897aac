/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package txnerr

// Code identifies a failure of a transaction-chain operation.
type Code string

const (
	InvalidSeedLength         Code = "invalid-seed-length"
	InvalidAttributeSet       Code = "invalid-attribute-set"
	UnpublishedSchema         Code = "unpublished-schema"
	IndexOutOfRange           Code = "index-out-of-range"
	MalformedCredDefReference Code = "malformed-cred-def-reference"

	CryptoKeygenFailure         Code = "crypto-keygen-failure"
	RegistryConstructionFailure Code = "registry-construction-failure"
	AccumulatorUpdateFailure    Code = "accumulator-update-failure"
	SignatureError              Code = "signature-error"

	LedgerRejected Code = "ledger-rejected"
)

// Kind groups codes by the way a caller is expected to react to them.
type Kind string

const (
	// ValidationError is raised before any network call for malformed inputs.
	ValidationError Kind = "validation"
	// CryptoError is pipeline-fatal and never retried.
	CryptoError Kind = "crypto"
	// LedgerRejectedError carries the ledger's negative consensus reason.
	LedgerRejectedError Kind = "ledger-rejected"
	// Unknown is returned for errors that are not *Error, such as transport failures.
	Unknown Kind = ""
)

var codeKinds = map[Code]Kind{
	InvalidSeedLength:           ValidationError,
	InvalidAttributeSet:         ValidationError,
	UnpublishedSchema:           ValidationError,
	IndexOutOfRange:             ValidationError,
	MalformedCredDefReference:   ValidationError,
	CryptoKeygenFailure:         CryptoError,
	RegistryConstructionFailure: CryptoError,
	AccumulatorUpdateFailure:    CryptoError,
	SignatureError:              CryptoError,
	LedgerRejected:              LedgerRejectedError,
}

// Kind returns the kind the code belongs to.
func (c Code) Kind() Kind {
	return codeKinds[c]
}
