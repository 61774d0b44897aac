/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package logfields

import (
	"time"

	"go.uber.org/zap"
)

// Log Fields.
const (
	FieldAction        = "action"
	FieldAttributes    = "attributes"
	FieldCapacity      = "capacity"
	FieldCredDefID     = "credDefID"
	FieldDID           = "did"
	FieldFlagName      = "flagName"
	FieldIndices       = "indices"
	FieldPath          = "path"
	FieldReason        = "reason"
	FieldReply         = "reply"
	FieldReqID         = "reqID"
	FieldRevRegID      = "revRegID"
	FieldRunID         = "runID"
	FieldSchemaID      = "schemaID"
	FieldSeqNo         = "seqNo"
	FieldSleep         = "sleep"
	FieldState         = "state"
	FieldTailsLocation = "tailsLocation"
	FieldTotal         = "total"
	FieldTxnType       = "txnType"
	FieldUserLogLevel  = "userLogLevel"
	FieldVersion       = "version"
)

// WithAction sets the Action field.
func WithAction(value string) zap.Field {
	return zap.String(FieldAction, value)
}

// WithAttributes sets the Attributes (schema attribute names) field.
func WithAttributes(value []string) zap.Field {
	return zap.Strings(FieldAttributes, value)
}

// WithCapacity sets the Capacity field.
func WithCapacity(value uint32) zap.Field {
	return zap.Uint32(FieldCapacity, value)
}

// WithCredDefID sets the CredDefID (credential definition ID) field.
func WithCredDefID(value string) zap.Field {
	return zap.String(FieldCredDefID, value)
}

// WithDID sets the DID field.
func WithDID(value string) zap.Field {
	return zap.String(FieldDID, value)
}

// WithFlagName sets the FlagName field.
func WithFlagName(value string) zap.Field {
	return zap.String(FieldFlagName, value)
}

// WithIndices sets the Indices field.
func WithIndices(value []uint32) zap.Field {
	return zap.Uint32s(FieldIndices, value)
}

// WithPath sets the Path field.
func WithPath(value string) zap.Field {
	return zap.String(FieldPath, value)
}

// WithReason sets the Reason field.
func WithReason(value string) zap.Field {
	return zap.String(FieldReason, value)
}

// WithReply sets the Reply (raw ledger reply) field.
func WithReply(value string) zap.Field {
	return zap.String(FieldReply, value)
}

// WithReqID sets the ReqID field.
func WithReqID(value int64) zap.Field {
	return zap.Int64(FieldReqID, value)
}

// WithRevRegID sets the RevRegID (revocation registry definition ID) field.
func WithRevRegID(value string) zap.Field {
	return zap.String(FieldRevRegID, value)
}

// WithRunID sets the runID field.
func WithRunID(value string) zap.Field {
	return zap.String(FieldRunID, value)
}

// WithSchemaID sets the SchemaID field.
func WithSchemaID(value string) zap.Field {
	return zap.String(FieldSchemaID, value)
}

// WithSeqNo sets the SeqNo field.
func WithSeqNo(value uint32) zap.Field {
	return zap.Uint32(FieldSeqNo, value)
}

// WithSleep sets the Sleep field.
func WithSleep(value time.Duration) zap.Field {
	return zap.Duration(FieldSleep, value)
}

// WithState sets the State (pipeline state) field.
func WithState(value string) zap.Field {
	return zap.String(FieldState, value)
}

// WithTailsLocation sets the TailsLocation field.
func WithTailsLocation(value string) zap.Field {
	return zap.String(FieldTailsLocation, value)
}

// WithTotal sets the Total field.
func WithTotal(value int) zap.Field {
	return zap.Int(FieldTotal, value)
}

// WithTxnType sets the TxnType field.
func WithTxnType(value string) zap.Field {
	return zap.String(FieldTxnType, value)
}

// WithUserLogLevel sets the UserLogLevel field.
func WithUserLogLevel(logLevel string) zap.Field {
	return zap.String(FieldUserLogLevel, logLevel)
}

// WithVersion sets the version field.
func WithVersion(value string) zap.Field {
	return zap.String(FieldVersion, value)
}
