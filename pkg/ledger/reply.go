/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package ledger

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// Reply ops.
const (
	OpReply   = "REPLY"
	OpReject  = "REJECT"
	OpReqNack = "REQNACK"
)

const (
	pathOp           = "op"
	pathReason       = "reason"
	pathSeqNo        = "result.txnMetadata.seqNo"
	pathTxnTime      = "result.txnMetadata.txnTime"
	pathData         = "result.data"
	pathDeltaRevoked = "result.data.value.revoked"
	pathDeltaIssued  = "result.data.value.issued"
	pathDeltaAccum   = "result.data.value.accum_to.value.accum"
)

// Reply is a raw ledger reply.
type Reply struct {
	raw []byte
}

// ParseReply validates that data is a ledger reply.
func ParseReply(data []byte) (*Reply, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("reply is not valid JSON")
	}

	if !gjson.GetBytes(data, pathOp).Exists() {
		return nil, errors.New("reply has no op")
	}

	return &Reply{raw: data}, nil
}

// Op returns the reply op, e.g. REPLY or REJECT.
func (r *Reply) Op() string {
	return gjson.GetBytes(r.raw, pathOp).String()
}

// Accepted reports whether the ledger accepted the request.
func (r *Reply) Accepted() bool {
	return r.Op() == OpReply
}

// Reason returns the rejection reason. Replies without a reason get their op as reason.
func (r *Reply) Reason() string {
	if reason := gjson.GetBytes(r.raw, pathReason).String(); reason != "" {
		return reason
	}

	return r.Op()
}

// SeqNo returns the ledger sequence number assigned to an accepted write.
func (r *Reply) SeqNo() (uint32, error) {
	seqNo := gjson.GetBytes(r.raw, pathSeqNo)
	if !seqNo.Exists() || seqNo.Uint() == 0 {
		return 0, fmt.Errorf("reply has no %s", pathSeqNo)
	}

	return uint32(seqNo.Uint()), nil
}

// TxnTime returns the ledger time of an accepted write, in unix seconds.
func (r *Reply) TxnTime() int64 {
	return gjson.GetBytes(r.raw, pathTxnTime).Int()
}

// Data returns the raw result.data of a read reply.
func (r *Reply) Data() string {
	return gjson.GetBytes(r.raw, pathData).Raw
}

// DeltaRevoked returns result.data.value.revoked of a GET_REVOC_REG_DELTA reply.
func (r *Reply) DeltaRevoked() ([]uint32, error) {
	return indices(r.raw, pathDeltaRevoked)
}

// DeltaIssued returns result.data.value.issued of a GET_REVOC_REG_DELTA reply.
func (r *Reply) DeltaIssued() ([]uint32, error) {
	return indices(r.raw, pathDeltaIssued)
}

// DeltaAccum returns the accumulator the delta leads to.
func (r *Reply) DeltaAccum() string {
	return gjson.GetBytes(r.raw, pathDeltaAccum).String()
}

// String returns the reply as received.
func (r *Reply) String() string {
	return string(r.raw)
}

func indices(raw []byte, path string) ([]uint32, error) {
	value := gjson.GetBytes(raw, path)
	if !value.Exists() {
		return nil, fmt.Errorf("reply has no %s", path)
	}

	if !value.IsArray() {
		return nil, fmt.Errorf("%s is not an array", path)
	}

	result := make([]uint32, 0, len(value.Array()))

	for _, v := range value.Array() {
		if v.Type != gjson.Number {
			return nil, fmt.Errorf("%s contains a non numeric value %s", path, v.Raw)
		}

		result = append(result, uint32(v.Uint()))
	}

	return result, nil
}
