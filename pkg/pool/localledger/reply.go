/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package localledger

import (
	"encoding/json"
	"fmt"

	"github.com/trustbloc/revocreg/pkg/ledger"
)

// rejection aborts a write and is answered with a REJECT or REQNACK reply.
type rejection struct {
	op     string
	reason string
}

func (r *rejection) Error() string {
	return r.op + ": " + r.reason
}

func reject(format string, args ...interface{}) error {
	return &rejection{op: ledger.OpReject, reason: fmt.Sprintf(format, args...)}
}

func nack(format string, args ...interface{}) error {
	return &rejection{op: ledger.OpReqNack, reason: fmt.Sprintf(format, args...)}
}

func (r *rejection) reply(req *ledger.PreparedRequest) ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"op":         r.op,
		"identifier": req.Identifier(),
		"reqId":      req.ReqID,
		"reason":     r.reason,
	})
}

func writeReply(req *ledger.PreparedRequest, seqNo uint32, txnTime int64) ([]byte, error) {
	data := map[string]interface{}{}

	for k, v := range req.Operation() {
		if k != "type" {
			data[k] = v
		}
	}

	return json.Marshal(map[string]interface{}{
		"op": ledger.OpReply,
		"result": map[string]interface{}{
			"ver": "1",
			"txn": map[string]interface{}{
				"type":            string(req.TxnType),
				"protocolVersion": ledger.ProtocolVersion,
				"data":            data,
				"metadata": map[string]interface{}{
					"from":  req.Identifier(),
					"reqId": req.ReqID,
				},
			},
			"txnMetadata": map[string]interface{}{
				"seqNo":   seqNo,
				"txnTime": txnTime,
			},
			"reqSignature": map[string]interface{}{
				"type": "ED25519",
				"values": []map[string]interface{}{
					{"from": req.Identifier(), "value": req.Signature()},
				},
			},
		},
	})
}

func readReply(req *ledger.PreparedRequest, data interface{}) ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"op": ledger.OpReply,
		"result": map[string]interface{}{
			"type":       string(req.TxnType),
			"identifier": req.Identifier(),
			"reqId":      req.ReqID,
			"data":       data,
		},
	})
}
