/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package ledger

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/btcsuite/btcutil/base58"
)

const (
	fieldOperation       = "operation"
	fieldType            = "type"
	fieldIdentifier      = "identifier"
	fieldReqID           = "reqId"
	fieldProtocolVersion = "protocolVersion"
	fieldSignature       = "signature"
)

// ErrAlreadySigned is returned when a signature is attached to a request a second time.
var ErrAlreadySigned = errors.New("request is already signed")

// PreparedRequest is a ledger request ready to be signed and submitted.
type PreparedRequest struct {
	TxnType TxnType
	ReqID   int64
	Request map[string]interface{}
}

type envelope struct {
	Operation       interface{} `json:"operation"`
	Identifier      string      `json:"identifier"`
	ReqID           int64       `json:"reqId"`
	ProtocolVersion int         `json:"protocolVersion"`
}

func newPreparedRequest(identifier string, reqID int64, operation interface{}) (*PreparedRequest, error) {
	b, err := json.Marshal(&envelope{
		Operation:       operation,
		Identifier:      identifier,
		ReqID:           reqID,
		ProtocolVersion: ProtocolVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	return ParseRequest(b)
}

// ParseRequest decodes a serialized request. Numbers are kept as json.Number so the
// signature input of a parsed request matches the one computed by its builder.
func ParseRequest(b []byte) (*PreparedRequest, error) {
	var request map[string]interface{}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	if err := dec.Decode(&request); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}

	operation, ok := request[fieldOperation].(map[string]interface{})
	if !ok {
		return nil, errors.New("request has no operation")
	}

	txnType, ok := operation[fieldType].(string)
	if !ok || txnType == "" {
		return nil, errors.New("request operation has no type")
	}

	reqIDValue, ok := request[fieldReqID].(json.Number)
	if !ok {
		return nil, errors.New("request has no reqId")
	}

	reqID, err := reqIDValue.Int64()
	if err != nil {
		return nil, fmt.Errorf("invalid reqId: %w", err)
	}

	return &PreparedRequest{
		TxnType: TxnType(txnType),
		ReqID:   reqID,
		Request: request,
	}, nil
}

// Identifier returns the unqualified DID of the submitter.
func (r *PreparedRequest) Identifier() string {
	identifier, _ := r.Request[fieldIdentifier].(string) //nolint:errcheck

	return identifier
}

// Operation returns the operation object of the request.
func (r *PreparedRequest) Operation() map[string]interface{} {
	operation, _ := r.Request[fieldOperation].(map[string]interface{}) //nolint:errcheck

	return operation
}

// Signature returns the base58 signature, or an empty string for unsigned requests.
func (r *PreparedRequest) Signature() string {
	signature, _ := r.Request[fieldSignature].(string) //nolint:errcheck

	return signature
}

// SignatureInput returns the canonical serialization the submitter signs.
func (r *PreparedRequest) SignatureInput() (string, error) {
	if len(r.Request) == 0 {
		return "", errors.New("request is empty")
	}

	return serializeForSignature(r.Request, true)
}

// SetSignature attaches a raw signature. A request can be signed once.
func (r *PreparedRequest) SetSignature(signature []byte) error {
	if r.Signature() != "" {
		return ErrAlreadySigned
	}

	if len(signature) == 0 {
		return errors.New("signature is empty")
	}

	r.Request[fieldSignature] = base58.Encode(signature)

	return nil
}

// DecodeSignature returns the raw signature bytes.
func (r *PreparedRequest) DecodeSignature() []byte {
	return base58.Decode(r.Signature())
}

// MarshalJSON returns the wire form of the request.
func (r *PreparedRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Request)
}

func serializeForSignature(value interface{}, topLevel bool) (string, error) {
	switch v := value.(type) {
	case nil:
		return "None", nil
	case bool:
		if v {
			return "True", nil
		}

		return "False", nil
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case []interface{}:
		parts := make([]string, 0, len(v))

		for _, e := range v {
			s, err := serializeForSignature(e, false)
			if err != nil {
				return "", err
			}

			parts = append(parts, s)
		}

		return strings.Join(parts, ","), nil
	case map[string]interface{}:
		keys := make([]string, 0, len(v))

		for k := range v {
			if topLevel && k == fieldSignature {
				continue
			}

			keys = append(keys, k)
		}

		sort.Strings(keys)

		parts := make([]string, 0, len(keys))

		for _, k := range keys {
			s, err := serializeForSignature(v[k], false)
			if err != nil {
				return "", err
			}

			parts = append(parts, k+":"+s)
		}

		return strings.Join(parts, "|"), nil
	default:
		return "", fmt.Errorf("unsupported value type %T in request", value)
	}
}
